package assets

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// ValuationMode tells how an account is valued.
type ValuationMode string

const (
	// MarketValued accounts are valued as quantity times market price.
	MarketValued ValuationMode = "market"
	// ReportedValued accounts are valued from the snapshots recorded in the ledger.
	ReportedValued ValuationMode = "reported"
)

// Account is a brokerage account declared in the registry.
type Account struct {
	ID        string
	Label     string
	Currency  string
	Valuation ValuationMode
}

// Instrument is a tradable security identified by its canonical ticker.
type Instrument struct {
	Ticker   string // canonical ticker, as understood by quote providers
	Currency string // trading currency, inferred from the ticker
	Name     string
	Abbrev   string
}

// Label returns the short display name of the instrument.
func (i Instrument) Label() string {
	switch {
	case i.Abbrev != "":
		return i.Abbrev
	case i.Name != "":
		return i.Name
	default:
		return i.Ticker
	}
}

// currencyBySuffix maps exchange suffixes to their trading currency.
var currencyBySuffix = map[string]string{
	".KS": "KRW",
	".KQ": "KRW",
}

// defaultTickerCurrency is the currency of tickers without a known exchange suffix.
const defaultTickerCurrency = "USD"

// CanonicalTicker converts a registry ticker to the form quote providers use.
// "KRX:005930" becomes "005930.KS", anything else is kept as is.
func CanonicalTicker(raw string) string {
	raw = strings.TrimSpace(raw)
	if code, ok := strings.CutPrefix(raw, "KRX:"); ok {
		return code + ".KS"
	}
	return raw
}

// TickerCurrency infers the trading currency of a canonical ticker from its exchange suffix.
func TickerCurrency(ticker string) string {
	if i := strings.LastIndex(ticker, "."); i >= 0 {
		if cur, ok := currencyBySuffix[strings.ToUpper(ticker[i:])]; ok {
			return cur
		}
	}
	return defaultTickerCurrency
}

// Registry resolves the labels used in the ledger to accounts and instruments.
type Registry struct {
	home        string
	accounts    []Account
	byAccount   map[string]int
	instruments []Instrument
	byKey       map[string]Instrument
}

// NewRegistry returns an empty registry for a portfolio reported in home currency.
func NewRegistry(home string) *Registry {
	return &Registry{
		home:      home,
		byAccount: make(map[string]int),
		byKey:     make(map[string]Instrument),
	}
}

// Home returns the reporting currency.
func (r *Registry) Home() string { return r.home }

// AddAccount declares an account. Missing label, currency and valuation mode
// default to the id, the home currency and MarketValued.
func (r *Registry) AddAccount(a Account) error {
	if a.ID == "" {
		return errors.New("account without id")
	}
	if _, exists := r.byAccount[a.ID]; exists {
		return fmt.Errorf("account %q declared twice", a.ID)
	}
	if a.Label == "" {
		a.Label = a.ID
	}
	if a.Currency == "" {
		a.Currency = r.home
	}
	a.Currency = strings.ToUpper(a.Currency)
	if err := ValidateCurrency(a.Currency); err != nil {
		return fmt.Errorf("account %q: %w", a.ID, err)
	}
	switch a.Valuation {
	case "":
		a.Valuation = MarketValued
	case MarketValued, ReportedValued:
	default:
		return fmt.Errorf("account %q: unknown valuation mode %q", a.ID, a.Valuation)
	}
	r.byAccount[a.ID] = len(r.accounts)
	r.accounts = append(r.accounts, a)
	return nil
}

// AddInstrument declares an instrument reachable by its name, its abbreviation
// and its canonical ticker. Declaring the same key for two different tickers
// is an error.
func (r *Registry) AddInstrument(name, abbrev, ticker string) (Instrument, error) {
	ticker = CanonicalTicker(ticker)
	if ticker == "" {
		return Instrument{}, fmt.Errorf("instrument %q without ticker", name)
	}
	inst := Instrument{
		Ticker:   ticker,
		Currency: TickerCurrency(ticker),
		Name:     strings.TrimSpace(name),
		Abbrev:   strings.TrimSpace(abbrev),
	}
	keys := []string{inst.Name, inst.Abbrev, inst.Ticker}
	for _, key := range keys {
		if existing, ok := r.byKey[key]; ok && existing.Ticker != inst.Ticker {
			return Instrument{}, fmt.Errorf("key %q maps to both %s and %s", key, existing.Ticker, inst.Ticker)
		}
	}
	if existing, ok := r.byKey[inst.Ticker]; ok {
		// already declared, possibly by another account.
		inst = existing
	} else {
		r.instruments = append(r.instruments, inst)
	}
	for _, key := range keys {
		if key != "" {
			r.byKey[key] = inst
		}
	}
	return inst, nil
}

// Resolve returns the instrument known by key: a name, an abbreviation or a ticker.
func (r *Registry) Resolve(key string) (Instrument, bool) {
	inst, ok := r.byKey[strings.TrimSpace(key)]
	return inst, ok
}

// Account returns the account declared with id.
//
// Undeclared accounts are reported as market valued in the home currency,
// labelled by their id, with ok false.
func (r *Registry) Account(id string) (a Account, ok bool) {
	if i, ok := r.byAccount[id]; ok {
		return r.accounts[i], true
	}
	return Account{ID: id, Label: id, Currency: r.home, Valuation: MarketValued}, false
}

// Accounts returns the declared accounts in display order.
func (r *Registry) Accounts() []Account { return append([]Account(nil), r.accounts...) }

// Instruments returns the declared instruments in declaration order.
func (r *Registry) Instruments() []Instrument { return append([]Instrument(nil), r.instruments...) }

// order returns the display rank of account: declared accounts first, in
// declaration order, then the others.
func (r *Registry) order(account string) int {
	if i, ok := r.byAccount[account]; ok {
		return i
	}
	return len(r.accounts)
}

// registryFile is the yaml layout of a registry.
//
//	accounts:
//	  - id: usa
//	    label: US stocks
//	    currency: USD
//	    items:
//	      - [Apple, AAPL, AAPL]
//	      - [Samsung Electronics, Samsung, "KRX:005930"]
type registryFile struct {
	Accounts []struct {
		ID        string     `yaml:"id"`
		Label     string     `yaml:"label"`
		Currency  string     `yaml:"currency"`
		Valuation string     `yaml:"valuation"`
		Items     [][]string `yaml:"items"`
	} `yaml:"accounts"`
}

// DecodeRegistry reads a yaml registry.
func DecodeRegistry(in io.Reader, home string) (*Registry, error) {
	var file registryFile
	if err := yaml.NewDecoder(in).Decode(&file); err != nil && !errors.Is(err, io.EOF) {
		return nil, &ConfigError{Err: err}
	}
	r := NewRegistry(home)
	for _, acc := range file.Accounts {
		err := r.AddAccount(Account{
			ID:        acc.ID,
			Label:     acc.Label,
			Currency:  acc.Currency,
			Valuation: ValuationMode(strings.ToLower(acc.Valuation)),
		})
		if err != nil {
			return nil, &ConfigError{Key: "accounts." + acc.ID, Err: err}
		}
		for _, item := range acc.Items {
			if len(item) < 3 || strings.TrimSpace(item[2]) == "" {
				continue // items without ticker are labels only
			}
			if _, err := r.AddInstrument(item[0], item[1], item[2]); err != nil {
				return nil, &ConfigError{Key: "accounts." + acc.ID + ".items", Err: err}
			}
		}
	}
	return r, nil
}

// LoadRegistry reads the yaml registry at path.
func LoadRegistry(path, home string) (*Registry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &ConfigError{Path: path, Err: err}
	}
	defer f.Close()
	r, err := DecodeRegistry(f, home)
	var cerr *ConfigError
	if errors.As(err, &cerr) {
		cerr.Path = path
	}
	return r, err
}
