// Package assets reconstructs the history of a multi-account, multi-currency
// portfolio from an append-only ledger. It is designed to be a pure replay:
// every report is recomputed from the ledger and the quotes on each run, and
// nothing derived is ever persisted between runs.
//
// The core functionalities include:
//   - Ledger Loading: decoding CSV or markdown ledger rows into typed events
//     (trades, dividends, contributions and reported valuations), skipping
//     malformed rows with a ParseError.
//   - Symbol Registry: resolving the labels used in the ledger to canonical
//     tickers, and their currency, and declaring how accounts are valued.
//   - Quotes: daily adjusted close prices and exchange rates supplied by a
//     Provider and always read as "the most recent value on or before".
//   - Replay: held quantities, weighted-average cost basis and account
//     valuations evaluated on a calendar of month ends plus the as-of date.
//   - Reports: account summary, holdings snapshot, monthly dividend pivot,
//     activity log and monthly prices, each computed independently.
//   - Publishing: monthly artifacts written atomically, with copies of the
//     latest month and a build info record.
//
// This package serves as the foundational logic for the `fa` command-line
// tool.
package assets
