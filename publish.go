package assets

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/etnz/assets/date"
)

// Artifact is a named output of a monthly report.
type Artifact struct {
	Name  string // file name without the month prefix, e.g. "summary.json"
	Write func(w io.Writer) error
}

// JSONArtifact returns an artifact holding v as indented JSON.
func JSONArtifact(name string, v any) Artifact {
	return Artifact{Name: name, Write: func(w io.Writer) error {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}}
}

// CSVArtifact returns an artifact holding rows as CSV.
func CSVArtifact(name string, rows [][]string) Artifact {
	return Artifact{Name: name, Write: func(w io.Writer) error {
		return csv.NewWriter(w).WriteAll(rows)
	}}
}

// BuildInfo describes the latest successful publication.
type BuildInfo struct {
	GeneratedAt time.Time `json:"built_at"`
	LatestMonth string    `json:"latest_month"` // "2006-01"
}

// Publisher writes report artifacts under a directory.
//
// Every file is written to a temporary file first and renamed into place, so
// a failure never leaves a partially written artifact behind.
type Publisher struct {
	Dir       string // root of the monthly artifacts
	BuildInfo string // build info file, optional
}

// MonthPath returns the path of the artifact name for month:
// <dir>/<yyyy>/<yymm>_<name>.
func (p *Publisher) MonthPath(month date.Date, name string) string {
	return filepath.Join(p.Dir, month.Format("2006"), month.Format("0601")+"_"+name)
}

// LatestPath returns the path of the latest copy of the artifact name.
func (p *Publisher) LatestPath(name string) string {
	return filepath.Join(p.Dir, "latest_"+name)
}

// PublishMonth writes artifacts for month. Artifacts already written are
// kept when a later one fails.
func (p *Publisher) PublishMonth(month date.Date, artifacts []Artifact) error {
	for _, a := range artifacts {
		if err := WriteFileAtomic(p.MonthPath(month, a.Name), a.Write); err != nil {
			return fmt.Errorf("cannot publish %s for %s: %w", a.Name, month.Format("2006-01"), err)
		}
	}
	return nil
}

// PublishLatest writes artifacts under their latest names, then the build info.
func (p *Publisher) PublishLatest(month date.Date, artifacts []Artifact, now time.Time) error {
	for _, a := range artifacts {
		if err := WriteFileAtomic(p.LatestPath(a.Name), a.Write); err != nil {
			return fmt.Errorf("cannot publish latest %s: %w", a.Name, err)
		}
	}
	if p.BuildInfo == "" {
		return nil
	}
	info := BuildInfo{GeneratedAt: now, LatestMonth: month.Format("2006-01")}
	return WriteFileAtomic(p.BuildInfo, JSONArtifact("", info).Write)
}

// ReadBuildInfo reads the build info written by PublishLatest.
func (p *Publisher) ReadBuildInfo() (BuildInfo, error) {
	var info BuildInfo
	data, err := os.ReadFile(p.BuildInfo)
	if err != nil {
		return info, err
	}
	err = json.Unmarshal(data, &info)
	return info, err
}

// WriteFileAtomic writes the content produced by write to path. The file is
// either fully written or left untouched.
func WriteFileAtomic(path string, write func(io.Writer) error) (err error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			f.Close()
			os.Remove(f.Name())
		}
	}()
	if err = write(f); err != nil {
		return err
	}
	if err = f.Sync(); err != nil {
		return err
	}
	if err = f.Close(); err != nil {
		return err
	}
	if err = os.Chmod(f.Name(), 0o644); err != nil {
		return err
	}
	return os.Rename(f.Name(), path)
}
