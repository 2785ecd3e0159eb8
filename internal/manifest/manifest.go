package manifest

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/KaramelBytes/dhsreport-cli/internal/utils"
)

// FileName is the manifest written next to the report.
const FileName = "manifest.json"

// Artifact kinds.
const (
	KindFigure = "figure"
	KindReport = "report"
	KindHTML   = "html"
)

// Manifest records one report run persisted on disk.
type Manifest struct {
	RunID      string     `json:"run_id"`
	StartedAt  time.Time  `json:"started_at"`
	FinishedAt time.Time  `json:"finished_at"`
	Sources    []Source   `json:"sources"`
	Artifacts  []Artifact `json:"artifacts"`
	Skipped    []Skip     `json:"skipped"`

	// Not serialized: output directory holding manifest.json
	dir string
}

// Source is a table the run tried to load.
type Source struct {
	Key      string `json:"key"`
	Workbook string `json:"workbook"`
	Sheet    string `json:"sheet"`
	Rows     int    `json:"rows"`
	Error    string `json:"error,omitempty"`
}

// Artifact is a file produced by the run, relative to the output directory.
type Artifact struct {
	Name string `json:"name"`
	Kind string `json:"kind"`
	Path string `json:"path"`
}

// Skip is an item the run could not produce and why.
type Skip struct {
	Item   string `json:"item"`
	Reason string `json:"reason"`
}

// New starts an in-memory manifest for dir. Call Save() to persist.
func New(dir string) *Manifest {
	return &Manifest{
		RunID:     uuid.NewString(),
		StartedAt: time.Now(),
		Sources:   []Source{},
		Artifacts: []Artifact{},
		Skipped:   []Skip{},
		dir:       dir,
	}
}

// Load reads manifest.json from dir.
func Load(dir string) (*Manifest, error) {
	path := filepath.Join(dir, FileName)
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("manifest not found at %s: %w", path, err)
		}
		return nil, fmt.Errorf("read manifest: %w", err)
	}
	var m Manifest
	if err := json.Unmarshal(b, &m); err != nil {
		return nil, fmt.Errorf("parse manifest: %w", err)
	}
	m.dir = dir
	return &m, nil
}

// Dir returns the output directory of the manifest.
func (m *Manifest) Dir() string { return m.dir }

// AddSource records a load attempt; a non-nil err marks it failed.
func (m *Manifest) AddSource(key, workbook, sheet string, rows int, err error) {
	s := Source{Key: key, Workbook: workbook, Sheet: sheet, Rows: rows}
	if err != nil {
		s.Error = err.Error()
	}
	m.Sources = append(m.Sources, s)
}

// AddArtifact records a produced file. Paths under the manifest directory are
// stored relative to it; paths already relative to it are kept as given.
func (m *Manifest) AddArtifact(name, kind, path string) {
	if filepath.IsAbs(path) == filepath.IsAbs(m.dir) {
		if rel, err := filepath.Rel(m.dir, path); err == nil && !strings.HasPrefix(rel, "..") {
			path = rel
		}
	}
	m.Artifacts = append(m.Artifacts, Artifact{Name: name, Kind: kind, Path: filepath.ToSlash(path)})
}

// AddSkip records an item that was not produced.
func (m *Manifest) AddSkip(item string, reason error) {
	msg := ""
	if reason != nil {
		msg = reason.Error()
	}
	m.Skipped = append(m.Skipped, Skip{Item: item, Reason: msg})
}

// Artifact returns the artifact with the given name.
func (m *Manifest) Artifact(name string) (Artifact, bool) {
	for _, a := range m.Artifacts {
		if a.Name == name {
			return a, true
		}
	}
	return Artifact{}, false
}

// Figures lists figure artifact names sorted alphabetically.
func (m *Manifest) Figures() []string {
	var out []string
	for _, a := range m.Artifacts {
		if a.Kind == KindFigure {
			out = append(out, a.Name)
		}
	}
	sort.Strings(out)
	return out
}

// Save stamps FinishedAt and writes manifest.json using atomic write.
func (m *Manifest) Save() error {
	if m.dir == "" {
		return errors.New("manifest directory not set")
	}
	if err := utils.EnsureDir(m.dir); err != nil {
		return fmt.Errorf("ensure dir: %w", err)
	}
	m.FinishedAt = time.Now()
	data, err := utils.PrettyJSON(m)
	if err != nil {
		return err
	}
	return utils.SafeWriteFile(filepath.Join(m.dir, FileName), data)
}
