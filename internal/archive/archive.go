// Package archive writes processed notecards to disk: full, medium and
// thumbnail PNGs per card plus a JSON manifest describing the run.
package archive

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jameslewellyn/recipe-scan-tool/internal/autocrop"
	"github.com/jameslewellyn/recipe-scan-tool/internal/imaging"
)

// ManifestName is the file name of the run manifest inside the archive
// directory.
const ManifestName = "manifest.json"

// Status of one archived card.
type Status string

const (
	StatusOK     Status = "ok"
	StatusFailed Status = "failed"
)

// Stage summarises one autocrop pass for the manifest.
type Stage struct {
	Stage       string            `json:"stage"`
	Outcome     autocrop.Outcome  `json:"outcome"`
	Rect        autocrop.CropRect `json:"rect"`
	MarginColor string            `json:"margin_color,omitempty"`
}

// File describes one written rendition.
type File struct {
	Name   string `json:"name"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
	SHA256 string `json:"sha256"`
	Size   int    `json:"size"`
}

// Entry is the manifest record for one card.
type Entry struct {
	Source       string `json:"source"`
	SourceSHA256 string `json:"source_sha256,omitempty"`
	// Page is the 1-based PDF page, 0 for plain image files.
	Page      int               `json:"page,omitempty"`
	Status    Status            `json:"status"`
	Error     string            `json:"error,omitempty"`
	Crop      autocrop.CropRect `json:"crop"`
	Stages    []Stage           `json:"stages,omitempty"`
	Uncertain bool              `json:"uncertain"`
	Rotation  int               `json:"rotation"`
	Title     string            `json:"title,omitempty"`
	Full      *File             `json:"full,omitempty"`
	Medium    *File             `json:"medium,omitempty"`
	Thumbnail *File             `json:"thumbnail,omitempty"`
}

// Manifest describes one processing run.
type Manifest struct {
	RunID     string    `json:"run_id"`
	CreatedAt time.Time `json:"created_at"`
	Cards     int       `json:"cards"`
	Failed    int       `json:"failed"`
	Uncertain int       `json:"uncertain"`
	Entries   []Entry   `json:"entries"`
}

// Archive collects the cards of one run in a directory. It is safe for
// concurrent use.
type Archive struct {
	dir     string
	runID   string
	created time.Time

	mu      sync.Mutex
	entries []Entry
	names   map[string]bool // file names claimed in this run
}

// New creates dir if needed and starts a run with a fresh ID.
func New(dir string) (*Archive, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create archive directory: %w", err)
	}
	return &Archive{
		dir:     dir,
		runID:   uuid.NewString(),
		created: time.Now().UTC(),
		names:   make(map[string]bool),
	}, nil
}

// Dir returns the archive directory.
func (a *Archive) Dir() string { return a.dir }

// RunID returns the run's unique identifier.
func (a *Archive) RunID() string { return a.runID }

// StagesFrom converts pipeline stages to manifest stages.
func StagesFrom(res autocrop.PipelineResult) []Stage {
	stages := make([]Stage, 0, len(res.Stages))
	for _, s := range res.Stages {
		st := Stage{Stage: s.Stage, Outcome: s.Outcome, Rect: s.Rect}
		if s.Stage != "white" {
			st.MarginColor = s.MarginColor.Hex()
		}
		stages = append(stages, st)
	}
	return stages
}

// Add writes the renditions in v and records entry. The Full, Medium,
// Thumbnail and Status fields of entry are filled in here. The returned
// entry is what the manifest will hold.
func (a *Archive) Add(entry Entry, v *imaging.Variants) (Entry, error) {
	if v == nil || v.Full == nil {
		return entry, fmt.Errorf("no renditions for %s", entry.Source)
	}
	base := a.reserve(BaseName(entry.Source, entry.Page))

	files := []struct {
		dst    **File
		v      *imaging.Variant
		suffix string
	}{
		{&entry.Full, v.Full, ""},
		{&entry.Medium, v.Medium, "_medium"},
		{&entry.Thumbnail, v.Thumbnail, "_thumb"},
	}
	for _, f := range files {
		if f.v == nil {
			continue
		}
		name := base + f.suffix + ".png"
		if err := os.WriteFile(filepath.Join(a.dir, name), f.v.PNG, 0o644); err != nil {
			return entry, fmt.Errorf("write %s: %w", name, err)
		}
		*f.dst = &File{
			Name:   name,
			Width:  f.v.Width,
			Height: f.v.Height,
			SHA256: f.v.SHA256,
			Size:   f.v.Size,
		}
	}

	entry.Status = StatusOK
	entry.Error = ""
	a.record(entry)
	return entry, nil
}

// Fail records a card that could not be processed.
func (a *Archive) Fail(entry Entry, err error) Entry {
	entry.Status = StatusFailed
	if err != nil {
		entry.Error = err.Error()
	}
	a.record(entry)
	return entry
}

func (a *Archive) record(e Entry) {
	a.mu.Lock()
	a.entries = append(a.entries, e)
	a.mu.Unlock()
}

// renditionSuffixes are appended to a card's base name, one file each.
var renditionSuffixes = []string{"", "_medium", "_thumb"}

// reserve returns base, or base with the first numeric suffix (_2, _3, ...)
// for which none of the card's rendition files is already claimed in this
// run.
func (a *Archive) reserve(base string) string {
	a.mu.Lock()
	defer a.mu.Unlock()
	name := base
	for n := 2; a.claimed(name); n++ {
		name = fmt.Sprintf("%s_%d", base, n)
	}
	for _, suffix := range renditionSuffixes {
		a.names[name+suffix+".png"] = true
	}
	return name
}

func (a *Archive) claimed(base string) bool {
	for _, suffix := range renditionSuffixes {
		if a.names[base+suffix+".png"] {
			return true
		}
	}
	return false
}

// Manifest returns a snapshot of the run, entries ordered by source and
// page.
func (a *Archive) Manifest() Manifest {
	a.mu.Lock()
	entries := make([]Entry, len(a.entries))
	copy(entries, a.entries)
	a.mu.Unlock()

	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].Source != entries[j].Source {
			return entries[i].Source < entries[j].Source
		}
		return entries[i].Page < entries[j].Page
	})

	m := Manifest{
		RunID:     a.runID,
		CreatedAt: a.created,
		Entries:   entries,
	}
	for _, e := range entries {
		switch {
		case e.Status == StatusFailed:
			m.Failed++
		default:
			m.Cards++
		}
		if e.Uncertain {
			m.Uncertain++
		}
	}
	return m
}

// WriteManifest writes the manifest into the archive directory and returns
// its path.
func (a *Archive) WriteManifest() (string, error) {
	data, err := json.MarshalIndent(a.Manifest(), "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode manifest: %w", err)
	}
	path := filepath.Join(a.dir, ManifestName)
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return "", fmt.Errorf("write manifest: %w", err)
	}
	return path, nil
}

// ReadManifest loads a manifest written by WriteManifest.
func ReadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}
	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse manifest: %w", err)
	}
	return &m, nil
}

// BaseName derives the output stem for a card: the source file's stem,
// with "_page<index>" (0-based) appended for PDF pages.
func BaseName(source string, page int) string {
	stem := strings.TrimSuffix(filepath.Base(source), filepath.Ext(source))
	if page > 0 {
		return fmt.Sprintf("%s_page%d", stem, page-1)
	}
	return stem
}
