package taxonomy

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"
)

//go:embed technique_index.json
var embeddedIndex []byte

// Entry is one technique in the reference vocabulary.
type Entry struct {
	ID    string
	Name  string
	Phase string
	Tags  []string
}

// Index is the fixed vocabulary the classifier matches against. It is loaded
// once per run and never mutated by the pipeline.
type Index struct {
	version string
	entries map[string]Entry
	ordered []Entry
}

type indexDocument struct {
	Version    string                  `json:"version"`
	Techniques map[string]entryPayload `json:"techniques"`
}

type entryPayload struct {
	Name  string   `json:"name"`
	Phase string   `json:"phase"`
	Tags  []string `json:"tags"`
}

// Load reads a technique index from the given path, or the embedded default
// when path is empty.
func Load(path string) (*Index, error) {
	data := embeddedIndex
	if strings.TrimSpace(path) != "" {
		fileData, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read technique index: %w", err)
		}
		data = fileData
	}
	return Parse(data)
}

// Parse decodes a technique index document.
func Parse(data []byte) (*Index, error) {
	var doc indexDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse technique index: %w", err)
	}
	if len(doc.Techniques) == 0 {
		return nil, fmt.Errorf("technique index contains no entries")
	}

	entries := make(map[string]Entry, len(doc.Techniques))
	for id, payload := range doc.Techniques {
		id = strings.TrimSpace(id)
		if id == "" {
			return nil, fmt.Errorf("technique index contains an empty id")
		}
		phase := strings.TrimSpace(payload.Phase)
		if phase == "" {
			// Phase falls back to the leading number segment.
			phase = strings.SplitN(id, ".", 2)[0]
		}
		entries[id] = Entry{
			ID:    id,
			Name:  payload.Name,
			Phase: phase,
			Tags:  append([]string(nil), payload.Tags...),
		}
	}

	ordered := make([]Entry, 0, len(entries))
	for _, entry := range entries {
		ordered = append(ordered, entry)
	}
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].ID < ordered[j].ID })

	return &Index{version: doc.Version, entries: entries, ordered: ordered}, nil
}

// Version returns the index document version, if declared.
func (x *Index) Version() string { return x.version }

// Len returns the number of entries.
func (x *Index) Len() int { return len(x.entries) }

// Get returns the entry for an exact technique id.
func (x *Index) Get(id string) (Entry, bool) {
	entry, ok := x.entries[id]
	return entry, ok
}

// Has reports whether id is an exact key in the vocabulary.
func (x *Index) Has(id string) bool {
	_, ok := x.entries[id]
	return ok
}

// All returns the entries in stable id order.
func (x *Index) All() []Entry {
	return x.ordered
}

// Phase returns the phase for a technique id, or the empty string when the
// id is unknown.
func (x *Index) Phase(id string) string {
	if entry, ok := x.entries[id]; ok {
		return entry.Phase
	}
	return ""
}
