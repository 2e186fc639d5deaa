// Package provider supplies the board's initial records.
//
// The board never knows where its data comes from: it asks a Provider for
// every record once at load time. The bundled dataset, a document on disk and
// a fixed in-memory slice are available.
package provider

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/okian/eventboard/internal/domain/model"
)

// Provider fetches the full record collection.
type Provider interface {
	FetchAll(ctx context.Context) ([]model.Record, error)
	Name() string
}

//go:embed data/events.json
var embeddedEvents []byte

// Embedded serves the dataset compiled into the binary.
type Embedded struct{}

// NewEmbedded returns the bundled dataset provider.
func NewEmbedded() *Embedded { return &Embedded{} }

// Name implements Provider.
func (*Embedded) Name() string { return "embedded" }

// FetchAll implements Provider.
func (*Embedded) FetchAll(ctx context.Context) ([]model.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return decodeJSON(embeddedEvents)
}

// File reads a JSON or YAML document from disk on every fetch.
type File struct {
	path string
}

// NewFile returns a provider for the document at path. The format follows
// the extension: .yaml and .yml are YAML, anything else is JSON.
func NewFile(path string) *File { return &File{path: path} }

// Name implements Provider.
func (f *File) Name() string { return "file:" + f.path }

// FetchAll implements Provider.
func (f *File) FetchAll(ctx context.Context) ([]model.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(f.path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", f.path, err)
	}
	switch strings.ToLower(filepath.Ext(f.path)) {
	case ".yaml", ".yml":
		return decodeYAML(data)
	case ".json", "":
		return decodeJSON(data)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, filepath.Ext(f.path))
	}
}

// Static returns a fixed set of records.
type Static struct {
	records []model.Record
}

// NewStatic copies records into a provider.
func NewStatic(records ...model.Record) *Static {
	out := make([]model.Record, len(records))
	for i, r := range records {
		out[i] = r.Clone()
	}
	return &Static{records: out}
}

// Name implements Provider.
func (*Static) Name() string { return "static" }

// FetchAll implements Provider. Callers get their own copy.
func (s *Static) FetchAll(ctx context.Context) ([]model.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	out := make([]model.Record, len(s.records))
	for i, r := range s.records {
		out[i] = r.Clone()
	}
	return out, nil
}

// New picks the file provider when path is set and the bundled dataset otherwise.
func New(path string) Provider {
	if strings.TrimSpace(path) == "" {
		return NewEmbedded()
	}
	return NewFile(path)
}

func decodeJSON(data []byte) ([]model.Record, error) {
	var doc model.Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecode, err)
	}
	return doc.Events, nil
}

func decodeYAML(data []byte) ([]model.Record, error) {
	var doc model.Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecode, err)
	}
	return doc.Events, nil
}
