// Package jsonsource loads dataset variables from JSON documents.
package jsonsource

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"path"
	"sort"
	"strings"

	"datagraph/domain/core"
	"datagraph/domain/dataset"
	"datagraph/internal"

	"github.com/tidwall/gjson"
)

var warnings = internal.NewLogger("JSONSource")

// ErrInvalidDocument is returned for documents that cannot be mapped to variables
var ErrInvalidDocument = errors.New("invalid dataset document")

// FileSource reads a single JSON document from a filesystem
type FileSource struct {
	fsys  fs.FS
	path  string
	label string
}

// NewFileSource creates a source for the document at p inside fsys.
// label prefixes the source name, e.g. "embedded" or "dir".
func NewFileSource(fsys fs.FS, p, label string) *FileSource {
	return &FileSource{fsys: fsys, path: p, label: label}
}

// Name returns the source identifier used in logs and variable metadata
func (s *FileSource) Name() string {
	return s.label + ":" + s.path
}

// Load reads and parses the document
func (s *FileSource) Load(ctx context.Context) ([]dataset.Variable, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	raw, err := fs.ReadFile(s.fsys, s.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", s.path, err)
	}

	vars, err := Parse(DocumentName(s.path), raw)
	if err != nil {
		return nil, err
	}
	for i := range vars {
		vars[i] = vars[i].WithSource(s.Name())
	}

	log.Printf("[JSONSource] Loaded %d variables from %s", len(vars), s.Name())
	return vars, nil
}

// Discover returns a source for every *.json document at the root of fsys,
// sorted by file name
func Discover(fsys fs.FS, label string) ([]*FileSource, error) {
	matches, err := fs.Glob(fsys, "*.json")
	if err != nil {
		return nil, fmt.Errorf("failed to list JSON documents: %w", err)
	}
	sort.Strings(matches)

	sources := make([]*FileSource, 0, len(matches))
	for _, m := range matches {
		sources = append(sources, NewFileSource(fsys, m, label))
	}
	return sources, nil
}

// DocumentName derives a variable name from a document path
func DocumentName(p string) string {
	return strings.TrimSuffix(path.Base(p), path.Ext(p))
}

// Parse maps a JSON document to variables. The document is an object with a
// "shape" hint and a "data" object; bucketed documents describe a single
// variable named by "name", falling back to docName. Documents without a
// hint are read as one variable per key, flat for number arrays and
// categorical for string arrays.
func Parse(docName string, raw []byte) ([]dataset.Variable, error) {
	if !gjson.ValidBytes(raw) {
		return nil, fmt.Errorf("%w: %s is not valid JSON", ErrInvalidDocument, docName)
	}
	doc := gjson.ParseBytes(raw)
	if !doc.IsObject() {
		return nil, fmt.Errorf("%w: %s must be an object", ErrInvalidDocument, docName)
	}

	hint := doc.Get("shape")
	data := doc.Get("data")
	if !hint.Exists() && !data.Exists() {
		data = doc
	}
	if !data.IsObject() {
		return nil, fmt.Errorf("%w: %s has no data object", ErrInvalidDocument, docName)
	}

	switch shape := dataset.Shape(hint.String()); shape {
	case "":
		return parseUntagged(docName, data)
	case dataset.ShapeFlat:
		return parseFlat(docName, data)
	case dataset.ShapeCategorical:
		return parseCategorical(docName, data)
	case dataset.ShapeBucketed:
		name := doc.Get("name").String()
		if name == "" {
			name = docName
		}
		return []dataset.Variable{parseBucketed(core.VariableKey(name), data)}, nil
	default:
		return nil, fmt.Errorf("%w: %s has unknown shape %q", ErrInvalidDocument, docName, shape)
	}
}

func parseFlat(docName string, data gjson.Result) ([]dataset.Variable, error) {
	var vars []dataset.Variable
	var err error
	data.ForEach(func(key, value gjson.Result) bool {
		values, ok := numbers(value)
		if !ok {
			err = fmt.Errorf("%w: %s.%s is not an array of numbers", ErrInvalidDocument, docName, key.String())
			return false
		}
		vars = append(vars, dataset.NewFlatVariable(core.VariableKey(key.String()), values))
		return true
	})
	return vars, err
}

func parseCategorical(docName string, data gjson.Result) ([]dataset.Variable, error) {
	var vars []dataset.Variable
	var err error
	data.ForEach(func(key, value gjson.Result) bool {
		labels, ok := texts(value)
		if !ok {
			err = fmt.Errorf("%w: %s.%s is not an array of strings", ErrInvalidDocument, docName, key.String())
			return false
		}
		vars = append(vars, dataset.NewCategoricalVariable(core.VariableKey(key.String()), labels))
		return true
	})
	return vars, err
}

func parseUntagged(docName string, data gjson.Result) ([]dataset.Variable, error) {
	var vars []dataset.Variable
	var err error
	data.ForEach(func(key, value gjson.Result) bool {
		k := core.VariableKey(key.String())
		if values, ok := numbers(value); ok {
			vars = append(vars, dataset.NewFlatVariable(k, values))
			return true
		}
		if labels, ok := texts(value); ok {
			vars = append(vars, dataset.NewCategoricalVariable(k, labels))
			return true
		}
		err = fmt.Errorf("%w: %s.%s must be an array of numbers or strings", ErrInvalidDocument, docName, k)
		return false
	})
	return vars, err
}

// parseBucketed keeps well-formed buckets only; a malformed bucket is left
// out so the grouped pipeline reports it as absent.
func parseBucketed(key core.VariableKey, data gjson.Result) dataset.Variable {
	buckets := make(map[string][]float64)
	data.ForEach(func(label, value gjson.Result) bool {
		obs, ok := numbers(value)
		if !ok {
			warnings.Warn("%s: bucket %q is not an array of numbers, skipping", key, label.String())
			return true
		}
		buckets[label.String()] = obs
		return true
	})
	return dataset.NewBucketedVariable(key, buckets)
}

func numbers(value gjson.Result) ([]float64, bool) {
	if !value.IsArray() {
		return nil, false
	}
	elems := value.Array()
	out := make([]float64, 0, len(elems))
	for _, e := range elems {
		if e.Type != gjson.Number {
			return nil, false
		}
		out = append(out, e.Float())
	}
	return out, true
}

func texts(value gjson.Result) ([]string, bool) {
	if !value.IsArray() {
		return nil, false
	}
	elems := value.Array()
	out := make([]string, 0, len(elems))
	for _, e := range elems {
		if e.Type != gjson.String {
			return nil, false
		}
		out = append(out, e.String())
	}
	return out, true
}
