package dataset

import (
	"sort"
	"strconv"
	"strings"

	"datagraph/domain/core"
)

// Registry maps variable keys to their data. A key may be registered once
// per shape, so the same name can back both a scatter plot (flat) and a
// time-bucket average (bucketed); each pipeline resolves the shape it
// consumes. A Registry is assembled once by a Builder and never mutated
// afterwards, so it can be shared freely.
type Registry struct {
	vars    map[entryKey]Variable
	order   []entryKey
	version core.RegistryVersion
}

type entryKey struct {
	key   core.VariableKey
	shape Shape
}

// Builder assembles a Registry. Adding the same key and shape twice
// replaces the earlier variable but keeps its original position.
type Builder struct {
	vars  map[entryKey]Variable
	order []entryKey
}

// NewBuilder creates an empty registry builder
func NewBuilder() *Builder {
	return &Builder{vars: make(map[entryKey]Variable)}
}

// Add registers v, replacing any variable with the same key and shape
func (b *Builder) Add(v Variable) *Builder {
	k := entryKey{key: v.Key, shape: v.Shape}
	if _, exists := b.vars[k]; !exists {
		b.order = append(b.order, k)
	}
	b.vars[k] = v
	return b
}

// AddAll registers every variable in order
func (b *Builder) AddAll(vars ...Variable) *Builder {
	for _, v := range vars {
		b.Add(v)
	}
	return b
}

// Len returns the number of distinct entries added so far
func (b *Builder) Len() int {
	return len(b.order)
}

// Build freezes the builder contents into a Registry
func (b *Builder) Build() *Registry {
	vars := make(map[entryKey]Variable, len(b.vars))
	for k, v := range b.vars {
		vars[k] = v
	}
	order := append([]entryKey(nil), b.order...)

	return &Registry{
		vars:    vars,
		order:   order,
		version: computeVersion(order, vars),
	}
}

// Resolve returns the variable registered under key with the given shape.
// It fails with core.ErrVariableNotFound when the key is unknown and with
// core.ErrShapeMismatch when the key exists only in other shapes.
func (r *Registry) Resolve(key core.VariableKey, shape Shape) (Variable, error) {
	if v, ok := r.vars[entryKey{key: key, shape: shape}]; ok {
		return v, nil
	}
	shapes := r.Shapes(key)
	if len(shapes) == 0 {
		return Variable{}, core.NewVariableNotFoundError(key)
	}
	return Variable{}, core.NewShapeError(key, string(shape), string(shapes[0]))
}

// Shapes lists the shapes key is registered under, in registration order
func (r *Registry) Shapes(key core.VariableKey) []Shape {
	var shapes []Shape
	for _, k := range r.order {
		if k.key == key {
			shapes = append(shapes, k.shape)
		}
	}
	return shapes
}

// Has reports whether key is registered in any shape
func (r *Registry) Has(key core.VariableKey) bool {
	return len(r.Shapes(key)) > 0
}

// Flat resolves key to a flat series
func (r *Registry) Flat(key core.VariableKey) (FlatSeries, error) {
	v, err := r.Resolve(key, ShapeFlat)
	if err != nil {
		return nil, err
	}
	return v.AsFlat()
}

// Bucketed resolves key to a bucketed series
func (r *Registry) Bucketed(key core.VariableKey) (BucketedSeries, error) {
	v, err := r.Resolve(key, ShapeBucketed)
	if err != nil {
		return nil, err
	}
	return v.AsBucketed()
}

// Categorical resolves key to an ordered label list
func (r *Registry) Categorical(key core.VariableKey) (Categorical, error) {
	v, err := r.Resolve(key, ShapeCategorical)
	if err != nil {
		return nil, err
	}
	return v.AsCategorical()
}

// Keys returns the distinct variable keys in registration order
func (r *Registry) Keys() []core.VariableKey {
	seen := make(map[core.VariableKey]bool, len(r.order))
	keys := make([]core.VariableKey, 0, len(r.order))
	for _, k := range r.order {
		if !seen[k.key] {
			seen[k.key] = true
			keys = append(keys, k.key)
		}
	}
	return keys
}

// Variables returns all entries in registration order
func (r *Registry) Variables() []Variable {
	out := make([]Variable, 0, len(r.order))
	for _, k := range r.order {
		out = append(out, r.vars[k])
	}
	return out
}

// CountByShape tallies entries per shape
func (r *Registry) CountByShape() map[Shape]int {
	counts := make(map[Shape]int)
	for k := range r.vars {
		counts[k.shape]++
	}
	return counts
}

// Len returns the number of registered entries
func (r *Registry) Len() int {
	return len(r.vars)
}

// Version identifies the registry content; equal content yields equal versions
func (r *Registry) Version() core.RegistryVersion {
	return r.version
}

func computeVersion(order []entryKey, vars map[entryKey]Variable) core.RegistryVersion {
	keys := append([]entryKey(nil), order...)
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].key != keys[j].key {
			return keys[i].key < keys[j].key
		}
		return keys[i].shape < keys[j].shape
	})

	var data strings.Builder
	for _, k := range keys {
		v := vars[k]
		data.WriteString(string(k.key))
		data.WriteByte(0)
		data.WriteString(string(v.Shape))
		data.WriteByte(0)
		switch v.Shape {
		case ShapeFlat:
			writeFloats(&data, v.Flat)
		case ShapeBucketed:
			for _, label := range v.Buckets.SortedLabels() {
				data.WriteString(label)
				data.WriteByte(':')
				writeFloats(&data, v.Buckets[label])
				data.WriteByte(';')
			}
		case ShapeCategorical:
			data.WriteString(strings.Join(v.Labels, "\x1f"))
		}
		data.WriteByte('\n')
	}

	return core.NewRegistryVersion([]byte(data.String()))
}

func writeFloats(sb *strings.Builder, values []float64) {
	for i, f := range values {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(strconv.FormatFloat(f, 'g', -1, 64))
	}
}
