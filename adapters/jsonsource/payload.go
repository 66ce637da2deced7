package jsonsource

import (
	"encoding/json"
	"fmt"

	"datagraph/domain/core"
	"datagraph/domain/dataset"

	"github.com/tidwall/gjson"
)

// EncodePayload serializes the shape-specific content of v
func EncodePayload(v dataset.Variable) ([]byte, error) {
	switch v.Shape {
	case dataset.ShapeFlat:
		values := []float64(v.Flat)
		if values == nil {
			values = []float64{}
		}
		return json.Marshal(values)
	case dataset.ShapeBucketed:
		buckets := make(map[string][]float64, len(v.Buckets))
		for label, obs := range v.Buckets {
			if obs == nil {
				obs = []float64{}
			}
			buckets[label] = obs
		}
		return json.Marshal(buckets)
	case dataset.ShapeCategorical:
		labels := []string(v.Labels)
		if labels == nil {
			labels = []string{}
		}
		return json.Marshal(labels)
	default:
		return nil, fmt.Errorf("%w: variable %s has unknown shape %q", ErrInvalidDocument, v.Key, v.Shape)
	}
}

// DecodePayload rebuilds a variable from a payload written by EncodePayload
func DecodePayload(key core.VariableKey, shape dataset.Shape, raw []byte) (dataset.Variable, error) {
	if !gjson.ValidBytes(raw) {
		return dataset.Variable{}, fmt.Errorf("%w: payload of %s is not valid JSON", ErrInvalidDocument, key)
	}
	payload := gjson.ParseBytes(raw)

	switch shape {
	case dataset.ShapeFlat:
		values, ok := numbers(payload)
		if !ok {
			return dataset.Variable{}, fmt.Errorf("%w: payload of %s is not an array of numbers", ErrInvalidDocument, key)
		}
		return dataset.NewFlatVariable(key, values), nil
	case dataset.ShapeBucketed:
		if !payload.IsObject() {
			return dataset.Variable{}, fmt.Errorf("%w: payload of %s is not an object", ErrInvalidDocument, key)
		}
		return parseBucketed(key, payload), nil
	case dataset.ShapeCategorical:
		labels, ok := texts(payload)
		if !ok {
			return dataset.Variable{}, fmt.Errorf("%w: payload of %s is not an array of strings", ErrInvalidDocument, key)
		}
		return dataset.NewCategoricalVariable(key, labels), nil
	default:
		return dataset.Variable{}, fmt.Errorf("%w: variable %s has unknown shape %q", ErrInvalidDocument, key, shape)
	}
}
