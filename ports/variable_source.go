package ports

import (
	"context"

	"datagraph/domain/core"
	"datagraph/domain/dataset"
)

// VariableSource produces variables for the dataset registry.
// Implementations must be safe to call from their own goroutine.
type VariableSource interface {
	// Name identifies the source in logs and variable metadata
	Name() string
	Load(ctx context.Context) ([]dataset.Variable, error)
}

// VariableRepository persists raw variables
type VariableRepository interface {
	VariableSource
	Save(ctx context.Context, v dataset.Variable) error
	Delete(ctx context.Context, key core.VariableKey, shape dataset.Shape) error
	Count(ctx context.Context) (int, error)
}
