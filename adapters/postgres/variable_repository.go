package postgres

import (
	"context"
	"fmt"

	"datagraph/adapters/jsonsource"
	"datagraph/domain/core"
	"datagraph/domain/dataset"
	"datagraph/ports"

	"github.com/jmoiron/sqlx"
)

// variableRow mirrors one row of the variables table
type variableRow struct {
	Name    string `db:"name"`
	Shape   string `db:"shape"`
	Source  string `db:"source"`
	Payload string `db:"payload"`
}

// variableRepository implements ports.VariableRepository. Queries are
// written with ? placeholders and rebound for the driver, so the same
// repository runs against PostgreSQL and SQLite.
type variableRepository struct {
	db *sqlx.DB
}

// NewVariableRepository creates a new variable repository
func NewVariableRepository(db *sqlx.DB) ports.VariableRepository {
	return &variableRepository{db: db}
}

// Name identifies the repository as a data source
func (r *variableRepository) Name() string {
	return "database"
}

// Load returns every stored variable ordered by name and shape
func (r *variableRepository) Load(ctx context.Context) ([]dataset.Variable, error) {
	var rows []variableRow
	query := `SELECT name, shape, source, payload FROM variables ORDER BY name, shape`
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("failed to query variables: %w", err)
	}

	vars := make([]dataset.Variable, 0, len(rows))
	for _, row := range rows {
		v, err := jsonsource.DecodePayload(core.VariableKey(row.Name), dataset.Shape(row.Shape), []byte(row.Payload))
		if err != nil {
			return nil, fmt.Errorf("failed to decode variable %s: %w", row.Name, err)
		}
		source := r.Name()
		if row.Source != "" {
			source += ":" + row.Source
		}
		vars = append(vars, v.WithSource(source))
	}
	return vars, nil
}

// Save inserts v or replaces the stored variable with the same name and shape
func (r *variableRepository) Save(ctx context.Context, v dataset.Variable) error {
	payload, err := jsonsource.EncodePayload(v)
	if err != nil {
		return err
	}

	query := r.db.Rebind(`INSERT INTO variables (name, shape, source, payload, updated_at)
	VALUES (?, ?, ?, ?, CURRENT_TIMESTAMP)
	ON CONFLICT (name, shape) DO UPDATE SET
		source = excluded.source,
		payload = excluded.payload,
		updated_at = CURRENT_TIMESTAMP`)

	if _, err := r.db.ExecContext(ctx, query, string(v.Key), string(v.Shape), v.Source, string(payload)); err != nil {
		return fmt.Errorf("failed to save variable %s: %w", v.Key, err)
	}
	return nil
}

// Delete removes the variable stored under key and shape
func (r *variableRepository) Delete(ctx context.Context, key core.VariableKey, shape dataset.Shape) error {
	query := r.db.Rebind(`DELETE FROM variables WHERE name = ? AND shape = ?`)

	result, err := r.db.ExecContext(ctx, query, string(key), string(shape))
	if err != nil {
		return fmt.Errorf("failed to delete variable %s: %w", key, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return core.NewVariableNotFoundError(key)
	}
	return nil
}

// Count returns the number of stored variables
func (r *variableRepository) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM variables`); err != nil {
		return 0, fmt.Errorf("failed to count variables: %w", err)
	}
	return count, nil
}
