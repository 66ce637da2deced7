package container

import (
	"context"
	"testing"
	"time"

	"datagraph/domain/dataset"
	"datagraph/internal/analysis/pairwise"
	"datagraph/internal/config"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(sources ...string) *config.Config {
	return &config.Config{
		Server: config.ServerConfig{SessionMaxIdle: time.Minute},
		Data: config.DataConfig{
			Sources:         sources,
			LoadConcurrency: 2,
			LoadTimeout:     5 * time.Second,
		},
		Analysis: config.AnalysisConfig{DegeneratePolicy: "undefined"},
	}
}

func TestNew(t *testing.T) {
	_, err := New(nil)
	assert.Error(t, err)

	cfg := testConfig(config.SourceEmbedded)
	cfg.Analysis.DegeneratePolicy = "sometimes"
	_, err = New(cfg)
	assert.Error(t, err)

	c, err := New(testConfig(config.SourceEmbedded))
	require.NoError(t, err)
	assert.Equal(t, pairwise.PolicyUndefined, c.Policy)
	assert.Equal(t, 0, c.Registry.Registry().Len())
}

func TestLoadRegistry_Embedded(t *testing.T) {
	c, err := New(testConfig(config.SourceEmbedded))
	require.NoError(t, err)

	require.NoError(t, c.LoadRegistry(context.Background()))
	assert.Greater(t, c.Registry.Registry().Len(), 0)
	assert.NotEmpty(t, c.Loader.Sources())
	assert.NoError(t, c.Shutdown(context.Background()))
}

func TestLoadRegistry_DatabaseOverridesEmbedded(t *testing.T) {
	ctx := context.Background()
	db, err := sqlx.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	if err := db.Ping(); err != nil {
		t.Skipf("sqlite3 unavailable: %v", err)
	}

	c, err := New(testConfig(config.SourceEmbedded, config.SourceDatabase))
	require.NoError(t, err)
	require.NoError(t, c.InitWithDatabase(ctx, db))
	defer c.Shutdown(ctx)

	require.NoError(t, c.VariableRepo.Save(ctx, dataset.NewFlatVariable("PositiveMood", []float64{7, 7})))
	require.NoError(t, c.LoadRegistry(ctx))

	flat, err := c.Registry.Registry().Flat("PositiveMood")
	require.NoError(t, err)
	assert.Equal(t, dataset.FlatSeries{7, 7}, flat)
}

func TestLoadRegistry_DatabaseWithoutConnection(t *testing.T) {
	c, err := New(testConfig(config.SourceDatabase))
	require.NoError(t, err)
	assert.Error(t, c.LoadRegistry(context.Background()))
}
