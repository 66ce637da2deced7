package container

import (
	"context"
	"fmt"
	"log"

	"datagraph/adapters/postgres"
	"datagraph/app"
	"datagraph/internal/analysis/pairwise"
	"datagraph/internal/config"
	"datagraph/internal/errors"
	"datagraph/internal/migration"
	"datagraph/internal/registry"
	"datagraph/ports"

	"github.com/jmoiron/sqlx"
)

// Container holds all application dependencies and manages their lifecycle
type Container struct {
	Config *config.Config

	// Infrastructure
	DB *sqlx.DB

	// Repositories (data access layer)
	VariableRepo ports.VariableRepository

	// Dataset registry
	Loader   *registry.Loader
	Registry *registry.Holder

	// Application services
	Policy   pairwise.Policy
	Sessions *app.SessionStore
	Analysis *app.AnalysisService
}

// New creates a new dependency injection container. The registry starts
// empty until LoadRegistry runs.
func New(cfg *config.Config) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}

	policy, err := pairwise.ParsePolicy(cfg.Analysis.DegeneratePolicy)
	if err != nil {
		return nil, errors.ConfigInvalid(err.Error())
	}

	holder := registry.NewHolder(nil)
	c := &Container{
		Config:   cfg,
		Registry: holder,
		Policy:   policy,
		Sessions: app.NewSessionStore(holder, policy, cfg.Server.SessionMaxIdle),
		Analysis: app.NewAnalysisService(holder, policy),
	}

	return c, nil
}

// OpenDatabase connects with the configured driver and runs migrations
func (c *Container) OpenDatabase(ctx context.Context) error {
	if err := c.Config.Database.Validate(); err != nil {
		return err
	}

	db, err := sqlx.ConnectContext(ctx, c.Config.Database.Driver, c.Config.Database.URL)
	if err != nil {
		return errors.DatabaseError("failed to connect to database", err)
	}

	if err := c.InitWithDatabase(ctx, db); err != nil {
		db.Close()
		return err
	}
	return nil
}

// InitWithDatabase initializes components that require database access
func (c *Container) InitWithDatabase(ctx context.Context, db *sqlx.DB) error {
	if db == nil {
		return fmt.Errorf("database connection cannot be nil")
	}

	if err := db.PingContext(ctx); err != nil {
		return errors.DatabaseError("database connection test failed", err)
	}

	migrator := migration.NewRunner()
	if err := migrator.Run(ctx, db); err != nil {
		return errors.Wrap(err, "database migration failed")
	}

	c.DB = db
	c.VariableRepo = postgres.NewVariableRepository(db)

	log.Printf("[Container] Database ready (%s, schema %s)", db.DriverName(), migrator.Version())
	return nil
}

// LoadRegistry builds the configured sources and publishes a fresh registry
func (c *Container) LoadRegistry(ctx context.Context) error {
	sources, err := registry.BuildSources(c.Config.Data, c.DB)
	if err != nil {
		return err
	}

	c.Loader = registry.NewLoader(sources, c.Config.Data.LoadConcurrency, c.Config.Data.LoadTimeout)
	if _, err := c.Registry.Reload(ctx, c.Loader); err != nil {
		return err
	}
	return nil
}

// Shutdown gracefully shuts down all components
func (c *Container) Shutdown(ctx context.Context) error {
	if c.DB != nil {
		return c.DB.Close()
	}
	return nil
}
