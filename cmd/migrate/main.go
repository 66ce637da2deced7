package main

import (
	"context"
	"log"
	"os"
	"strings"

	"datagraph/adapters/jsonsource"
	"datagraph/adapters/postgres"
	"datagraph/internal/migration"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
)

func main() {
	if len(os.Args) < 2 {
		log.Fatal("Usage: migrate <database_url> [json_dir]")
	}

	databaseURL := os.Args[1]
	driver := driverFor(databaseURL)

	log.Printf("Starting migration on %s database", driver)

	db, err := sqlx.Connect(driver, databaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	ctx := context.Background()
	runner := migration.NewRunner()
	if err := runner.Run(ctx, db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	log.Printf("Schema version %s applied", runner.Version())

	if len(os.Args) < 3 {
		return
	}

	jsonDir := os.Args[2]
	sources, err := jsonsource.Discover(os.DirFS(jsonDir), "import")
	if err != nil {
		log.Fatalf("Failed to find dataset documents: %v", err)
	}
	log.Printf("Found %d dataset documents to import", len(sources))

	repo := postgres.NewVariableRepository(db)
	imported := 0
	skipped := 0

	for _, src := range sources {
		vars, err := src.Load(ctx)
		if err != nil {
			log.Printf("Failed to load %s: %v", src.Name(), err)
			skipped++
			continue
		}

		for _, v := range vars {
			if err := repo.Save(ctx, v); err != nil {
				log.Printf("Failed to save variable %s: %v", v.Key, err)
				skipped++
				continue
			}
			imported++
		}
	}

	log.Printf("Migration complete: %d variables imported, %d skipped", imported, skipped)
}

// driverFor picks the SQL driver from the connection string
func driverFor(databaseURL string) string {
	if strings.HasPrefix(databaseURL, "postgres://") || strings.HasPrefix(databaseURL, "postgresql://") ||
		strings.Contains(databaseURL, "host=") {
		return "postgres"
	}
	return "sqlite3"
}
