package registry

import (
	"os"

	"datagraph/adapters/api"
	"datagraph/adapters/excel"
	"datagraph/adapters/jsonsource"
	"datagraph/adapters/postgres"
	"datagraph/data"
	"datagraph/internal/config"
	"datagraph/internal/errors"
	"datagraph/ports"

	"github.com/jmoiron/sqlx"
)

// BuildSources turns the configured DATA_SOURCE list into sources, in the
// order given. db is only required when the database source is selected.
func BuildSources(cfg config.DataConfig, db *sqlx.DB) ([]ports.VariableSource, error) {
	var sources []ports.VariableSource

	for _, name := range cfg.Sources {
		switch name {
		case config.SourceEmbedded:
			found, err := jsonsource.Discover(data.Files, config.SourceEmbedded)
			if err != nil {
				return nil, errors.DataSourceError(name, err)
			}
			for _, src := range found {
				sources = append(sources, src)
			}
		case config.SourceDir:
			sources = append(sources, jsonsource.NewDirSource(os.DirFS(cfg.Dir), config.SourceDir))
		case config.SourceExcel:
			sources = append(sources, excel.NewSource(excel.ExcelConfig{
				FilePath:     cfg.ExcelFile,
				BucketColumn: cfg.ExcelBucketCol,
			}))
		case config.SourceAPI:
			sources = append(sources, api.NewAPIReader(api.APIDataSource{
				URL:        cfg.APIURL,
				DataPath:   cfg.APIDataPath,
				AuthMethod: cfg.APIAuthMethod,
				AuthToken:  cfg.APIToken,
				Timeout:    cfg.LoadTimeout,
			}))
		case config.SourceDatabase:
			if db == nil {
				return nil, errors.ConfigInvalid("database source selected without a database connection")
			}
			sources = append(sources, postgres.NewVariableRepository(db))
		default:
			return nil, errors.ConfigInvalid("unknown data source: " + name)
		}
	}

	return sources, nil
}
