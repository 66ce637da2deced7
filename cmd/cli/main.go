package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"datagraph/app"
	"datagraph/domain/core"
	"datagraph/domain/dataset"
	"datagraph/domain/stats"
	"datagraph/internal/analysis/grouped"
	"datagraph/internal/config"
	"datagraph/internal/container"
	"datagraph/internal/registry"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
	"github.com/spf13/cobra"
)

var jsonOutput bool

func main() {
	rootCmd := &cobra.Command{
		Use:   "datagraph-cli",
		Short: "Datagraph CLI for inspecting variables and running correlations and time averages",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// .env is optional
			_ = godotenv.Load()
		},
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Print results as JSON")

	rootCmd.AddCommand(
		newVariablesCmd(),
		newCorrelateCmd(),
		newAggregateCmd(),
		newMigrateCmd(),
		newSeedCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loadContainer builds the container and registry from the environment
func loadContainer(ctx context.Context) (*container.Container, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	c, err := container.New(cfg)
	if err != nil {
		return nil, err
	}
	if cfg.Data.Uses(config.SourceDatabase) {
		if err := c.OpenDatabase(ctx); err != nil {
			return nil, err
		}
	}
	if err := c.LoadRegistry(ctx); err != nil {
		c.Shutdown(ctx)
		return nil, err
	}
	return c, nil
}

func newVariablesCmd() *cobra.Command {
	var shape string

	cmd := &cobra.Command{
		Use:   "variables",
		Short: "List the variables available for plotting",
		Long: `List every registered variable with its shape and summary statistics.

Example: datagraph-cli variables --shape bucketed`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := loadContainer(cmd.Context())
			if err != nil {
				return err
			}
			defer c.Shutdown(cmd.Context())

			entries := app.FilterCatalog(c.Analysis.Catalog(), dataset.Shape(shape))
			if jsonOutput {
				return printJSON(entries)
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "KEY\tSHAPE\tLENGTH\tMEAN\tSOURCE")
			for _, e := range entries {
				mean := "-"
				if e.Stats != nil {
					mean = fmt.Sprintf("%.3f", e.Stats.Mean)
				}
				fmt.Fprintf(w, "%s\t%s\t%d\t%s\t%s\n", e.Key, e.Shape, e.Length, mean, e.Source)
			}
			return w.Flush()
		},
	}

	cmd.Flags().StringVar(&shape, "shape", "", "Only list variables of this shape: flat|bucketed|categorical")
	return cmd
}

func newCorrelateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "correlate [x-variable] [y-variable]",
		Short: "Compute the Pearson correlation and best-fit line of two flat variables",
		Long: `Compute the Pearson correlation coefficient and the least-squares line
of best fit for two flat variables of equal length.

Example: datagraph-cli correlate PositiveMood LifeSatisfaction`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := loadContainer(cmd.Context())
			if err != nil {
				return err
			}
			defer c.Shutdown(cmd.Context())

			series, err := c.Analysis.Correlate(core.VariableKey(args[0]), core.VariableKey(args[1]))
			if err != nil {
				return err
			}
			if jsonOutput {
				return printJSON(series)
			}
			printCorrelation(series, c.Analysis.Policy().String())
			return nil
		},
	}
}

func newAggregateCmd() *cobra.Command {
	var labels string

	cmd := &cobra.Command{
		Use:   "aggregate [labels-variable] [y-variable]",
		Short: "Average a bucketed variable per bucket label",
		Long: `Average a bucketed variable for every label of a categorical variable.
Pass --labels to use an explicit comma-separated label list instead.

Examples:
  datagraph-cli aggregate Time Happiness
  datagraph-cli aggregate Happiness --labels Time1,Time2`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := loadContainer(cmd.Context())
			if err != nil {
				return err
			}
			defer c.Shutdown(cmd.Context())

			var series stats.BucketSeries
			switch {
			case labels != "" && len(args) == 1:
				series, err = c.Analysis.AggregateLabels(splitLabels(labels), core.VariableKey(args[0]))
			case labels == "" && len(args) == 2:
				series, err = c.Analysis.Aggregate(core.VariableKey(args[0]), core.VariableKey(args[1]))
			default:
				return fmt.Errorf("pass either [labels-variable] [y-variable] or [y-variable] --labels")
			}
			if err != nil {
				return err
			}

			if jsonOutput {
				return printJSON(series)
			}
			printAggregate(series)
			return nil
		},
	}

	cmd.Flags().StringVar(&labels, "labels", "", "Comma-separated bucket labels")
	return cmd
}

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the variables schema",
		Long: `Run database migrations against DATABASE_DRIVER / DATABASE_URL.

Example: DATABASE_DRIVER=sqlite3 DATABASE_URL=datagraph.db datagraph-cli migrate`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := openDatabase(cmd.Context())
			if err != nil {
				return err
			}
			defer c.Shutdown(cmd.Context())

			fmt.Printf("Schema is up to date (%s)\n", c.Config.Database.Driver)
			return nil
		},
	}
}

func newSeedCmd() *cobra.Command {
	var from string

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Copy variables from file sources into the database",
		Long: `Load variables from the given sources and store them in the database,
replacing stored variables with the same name and shape.

Example: datagraph-cli seed --from embedded,excel`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			c, err := openDatabase(ctx)
			if err != nil {
				return err
			}
			defer c.Shutdown(ctx)

			dataCfg := c.Config.Data
			dataCfg.Sources = splitLabels(strings.ToLower(from))
			if dataCfg.Uses(config.SourceDatabase) {
				return fmt.Errorf("cannot seed the database from itself")
			}

			sources, err := registry.BuildSources(dataCfg, nil)
			if err != nil {
				return err
			}
			reg, err := registry.NewLoader(sources, dataCfg.LoadConcurrency, dataCfg.LoadTimeout).Load(ctx)
			if err != nil {
				return err
			}

			for _, v := range reg.Variables() {
				if err := c.VariableRepo.Save(ctx, v); err != nil {
					return err
				}
			}

			count, err := c.VariableRepo.Count(ctx)
			if err != nil {
				return err
			}
			fmt.Printf("Seeded %d variables, %d stored\n", reg.Len(), count)
			return nil
		},
	}

	cmd.Flags().StringVar(&from, "from", config.SourceEmbedded, "Comma-separated sources: embedded|dir|excel")
	return cmd
}

// openDatabase connects and migrates without loading the registry
func openDatabase(ctx context.Context) (*container.Container, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	c, err := container.New(cfg)
	if err != nil {
		return nil, err
	}
	if err := c.OpenDatabase(ctx); err != nil {
		return nil, err
	}
	return c, nil
}

func printCorrelation(series stats.PairwiseSeries, policy string) {
	fmt.Printf("X: %s\nY: %s\n", series.X, series.Y)
	if series.Correlation != nil {
		fmt.Printf("N: %d\n", series.Correlation.N)
		if r, ok := series.Correlation.Value(); ok {
			fmt.Printf("Pearson r: %.4f\n", r)
		} else {
			fmt.Println("Pearson r: undefined")
		}
		if series.Correlation.PValue != nil {
			fmt.Printf("p-value: %.4g\n", *series.Correlation.PValue)
		}
		if series.Correlation.Degenerate {
			fmt.Printf("Zero variance in input (policy: %s)\n", policy)
		}
	}
	if series.Fit != nil {
		fmt.Printf("Best fit: y = %.4f * x + %.4f\n", series.Fit.Slope, series.Fit.Intercept)
	} else {
		fmt.Println("Best fit: none")
	}
}

func printAggregate(series stats.BucketSeries) {
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintf(w, "BUCKET\t%s\n", series.Variable)
	for _, e := range series.Entries {
		value := "absent"
		if e.Value != nil {
			value = fmt.Sprintf("%.3f", *e.Value)
		}
		fmt.Fprintf(w, "%s\t%s\n", grouped.FormatLabel(e.Label), value)
	}
	w.Flush()

	if !grouped.Displayable(series) {
		fmt.Printf("Series is not displayable: missing %s\n", strings.Join(series.Missing(), ", "))
	}
}

func printJSON(v interface{}) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}

func splitLabels(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
