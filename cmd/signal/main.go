package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/urfave/cli/v3"
	"gopkg.in/yaml.v3"

	"github.com/signalcraft-lab/signalcraft/internal/history"
	"github.com/signalcraft-lab/signalcraft/internal/logger"
	"github.com/signalcraft-lab/signalcraft/internal/pipeline"
	"github.com/signalcraft-lab/signalcraft/internal/render"
	"github.com/signalcraft-lab/signalcraft/internal/types"
	"github.com/signalcraft-lab/signalcraft/internal/version"
	"github.com/signalcraft-lab/signalcraft/internal/writer"
	"github.com/signalcraft-lab/signalcraft/pkg/marketdata/provider"
)

// buildConfig assembles the run configuration from the config file (when
// given) and flag overrides.
func buildConfig(cmd *cli.Command) (pipeline.Config, error) {
	var config pipeline.Config

	if path := cmd.String("config"); path != "" {
		loaded, err := pipeline.LoadConfig(path)
		if err != nil {
			return pipeline.Config{}, err
		}

		config = loaded
	} else {
		config = pipeline.DefaultConfig(cmd.String("symbol"))
	}

	if symbol := cmd.String("symbol"); symbol != "" {
		config.Symbol = symbol
	}

	if cmd.IsSet("target") {
		config.TargetPct = cmd.Float64("target")
	}

	if cmd.IsSet("stoploss") {
		config.StopLossPct = cmd.Float64("stoploss")
	}

	if cmd.IsSet("buy-rsi") {
		config.BuyRSIThreshold = cmd.Float64("buy-rsi")
	}

	if cmd.IsSet("sell-rsi") {
		config.SellRSIThreshold = cmd.Float64("sell-rsi")
	}

	if cmd.IsSet("dynamic-target") {
		config.DynamicTarget = cmd.Bool("dynamic-target")
	}

	return config, nil
}

// fetchPrices resolves the data source flags into a price series.
func fetchPrices(ctx context.Context, cmd *cli.Command, symbol string) (types.PriceSeries, error) {
	providerType := provider.ProviderType(cmd.String("source"))

	providerConfig := ""

	switch providerType {
	case provider.ProviderCSV:
		providerConfig = cmd.String("csv")
	case provider.ProviderPolygon:
		providerConfig = os.Getenv("POLYGON_API_KEY")
	}

	p, err := provider.NewProvider(providerType, providerConfig)
	if err != nil {
		return nil, err
	}

	return p.Daily(ctx, symbol, cmd.Timestamp("start"), cmd.Timestamp("end"))
}

// runAction is the core logic executed by the run command. It fetches the
// price series, loads the prior ledger from the history store, runs the
// pipeline, persists the new ledger, and renders or exports the results.
func runAction(ctx context.Context, cmd *cli.Command) error {
	appLog, err := logger.NewLogger()
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer appLog.Sync()

	config, err := buildConfig(cmd)
	if err != nil {
		return fmt.Errorf("failed to build config: %w", err)
	}

	prices, err := fetchPrices(ctx, cmd, config.Symbol)
	if err != nil {
		return fmt.Errorf("failed to fetch prices: %w", err)
	}

	input := pipeline.Input{
		Prices:   prices,
		Tracking: prices,
	}

	var store *history.Store

	if historyPath := cmd.String("history"); historyPath != "" {
		store, err = history.OpenStore(historyPath)
		if err != nil {
			return fmt.Errorf("failed to open history store: %w", err)
		}
		defer store.Close()

		prior, err := store.LoadLatest(config.Symbol)
		if err != nil {
			return fmt.Errorf("failed to load prior ledger: %w", err)
		}

		input.Prior = prior
	}

	result, err := pipeline.New(appLog).Run(config, input)
	if err != nil {
		return fmt.Errorf("pipeline run failed: %w", err)
	}

	if store != nil {
		runID, err := store.SaveRun(config.Symbol, result.Ledger)
		if err != nil {
			return fmt.Errorf("failed to save run: %w", err)
		}

		fmt.Fprintf(os.Stderr, "saved run %s\n", runID)
	}

	if outDir := cmd.String("out"); outDir != "" {
		if err := exportResults(outDir, config, *result); err != nil {
			return err
		}
	}

	if cmd.Bool("view") {
		return runViewer(config.Symbol, *result)
	}

	limit := int(cmd.Int("rows"))
	fmt.Print(render.ComparisonTable(result.Comparison, limit))
	fmt.Print(render.LedgerTable(result.Ledger, limit))

	return nil
}

// exportResults writes the result tables as CSV files under outDir.
func exportResults(outDir string, config pipeline.Config, result pipeline.Result) error {
	w, err := writer.NewCSVWriter(outDir)
	if err != nil {
		return fmt.Errorf("failed to create result writer: %w", err)
	}

	if err := w.WriteComparison(result.Comparison); err != nil {
		return fmt.Errorf("failed to export strategy table: %w", err)
	}

	if err := w.WriteLedger(result.Ledger); err != nil {
		return fmt.Errorf("failed to export ledger: %w", err)
	}

	if err := w.WriteTracking(result.Tracking); err != nil {
		return fmt.Errorf("failed to export tracking series: %w", err)
	}

	if err := w.WriteConfig(config); err != nil {
		return fmt.Errorf("failed to export config: %w", err)
	}

	if err := w.Close(); err != nil {
		return fmt.Errorf("failed to close result writer: %w", err)
	}

	fmt.Fprintf(os.Stderr, "results written to %s\n", w.RunDir())

	return nil
}

// schemaAction writes the JSON schema for the run configuration, plus a
// sample config if none exists yet.
func schemaAction(ctx context.Context, cmd *cli.Command) error {
	schemaJSON, err := pipeline.ConfigJSONSchema()
	if err != nil {
		return fmt.Errorf("failed to generate schema: %w", err)
	}

	schemaName := "signal-config.json"
	outDir := cmd.String("out")
	schemaPath := filepath.Join(outDir, schemaName)
	sampleConfigPath := filepath.Join(outDir, "signal-config.yaml")

	if err := os.MkdirAll(outDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	if err := os.WriteFile(schemaPath, []byte(schemaJSON), 0644); err != nil {
		return fmt.Errorf("failed to write schema: %w", err)
	}

	if _, err := os.Stat(sampleConfigPath); os.IsNotExist(err) {
		yamlBytes, err := yaml.Marshal(pipeline.DefaultConfig("AAPL"))
		if err != nil {
			return fmt.Errorf("failed to marshal sample config: %w", err)
		}

		yamlBytes = append([]byte("# yaml-language-server: $schema="+schemaName+"\n"), yamlBytes...)

		if err := os.WriteFile(sampleConfigPath, yamlBytes, 0644); err != nil {
			return fmt.Errorf("failed to write sample config: %w", err)
		}

		log.Printf("Sample config generated at %s", sampleConfigPath)
	}

	log.Printf("Schema generated at %s", schemaPath)

	return nil
}

// newRootCommand builds the CLI command tree.
func newRootCommand() *cli.Command {
	return &cli.Command{
		Name:    "signal",
		Usage:   "Generate trading signals from daily close series",
		Version: version.GetVersion(),
		Commands: []*cli.Command{
			{
				Name:  "run",
				Usage: "Run the signal pipeline for a symbol",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "symbol",
						Aliases: []string{"t"},
						Usage:   "Stock ticker symbol",
					},
					&cli.TimestampFlag{
						Name:    "start",
						Aliases: []string{"s"},
						Usage:   "Start date in `YYYY-MM-DD` format",
						Value:   time.Now().AddDate(-1, 0, 0),
						Config: cli.TimestampConfig{
							Layouts: []string{"2006-01-02"},
						},
					},
					&cli.TimestampFlag{
						Name:    "end",
						Aliases: []string{"e"},
						Usage:   "End date in `YYYY-MM-DD` format. Defaults to today.",
						Value:   time.Now(),
						Config: cli.TimestampConfig{
							Layouts: []string{"2006-01-02"},
						},
					},
					&cli.StringFlag{
						Name:    "source",
						Aliases: []string{"p"},
						Usage:   fmt.Sprintf("Data source (%s, %s, %s)", provider.ProviderCSV, provider.ProviderPolygon, provider.ProviderBinance),
						Value:   string(provider.ProviderCSV),
					},
					&cli.StringFlag{
						Name:  "csv",
						Usage: "Path to a date,close CSV file when source is csv",
					},
					&cli.StringFlag{
						Name:    "config",
						Aliases: []string{"c"},
						Usage:   "Path to a YAML run configuration",
					},
					&cli.Float64Flag{
						Name:  "target",
						Usage: "Target price offset in percent",
					},
					&cli.Float64Flag{
						Name:  "stoploss",
						Usage: "Stop loss offset in percent",
					},
					&cli.Float64Flag{
						Name:  "buy-rsi",
						Usage: "Oversold RSI bound a buy signal must stay under",
					},
					&cli.Float64Flag{
						Name:  "sell-rsi",
						Usage: "Overbought RSI bound a sell signal must exceed",
					},
					&cli.BoolFlag{
						Name:  "dynamic-target",
						Usage: "Reserved mode toggle, accepted for config compatibility",
					},
					&cli.StringFlag{
						Name:  "history",
						Usage: "Path to the DuckDB history store (\":memory:\" for ephemeral)",
					},
					&cli.StringFlag{
						Name:    "out",
						Aliases: []string{"o"},
						Usage:   "Directory to export CSV results into",
					},
					&cli.BoolFlag{
						Name:  "view",
						Usage: "Open the interactive result viewer",
					},
					&cli.IntFlag{
						Name:  "rows",
						Usage: "Number of trailing rows to print (0 for all)",
						Value: 30,
					},
				},
				Action: runAction,
			},
			{
				Name:  "schema",
				Usage: "Generate the JSON schema for the run configuration",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "out",
						Aliases: []string{"o"},
						Usage:   "Output directory",
						Value:   "config",
					},
				},
				Action: schemaAction,
			},
		},
	}
}

func main() {
	if err := newRootCommand().Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}
