package writer

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/signalcraft-lab/signalcraft/internal/pipeline"
	"github.com/signalcraft-lab/signalcraft/internal/render"
	"github.com/signalcraft-lab/signalcraft/internal/types"
)

// ResultWriter defines the interface for writing pipeline results
type ResultWriter interface {
	// WriteComparison writes the merged strategy table
	WriteComparison(result types.ComparisonResult) error

	// WriteLedger writes the balance ledger
	WriteLedger(ledger types.LedgerTable) error

	// WriteTracking writes the pass-through tracking series
	WriteTracking(series types.PriceSeries) error

	// WriteConfig writes the run configuration alongside the results
	WriteConfig(config pipeline.Config) error

	// RunDir returns the directory results are written into
	RunDir() string

	// Close finalizes the writing process
	Close() error
}

// CSVWriter implements ResultWriter by writing to CSV files
type CSVWriter struct {
	baseDir      string
	runDir       string
	strategyFile *os.File
	ledgerFile   *os.File
	trackingFile *os.File

	strategyCsv *csv.Writer
	ledgerCsv   *csv.Writer
	trackingCsv *csv.Writer
}

// NewCSVWriter creates a new CSVWriter with the given base directory
func NewCSVWriter(baseDir string) (ResultWriter, error) {
	// Create a directory for this run using current timestamp
	timestamp := time.Now().Format("2006-01-02_15-04-05")
	runDir := filepath.Join(baseDir, timestamp)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create run directory: %w", err)
	}

	writer := &CSVWriter{
		baseDir: baseDir,
		runDir:  runDir,
	}

	if err := writer.initFiles(); err != nil {
		return nil, err
	}

	return writer, nil
}

// initFiles initializes all CSV files
func (w *CSVWriter) initFiles() error {
	strategyFile, err := os.Create(filepath.Join(w.runDir, "strategy.csv"))
	if err != nil {
		return fmt.Errorf("failed to create strategy file: %w", err)
	}
	w.strategyFile = strategyFile
	w.strategyCsv = csv.NewWriter(strategyFile)

	if err := w.strategyCsv.Write([]string{
		"date", "close", "ma_short", "ma_long", "rsi", "macd",
		"buy_signal", "sell_signal", "signal", "target", "stop_loss", "prior_profit",
	}); err != nil {
		return fmt.Errorf("failed to write strategy header: %w", err)
	}

	ledgerFile, err := os.Create(filepath.Join(w.runDir, "ledger.csv"))
	if err != nil {
		return fmt.Errorf("failed to create ledger file: %w", err)
	}
	w.ledgerFile = ledgerFile
	w.ledgerCsv = csv.NewWriter(ledgerFile)

	if err := w.ledgerCsv.Write([]string{"date", "balance", "profit"}); err != nil {
		return fmt.Errorf("failed to write ledger header: %w", err)
	}

	trackingFile, err := os.Create(filepath.Join(w.runDir, "tracking.csv"))
	if err != nil {
		return fmt.Errorf("failed to create tracking file: %w", err)
	}
	w.trackingFile = trackingFile
	w.trackingCsv = csv.NewWriter(trackingFile)

	if err := w.trackingCsv.Write([]string{"date", "close"}); err != nil {
		return fmt.Errorf("failed to write tracking header: %w", err)
	}

	return nil
}

// WriteComparison writes the merged strategy table
func (w *CSVWriter) WriteComparison(result types.ComparisonResult) error {
	for _, row := range result {
		record := []string{
			row.Date.Format("2006-01-02"),
			fmt.Sprintf("%f", row.Close),
			render.FormatOptional(row.MAShort),
			render.FormatOptional(row.MALong),
			render.FormatOptional(row.RSI),
			render.FormatOptional(row.MACD),
			fmt.Sprintf("%d", row.BuySignal),
			fmt.Sprintf("%d", row.SellSignal),
			fmt.Sprintf("%d", row.Signal),
			fmt.Sprintf("%.2f", row.Target),
			fmt.Sprintf("%.2f", row.StopLoss),
			fmt.Sprintf("%f", row.PriorProfit),
		}

		if err := w.strategyCsv.Write(record); err != nil {
			return fmt.Errorf("failed to write strategy row: %w", err)
		}
	}

	w.strategyCsv.Flush()
	return w.strategyCsv.Error()
}

// WriteLedger writes the balance ledger
func (w *CSVWriter) WriteLedger(ledger types.LedgerTable) error {
	for _, row := range ledger {
		record := []string{
			row.Date.Format("2006-01-02"),
			fmt.Sprintf("%f", row.Balance),
			fmt.Sprintf("%f", row.Profit),
		}

		if err := w.ledgerCsv.Write(record); err != nil {
			return fmt.Errorf("failed to write ledger row: %w", err)
		}
	}

	w.ledgerCsv.Flush()
	return w.ledgerCsv.Error()
}

// WriteTracking writes the pass-through tracking series
func (w *CSVWriter) WriteTracking(series types.PriceSeries) error {
	for _, bar := range series {
		record := []string{
			bar.Date.Format("2006-01-02"),
			fmt.Sprintf("%f", bar.Close),
		}

		if err := w.trackingCsv.Write(record); err != nil {
			return fmt.Errorf("failed to write tracking row: %w", err)
		}
	}

	w.trackingCsv.Flush()
	return w.trackingCsv.Error()
}

// WriteConfig writes the run configuration as YAML alongside the results
func (w *CSVWriter) WriteConfig(config pipeline.Config) error {
	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(filepath.Join(w.runDir, "config.yaml"), data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// RunDir returns the directory results are written into
func (w *CSVWriter) RunDir() string {
	return w.runDir
}

// Close finalizes the writing process
func (w *CSVWriter) Close() error {
	w.strategyCsv.Flush()
	w.ledgerCsv.Flush()
	w.trackingCsv.Flush()

	var firstErr error
	for _, f := range []*os.File{w.strategyFile, w.ledgerFile, w.trackingFile} {
		if f == nil {
			continue
		}
		if err := f.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}

	return firstErr
}
