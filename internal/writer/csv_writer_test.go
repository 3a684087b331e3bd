package writer

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/moznion/go-optional"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/signalcraft-lab/signalcraft/internal/pipeline"
	"github.com/signalcraft-lab/signalcraft/internal/types"
)

func runDirOf(t *testing.T, tempDir string) string {
	t.Helper()

	dirs, err := os.ReadDir(tempDir)
	require.NoError(t, err, "Failed to read temp directory")
	require.Equal(t, 1, len(dirs), "Should have one timestamp directory")

	return filepath.Join(tempDir, dirs[0].Name())
}

func TestCSVWriter_WriteComparison(t *testing.T) {
	t.Run("test_write_comparison", func(t *testing.T) {
		tempDir := t.TempDir()

		writer, err := NewCSVWriter(tempDir)
		assert.NoError(t, err, "Failed to create CSVWriter")

		row := types.ComparisonRow{
			StrategyRow: types.StrategyRow{
				SignalRow: types.SignalRow{
					IndicatorRow: types.IndicatorRow{
						Bar: types.Bar{
							Date:  time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
							Close: 150.75,
						},
						MAShort: optional.Some(150.0),
						MALong:  optional.None[float64](),
						RSI:     optional.Some(55.5),
						MACD:    optional.Some(1.25),
					},
					BuySignal: 1,
				},
				Signal:   1,
				Target:   153.77,
				StopLoss: 147.74,
			},
			PriorProfit: 12.5,
		}

		err = writer.WriteComparison(types.ComparisonResult{row})
		assert.NoError(t, err, "Failed to write comparison")

		err = writer.Close()
		assert.NoError(t, err, "Failed to close writer")

		data, err := os.ReadFile(filepath.Join(runDirOf(t, tempDir), "strategy.csv"))
		require.NoError(t, err, "Failed to read strategy file")

		content := string(data)
		assert.Contains(t, content, "date,close,ma_short,ma_long")
		assert.Contains(t, content, "2024-03-01")
		assert.Contains(t, content, "150.00")
		assert.Contains(t, content, ",-,") // undefined long MA
		assert.Contains(t, content, "153.77")
	})
}

func TestCSVWriter_WriteLedger(t *testing.T) {
	t.Run("test_write_ledger", func(t *testing.T) {
		tempDir := t.TempDir()

		writer, err := NewCSVWriter(tempDir)
		assert.NoError(t, err, "Failed to create CSVWriter")

		ledger := types.LedgerTable{
			{Date: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), Balance: -100, Profit: -100},
			{Date: time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC), Balance: 5, Profit: 105},
		}

		err = writer.WriteLedger(ledger)
		assert.NoError(t, err, "Failed to write ledger")

		err = writer.Close()
		assert.NoError(t, err, "Failed to close writer")

		data, err := os.ReadFile(filepath.Join(runDirOf(t, tempDir), "ledger.csv"))
		require.NoError(t, err, "Failed to read ledger file")

		lines := strings.Split(strings.TrimSpace(string(data)), "\n")
		assert.Equal(t, 3, len(lines), "Header plus two rows")
		assert.Equal(t, "date,balance,profit", lines[0])
		assert.Contains(t, lines[1], "2024-03-01")
		assert.Contains(t, lines[2], "105.000000")
	})
}

func TestCSVWriter_WriteTracking(t *testing.T) {
	t.Run("test_write_tracking", func(t *testing.T) {
		tempDir := t.TempDir()

		writer, err := NewCSVWriter(tempDir)
		assert.NoError(t, err, "Failed to create CSVWriter")

		series := types.PriceSeries{
			{Date: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), Close: 42.5},
		}

		err = writer.WriteTracking(series)
		assert.NoError(t, err, "Failed to write tracking")

		err = writer.Close()
		assert.NoError(t, err, "Failed to close writer")

		data, err := os.ReadFile(filepath.Join(runDirOf(t, tempDir), "tracking.csv"))
		require.NoError(t, err, "Failed to read tracking file")
		assert.Contains(t, string(data), "42.500000")
	})
}

func TestCSVWriter_WriteConfig(t *testing.T) {
	t.Run("test_write_config", func(t *testing.T) {
		tempDir := t.TempDir()

		writer, err := NewCSVWriter(tempDir)
		assert.NoError(t, err, "Failed to create CSVWriter")

		config := pipeline.DefaultConfig("AAPL")
		err = writer.WriteConfig(config)
		assert.NoError(t, err, "Failed to write config")

		err = writer.Close()
		assert.NoError(t, err, "Failed to close writer")

		data, err := os.ReadFile(filepath.Join(runDirOf(t, tempDir), "config.yaml"))
		require.NoError(t, err, "Failed to read config file")
		assert.Contains(t, string(data), "AAPL")
	})
}
