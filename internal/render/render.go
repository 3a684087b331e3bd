// Package render formats the result tables for the console. It is a
// read-only consumer of the final tables; nothing here feeds back into the
// pipeline.
package render

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/moznion/go-optional"

	"github.com/signalcraft-lab/signalcraft/internal/types"
)

// Style definitions.
var (
	// TitleStyle for table titles.
	TitleStyle = lipgloss.NewStyle().Bold(true)

	// HeaderStyle for column headers.
	HeaderStyle = lipgloss.NewStyle().Bold(true).Faint(true)

	// FooterStyle for row-count footers.
	FooterStyle = lipgloss.NewStyle().Faint(true)
)

// FormatOptional renders an optional indicator value, "-" when undefined.
func FormatOptional(value optional.Option[float64]) string {
	if value.IsNone() {
		return "-"
	}

	return fmt.Sprintf("%.2f", value.Unwrap())
}

// FormatCall renders the final directional call with a direction marker.
func FormatCall(call int) string {
	if call > 0 {
		return "1 ▲"
	}

	return "-1 ▼"
}

// ComparisonTable renders the merged strategy table. Only the trailing
// `limit` rows are shown; pass 0 to show everything.
func ComparisonTable(result types.ComparisonResult, limit int) string {
	var b strings.Builder

	b.WriteString(TitleStyle.Render("Strategy"))
	b.WriteString("\n")
	b.WriteString(HeaderStyle.Render(fmt.Sprintf("%-12s %10s %10s %10s %8s %8s %5s %4s %6s %10s %10s %12s",
		"Date", "Close", "MA20", "MA50", "RSI", "MACD", "Buy", "Sell", "Call", "Target", "StopLoss", "PriorProfit")))
	b.WriteString("\n")

	for _, row := range tail(result, limit) {
		b.WriteString(fmt.Sprintf("%-12s %10.2f %10s %10s %8s %8s %5d %4d %6s %10.2f %10.2f %12.2f\n",
			row.Date.Format("2006-01-02"),
			row.Close,
			FormatOptional(row.MAShort),
			FormatOptional(row.MALong),
			FormatOptional(row.RSI),
			FormatOptional(row.MACD),
			row.BuySignal,
			row.SellSignal,
			FormatCall(row.Signal),
			row.Target,
			row.StopLoss,
			row.PriorProfit,
		))
	}

	b.WriteString(FooterStyle.Render(fmt.Sprintf("%d rows", len(result))))
	b.WriteString("\n")

	return b.String()
}

// LedgerTable renders the balance/profit series. Only the trailing `limit`
// rows are shown; pass 0 to show everything.
func LedgerTable(ledger types.LedgerTable, limit int) string {
	var b strings.Builder

	b.WriteString(TitleStyle.Render("Ledger"))
	b.WriteString("\n")
	b.WriteString(HeaderStyle.Render(fmt.Sprintf("%-12s %12s %12s", "Date", "Balance", "Profit")))
	b.WriteString("\n")

	for _, row := range tail(ledger, limit) {
		b.WriteString(fmt.Sprintf("%-12s %12.2f %12.2f\n",
			row.Date.Format("2006-01-02"), row.Balance, row.Profit))
	}

	b.WriteString(FooterStyle.Render(fmt.Sprintf("%d rows", len(ledger))))
	b.WriteString("\n")

	return b.String()
}

// TrackingSeries renders the pass-through tracking series.
func TrackingSeries(series types.PriceSeries, limit int) string {
	var b strings.Builder

	b.WriteString(TitleStyle.Render("Tracking"))
	b.WriteString("\n")
	b.WriteString(HeaderStyle.Render(fmt.Sprintf("%-12s %12s", "Date", "Close")))
	b.WriteString("\n")

	for _, bar := range tail(series, limit) {
		b.WriteString(fmt.Sprintf("%-12s %12.2f\n", bar.Date.Format("2006-01-02"), bar.Close))
	}

	b.WriteString(FooterStyle.Render(fmt.Sprintf("%d rows", len(series))))
	b.WriteString("\n")

	return b.String()
}

func tail[T any](rows []T, limit int) []T {
	if limit <= 0 || len(rows) <= limit {
		return rows
	}

	return rows[len(rows)-limit:]
}
