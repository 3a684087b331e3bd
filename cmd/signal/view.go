package main

import (
	"fmt"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/signalcraft-lab/signalcraft/internal/pipeline"
	"github.com/signalcraft-lab/signalcraft/internal/render"
)

// Viewer tabs.
const (
	TabStrategy = iota
	TabLedger
)

// Style definitions.
var (
	// ViewerTitleStyle for the viewer header.
	ViewerTitleStyle = lipgloss.NewStyle().Bold(true)

	// ViewerHelpStyle for help text.
	ViewerHelpStyle = lipgloss.NewStyle().Faint(true)
)

// ViewModel is the Bubble Tea model for browsing a pipeline result.
type ViewModel struct {
	symbol        string
	tab           int
	strategyTable table.Model
	ledgerTable   table.Model
	width         int
	height        int
}

// NewViewModel creates a viewer model for the given result.
func NewViewModel(symbol string, result pipeline.Result) ViewModel {
	return ViewModel{
		symbol:        symbol,
		tab:           TabStrategy,
		strategyTable: newStrategyTable(result),
		ledgerTable:   newLedgerTable(result),
	}
}

// newStrategyTable builds the merged strategy table view.
func newStrategyTable(result pipeline.Result) table.Model {
	columns := []table.Column{
		{Title: "Date", Width: 12},
		{Title: "Close", Width: 10},
		{Title: "MA20", Width: 8},
		{Title: "MA50", Width: 8},
		{Title: "RSI", Width: 7},
		{Title: "MACD", Width: 8},
		{Title: "Buy", Width: 4},
		{Title: "Sell", Width: 4},
		{Title: "Call", Width: 5},
		{Title: "Target", Width: 9},
		{Title: "Stop", Width: 9},
		{Title: "Prior", Width: 9},
	}

	rows := make([]table.Row, 0, len(result.Comparison))

	for _, row := range result.Comparison {
		rows = append(rows, table.Row{
			row.Date.Format("2006-01-02"),
			fmt.Sprintf("%.2f", row.Close),
			render.FormatOptional(row.MAShort),
			render.FormatOptional(row.MALong),
			render.FormatOptional(row.RSI),
			render.FormatOptional(row.MACD),
			fmt.Sprintf("%d", row.BuySignal),
			fmt.Sprintf("%d", row.SellSignal),
			render.FormatCall(row.Signal),
			fmt.Sprintf("%.2f", row.Target),
			fmt.Sprintf("%.2f", row.StopLoss),
			fmt.Sprintf("%.2f", row.PriorProfit),
		})
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithRows(rows),
		table.WithFocused(true),
		table.WithHeight(20),
	)

	return t
}

// newLedgerTable builds the balance ledger view.
func newLedgerTable(result pipeline.Result) table.Model {
	columns := []table.Column{
		{Title: "Date", Width: 12},
		{Title: "Balance", Width: 12},
		{Title: "Profit", Width: 12},
	}

	rows := make([]table.Row, 0, len(result.Ledger))

	for _, row := range result.Ledger {
		rows = append(rows, table.Row{
			row.Date.Format("2006-01-02"),
			fmt.Sprintf("%.2f", row.Balance),
			fmt.Sprintf("%.2f", row.Profit),
		})
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithRows(rows),
		table.WithFocused(true),
		table.WithHeight(20),
	)

	return t
}

// Init implements tea.Model.
func (m ViewModel) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m ViewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		tableHeight := msg.Height - 6
		if tableHeight < 3 {
			tableHeight = 3
		}

		m.strategyTable.SetHeight(tableHeight)
		m.ledgerTable.SetHeight(tableHeight)

		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "tab":
			if m.tab == TabStrategy {
				m.tab = TabLedger
			} else {
				m.tab = TabStrategy
			}

			return m, nil
		}
	}

	var cmd tea.Cmd

	if m.tab == TabStrategy {
		m.strategyTable, cmd = m.strategyTable.Update(msg)
	} else {
		m.ledgerTable, cmd = m.ledgerTable.Update(msg)
	}

	return m, cmd
}

// View implements tea.Model.
func (m ViewModel) View() string {
	var title string

	var body string

	if m.tab == TabStrategy {
		title = fmt.Sprintf("%s strategy", m.symbol)
		body = m.strategyTable.View()
	} else {
		title = fmt.Sprintf("%s ledger", m.symbol)
		body = m.ledgerTable.View()
	}

	help := ViewerHelpStyle.Render("tab: switch view • ↑/↓: scroll • q: quit")

	return ViewerTitleStyle.Render(title) + "\n" + body + "\n" + help + "\n"
}

// runViewer starts the interactive result viewer.
func runViewer(symbol string, result pipeline.Result) error {
	p := tea.NewProgram(NewViewModel(symbol, result), tea.WithAltScreen())

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("viewer failed: %w", err)
	}

	return nil
}
