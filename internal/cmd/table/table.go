// Package table provides common table formatting utilities for CLI commands.
package table

import (
	"io"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/tallysheet/tallysheet/pkg/reconcile"
	"github.com/tallysheet/tallysheet/pkg/validate"
)

// Align represents column alignment in tables.
type Align int

const (
	// AlignDefault uses the default alignment (skip).
	AlignDefault Align = iota
	// AlignLeft aligns content to the left.
	AlignLeft
	// AlignCenter centers content.
	AlignCenter
	// AlignRight aligns content to the right.
	AlignRight
)

// Data represents table formatting data to avoid import cycles.
type Data struct {
	Headers         []string
	Rows            [][]string
	ColumnAlignment []Align
}

// printer formats vote counts with thousands separators.
var printer = message.NewPrinter(language.English)

// ResultToTableData converts a reconciliation result to table format.
func ResultToTableData(result *reconcile.Result) Data {
	headers := []string{"Candidate", "Party", "Booth Votes", "Out-of-Booth", "Official Total"}
	rows := make([][]string, 0, len(result.Candidates))
	for _, c := range result.Candidates {
		rows = append(rows, []string{
			c.Name,
			c.Party,
			printer.Sprintf("%d", c.BoothTotal),
			printer.Sprintf("%d", c.OutOfBooth),
			printer.Sprintf("%d", c.OfficialTotal),
		})
	}
	return Data{
		Headers: headers,
		Rows:    rows,
		ColumnAlignment: []Align{
			AlignLeft, AlignLeft, AlignRight, AlignRight, AlignRight,
		},
	}
}

// ReportToTableData converts a validation report to table format.
func ReportToTableData(report *validate.Report) Data {
	headers := []string{"Severity", "Finding"}
	rows := make([][]string, 0, len(report.Issues)+len(report.Warnings))
	for _, issue := range report.Issues {
		rows = append(rows, []string{"FAIL", issue})
	}
	for _, warning := range report.Warnings {
		rows = append(rows, []string{"WARN", warning})
	}
	return Data{
		Headers:         headers,
		Rows:            rows,
		ColumnAlignment: []Align{AlignLeft, AlignLeft},
	}
}

// Render writes the table data using tablewriter.
func Render(w io.Writer, data Data) error {
	opts := []tablewriter.Option{}

	config := tablewriter.Config{}
	if len(data.ColumnAlignment) > 0 {
		twAlign := make([]tw.Align, len(data.ColumnAlignment))
		for i, align := range data.ColumnAlignment {
			switch align {
			case AlignLeft:
				twAlign[i] = tw.AlignLeft
			case AlignCenter:
				twAlign[i] = tw.AlignCenter
			case AlignRight:
				twAlign[i] = tw.AlignRight
			default:
				twAlign[i] = tw.Skip
			}
		}
		config.Header.Alignment = tw.CellAlignment{PerColumn: twAlign}
		config.Row.Alignment = tw.CellAlignment{PerColumn: twAlign}
	}
	opts = append(opts, tablewriter.WithConfig(config))

	table := tablewriter.NewTable(w, opts...)

	if len(data.Headers) > 0 {
		headers := make([]any, len(data.Headers))
		for i, h := range data.Headers {
			headers[i] = h
		}
		table.Header(headers...)
	}

	for _, row := range data.Rows {
		rowData := make([]any, len(row))
		for i, cell := range row {
			rowData[i] = cell
		}
		if err := table.Append(rowData...); err != nil {
			return err
		}
	}

	return table.Render()
}
