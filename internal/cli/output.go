package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/charmbracelet/lipgloss"

	"github.com/lnrcli/lnr/internal/linear"
)

type Format string

const (
	FormatTable   Format = "table"
	FormatJSON    Format = "json"
	FormatCompact Format = "compact"
)

// output renders command results. It is a plain value built once per command
// from the global flags; nothing about formatting lives in package state.
type output struct {
	Out    io.Writer
	Format Format
	Quiet  bool
	Color  bool
}

func (o output) PrintJSON(v any) error {
	enc := json.NewEncoder(o.Out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func (o output) PrintTable(headers []string, rows [][]string) error {
	w := tabwriter.NewWriter(o.Out, 0, 0, 2, ' ', 0)
	if len(headers) > 0 {
		fmt.Fprintln(w, joinRow(headers))
	}
	for _, row := range rows {
		fmt.Fprintln(w, joinRow(row))
	}
	return w.Flush()
}

// Collection renders a list result: the full record set in JSON, the given
// rows as a table, or one compact line per item.
func (o output) Collection(v any, headers []string, rows [][]string, compact []string) error {
	switch o.Format {
	case FormatJSON:
		return o.PrintJSON(v)
	case FormatCompact:
		for _, line := range compact {
			if _, err := fmt.Fprintln(o.Out, line); err != nil {
				return err
			}
		}
		return nil
	default:
		return o.PrintTable(headers, rows)
	}
}

// Single renders a one-record result.
func (o output) Single(v any, headers []string, row []string, compact string) error {
	switch o.Format {
	case FormatJSON:
		return o.PrintJSON(v)
	case FormatCompact:
		_, err := fmt.Fprintln(o.Out, compact)
		return err
	default:
		return o.PrintTable(headers, [][]string{row})
	}
}

// Message prints a human status line. Quiet suppresses it entirely; JSON mode
// wraps it in an envelope so output stays machine-parseable.
func (o output) Message(format string, args ...any) error {
	if o.Quiet {
		return nil
	}
	msg := fmt.Sprintf(format, args...)
	if o.Format == FormatJSON {
		return o.PrintJSON(map[string]string{"message": msg})
	}
	_, err := fmt.Fprintln(o.Out, msg)
	return err
}

func joinRow(cols []string) string {
	if len(cols) == 0 {
		return ""
	}
	out := cols[0]
	for i := 1; i < len(cols); i++ {
		out += "\t" + cols[i]
	}
	return out
}

var (
	urgentStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	highStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("208"))
	mediumStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	lowStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("12"))
)

// priorityCell is the priority display name, colored in table mode. JSON and
// compact output never carry ANSI sequences.
func (o output) priorityCell(priority int) string {
	label := linear.PriorityLabel(priority)
	if !o.Color || o.Format != FormatTable {
		return label
	}
	switch priority {
	case 1:
		return urgentStyle.Render(label)
	case 2:
		return highStyle.Render(label)
	case 3:
		return mediumStyle.Render(label)
	case 4:
		return lowStyle.Render(label)
	}
	return label
}

// stateCell colors a workflow state cell with the state's own hex color when
// the service provides one.
func (o output) stateCell(name, hexColor string) string {
	if !o.Color || o.Format != FormatTable || hexColor == "" || !strings.HasPrefix(hexColor, "#") {
		return name
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color(hexColor)).Render(name)
}
