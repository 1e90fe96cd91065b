// Package report renders a DailyLog as text, CSV or JSON.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/Tiliavir/autoclock/internal/model"
	"github.com/Tiliavir/autoclock/internal/timecalc"
)

// Format is an output format.
type Format string

const (
	FormatText Format = "text"
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
)

// Formats lists the supported formats.
func Formats() []string {
	out := []string{string(FormatText), string(FormatCSV), string(FormatJSON)}
	sort.Strings(out)
	return out
}

// ParseFormat validates a format name.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatText, FormatCSV, FormatJSON:
		return f, nil
	}
	return "", fmt.Errorf("unknown format %q (supported: %s)", s, strings.Join(Formats(), ", "))
}

// Render writes log to w in the given format.
func Render(w io.Writer, log *model.DailyLog, format Format) error {
	switch format {
	case FormatCSV:
		return renderCSV(w, log)
	case FormatJSON:
		return renderJSON(w, log)
	default:
		return renderText(w, log)
	}
}

// maxDescriptionWidth is the number of cells a description may take in
// text output.
const maxDescriptionWidth = 72

const (
	colorDate   = "#7D56F4"
	colorBranch = "#04B575"
	colorMuted  = "#767676"
)

func renderText(w io.Writer, log *model.DailyLog) error {
	if log.Len() == 0 {
		_, err := fmt.Fprintln(w, "No entries found.")
		return err
	}

	r := lipgloss.NewRenderer(w)
	dateStyle := r.NewStyle().Bold(true).Foreground(lipgloss.Color(colorDate))
	branchStyle := r.NewStyle().Foreground(lipgloss.Color(colorBranch))
	mutedStyle := r.NewStyle().Foreground(lipgloss.Color(colorMuted))

	var b strings.Builder
	for i, day := range log.Days() {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(dateStyle.Render(day))
		b.WriteString("\n")
		for _, e := range log.Entries(day) {
			fmt.Fprintf(&b, "%s–%s  %s", e.Start.Format("15:04"), e.End.Format("15:04"), ansi.Truncate(e.Description, maxDescriptionWidth, "…"))
			if e.Branch != "" {
				b.WriteString("  " + branchStyle.Render("["+e.Branch+"]"))
			}
			b.WriteString(" " + mutedStyle.Render("("+timecalc.FormatDuration(e.Duration())+")"))
			b.WriteString("\n")
		}
		b.WriteString(mutedStyle.Render("Total: " + timecalc.FormatDuration(log.Total(day))))
		b.WriteString("\n")
	}
	_, err := io.WriteString(w, b.String())
	return err
}

func renderCSV(w io.Writer, log *model.DailyLog) error {
	var b strings.Builder
	b.WriteString("date,description,branch,commit,start,end,duration_minutes\n")
	for _, day := range log.Days() {
		for _, e := range log.Entries(day) {
			fmt.Fprintf(&b, "%s,%s,%s,%s,%s,%s,%d\n",
				csvEscape(day),
				csvEscape(e.Description),
				csvEscape(e.Branch),
				csvEscape(e.CommitHash),
				csvEscape(e.Start.Format(time.RFC3339)),
				csvEscape(e.End.Format(time.RFC3339)),
				int64(e.Duration()/time.Minute),
			)
		}
	}
	_, err := io.WriteString(w, b.String())
	return err
}

type jsonDay struct {
	Date    string                 `json:"date"`
	Total   int64                  `json:"total_seconds"`
	Entries []model.TimeEntryDraft `json:"entries"`
}

func renderJSON(w io.Writer, log *model.DailyLog) error {
	days := make([]jsonDay, 0, len(log.Days()))
	for _, day := range log.Days() {
		days = append(days, jsonDay{
			Date:    day,
			Total:   int64(log.Total(day) / time.Second),
			Entries: log.Entries(day),
		})
	}
	data, err := json.MarshalIndent(days, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding JSON: %w", err)
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

// csvEscape wraps a field in quotes if it contains a comma, quote, or newline.
func csvEscape(s string) string {
	if !strings.ContainsAny(s, ",\"\n\r") {
		return s
	}
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}
