// Package table provides common table formatting utilities for CLI commands.
package table

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/agentstation/eventmap/internal/cmd/emoji"
	"github.com/agentstation/eventmap/pkg/countries"
	"github.com/agentstation/eventmap/pkg/events"
	"github.com/agentstation/eventmap/pkg/reconcile"
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
	ColumnAlignment []Align // Optional: column alignment
}

// EventsToTableData converts records to table format. Wide adds the
// category, coordinates and description columns.
func EventsToTableData(records []*events.Record, wide bool) Data {
	headers := []string{"ID", "Country", "Code", "Year", "Title"}
	align := []Align{AlignLeft, AlignLeft, AlignCenter, AlignRight, AlignLeft}
	if wide {
		headers = append(headers, "Category", "Coordinates", "Description")
		align = append(align, AlignLeft, AlignRight, AlignLeft)
	}

	rows := make([][]string, 0, len(records))
	for _, rec := range records {
		row := []string{
			rec.ID,
			orDash(rec.CountryName),
			orDash(rec.CountryCode),
			orDash(rec.Year.String()),
			Truncate(rec.Title, 60),
		}
		if wide {
			coords := "-"
			if rec.HasCoordinates() {
				coords = fmt.Sprintf("%.4f, %.4f", rec.Lat, rec.Lon)
			}
			row = append(row, orDash(rec.Category), coords, Truncate(rec.Description, 80))
		}
		rows = append(rows, row)
	}

	return Data{Headers: headers, Rows: rows, ColumnAlignment: align}
}

// DefinitionsToTableData converts country definitions to table format.
func DefinitionsToTableData(defs []countries.Definition) Data {
	rows := make([][]string, 0, len(defs))
	for _, d := range defs {
		rows = append(rows, []string{
			d.CanonicalName,
			orDash(d.ISOCode),
			orDash(strings.Join(d.Aliases, ", ")),
		})
	}
	return Data{
		Headers:         []string{"Country", "ISO", "Aliases"},
		Rows:            rows,
		ColumnAlignment: []Align{AlignLeft, AlignCenter, AlignLeft},
	}
}

// CollisionsToTableData converts alias collisions to table format.
func CollisionsToTableData(collisions []countries.Collision) Data {
	rows := make([][]string, 0, len(collisions))
	for _, c := range collisions {
		rows = append(rows, []string{c.Alias, c.Key, c.Winner.Name, c.Loser.Name})
	}
	return Data{
		Headers: []string{"Alias", "Key", "Kept", "Ignored"},
		Rows:    rows,
	}
}

// Resolution is the outcome of canonicalizing one raw name.
type Resolution struct {
	Input    string `json:"input" yaml:"input"`
	Name     string `json:"name,omitempty" yaml:"name,omitempty"`
	ISOCode  string `json:"iso_code,omitempty" yaml:"iso_code,omitempty"`
	Resolved bool   `json:"resolved" yaml:"resolved"`
}

// ResolutionsToTableData converts canonicalization results to table format.
func ResolutionsToTableData(results []Resolution) Data {
	rows := make([][]string, 0, len(results))
	for _, r := range results {
		status := emoji.Success
		if !r.Resolved {
			status = emoji.Error
		}
		rows = append(rows, []string{status, r.Input, orDash(r.Name), orDash(r.ISOCode)})
	}
	return Data{
		Headers:         []string{"", "Input", "Canonical", "ISO"},
		Rows:            rows,
		ColumnAlignment: []Align{AlignCenter, AlignLeft, AlignLeft, AlignCenter},
	}
}

// IssuesToTableData converts consistency issues to table format.
func IssuesToTableData(issues []reconcile.Issue) Data {
	rows := make([][]string, 0, len(issues))
	for _, issue := range issues {
		sym := emoji.Warning
		if issue.Severity == reconcile.SeverityError {
			sym = emoji.Error
		}
		rows = append(rows, []string{
			sym,
			string(issue.Kind),
			orDash(issue.EventID),
			issue.Message,
		})
	}
	return Data{
		Headers:         []string{"", "Kind", "Event", "Message"},
		Rows:            rows,
		ColumnAlignment: []Align{AlignCenter, AlignLeft, AlignLeft, AlignLeft},
	}
}

// GroupsToTableData converts probable-duplicate groups to table format.
func GroupsToTableData(groups []reconcile.ProbableGroup) Data {
	rows := make([][]string, 0, len(groups))
	for _, g := range groups {
		reasons := make([]string, len(g.Reasons))
		for i, r := range g.Reasons {
			reasons[i] = string(r)
		}
		rows = append(rows, []string{
			g.Country,
			g.Year,
			strings.Join(g.IDs, "\n"),
			strings.Join(g.Titles, "\n"),
			strings.Join(reasons, ", "),
		})
	}
	return Data{
		Headers: []string{"Country", "Year", "IDs", "Titles", "Reasons"},
		Rows:    rows,
	}
}

// StatisticsToTableData converts pass statistics to a two-column table.
func StatisticsToTableData(s reconcile.Statistics) Data {
	pairs := []struct {
		name  string
		value int
	}{
		{"Events in", s.EventsIn},
		{"Events out", s.EventsOut},
		{"Countries renamed", s.CountriesRenamed},
		{"Names trimmed", s.NamesTrimmed},
		{"Codes filled", s.CodesFilled},
		{"Codes standardized", s.CodesStandardized},
		{"Decades updated", s.DecadesUpdated},
		{"Duplicates removed", s.DuplicatesRemoved},
		{"Merge operations", s.MergeOperations},
		{"Categories added", s.CategoriesAdded},
	}
	rows := make([][]string, 0, len(pairs))
	for _, p := range pairs {
		rows = append(rows, []string{p.name, FormatNumber(p.value)})
	}
	return Data{
		Headers:         []string{"Statistic", "Count"},
		Rows:            rows,
		ColumnAlignment: []Align{AlignLeft, AlignRight},
	}
}

// FormatNumber formats large numbers with comma separators.
func FormatNumber(n int) string {
	str := strconv.Itoa(n)
	neg := strings.HasPrefix(str, "-")
	if neg {
		str = str[1:]
	}
	if len(str) <= 3 {
		if neg {
			return "-" + str
		}
		return str
	}

	var b strings.Builder
	if neg {
		b.WriteByte('-')
	}
	for i, r := range str {
		if i > 0 && (len(str)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	return b.String()
}

// Truncate shortens s to at most n runes, ending in "..." when cut.
func Truncate(s string, n int) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return "-"
	}
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	r := []rune(s)
	return string(r[:n-3]) + "..."
}

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}
