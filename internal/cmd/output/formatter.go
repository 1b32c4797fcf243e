// Package output renders command results as tables, JSON or YAML.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"reflect"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/mattn/go-isatty"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/agentstation/eventmap/internal/cmd/table"
)

// Format is an output format name as given to --format.
type Format string

// Output formats.
const (
	FormatTable Format = "table"
	FormatJSON  Format = "json"
	FormatYAML  Format = "yaml"
	FormatWide  Format = "wide"
)

// IsTable reports whether f renders as a table.
func (f Format) IsTable() bool {
	return f == FormatTable || f == FormatWide || f == ""
}

// ParseFormat validates s. The empty string is accepted and means auto.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case FormatTable, FormatJSON, FormatYAML, FormatWide, "":
		return f, nil
	}
	return "", fmt.Errorf("invalid format %q: must be one of: table, json, yaml, wide", s)
}

// DetectFormat returns the explicit format if set, otherwise table on a
// terminal and JSON when stdout is piped.
func DetectFormat(explicit string) Format {
	if explicit != "" {
		return Format(strings.ToLower(explicit))
	}
	fd := os.Stdout.Fd()
	if isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd) {
		return FormatTable
	}
	return FormatJSON
}

// Formatter writes data to w.
type Formatter interface {
	Format(w io.Writer, data any) error
}

// NewFormatter returns the formatter for format. Unknown formats render as
// a table.
func NewFormatter(format Format) Formatter {
	switch format {
	case FormatJSON:
		return &JSONFormatter{Indent: "  "}
	case FormatYAML:
		return &YAMLFormatter{}
	}
	return &TableFormatter{Wide: format == FormatWide}
}

// Print writes raw in format. Table formats render toTable's Data instead,
// when toTable is given.
func Print(w io.Writer, format Format, raw any, toTable func(wide bool) table.Data) error {
	if format.IsTable() && toTable != nil {
		return NewFormatter(format).Format(w, Data(toTable(format == FormatWide)))
	}
	return NewFormatter(format).Format(w, raw)
}

// JSONFormatter writes JSON without escaping HTML or non-ASCII text.
type JSONFormatter struct {
	Indent string
}

func (f *JSONFormatter) Format(w io.Writer, data any) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	if f.Indent != "" {
		enc.SetIndent("", f.Indent)
	}
	return enc.Encode(data)
}

// YAMLFormatter writes YAML. Data goes through encoding/json first so json
// tags and custom marshalers decide the keys.
type YAMLFormatter struct{}

func (f *YAMLFormatter) Format(w io.Writer, data any) error {
	var buf strings.Builder
	if err := (&JSONFormatter{}).Format(&buf, data); err != nil {
		return err
	}
	out, err := yaml.JSONToYAML([]byte(buf.String()))
	if err != nil {
		return err
	}
	_, err = w.Write(out)
	return err
}

// Data is a ready-made table.
type Data table.Data

// TableFormatter renders Data with tablewriter. Structs and slices of
// structs are turned into tables by reflection; anything else falls back
// to JSON.
type TableFormatter struct {
	Wide bool
}

func (f *TableFormatter) Format(w io.Writer, data any) error {
	switch v := data.(type) {
	case Data:
		return render(w, v)
	case table.Data:
		return render(w, Data(v))
	}
	if d, ok := reflectTable(data); ok {
		return render(w, d)
	}
	return (&JSONFormatter{Indent: "  "}).Format(w, data)
}

var twAlign = map[table.Align]tw.Align{
	table.AlignLeft:   tw.AlignLeft,
	table.AlignCenter: tw.AlignCenter,
	table.AlignRight:  tw.AlignRight,
}

func render(w io.Writer, data Data) error {
	var cfg tablewriter.Config
	if n := len(data.ColumnAlignment); n > 0 {
		per := make([]tw.Align, n)
		for i, a := range data.ColumnAlignment {
			if mapped, ok := twAlign[a]; ok {
				per[i] = mapped
			} else {
				per[i] = tw.Skip
			}
		}
		cfg.Header.Alignment = tw.CellAlignment{PerColumn: per}
		cfg.Row.Alignment = tw.CellAlignment{PerColumn: per}
	}

	t := tablewriter.NewTable(w, tablewriter.WithConfig(cfg))
	if len(data.Headers) > 0 {
		t.Header(cells(data.Headers)...)
	}
	for _, row := range data.Rows {
		if err := t.Append(cells(row)...); err != nil {
			return err
		}
	}
	return t.Render()
}

func cells(s []string) []any {
	out := make([]any, len(s))
	for i, v := range s {
		out[i] = v
	}
	return out
}

// reflectTable builds a column-per-field table from a slice of structs, or
// a Property/Value table from a single struct.
func reflectTable(data any) (Data, bool) {
	v := indirect(reflect.ValueOf(data))
	switch {
	case v.Kind() == reflect.Struct:
		cols := columns(v.Type())
		rows := make([][]string, 0, len(cols))
		for _, c := range cols {
			rows = append(rows, []string{c.title, fmt.Sprint(v.Field(c.index).Interface())})
		}
		return Data{Headers: []string{"Property", "Value"}, Rows: rows}, true

	case v.Kind() == reflect.Slice && v.Len() > 0:
		first := indirect(v.Index(0))
		if first.Kind() != reflect.Struct {
			return Data{}, false
		}
		cols := columns(first.Type())
		d := Data{Headers: make([]string, len(cols))}
		for i, c := range cols {
			d.Headers[i] = c.title
		}
		for i := 0; i < v.Len(); i++ {
			elem := indirect(v.Index(i))
			row := make([]string, len(cols))
			for j, c := range cols {
				if elem.IsValid() {
					row[j] = fmt.Sprint(elem.Field(c.index).Interface())
				}
			}
			d.Rows = append(d.Rows, row)
		}
		return d, true
	}
	return Data{}, false
}

func indirect(v reflect.Value) reflect.Value {
	for v.Kind() == reflect.Pointer || v.Kind() == reflect.Interface {
		if v.IsNil() {
			return reflect.Value{}
		}
		v = v.Elem()
	}
	return v
}

type column struct {
	index int
	title string
}

// columns lists the exported fields of t, titled from their json tag.
// Fields tagged "-" are left out.
func columns(t reflect.Type) []column {
	caser := cases.Title(language.English)
	var cols []column
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if !field.IsExported() {
			continue
		}
		name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
		switch name {
		case "-":
			continue
		case "":
			name = field.Name
		default:
			name = caser.String(strings.ReplaceAll(name, "_", " "))
		}
		cols = append(cols, column{index: i, title: name})
	}
	return cols
}
