package format

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
)

// Tabular values can be printed with the table format.
type Tabular interface {
	TableHeader() []string
	TableRows() [][]string
}

// Write writes v in the requested format.
//
// Supported formats:
// - json (default)
// - edn
// - table (only for Tabular values)
func Write(w io.Writer, v any, format string, pretty bool) error {
	switch format {
	case "", "json":
		return WriteJSON(w, v, pretty)
	case "edn":
		return WriteEDN(w, v, pretty)
	case "table":
		t, ok := v.(Tabular)
		if !ok {
			return fmt.Errorf("format: %T cannot be printed as a table", v)
		}
		return WriteTable(w, t)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}

// WriteJSON writes one JSON document followed by a newline.
func WriteJSON(w io.Writer, v any, pretty bool) error {
	var b []byte
	var err error
	if pretty {
		b, err = json.MarshalIndent(v, "", "  ")
	} else {
		b, err = json.Marshal(v)
	}
	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(w, string(b))
	return err
}

func WriteTable(w io.Writer, t Tabular) error {
	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	tw.SetStyle(table.StyleLight)

	header := table.Row{}
	for _, h := range t.TableHeader() {
		header = append(header, h)
	}
	tw.AppendHeader(header)
	for _, r := range t.TableRows() {
		row := table.Row{}
		for _, c := range r {
			row = append(row, c)
		}
		tw.AppendRow(row)
	}
	tw.Render()
	return nil
}
