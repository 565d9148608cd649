package cmd

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"reflect"
	"text/template"

	"github.com/deeporigin/deeporigin/pkg/managed"
	"github.com/fatih/color"
	"github.com/gosuri/uitable"
	"gopkg.in/yaml.v2"
)

const maxColWidth = 60

// printOutput renders data as JSON with --json, through a Go template with --format,
// or with the text renderer of the command.
//
// Templates apply to each element of a list.
func printOutput(data interface{}, text func(io.Writer) error) error {
	w := infoLogger.Writer()
	switch {
	case deepOriginFlags.output.json:
		return printJSON(w, data)
	case deepOriginFlags.output.format != "":
		return applyTemplate(deepOriginFlags.output.format, data)
	default:
		return text(w)
	}
}

func printJSON(w io.Writer, data interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}

func printYAML(w io.Writer, data interface{}) error {
	b, err := yaml.Marshal(data)
	if err != nil {
		return err
	}
	_, err = w.Write(b)
	return err
}

func applyTemplate(format string, data interface{}) error {
	tpl, err := template.New("format").Parse(format)
	if err != nil {
		return fmt.Errorf("parsing template: %w", err)
	}

	items := []interface{}{data}
	if v := reflect.ValueOf(data); v.Kind() == reflect.Slice {
		items = make([]interface{}, 0, v.Len())
		for i := 0; i < v.Len(); i++ {
			items = append(items, v.Index(i).Interface())
		}
	}
	for _, item := range items {
		var buf bytes.Buffer
		if err := tpl.Execute(&buf, item); err != nil {
			return fmt.Errorf("executing template: %w", err)
		}
		infoLogger.Println(buf.String())
	}
	return nil
}

func newTable(headers ...interface{}) *uitable.Table {
	table := uitable.New()
	table.MaxColWidth = maxColWidth
	table.AddRow(headers...)
	return table
}

func colorType(t managed.RowType) string {
	switch t {
	case managed.RowTypeWorkspace:
		return color.BlueString(string(t))
	case managed.RowTypeDatabase:
		return color.GreenString(string(t))
	default:
		return color.HiBlackString(string(t))
	}
}

func optional(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
