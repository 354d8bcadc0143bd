package output

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/jedib0t/go-pretty/v6/table"
	"gopkg.in/yaml.v3"

	"github.com/zx06/wmicmd/internal/errors"
)

type Writer struct {
	Out io.Writer
	Err io.Writer
}

func New(out, err io.Writer) Writer {
	return Writer{Out: out, Err: err}
}

// WriteOK 输出成功结果。json/yaml 带信封；table/csv/text 需要 data 实现 Tabular。
func (w Writer) WriteOK(format Format, data any) error {
	return w.write(Resolve(format, w.Out), OK(data))
}

func (w Writer) WriteError(format Format, xe *errors.XError) error {
	return w.write(Resolve(format, w.Out), Failed(xe, ""))
}

func (w Writer) write(format Format, env Envelope) error {
	switch format {
	case FormatJSON:
		return writeJSON(w.Out, env)
	case FormatYAML:
		return writeYAML(w.Out, env)
	case FormatTable, FormatCSV, FormatText:
		if !env.OK {
			return writeErrorLines(w.Out, env.Error)
		}
		t, ok := env.Data.(Tabular)
		if !ok {
			return errors.New(errors.CodeInternal, "data cannot be rendered in this format", map[string]any{"format": string(format)})
		}
		headers, rows := t.TableData()
		switch format {
		case FormatTable:
			return writePretty(w.Out, headers, rows)
		case FormatCSV:
			return writeCSV(w.Out, headers, rows)
		default:
			return writeColumns(w.Out, headers, rows)
		}
	default:
		return errors.New(errors.CodeCfgInvalid, "invalid output format", map[string]any{"format": string(format)})
	}
}

func writeJSON(out io.Writer, v any) error {
	enc := json.NewEncoder(out)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeYAML(out io.Writer, v any) error {
	b, err := yaml.Marshal(v)
	if err != nil {
		return err
	}
	if _, err := out.Write(b); err != nil {
		return err
	}
	if len(b) == 0 || b[len(b)-1] != '\n' {
		_, _ = out.Write([]byte("\n"))
	}
	return nil
}

func writeErrorLines(out io.Writer, e *ErrorObject) error {
	if e == nil {
		return nil
	}
	_, err := fmt.Fprintf(out, "ERROR: %s (%s)\n", e.Message, e.Code)
	return err
}

func writePretty(out io.Writer, headers []string, rows [][]string) error {
	if len(headers) == 0 {
		return nil
	}
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	h := make(table.Row, len(headers))
	for i, name := range headers {
		h[i] = name
	}
	tw.AppendHeader(h)
	for _, row := range rows {
		r := make(table.Row, len(headers))
		for i := range headers {
			if i < len(row) {
				r[i] = row[i]
			} else {
				r[i] = ""
			}
		}
		tw.AppendRow(r)
	}
	_, err := fmt.Fprintln(out, tw.Render())
	return err
}

func writeCSV(out io.Writer, headers []string, rows [][]string) error {
	cw := csv.NewWriter(out)
	if err := cw.Write(headers); err != nil {
		return err
	}
	for _, row := range rows {
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func writeColumns(out io.Writer, headers []string, rows [][]string) error {
	tw := tabwriter.NewWriter(out, 0, 2, 2, ' ', 0)
	for i, name := range headers {
		if i > 0 {
			_, _ = fmt.Fprint(tw, "\t")
		}
		_, _ = fmt.Fprint(tw, name)
	}
	_, _ = fmt.Fprintln(tw)
	for _, row := range rows {
		for i, cell := range row {
			if i > 0 {
				_, _ = fmt.Fprint(tw, "\t")
			}
			_, _ = fmt.Fprint(tw, cell)
		}
		_, _ = fmt.Fprintln(tw)
	}
	return tw.Flush()
}
