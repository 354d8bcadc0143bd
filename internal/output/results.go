package output

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/zx06/wmicmd/internal/wmi"
)

// HostResult 是单个主机的查询结果。Error 非空时 Objects 为空。
type HostResult struct {
	Host    string       `json:"host" yaml:"host"`
	Objects []wmi.Object `json:"objects" yaml:"objects"`
	Error   string       `json:"error,omitempty" yaml:"error,omitempty"`
}

// ResultOptions 控制 text/table/csv 下的结果展示。
type ResultOptions struct {
	ShowHost  bool
	ShowTypes bool
	NoFormat  bool
	Align     bool
}

// WriteResults 按格式输出查询结果。json/yaml 使用信封。
func (w Writer) WriteResults(format Format, results []HostResult, opts ResultOptions) error {
	switch f := Resolve(format, w.Out); f {
	case FormatJSON, FormatYAML:
		return w.write(f, OK(results))
	case FormatText:
		return writeResultText(w.Out, w.Err, results, opts)
	case FormatTable, FormatCSV:
		headers, rows := resultRows(results, opts)
		for _, r := range results {
			if r.Error != "" {
				_, _ = fmt.Fprintf(w.Err, "ERROR: %s: %s\n", r.Host, r.Error)
			}
		}
		if len(rows) == 0 {
			return nil
		}
		if f == FormatCSV {
			return writeCSV(w.Out, headers, rows)
		}
		return writePretty(w.Out, headers, rows)
	default:
		return w.write(f, Envelope{})
	}
}

// writeResultText 每个对象一组 Name=Value 行，对象之间空一行。
func writeResultText(out, errOut io.Writer, results []HostResult, opts ResultOptions) error {
	first := true
	for _, r := range results {
		if r.Error != "" {
			_, _ = fmt.Fprintf(errOut, "ERROR: %s: %s\n", r.Host, r.Error)
			continue
		}
		for _, obj := range r.Objects {
			if !first {
				if _, err := fmt.Fprintln(out); err != nil {
					return err
				}
			}
			first = false

			width := 0
			if opts.Align {
				for _, p := range obj.Properties {
					width = max(width, len(p.Name))
				}
			}
			for _, p := range obj.Properties {
				var b strings.Builder
				if opts.ShowHost {
					b.WriteString(r.Host)
					b.WriteString(":")
				}
				b.WriteString(p.Name)
				if pad := width - len(p.Name); pad > 0 {
					b.WriteString(strings.Repeat(" ", pad))
				}
				b.WriteString("=")
				b.WriteString(FormatValue(p, opts.NoFormat))
				if opts.ShowTypes {
					b.WriteString(" [")
					b.WriteString(p.Type)
					b.WriteString("]")
				}
				if _, err := fmt.Fprintln(out, b.String()); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

// resultRows 把所有对象压平为行；列是属性名按首次出现顺序的并集。
func resultRows(results []HostResult, opts ResultOptions) ([]string, [][]string) {
	var names []string
	types := map[string]string{}
	for _, r := range results {
		for _, obj := range r.Objects {
			for _, p := range obj.Properties {
				if _, ok := types[p.Name]; !ok {
					types[p.Name] = p.Type
					names = append(names, p.Name)
				}
			}
		}
	}

	var headers []string
	if opts.ShowHost {
		headers = append(headers, "Host")
	}
	for _, n := range names {
		if opts.ShowTypes {
			headers = append(headers, n+" ["+types[n]+"]")
		} else {
			headers = append(headers, n)
		}
	}

	var rows [][]string
	for _, r := range results {
		for _, obj := range r.Objects {
			values := make(map[string]string, len(obj.Properties))
			for _, p := range obj.Properties {
				values[p.Name] = FormatValue(p, opts.NoFormat)
			}
			row := make([]string, 0, len(headers))
			if opts.ShowHost {
				row = append(row, r.Host)
			}
			for _, n := range names {
				row = append(row, values[n])
			}
			rows = append(rows, row)
		}
	}
	return headers, rows
}

const cimDateTimeLayout = "20060102150405"

// FormatValue 把属性值转为展示文本。raw 为 true 时原样输出。
func FormatValue(p wmi.Property, raw bool) string {
	if p.Value == nil {
		return ""
	}
	if raw {
		return fmt.Sprint(p.Value)
	}
	switch v := p.Value.(type) {
	case []any:
		parts := make([]string, len(v))
		for i, e := range v {
			parts[i] = FormatValue(wmi.Property{Type: strings.TrimSuffix(p.Type, "[]"), Value: e}, false)
		}
		return "{" + strings.Join(parts, ", ") + "}"
	case string:
		if p.Type == "datetime" {
			return formatDateTime(v)
		}
		return v
	case bool:
		if v {
			return "TRUE"
		}
		return "FALSE"
	default:
		return fmt.Sprint(v)
	}
}

// formatDateTime 处理 CIM_DATETIME（yyyymmddHHMMSS.mmmmmmsUUU），无法识别时原样返回。
func formatDateTime(s string) string {
	if len(s) < len(cimDateTimeLayout) {
		return s
	}
	t, err := time.Parse(cimDateTimeLayout, s[:len(cimDateTimeLayout)])
	if err != nil {
		return s
	}
	return t.Format(time.DateTime)
}
