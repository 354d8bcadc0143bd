package output

import (
	"io"
	"os"

	"golang.org/x/term"
)

type Format string

const (
	FormatAuto  Format = "auto"
	FormatText  Format = "text"
	FormatTable Format = "table"
	FormatJSON  Format = "json"
	FormatYAML  Format = "yaml"
	FormatCSV   Format = "csv"
)

// Formats 返回所有合法格式名，供开关表的 Allowed 使用。
func Formats() []string {
	return []string{string(FormatText), string(FormatTable), string(FormatJSON), string(FormatYAML), string(FormatCSV), string(FormatAuto)}
}

func IsValid(f Format) bool {
	switch f {
	case FormatAuto, FormatText, FormatJSON, FormatYAML, FormatTable, FormatCSV:
		return true
	default:
		return false
	}
}

// Resolve 将 auto 落到具体格式：终端用 table，否则 text。
func Resolve(f Format, out io.Writer) Format {
	if f == "" {
		f = FormatAuto
	}
	if f != FormatAuto {
		return f
	}
	if isTerminal(out) {
		return FormatTable
	}
	return FormatText
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}
