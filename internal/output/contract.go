package output

import "github.com/zx06/wmicmd/internal/errors"

// SchemaVersion 随信封结构不兼容变更递增。
const SchemaVersion = 1

type ErrorObject struct {
	Code    errors.Code    `json:"code" yaml:"code"`
	Message string         `json:"message" yaml:"message"`
	Details map[string]any `json:"details,omitempty" yaml:"details,omitempty"`
}

// Envelope 是 json/yaml 输出的外层结构，CLI 与 MCP 共用。
type Envelope struct {
	OK            bool         `json:"ok" yaml:"ok"`
	SchemaVersion int          `json:"schema_version" yaml:"schema_version"`
	Error         *ErrorObject `json:"error,omitempty" yaml:"error,omitempty"`
	Data          any          `json:"data,omitempty" yaml:"data,omitempty"`
}

// OK 包装成功结果。
func OK(data any) Envelope {
	return Envelope{OK: true, SchemaVersion: SchemaVersion, Data: data}
}

// Failed 包装错误；message 为空时使用 xe.Message。
func Failed(xe *errors.XError, message string) Envelope {
	if message == "" {
		message = xe.Message
	}
	return Envelope{
		SchemaVersion: SchemaVersion,
		Error:         &ErrorObject{Code: xe.Code, Message: message, Details: xe.Details},
	}
}

// Tabular 由可按行展示的数据实现（table/csv/text 输出）。
type Tabular interface {
	TableData() (headers []string, rows [][]string)
}
