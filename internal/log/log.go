package log

import (
	"io"
	"log/slog"
)

// DefaultLevel 是未指定 --verbose 时的日志级别。
const DefaultLevel = slog.LevelWarn

// New 返回写入到 w 的 slog.Logger，级别由 level 控制（可在运行中调整）。
// 注意：stdout=数据，日志应始终写 stderr（由调用方传入）。
func New(w io.Writer, level *slog.LevelVar) *slog.Logger {
	if level == nil {
		level = NewLevel()
	}
	h := slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})
	return slog.New(h)
}

// NewLevel 返回初始为 DefaultLevel 的 LevelVar。
func NewLevel() *slog.LevelVar {
	lv := &slog.LevelVar{}
	lv.Set(DefaultLevel)
	return lv
}

// Discard 返回丢弃所有输出的 logger（测试与默认值用）。
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
