// Package logger 基于 zerolog 的进程级日志
package logger

import (
	"io"
	"os"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
)

// Options 日志选项
type Options struct {
	Level  string    // trace/debug/info/warn/error
	Format string    // console 或 json
	Writer io.Writer // 默认 os.Stderr
}

var (
	once sync.Once
	root atomic.Pointer[zerolog.Logger]
)

// Init 构建根日志，只在第一次调用时生效
func Init(opt Options) {
	once.Do(func() {
		zerolog.TimeFieldFormat = time.RFC3339

		var w io.Writer = os.Stderr
		if opt.Writer != nil {
			w = opt.Writer
		}
		if opt.Format != "json" {
			w = zerolog.ConsoleWriter{Out: w, TimeFormat: "15:04:05"}
		}

		log := zerolog.New(w).Level(ParseLevel(opt.Level)).With().Timestamp().Logger()
		root.Store(&log)
	})
}

// Get 返回根日志；未初始化时使用 info 级别的控制台输出
func Get() zerolog.Logger {
	if l := root.Load(); l != nil {
		return *l
	}
	Init(Options{Level: "info", Format: "console"})
	return *root.Load()
}

// Named 带 component 字段的子日志
func Named(component string) zerolog.Logger {
	return Get().With().Str("component", component).Logger()
}

// ParseLevel 解析日志级别，无法识别时为 info
func ParseLevel(s string) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "trace":
		return zerolog.TraceLevel
	case "debug":
		return zerolog.DebugLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}
