// Package logging 初始化全局 zerolog 日志
package logging

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gopkg.in/natefinch/lumberjack.v2"

	"pattern_chat/internal/config"
)

const (
	maxLogSizeMB  = 10
	maxLogBackups = 5
	maxLogAgeDays = 14
)

// Init 按配置设置全局日志，返回的 Closer 用于关闭日志文件
func Init(cfg config.LogConfig) (io.Closer, error) {
	zerolog.SetGlobalLevel(ParseLevel(cfg.Level))
	zerolog.TimeFieldFormat = time.RFC3339

	var out io.Writer = os.Stderr
	var closer io.Closer = nopCloser{}

	if path := strings.TrimSpace(cfg.File); path != "" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return closer, err
		}
		writer := &lumberjack.Logger{
			Filename:   path,
			MaxSize:    maxLogSizeMB,
			MaxBackups: maxLogBackups,
			MaxAge:     maxLogAgeDays,
			Compress:   true,
		}
		out = writer
		closer = writer
	}

	log.Logger = New(out, cfg.Format)
	zerolog.DefaultContextLogger = &log.Logger
	return closer, nil
}

// New 创建指定格式的日志器
func New(out io.Writer, format string) zerolog.Logger {
	if strings.EqualFold(strings.TrimSpace(format), "json") {
		return zerolog.New(out).With().Timestamp().Logger()
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: out, TimeFormat: time.DateTime}).With().Timestamp().Logger()
}

// ParseLevel 解析日志级别，未知值按 info 处理
func ParseLevel(level string) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
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

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
