package bootstrap

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/lmittmann/tint"
	"gopkg.in/natefinch/lumberjack.v2"

	commonconfig "github.com/park285/llm-kakao-bots/answer-check-go/internal/common/config"
)

// NewLogger: 기본 slog 로거를 생성합니다. (stdout, tint 핸들러 사용)
func NewLogger() *slog.Logger {
	return slog.New(newTintHandler(os.Stdout, slog.LevelInfo, false))
}

// ParseLevel: "debug" 같은 문자열을 slog.Level 로 바꾼다. 알 수 없는 값은 Info.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// ConfigureLogger: 로그 설정에 맞는 로거를 만들고 slog 기본 로거로 지정합니다.
// LOG_DIR 이 있으면 stdout 과 함께 lumberjack 로테이션 파일에도 기록합니다.
// otelCorrelation 이 true 면 trace_id/span_id 가 자동으로 추가됩니다.
func ConfigureLogger(cfg commonconfig.LogConfig, fileName string, otelCorrelation bool) (*slog.Logger, error) {
	level := ParseLevel(cfg.Level)

	var handler slog.Handler
	var path string
	logDir := strings.TrimSpace(cfg.Dir)
	if logDir == "" {
		handler = newTintHandler(os.Stdout, level, false)
	} else {
		w, filePath, err := openLogFile(cfg, logDir, fileName)
		if err != nil {
			return nil, err
		}
		path = filePath
		handler = newTintHandler(io.MultiWriter(os.Stdout, w), level, true)
	}

	if otelCorrelation {
		handler = NewOTelHandler(handler)
	}

	logger := slog.New(handler)
	slog.SetDefault(logger)
	if path != "" {
		logger.Info("file_logging_enabled", slog.String("path", path), slog.Bool("otel_correlation", otelCorrelation))
	}
	return logger, nil
}

func openLogFile(cfg commonconfig.LogConfig, logDir, fileName string) (io.Writer, string, error) {
	if cfg.MaxSizeMB <= 0 || cfg.MaxBackups <= 0 || cfg.MaxAgeDays <= 0 {
		return nil, "", fmt.Errorf("invalid log config: size=%d backups=%d age_days=%d", cfg.MaxSizeMB, cfg.MaxBackups, cfg.MaxAgeDays)
	}
	if err := os.MkdirAll(logDir, 0o755); err != nil {
		return nil, "", fmt.Errorf("create log dir failed: %w", err)
	}

	logFile := &lumberjack.Logger{
		Filename:   filepath.Join(logDir, fileName),
		MaxSize:    cfg.MaxSizeMB,  // megabytes
		MaxBackups: cfg.MaxBackups, // files
		MaxAge:     cfg.MaxAgeDays, // days
		Compress:   cfg.Compress,
	}
	return logFile, logFile.Filename, nil
}

func newTintHandler(w io.Writer, level slog.Level, noColor bool) slog.Handler {
	return tint.NewHandler(w, &tint.Options{
		Level:      level,
		TimeFormat: time.RFC3339,
		AddSource:  true,
		NoColor:    noColor,
	})
}
