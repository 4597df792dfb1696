// Package logger 提供全局 zap 日志，控制台输出加可选的滚动文件输出
package logger

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

var (
	// globalLogger 缓存全局 zap.Logger，避免业务代码里重复创建
	globalLogger *zap.Logger
	once         sync.Once
)

// Options 日志初始化参数
type Options struct {
	Level      string
	FilePath   string
	MaxSize    int // 单文件上限，MB
	MaxBackups int
	MaxAge     int // 天
	Compress   bool
}

// Init 初始化全局日志记录器，多次调用只执行一次
// filePath 为空时只输出到控制台
func Init(filePath string) (*zap.Logger, error) {
	var initErr error
	once.Do(func() {
		opts := loadOptionsFromEnv()
		if opts.FilePath == "" {
			opts.FilePath = filePath
		}
		logger, err := buildLogger(opts)
		if err != nil {
			initErr = err
			return
		}
		globalLogger = logger
	})

	if initErr != nil {
		return nil, initErr
	}
	if globalLogger == nil {
		return nil, errors.New("logger not initialized")
	}
	return globalLogger, nil
}

// L 返回全局 zap.Logger，未初始化时退化为纯控制台日志
func L() *zap.Logger {
	if globalLogger != nil {
		return globalLogger
	}
	logger, err := Init("")
	if err != nil {
		panic(fmt.Sprintf("logger init failed: %v", err))
	}
	return logger
}

// S 返回 SugaredLogger，便于 handler/service 里写 Infow/Warnw
func S() *zap.SugaredLogger {
	return L().Sugar()
}

// Sync 刷新缓冲区，进程退出前调用
func Sync() {
	if globalLogger != nil {
		_ = globalLogger.Sync()
	}
}

// loadOptionsFromEnv 从环境变量解析日志配置，缺省回退到合理默认值
func loadOptionsFromEnv() Options {
	opts := Options{
		Level:      strings.ToLower(strings.TrimSpace(os.Getenv("ITEMMAP_LOG_LEVEL"))),
		FilePath:   strings.TrimSpace(os.Getenv("ITEMMAP_LOG_FILE")),
		MaxSize:    20,
		MaxBackups: 5,
		MaxAge:     15,
		Compress:   true,
	}
	if opts.Level == "" {
		opts.Level = "info"
	}
	return opts
}

// buildLogger 根据 Options 构建 zap.Logger
func buildLogger(opts Options) (*zap.Logger, error) {
	lvl := zapcore.InfoLevel
	if err := lvl.Set(opts.Level); err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", opts.Level, err)
	}

	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.EncodeTime = zapcore.TimeEncoderOfLayout(time.RFC3339)
	encoderCfg.TimeKey = "ts"
	encoderCfg.EncodeDuration = zapcore.StringDurationEncoder

	cores := []zapcore.Core{}

	// 文件输出，带滚动策略
	if opts.FilePath != "" {
		if dir := filepath.Dir(opts.FilePath); dir != "" && dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("logger create dir: %w", err)
			}
		}
		lumber := &lumberjack.Logger{
			Filename:   opts.FilePath,
			MaxSize:    opts.MaxSize,
			MaxBackups: opts.MaxBackups,
			MaxAge:     opts.MaxAge,
			Compress:   opts.Compress,
		}
		fileCore := zapcore.NewCore(
			zapcore.NewJSONEncoder(encoderCfg),
			zapcore.AddSync(lumber),
			lvl,
		)
		cores = append(cores, fileCore)
	}

	// 控制台输出，默认开启，便于本地调试
	consoleEncoderCfg := encoderCfg
	consoleEncoderCfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
	consoleCore := zapcore.NewCore(
		zapcore.NewConsoleEncoder(consoleEncoderCfg),
		zapcore.AddSync(os.Stdout),
		lvl,
	)
	cores = append(cores, consoleCore)

	logger := zap.New(zapcore.NewTee(cores...), zap.AddCaller())
	return logger, nil
}
