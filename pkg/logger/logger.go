package logger

import (
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

var (
	Logger *zap.Logger
	Sugar  *zap.SugaredLogger
)

// Options 日志配置
type Options struct {
	Level      string // debug|info|warn|error
	File       string // 为空时只输出到控制台
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
}

// InitLogger 初始化 zap 日志记录器并替换全局 logger
func InitLogger(opts Options) error {
	level := zapcore.DebugLevel
	if opts.Level != "" {
		if err := level.Set(strings.ToLower(opts.Level)); err != nil {
			return err
		}
	}

	core := zapcore.NewCore(getEncoder(), getLogWriter(opts), level)

	Logger = zap.New(core, zap.AddCaller())
	Sugar = Logger.Sugar()

	zap.ReplaceGlobals(Logger)
	return nil
}

// getEncoder 控制台编码，ISO8601 时间，大写彩色级别
func getEncoder() zapcore.Encoder {
	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	encoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	return zapcore.NewConsoleEncoder(encoderConfig)
}

// getLogWriter 同时写控制台和滚动文件
func getLogWriter(opts Options) zapcore.WriteSyncer {
	stdout := zapcore.AddSync(os.Stdout)
	if opts.File == "" {
		return stdout
	}

	lumberJackLogger := &lumberjack.Logger{
		Filename:   opts.File,
		MaxSize:    withDefault(opts.MaxSizeMB, 10),
		MaxBackups: withDefault(opts.MaxBackups, 5),
		MaxAge:     withDefault(opts.MaxAgeDays, 30),
		Compress:   false,
	}
	return zapcore.NewMultiWriteSyncer(stdout, zapcore.AddSync(lumberJackLogger))
}

func withDefault(v, def int) int {
	if v <= 0 {
		return def
	}
	return v
}
