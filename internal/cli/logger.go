package cli

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// initLogger 初始化日志
//
// 控制台日志写到 stderr, stdout 只留给进度信息和车辆 JSON.
// logFile 非空时另外写一份 JSON 日志到滚动文件.
func initLogger(debug bool, logFile, version string) (*zap.Logger, func(), error) {
	var config zap.Config
	if debug {
		config = zap.NewDevelopmentConfig()
		config.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	} else {
		config = zap.NewProductionConfig()
		config.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	}

	logger, err := config.Build()
	if err != nil {
		return nil, nil, fmt.Errorf("build logger: %w", err)
	}

	logger = logger.With(zap.String("app", "fleetvehicles"), zap.String("ver", version))

	if logFile == "" {
		return logger, func() { _ = logger.Sync() }, nil
	}

	rotating := &lumberjack.Logger{
		Filename:   logFile,
		MaxSize:    10, // MB
		MaxBackups: 3,
		MaxAge:     28, // days
	}

	fileLevel := zap.InfoLevel
	if debug {
		fileLevel = zap.DebugLevel
	}

	fileCore := zapcore.NewCore(
		zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig()),
		zapcore.AddSync(rotating),
		fileLevel,
	)

	logger = logger.WithOptions(zap.WrapCore(func(core zapcore.Core) zapcore.Core {
		return zapcore.NewTee(core, fileCore)
	}))

	return logger, func() {
		_ = logger.Sync()
		_ = rotating.Close()
	}, nil
}
