package cmd

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// bootstrapLevel 启动阶段日志级别，--debug 或 DEBUG 环境变量打开 debug
var bootstrapLevel = zap.NewAtomicLevelAt(zapcore.InfoLevel)

// bootstrapLogger 在主日志器（配置文件中的 log 段）建立之前使用，输出到 stderr
var bootstrapLogger *zap.Logger

func init() {
	encoderConfig := zap.NewDevelopmentEncoderConfig()
	encoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	if os.Getenv("DEBUG") != "" {
		bootstrapLevel.SetLevel(zapcore.DebugLevel)
	}

	core := zapcore.NewCore(zapcore.NewConsoleEncoder(encoderConfig), zapcore.Lock(os.Stderr), bootstrapLevel)
	bootstrapLogger = zap.New(core).Named("fast-note-client")
}

// configureBootstrap 按全局参数调整启动日志器，在解析完命令行之后调用
func configureBootstrap(f *globalFlags) {
	if f.debug {
		bootstrapLevel.SetLevel(zapcore.DebugLevel)
	}
	bootstrapLogger.Debug("bootstrap",
		zap.String("config", f.config),
		zap.String("server", f.server),
		zap.String("lang", f.lang))
}
