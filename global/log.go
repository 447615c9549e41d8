package global

import (
	"fmt"
	"os"
	"runtime"

	dumpx "github.com/gookit/goutil/dump"
	"go.uber.org/zap"
)

// Logger 主日志器，命令启动后赋值
var Logger *zap.Logger

func Log() *zap.Logger {
	if Logger == nil {
		return zap.NewNop()
	}
	return Logger
}

// Dump 调试输出到 stderr，不影响命令的标准输出
func Dump(a ...any) {
	_, file, line, ok := runtime.Caller(1)
	if ok {
		fmt.Fprintf(os.Stderr, "\033[32m%s:%d:\033[0m\n", file, line)
	}
	dumpx.Fprint(os.Stderr, a...)
}
