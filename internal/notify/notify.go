// Package notify 是所有用户可见提示的唯一出口
package notify

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/haierkeys/fast-note-client/pkg/code"
	apperrors "github.com/haierkeys/fast-note-client/pkg/errors"
	pkglogger "github.com/haierkeys/fast-note-client/pkg/logger"

	"go.uber.org/zap"
)

// Notifier writes one line per notification and mirrors it to the logger
// Notifier 每条提示输出一行，同时写入日志
type Notifier struct {
	mu     sync.Mutex
	out    io.Writer
	logger *zap.Logger
}

// New 创建 Notifier，out 为 nil 时输出到 stderr
func New(out io.Writer, lg *zap.Logger) *Notifier {
	if out == nil {
		out = os.Stderr
	}
	if lg == nil {
		lg = zap.NewNop()
	}
	return &Notifier{out: out, logger: lg}
}

// Error 提示一次失败
func (n *Notifier) Error(err error) {
	if err == nil {
		return
	}
	fields := []zap.Field{zap.Error(err)}
	msg := err.Error()
	if appErr := apperrors.GetAppError(err); appErr != nil {
		msg = appErr.Message
		fields = append(fields, zap.Int(pkglogger.FieldCode, appErr.Code))
		if appErr.TraceID != "" {
			fields = append(fields, zap.String(pkglogger.FieldTraceID, appErr.TraceID))
		}
		if len(appErr.Details) > 0 {
			msg += ": " + appErr.Details[0]
		}
	}
	n.logger.Warn("notify error", fields...)
	n.write("Error: " + msg)
}

// Success 提示成功信息
func (n *Notifier) Success(c *code.Code) {
	if c == nil {
		return
	}
	n.logger.Info("notify success", zap.Int(pkglogger.FieldCode, c.Code()))
	n.write(c.Msg())
}

// Info 普通提示
func (n *Notifier) Info(msg string) {
	n.write(msg)
}

func (n *Notifier) write(line string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	_, _ = fmt.Fprintln(n.out, line)
}
