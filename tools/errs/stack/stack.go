package stack

import (
	"fmt"
	"runtime"
	"strconv"
	"strings"
)

// Error 包装底层错误并记录调用栈，方便日志定位
type Error struct {
	err    error
	frames []uintptr
}

// New 捕获调用栈；skip 为跳过的帧数（含 New 自身）
func New(err error, skip int) error {
	if err == nil {
		return nil
	}
	pcs := make([]uintptr, 32)
	n := runtime.Callers(skip, pcs)
	return &Error{err: err, frames: pcs[:n]}
}

func (e *Error) Error() string {
	return e.err.Error()
}

func (e *Error) Unwrap() error {
	return e.err
}

// Stack 渲染调用栈（懒生成，仅在打日志时调用）
func (e *Error) Stack() string {
	var sb strings.Builder
	frames := runtime.CallersFrames(e.frames)
	for {
		f, more := frames.Next()
		sb.WriteString(f.Function)
		sb.WriteString(" ")
		sb.WriteString(f.File)
		sb.WriteString(":")
		sb.WriteString(strconv.Itoa(f.Line))
		sb.WriteString("\n")
		if !more {
			break
		}
	}
	return sb.String()
}

func (e *Error) Format(s fmt.State, verb rune) {
	switch verb {
	case 'v':
		if s.Flag('+') {
			_, _ = fmt.Fprintf(s, "%s\n%s", e.err.Error(), e.Stack())
			return
		}
		fallthrough
	default:
		_, _ = fmt.Fprint(s, e.err.Error())
	}
}
