package logging

import (
	"context"
	"sync/atomic"
)

// MirrorFunc receives a copy of every record written through a Logger, after
// level filtering. It must not block.
type MirrorFunc func(ctx context.Context, level Level, msg string, args ...any)

type mirrorHolder struct {
	fn MirrorFunc
}

var activeMirror atomic.Pointer[mirrorHolder]

// SetMirror installs fn as the process-wide log mirror. nil detaches it.
func SetMirror(fn MirrorFunc) {
	if fn == nil {
		activeMirror.Store(nil)
		return
	}
	activeMirror.Store(&mirrorHolder{fn: fn})
}

func mirror(ctx context.Context, level Level, msg string, args []any) {
	holder := activeMirror.Load()
	if holder == nil {
		return
	}
	if ctx == nil {
		ctx = context.Background()
	}
	holder.fn(ctx, level, msg, args...)
}
