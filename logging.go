package onsen

import "go.uber.org/zap"

// nopLogger is shared by every pool created without an explicit
// WithLogger option, the same nil-safe-default posture the teacher's
// allocator.Config uses for its boolean feature flags.
var nopLogger = zap.NewNop()

func loggerOrNop(l *zap.Logger) *zap.Logger {
	if l == nil {
		return nopLogger
	}

	return l
}
