package bitable

import "go.uber.org/zap"

// nopLogger is used whenever an options struct leaves Logger nil, so call
// sites never need a nil check before logging.
func nopLogger(l *zap.Logger) *zap.Logger {
	if l == nil {
		return zap.NewNop()
	}
	return l
}
