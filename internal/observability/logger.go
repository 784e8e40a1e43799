package observability

import (
	"github.com/google/uuid"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/lzjever/mbos-activity/internal/core"
)

// NewLogger builds a JSON production logger. Unknown levels fall back to info.
func NewLogger(level string, fields ...zap.Field) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		lvl = zapcore.InfoLevel
	}
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	log, err := cfg.Build()
	if err != nil {
		return nil, err
	}
	return log.With(fields...), nil
}

// SubjectLogger returns a child logger carrying the subject a request is about.
func SubjectLogger(base *zap.Logger, kind core.SubjectKind, id uuid.UUID, scope core.Scope) *zap.Logger {
	return base.With(
		zap.String("subject_kind", string(kind)),
		zap.String("subject_id", id.String()),
		zap.String("scope", scope.String()),
	)
}
