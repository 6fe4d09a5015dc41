// Package logging builds the process-wide structured logger with
// go.uber.org/zap. The teacher itself never imports zap directly; it
// is adopted from the jordigilh-kubernaut example, whose go.mod
// requires it alongside the redis/gobreaker stack this module also
// borrows from that repo.
package logging

import (
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New builds a *zap.Logger. Production environments get JSON output at
// the configured level; anything else gets zap's human-readable
// development console encoder.
func New(environment, level string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(strings.ToLower(level))
	if err != nil {
		lvl = zapcore.InfoLevel
	}

	var cfg zap.Config
	if strings.EqualFold(environment, "production") {
		cfg = zap.NewProductionConfig()
	} else {
		cfg = zap.NewDevelopmentConfig()
	}
	cfg.Level = zap.NewAtomicLevelAt(lvl)

	return cfg.Build()
}
