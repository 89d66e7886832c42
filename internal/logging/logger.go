// Package logging builds the process zap logger and hands out one named child
// logger per subsystem. Categories can be switched off individually from the
// logging section of the config.
package logging

import (
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Category represents a log category/system
type Category string

const (
	CategoryBoot     Category = "boot"     // config, clock and wiring
	CategoryReport   Category = "report"   // use cases and aggregation
	CategoryScrapbox Category = "scrapbox" // API reads
	CategoryBrowser  Category = "browser"  // go-rod poster
	CategoryHistory  Category = "history"  // post ledger
)

// Options mirrors config.LoggingConfig to avoid an import cycle.
type Options struct {
	Level   string
	Format  string // json or console
	File    string
	Verbose bool
}

// New builds the root logger. Verbose forces debug level.
func New(opts Options) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	if opts.Format == "console" {
		cfg.Encoding = "console"
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
		cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	}

	level := zapcore.InfoLevel
	if opts.Level != "" {
		if err := level.UnmarshalText([]byte(opts.Level)); err != nil {
			return nil, fmt.Errorf("invalid log level %q: %w", opts.Level, err)
		}
	}
	if opts.Verbose {
		level = zapcore.DebugLevel
	}
	cfg.Level = zap.NewAtomicLevelAt(level)

	if opts.File != "" {
		cfg.OutputPaths = append(cfg.OutputPaths, opts.File)
	}
	return cfg.Build()
}

// Registry caches one child logger per category.
type Registry struct {
	base    *zap.Logger
	enabled func(category string) bool

	mu      sync.RWMutex
	loggers map[Category]*zap.Logger
}

// NewRegistry wraps base. A category for which enabled reports false gets a
// no-op logger; a nil enabled turns every category on.
func NewRegistry(base *zap.Logger, enabled func(category string) bool) *Registry {
	if base == nil {
		base = zap.NewNop()
	}
	if enabled == nil {
		enabled = func(string) bool { return true }
	}
	return &Registry{
		base:    base,
		enabled: enabled,
		loggers: make(map[Category]*zap.Logger),
	}
}

// Get returns the logger for a category.
func (r *Registry) Get(cat Category) *zap.Logger {
	r.mu.RLock()
	l, ok := r.loggers[cat]
	r.mu.RUnlock()
	if ok {
		return l
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if l, ok := r.loggers[cat]; ok {
		return l
	}
	if r.enabled(string(cat)) {
		l = r.base.Named(string(cat))
	} else {
		l = zap.NewNop()
	}
	r.loggers[cat] = l
	return l
}

// Sync flushes the base logger.
func (r *Registry) Sync() error {
	return r.base.Sync()
}

// Timer measures one operation.
type Timer struct {
	logger *zap.Logger
	op     string
	start  time.Time
}

// StartTimer begins timing an operation
func (r *Registry) StartTimer(cat Category, operation string) *Timer {
	return &Timer{logger: r.Get(cat), op: operation, start: time.Now()}
}

// StopWithThreshold ends the timer. It logs a warning if the operation took
// longer than threshold and the duration at debug level otherwise.
func (t *Timer) StopWithThreshold(threshold time.Duration) time.Duration {
	elapsed := time.Since(t.start)
	if elapsed > threshold {
		t.logger.Warn("operation slow",
			zap.String("op", t.op),
			zap.Duration("elapsed", elapsed),
			zap.Duration("threshold", threshold))
		return elapsed
	}
	t.logger.Debug("operation completed", zap.String("op", t.op), zap.Duration("elapsed", elapsed))
	return elapsed
}
