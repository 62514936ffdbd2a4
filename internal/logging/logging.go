package logging

import (
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
)

// New builds the process logger. format is "text" or "json"; an unknown level
// falls back to info.
func New(w io.Writer, level, format string) *log.Logger {
	if w == nil {
		w = os.Stderr
	}
	opts := log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.DateTime,
		Level:           parseLevel(level, log.InfoLevel),
	}
	if strings.EqualFold(format, "json") {
		opts.Formatter = log.JSONFormatter
	}
	return log.NewWithOptions(w, opts)
}

// Discard returns a logger that drops everything. Used by tests.
func Discard() *log.Logger {
	return log.New(io.Discard)
}

// Factory hands out loggers tagged with a component name. Levels can be
// overridden per component.
type Factory struct {
	base   *log.Logger
	levels map[string]log.Level

	mu    sync.Mutex
	cache map[string]*log.Logger
}

func NewFactory(base *log.Logger, componentLevels map[string]string) *Factory {
	levels := make(map[string]log.Level, len(componentLevels))
	for id, lvl := range componentLevels {
		if l, err := log.ParseLevel(strings.TrimSpace(lvl)); err == nil {
			levels[strings.TrimSpace(id)] = l
		}
	}
	return &Factory{base: base, levels: levels, cache: make(map[string]*log.Logger)}
}

func (f *Factory) ForComponent(id string) *log.Logger {
	f.mu.Lock()
	defer f.mu.Unlock()
	if l, ok := f.cache[id]; ok {
		return l
	}
	l := f.base.With("component", id)
	if lvl, ok := f.levels[id]; ok {
		l.SetLevel(lvl)
	}
	f.cache[id] = l
	return l
}

func (f *Factory) Base() *log.Logger { return f.base }

func parseLevel(s string, def log.Level) log.Level {
	l, err := log.ParseLevel(strings.TrimSpace(s))
	if err != nil {
		return def
	}
	return l
}
