// Package env resolves CIPHERLAB_* environment variables. The older
// CLASSIC_* spelling still works but logs a deprecation warning once per
// variable.
package env

import (
	"log/slog"
	"os"
	"strings"
	"sync"
)

const (
	Prefix       = "CIPHERLAB_"
	LegacyPrefix = "CLASSIC_"
)

type deprecations struct {
	mu     sync.Mutex
	logger *slog.Logger
	seen   map[string]bool
}

var legacy = &deprecations{seen: make(map[string]bool)}

func (d *deprecations) note(oldKey, newKey string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.seen[oldKey] {
		return
	}
	d.seen[oldKey] = true
	logger := d.logger
	if logger == nil {
		logger = slog.Default()
	}
	logger.Warn("deprecated environment variable", "key", oldKey, "replacement", newKey)
}

// Lookup prefers newKey and falls back to oldKey when it is non-empty.
func Lookup(newKey, oldKey string) (string, bool) {
	if v, ok := os.LookupEnv(newKey); ok {
		return v, true
	}
	if oldKey == "" {
		return "", false
	}
	v, ok := os.LookupEnv(oldKey)
	if ok {
		legacy.note(oldKey, newKey)
	}
	return v, ok
}

// Get resolves Prefix+name then LegacyPrefix+name. A blank value counts as
// unset.
func Get(name string) (string, bool) {
	v, _ := Lookup(Prefix+name, LegacyPrefix+name)
	v = strings.TrimSpace(v)
	return v, v != ""
}

// SetLogger routes deprecation warnings to l and forgets which keys were
// already reported. The returned func restores the previous state.
func SetLogger(l *slog.Logger) (restore func()) {
	legacy.mu.Lock()
	prevLogger, prevSeen := legacy.logger, legacy.seen
	legacy.logger, legacy.seen = l, make(map[string]bool)
	legacy.mu.Unlock()
	return func() {
		legacy.mu.Lock()
		legacy.logger, legacy.seen = prevLogger, prevSeen
		legacy.mu.Unlock()
	}
}
