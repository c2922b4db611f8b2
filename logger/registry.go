package logger

import (
	"sync"
)

// Component names used by the streaming packages.
const (
	ComponentSubscription = "subscription"
	ComponentEventSource  = "eventsource"
)

// DefaultComponents are registered by RegisterDefaults.
var DefaultComponents = []string{ComponentSubscription, ComponentEventSource}

var registry = struct {
	mu      sync.RWMutex
	loggers map[string]*Logger
}{loggers: make(map[string]*Logger)}

// Register binds l to name. A later Get(name) returns l unchanged.
func Register(name string, l *Logger) {
	registry.mu.Lock()
	defer registry.mu.Unlock()
	registry.loggers[name] = l
}

// Get returns the logger bound to name, or the global logger tagged with
// name when nothing is bound. The fallback is not cached so it follows a
// later Init.
func Get(name string) *Logger {
	registry.mu.RLock()
	defer registry.mu.RUnlock()
	if l, ok := registry.loggers[name]; ok {
		return l
	}
	return GetGlobalLogger().WithComponent(name)
}

// RegisterDefaults binds every DefaultComponents name to the current global
// logger. Init calls made afterwards do not affect the bound loggers.
func RegisterDefaults() {
	base := GetGlobalLogger()
	registry.mu.Lock()
	defer registry.mu.Unlock()
	for _, name := range DefaultComponents {
		registry.loggers[name] = base.WithComponent(name)
	}
}
