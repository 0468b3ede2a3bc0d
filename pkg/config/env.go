package config

import (
	"fmt"
	"os"
	"sync"

	"github.com/joho/godotenv"
)

// EnvLoader resolves environment variables from the process
// environment, falling back to values read from .env files.
type EnvLoader struct {
	mu   sync.RWMutex
	vars map[string]string
}

// NewEnvLoader creates an EnvLoader with no file values.
func NewEnvLoader() *EnvLoader {
	return &EnvLoader{vars: make(map[string]string)}
}

// Load reads a .env file. Later files override earlier ones;
// the process environment still takes precedence over both.
func (l *EnvLoader) Load(path string) error {
	vars, err := godotenv.Read(path)
	if err != nil {
		return fmt.Errorf("read env file %s: %w", path, err)
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	for k, v := range vars {
		l.vars[k] = v
	}
	return nil
}

// Get returns the value of key. A non-empty process variable
// wins over a file value.
func (l *EnvLoader) Get(key string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.vars[key]
}

// GetWithDefault returns the value of key, or defaultValue
// when it is unset or empty.
func (l *EnvLoader) GetWithDefault(key, defaultValue string) string {
	if v := l.Get(key); v != "" {
		return v
	}
	return defaultValue
}

// Set records a file-level value without touching the process
// environment.
func (l *EnvLoader) Set(key, value string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.vars[key] = value
}

// All returns a copy of the values read from files.
func (l *EnvLoader) All() map[string]string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make(map[string]string, len(l.vars))
	for k, v := range l.vars {
		out[k] = v
	}
	return out
}
