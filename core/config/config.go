package config

import (
	"errors"
	"fmt"
	"io/fs"
	"reflect"
	"sync"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

var (
	dotenvOnce sync.Once
	cache      sync.Map // reflect.Type -> cached value
	loadMu     sync.Mutex
)

// DotenvFile is the file loaded into the process environment on first use.
// Variables already set in the environment win.
var DotenvFile = ".env"

func loadDotenv() {
	dotenvOnce.Do(func() {
		if err := godotenv.Load(DotenvFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			panic(fmt.Errorf("config: load %s: %w", DotenvFile, err))
		}
	})
}

// Load fills cfg from the environment. The first successful load of each
// type is cached and copied into later calls.
func Load[T any](cfg *T) error {
	typ := reflect.TypeFor[T]()
	if cached, ok := cache.Load(typ); ok {
		*cfg = cached.(T)
		return nil
	}

	loadMu.Lock()
	defer loadMu.Unlock()
	if cached, ok := cache.Load(typ); ok {
		*cfg = cached.(T)
		return nil
	}

	loadDotenv()
	var fresh T
	if err := env.Parse(&fresh); err != nil {
		return fmt.Errorf("config: parse %s: %w", typ, err)
	}
	cache.Store(typ, fresh)
	*cfg = fresh
	return nil
}

// MustLoad is Load that panics on failure.
func MustLoad[T any](cfg *T) {
	if err := Load(cfg); err != nil {
		panic(err)
	}
}

// LoadFrom fills cfg from environ only, without caching.
func LoadFrom[T any](cfg *T, environ map[string]string) error {
	var fresh T
	if err := env.ParseWithOptions(&fresh, env.Options{Environment: environ}); err != nil {
		return fmt.Errorf("config: parse %s: %w", reflect.TypeFor[T](), err)
	}
	*cfg = fresh
	return nil
}
