package router

import (
	"reflect"
	"strconv"
	"sync"

	"github.com/google/uuid"
)

// Converter turns a raw path segment into a typed value.
// Returning false makes the segment non-matching.
type Converter func(raw string) (any, bool)

// ParamTypes is a registry of typed path segment converters.
// Each entry is addressable by its pattern name ("int" in "{id:int}")
// and by the Go type it produces.
type ParamTypes struct {
	mu     sync.RWMutex
	byName map[string]Converter
	byType map[reflect.Type]string
}

// NewParamTypes returns a registry with the int, string and uuid types.
func NewParamTypes() *ParamTypes {
	p := &ParamTypes{
		byName: make(map[string]Converter),
		byType: make(map[reflect.Type]string),
	}
	RegisterParamType(p, "int", func(s string) (int, bool) {
		n, err := strconv.Atoi(s)
		return n, err == nil
	})
	RegisterParamType(p, "string", func(s string) (string, bool) {
		return s, s != ""
	})
	RegisterParamType(p, "uuid", func(s string) (uuid.UUID, bool) {
		id, err := uuid.Parse(s)
		return id, err == nil
	})
	return p
}

// RegisterParamType adds or replaces the converter for name and binds T to it.
func RegisterParamType[T any](p *ParamTypes, name string, conv func(string) (T, bool)) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.byName[name] = func(raw string) (any, bool) {
		v, ok := conv(raw)
		if !ok {
			return nil, false
		}
		return v, true
	}
	p.byType[reflect.TypeFor[T]()] = name
}

// Lookup returns the converter registered under name.
func (p *ParamTypes) Lookup(name string) (Converter, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	conv, ok := p.byName[name]
	return conv, ok
}

// ParamTypeName returns the pattern name bound to T.
func ParamTypeName[T any](p *ParamTypes) (string, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	name, ok := p.byType[reflect.TypeFor[T]()]
	return name, ok
}
