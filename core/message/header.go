package message

import "strings"

// Header is a case-insensitive, multi-value header mapping.
// Names keep the spelling of their first insertion; values keep insertion order.
// The zero value is ready to use.
type Header struct {
	order  []string            // lower-cased keys, first-insertion order
	names  map[string]string   // lower-cased key -> display name
	values map[string][]string // lower-cased key -> values
}

// NewHeader creates a header from name/values pairs.
func NewHeader(pairs map[string][]string) Header {
	var h Header
	for name, vv := range pairs {
		for _, v := range vv {
			h.Add(name, v)
		}
	}
	return h
}

func (h *Header) init() {
	if h.values == nil {
		h.names = make(map[string]string)
		h.values = make(map[string][]string)
	}
}

// Add appends value to name.
func (h *Header) Add(name, value string) {
	h.init()
	key := strings.ToLower(name)
	if _, ok := h.values[key]; !ok {
		h.order = append(h.order, key)
		h.names[key] = name
	}
	h.values[key] = append(h.values[key], value)
}

// Set replaces all values of name.
func (h *Header) Set(name, value string) {
	h.Del(name)
	h.Add(name, value)
}

// Get returns the first value of name, or "".
func (h Header) Get(name string) string {
	if vv := h.values[strings.ToLower(name)]; len(vv) > 0 {
		return vv[0]
	}
	return ""
}

// Values returns every value of name in insertion order.
func (h Header) Values(name string) []string {
	return h.values[strings.ToLower(name)]
}

// Has reports whether name is present.
func (h Header) Has(name string) bool {
	_, ok := h.values[strings.ToLower(name)]
	return ok
}

// Del removes name.
func (h *Header) Del(name string) {
	key := strings.ToLower(name)
	if _, ok := h.values[key]; !ok {
		return
	}
	delete(h.values, key)
	delete(h.names, key)
	for i, k := range h.order {
		if k == key {
			h.order = append(h.order[:i], h.order[i+1:]...)
			break
		}
	}
}

// Len returns the number of distinct names.
func (h Header) Len() int {
	return len(h.order)
}

// Names returns display names in first-insertion order.
func (h Header) Names() []string {
	names := make([]string, len(h.order))
	for i, key := range h.order {
		names[i] = h.names[key]
	}
	return names
}

// Each calls fn for every name in insertion order.
func (h Header) Each(fn func(name string, values []string)) {
	for _, key := range h.order {
		fn(h.names[key], h.values[key])
	}
}

// Clone returns a deep copy.
func (h Header) Clone() Header {
	var c Header
	h.Each(func(name string, values []string) {
		for _, v := range values {
			c.Add(name, v)
		}
	})
	return c
}

// ContainsToken reports whether any comma-separated element of name equals token,
// ignoring case. Used for Connection and Transfer-Encoding.
func (h Header) ContainsToken(name, token string) bool {
	for _, v := range h.Values(name) {
		for _, part := range strings.Split(v, ",") {
			if strings.EqualFold(strings.TrimSpace(part), token) {
				return true
			}
		}
	}
	return false
}
