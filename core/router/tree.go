package router

// Radix tree implementation based on the original work by
// Armon Dadgar in https://github.com/armon/go-radix/blob/master/radix.go
// (MIT licensed). Heavily modified for use as a HTTP routing tree.

import (
	"fmt"
	"sort"
	"strings"

	"github.com/dmitrymomot/wirekit/core/message"
)

type nodeTyp uint8

const (
	ntStatic   nodeTyp = iota // /home
	ntTyped                   // /{id:int}
	ntParam                   // /{user}
	ntCatchAll                // /api/v1/*
)

// routeParams collects segment values while walking the tree. Raw and
// typed values are kept index-aligned; untyped segments hold a nil typed value.
type routeParams struct {
	Values []string
	Typed  []any
}

func (rp *routeParams) push(raw string, typed any) int {
	mark := len(rp.Values)
	rp.Values = append(rp.Values, raw)
	rp.Typed = append(rp.Typed, typed)
	return mark
}

func (rp *routeParams) truncate(mark int) {
	rp.Values = rp.Values[:mark]
	rp.Typed = rp.Typed[:mark]
}

type node struct {
	// converter for typed nodes
	conv Converter

	// route endpoints on the leaf node
	endpoints map[message.Method]*endpoint

	// prefix is the common prefix we ignore; for typed nodes it holds the type name
	prefix string

	// child nodes should be stored in-order for iteration,
	// in groups of the node type.
	children [ntCatchAll + 1]nodes

	// first byte of the child prefix
	tail byte

	// node type: static, typed, param, catchAll
	typ nodeTyp

	// first byte of the prefix
	label byte
}

type endpoint struct {
	route *Route

	// parameter keys recorded on handler nodes
	paramKeys []string
}

// segment describes the next wildcard segment of a pattern.
type segment struct {
	typ      nodeTyp
	key      string
	typeName string
	tail     byte
	start    int
	end      int
}

func (n *node) insertRoute(method message.Method, pattern string, ep *endpoint, types *ParamTypes) error {
	var parent *node
	search := pattern

	for {
		// Handle key exhaustion
		if len(search) == 0 {
			return n.setEndpoint(method, ep)
		}

		// We're going to be searching for a wild node next,
		// in this case, we need to get the tail
		label := search[0]
		var seg segment
		if label == '{' || label == '*' {
			seg, _ = patNextSegment(search) // validated by parsePattern
		}

		var prefix string
		if seg.typ == ntTyped {
			prefix = seg.typeName
		}

		// Look for the edge to attach to
		parent = n
		n = n.getEdge(seg.typ, label, seg.tail, prefix)

		// No edge, create one
		if n == nil {
			child := &node{label: label, tail: seg.tail, prefix: search}
			hn := parent.addChild(child, search, types)
			return hn.setEndpoint(method, ep)
		}

		if n.typ > ntStatic {
			// The wildcard segment is already on the tree, skip past it.
			search = search[seg.end:]
			continue
		}

		// Static nodes fall below here.
		// Determine longest prefix of the search key on match.
		commonPrefix := longestPrefix(search, n.prefix)
		if commonPrefix == len(n.prefix) {
			search = search[commonPrefix:]
			continue
		}

		// Split the node
		child := &node{
			typ:    ntStatic,
			prefix: search[:commonPrefix],
		}
		parent.replaceChild(search[0], seg.tail, child)

		// Restore the existing node
		n.label = n.prefix[commonPrefix]
		n.prefix = n.prefix[commonPrefix:]
		child.addChild(n, n.prefix, types)

		// If the new key is a subset, set the endpoint on this node and finish.
		search = search[commonPrefix:]
		if len(search) == 0 {
			return child.setEndpoint(method, ep)
		}

		// Create a new edge for the node
		subchild := &node{
			typ:    ntStatic,
			label:  search[0],
			prefix: search,
		}
		hn := child.addChild(subchild, search, types)
		return hn.setEndpoint(method, ep)
	}
}

// addChild appends the new `child` node to the tree using the `prefix` as the trie key.
func (n *node) addChild(child *node, prefix string, types *ParamTypes) *node {
	search := prefix

	// handler leaf node added to the tree is the child.
	// this may be overridden later down the flow
	hn := child

	seg, _ := patNextSegment(search)

	if seg.typ != ntStatic {
		if seg.typ == ntTyped {
			child.prefix = seg.typeName
			child.conv, _ = types.Lookup(seg.typeName)
		}

		if seg.start == 0 {
			// Route starts with a wildcard segment
			child.typ = seg.typ

			next := seg.end
			if seg.typ == ntCatchAll {
				next = len(search)
			}
			child.tail = seg.tail

			if next != len(search) {
				// Adjacent wildcard segments are impossible, so the
				// remainder starts with a static node.
				search = search[next:]

				nn := &node{
					typ:    ntStatic,
					label:  search[0],
					prefix: search,
				}
				hn = child.addChild(nn, search, types)
			}
		} else {
			// Starts with a static segment followed by a wildcard
			child.typ = ntStatic
			child.prefix = search[:seg.start]
			child.conv = nil

			search = search[seg.start:]

			nn := &node{
				typ:   seg.typ,
				label: search[0],
				tail:  seg.tail,
			}
			hn = child.addChild(nn, search, types)
		}
	}

	n.children[child.typ] = append(n.children[child.typ], child)
	n.children[child.typ].sort()
	return hn
}

func (n *node) replaceChild(label, tail byte, child *node) {
	for i := range n.children[child.typ] {
		if n.children[child.typ][i].label == label && n.children[child.typ][i].tail == tail {
			n.children[child.typ][i] = child
			n.children[child.typ][i].label = label
			n.children[child.typ][i].tail = tail
			return
		}
	}
	panic("router: replacing missing child")
}

func (n *node) getEdge(ntyp nodeTyp, label, tail byte, prefix string) *node {
	nds := n.children[ntyp]
	for i := range nds {
		if nds[i].label == label && nds[i].tail == tail {
			if ntyp == ntTyped && nds[i].prefix != prefix {
				continue
			}
			return nds[i]
		}
	}
	return nil
}

func (n *node) setEndpoint(method message.Method, ep *endpoint) error {
	if n.endpoints == nil {
		n.endpoints = make(map[message.Method]*endpoint)
	}
	if _, ok := n.endpoints[method]; ok {
		return fmt.Errorf("%w: %s %s", ErrDuplicateRoute, method, ep.route.Pattern)
	}
	n.endpoints[method] = ep
	return nil
}

// findRoute walks the tree in precedence order: static, typed, param,
// catch-all. A branch that fails deeper down is unwound and the next
// candidate is tried.
func (n *node) findRoute(method message.Method, path string, rp *routeParams) *endpoint {
	for t, nds := range n.children {
		if len(nds) == 0 {
			continue
		}

		switch ntyp := nodeTyp(t); ntyp {
		case ntStatic:
			var label byte
			if path != "" {
				label = path[0]
			}
			xn := nds.findEdge(label)
			if xn == nil || !strings.HasPrefix(path, xn.prefix) {
				continue
			}
			if ep := xn.descend(method, path[len(xn.prefix):], rp); ep != nil {
				return ep
			}

		case ntTyped, ntParam:
			if path == "" {
				continue
			}

			// serially loop through each node grouped by the tail delimiter
			for _, xn := range nds {
				p := strings.IndexByte(path, xn.tail)
				if p < 0 {
					if xn.tail != '/' {
						continue
					}
					p = len(path)
				}
				if p == 0 {
					continue
				}

				raw := path[:p]
				if strings.IndexByte(raw, '/') != -1 {
					// avoid a match across path segments
					continue
				}

				var typed any
				if ntyp == ntTyped {
					v, ok := xn.conv(raw)
					if !ok {
						continue
					}
					typed = v
				}

				mark := rp.push(raw, typed)
				if ep := xn.descend(method, path[p:], rp); ep != nil {
					return ep
				}
				rp.truncate(mark)
			}

		default:
			mark := rp.push(path, nil)
			if ep := nds[0].descend(method, "", rp); ep != nil {
				return ep
			}
			rp.truncate(mark)
		}
	}

	return nil
}

// descend continues matching below n once n consumed its part of the path.
func (n *node) descend(method message.Method, rest string, rp *routeParams) *endpoint {
	if rest == "" {
		if ep := n.endpoints[method]; ep != nil {
			return ep
		}
	}
	return n.findRoute(method, rest, rp)
}

func (n *node) routes() []*Route {
	var rts []*Route
	n.walk(func(eps map[message.Method]*endpoint) {
		for _, ep := range eps {
			rts = append(rts, ep.route)
		}
	})
	return rts
}

func (n *node) walk(fn func(eps map[message.Method]*endpoint)) {
	if n.endpoints != nil {
		fn(n.endpoints)
	}
	for _, ns := range n.children {
		for _, cn := range ns {
			cn.walk(fn)
		}
	}
}

// patNextSegment returns the next wildcard segment of a pattern. A pattern
// without one yields a static segment spanning the whole input.
func patNextSegment(pattern string) (segment, error) {
	ps := strings.IndexByte(pattern, '{')
	ws := strings.IndexByte(pattern, '*')

	if ps < 0 && ws < 0 {
		return segment{typ: ntStatic, end: len(pattern)}, nil
	}

	if ps >= 0 && ws >= 0 && ws < ps {
		return segment{}, ErrWildcardPosition
	}

	var tail byte = '/' // Default endpoint tail to / byte

	if ps >= 0 {
		pe := strings.IndexByte(pattern[ps:], '}')
		if pe < 0 {
			return segment{}, ErrParamDelimiter
		}
		pe += ps

		key := pattern[ps+1 : pe]
		pe++ // set end to next position

		if pe < len(pattern) {
			tail = pattern[pe]
		}

		seg := segment{typ: ntParam, tail: tail, start: ps, end: pe}
		var typed bool
		seg.key, seg.typeName, typed = strings.Cut(key, ":")
		if typed {
			seg.typ = ntTyped
		}
		return seg, nil
	}

	// Wildcard pattern as finale
	if ws < len(pattern)-1 {
		return segment{}, ErrWildcardPosition
	}
	return segment{typ: ntCatchAll, key: "*", start: ws, end: len(pattern)}, nil
}

// parsePattern validates pattern against types and returns its param keys in order.
func parsePattern(pattern string, types *ParamTypes) ([]string, error) {
	if pattern == "" || pattern[0] != '/' {
		return nil, fmt.Errorf("%w: '%s'", ErrInvalidPattern, pattern)
	}

	pat := pattern
	keys := []string{}
	for {
		seg, err := patNextSegment(pat)
		if err != nil {
			return nil, fmt.Errorf("%w: '%s'", err, pattern)
		}
		if seg.typ == ntStatic {
			return keys, nil
		}
		if seg.key == "" {
			return nil, fmt.Errorf("%w: '%s'", ErrEmptyParam, pattern)
		}
		if seg.typ == ntTyped {
			if _, ok := types.Lookup(seg.typeName); !ok {
				return nil, fmt.Errorf("%w: '%s' in '%s'", ErrUnknownParamType, seg.typeName, pattern)
			}
		}
		for i := range keys {
			if keys[i] == seg.key {
				return nil, fmt.Errorf("%w: '%s' has duplicate key '%s'", ErrDuplicateParam, pattern, seg.key)
			}
		}
		keys = append(keys, seg.key)
		pat = pat[seg.end:]
	}
}

// normalizePattern rewrites ":name" and ":name:type" segments to the brace form.
func normalizePattern(pattern string) string {
	if !strings.Contains(pattern, "/:") {
		return pattern
	}
	parts := strings.Split(pattern, "/")
	for i, part := range parts {
		if len(part) > 1 && part[0] == ':' {
			parts[i] = "{" + part[1:] + "}"
		}
	}
	return strings.Join(parts, "/")
}

// longestPrefix finds the length of the shared prefix
// of two strings
func longestPrefix(k1, k2 string) int {
	n := min(len(k1), len(k2))
	var i int
	for i = 0; i < n; i++ {
		if k1[i] != k2[i] {
			break
		}
	}
	return i
}

type nodes []*node

// sort the list of nodes by label
func (ns nodes) sort()              { sort.Sort(ns); ns.tailSort() }
func (ns nodes) Len() int           { return len(ns) }
func (ns nodes) Swap(i, j int)      { ns[i], ns[j] = ns[j], ns[i] }
func (ns nodes) Less(i, j int) bool { return ns[i].label < ns[j].label }

// tailSort pushes nodes with '/' as the tail to the end of the list for param nodes.
// The list order determines the traversal order.
func (ns nodes) tailSort() {
	for i := len(ns) - 1; i >= 0; i-- {
		if ns[i].typ > ntStatic && ns[i].tail == '/' {
			ns.Swap(i, len(ns)-1)
			return
		}
	}
}

func (ns nodes) findEdge(label byte) *node {
	num := len(ns)
	idx := 0
	i, j := 0, num-1
	for i <= j {
		idx = i + (j-i)/2
		if label > ns[idx].label {
			i = idx + 1
		} else if label < ns[idx].label {
			j = idx - 1
		} else {
			i = num // breaks cond
		}
	}
	if ns[idx].label != label {
		return nil
	}
	return ns[idx]
}
