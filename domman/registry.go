package domman

import (
	"sort"
	"sync"
	"weak"

	"github.com/chrisuehlinger/domman/dom"
)

// Registration describes one handler bound on one root. An empty Selector
// is a direct binding; otherwise the handler is delegated to descendants
// of the root matching Selector.
type Registration struct {
	Type      string
	Namespace string
	Selector  string
	Handler   *Handler
	Capture   bool
	Once      bool
	Passive   bool
}

type entryFlags uint8

const (
	flagCapture entryFlags = 1 << iota
	flagOnce
)

// entryKey identifies a registration within one root's table. The handler
// is held weakly: handlers often close over their root.
type entryKey struct {
	eventType string
	selector  string
	namespace string
	handler   weak.Pointer[Handler]
	flags     entryFlags
}

func (k entryKey) capture() bool { return k.flags&flagCapture != 0 }
func (k entryKey) once() bool    { return k.flags&flagOnce != 0 }

// rootTable maps each registration to its dispatcher. The root's own
// listener list keeps the dispatcher alive.
type rootTable struct {
	entries map[entryKey]weak.Pointer[dom.Listener]
}

// Registry tracks the listeners installed by On so that Off can find them
// by type, namespace, selector or handler. Each distinct registration owns
// exactly one dispatcher listener on its root; registering it again reuses
// that dispatcher. Per-root tables are dropped as soon as they are empty.
// Nothing the registry holds keeps a root, its listeners or its handlers
// alive, so a detached root is collected with everything bound to it.
type Registry struct {
	mu    sync.Mutex
	roots sideTable[*rootTable]
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// Register installs reg on root. Registrations without a type or handler
// are ignored.
func (r *Registry) Register(root *dom.Node, reg Registration) {
	if root == nil || reg.Type == "" || reg.Handler == nil {
		return
	}
	key := entryKey{
		eventType: reg.Type,
		selector:  reg.Selector,
		namespace: reg.Namespace,
		handler:   weak.Make(reg.Handler),
	}
	if reg.Capture {
		key.flags |= flagCapture
	}
	if reg.Once {
		key.flags |= flagOnce
	}

	r.mu.Lock()
	table := r.roots.getOrCreate(root, func() *rootTable {
		return &rootTable{entries: make(map[entryKey]weak.Pointer[dom.Listener])}
	})
	var l *dom.Listener
	if wl, ok := table.entries[key]; ok {
		l = wl.Value()
	}
	if l == nil {
		l = r.dispatcher(key, reg.Handler)
		table.entries[key] = weak.Make(l)
	}
	r.mu.Unlock()

	// once listeners, delegated or not, are spent by the first event that
	// reaches the root
	root.AddEventListener(key.eventType, l, dom.ListenerOptions{
		Capture: reg.Capture,
		Once:    reg.Once,
		Passive: reg.Passive,
	})
}

// dispatcher builds the listener for key. It finds its root through the
// event's current target so the registry holds no reference to the root.
// The registry itself keeps h only through key's weak pointer.
func (r *Registry) dispatcher(key entryKey, h *Handler) *dom.Listener {
	return dom.NewListener(func(e *dom.Event) {
		root := e.CurrentTarget
		if root == nil {
			return
		}
		if key.once() {
			r.forget(root, key)
		}
		if key.selector == "" {
			h.call(e, root.AsElement())
			return
		}
		if match := delegateMatch(e.Target, root, key.selector); match != nil {
			h.call(e, match)
		}
	})
}

// delegateMatch returns the nearest ancestor-or-self of target matching
// selector, provided it is root or inside root. An invalid selector
// panics with the selector error, which event dispatch reports.
func delegateMatch(target, root *dom.Node, selector string) *dom.Element {
	if target == nil {
		return nil
	}
	el := target.AsElement()
	if el == nil {
		return nil
	}
	match, err := el.ClosestWithError(selector)
	if err != nil {
		panic(err)
	}
	if match == nil || !root.Contains(match.AsNode()) {
		return nil
	}
	return match
}

func (r *Registry) forget(root *dom.Node, key entryKey) {
	r.mu.Lock()
	defer r.mu.Unlock()
	table, ok := r.roots.get(root)
	if !ok {
		return
	}
	delete(table.entries, key)
	if len(table.entries) == 0 {
		r.roots.delete(root)
	}
}

type removed struct {
	key      entryKey
	listener weak.Pointer[dom.Listener]
}

// remove drops every entry of root matching match, uninstalls their
// listeners and prunes the root's table when it becomes empty.
func (r *Registry) remove(root *dom.Node, match func(entryKey) bool) int {
	if root == nil {
		return 0
	}
	r.mu.Lock()
	table, ok := r.roots.get(root)
	if !ok {
		r.mu.Unlock()
		return 0
	}
	var drop []removed
	for k, l := range table.entries {
		if match(k) {
			drop = append(drop, removed{k, l})
			delete(table.entries, k)
		}
	}
	if len(table.entries) == 0 {
		r.roots.delete(root)
	}
	r.mu.Unlock()

	for _, d := range drop {
		if l := d.listener.Value(); l != nil {
			root.RemoveEventListener(d.key.eventType, l, d.key.capture())
		}
	}
	return len(drop)
}

// RemoveType removes every registration of eventType on root, limited to
// namespace when it is not empty.
func (r *Registry) RemoveType(root *dom.Node, eventType, namespace string) int {
	return r.remove(root, func(k entryKey) bool {
		return k.eventType == eventType && (namespace == "" || k.namespace == namespace)
	})
}

// RemoveNamespace removes every registration in namespace on root,
// whatever its type or selector.
func (r *Registry) RemoveNamespace(root *dom.Node, namespace string) int {
	if namespace == "" {
		return 0
	}
	return r.remove(root, func(k entryKey) bool { return k.namespace == namespace })
}

// RemoveSelector removes the registrations delegated to selector. An empty
// eventType matches every type; an empty namespace every namespace.
func (r *Registry) RemoveSelector(root *dom.Node, eventType, selector, namespace string) int {
	if selector == "" || (eventType == "" && namespace == "") {
		return 0
	}
	return r.remove(root, func(k entryKey) bool {
		return k.selector == selector &&
			(eventType == "" || k.eventType == eventType) &&
			(namespace == "" || k.namespace == namespace)
	})
}

// RemoveHandler removes h bound for (eventType, selector) with the given
// capture flag. An empty namespace matches every namespace and a nil once
// matches both once states.
func (r *Registry) RemoveHandler(root *dom.Node, eventType, selector, namespace string, h *Handler, capture bool, once *bool) int {
	if h == nil || eventType == "" {
		return 0
	}
	wh := weak.Make(h)
	return r.remove(root, func(k entryKey) bool {
		return k.handler == wh &&
			k.eventType == eventType &&
			k.selector == selector &&
			k.capture() == capture &&
			(namespace == "" || k.namespace == namespace) &&
			(once == nil || k.once() == *once)
	})
}

// Len returns the number of registrations on root.
func (r *Registry) Len(root *dom.Node) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	table, ok := r.roots.get(root)
	if !ok {
		return 0
	}
	return len(table.entries)
}

// Roots returns the live nodes that have at least one registration.
func (r *Registry) Roots() []*dom.Node {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.roots.nodes()
}

// Registrations lists root's registrations ordered by type, selector and
// namespace.
func (r *Registry) Registrations(root *dom.Node) []Registration {
	r.mu.Lock()
	table, ok := r.roots.get(root)
	var out []Registration
	if ok {
		for k := range table.entries {
			out = append(out, Registration{
				Type:      k.eventType,
				Namespace: k.namespace,
				Selector:  k.selector,
				Handler:   k.handler.Value(),
				Capture:   k.capture(),
				Once:      k.once(),
			})
		}
	}
	r.mu.Unlock()
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Type != b.Type {
			return a.Type < b.Type
		}
		if a.Selector != b.Selector {
			return a.Selector < b.Selector
		}
		if a.Namespace != b.Namespace {
			return a.Namespace < b.Namespace
		}
		return !a.Once && b.Once
	})
	return out
}
