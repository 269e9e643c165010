package domman

import (
	"runtime"
	"sync"
	"weak"

	"github.com/chrisuehlinger/domman/dom"
)

type sideEntry[V any] struct {
	value   V
	cleanup runtime.Cleanup
}

// sideTable associates values with nodes without keeping the nodes alive.
// An entry disappears once its node is garbage collected. A value that
// strongly references its own node, directly or through a closure, pins the
// node forever; hold such references weakly.
type sideTable[V any] struct {
	mu      sync.Mutex
	entries map[weak.Pointer[dom.Node]]*sideEntry[V]
}

func (t *sideTable[V]) get(n *dom.Node) (V, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	e, ok := t.entries[weak.Make(n)]
	if !ok {
		var zero V
		return zero, false
	}
	return e.value, true
}

func (t *sideTable[V]) getOrCreate(n *dom.Node, create func() V) V {
	key := weak.Make(n)
	t.mu.Lock()
	defer t.mu.Unlock()
	if e, ok := t.entries[key]; ok {
		return e.value
	}
	if t.entries == nil {
		t.entries = make(map[weak.Pointer[dom.Node]]*sideEntry[V])
	}
	e := &sideEntry[V]{value: create()}
	e.cleanup = runtime.AddCleanup(n, t.collect, key)
	t.entries[key] = e
	return e.value
}

func (t *sideTable[V]) set(n *dom.Node, v V) {
	key := weak.Make(n)
	t.mu.Lock()
	defer t.mu.Unlock()
	if e, ok := t.entries[key]; ok {
		e.value = v
		return
	}
	if t.entries == nil {
		t.entries = make(map[weak.Pointer[dom.Node]]*sideEntry[V])
	}
	t.entries[key] = &sideEntry[V]{value: v, cleanup: runtime.AddCleanup(n, t.collect, key)}
}

func (t *sideTable[V]) delete(n *dom.Node) {
	key := weak.Make(n)
	t.mu.Lock()
	defer t.mu.Unlock()
	if e, ok := t.entries[key]; ok {
		e.cleanup.Stop()
		delete(t.entries, key)
	}
}

func (t *sideTable[V]) collect(key weak.Pointer[dom.Node]) {
	t.mu.Lock()
	delete(t.entries, key)
	t.mu.Unlock()
}

func (t *sideTable[V]) len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.entries)
}

// nodes returns the live nodes that have an entry.
func (t *sideTable[V]) nodes() []*dom.Node {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]*dom.Node, 0, len(t.entries))
	for key := range t.entries {
		if n := key.Value(); n != nil {
			out = append(out, n)
		}
	}
	return out
}
