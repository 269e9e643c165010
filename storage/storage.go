// Package storage implements Web Storage (localStorage and sessionStorage)
// with per-origin isolation. Local areas can be persisted to a JSON file.
package storage

import (
	"net/url"
	"os"
	"sort"
	"strings"
	"sync"

	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Kind selects local or session storage.
type Kind int

const (
	// Local storage survives Save/Load round trips.
	Local Kind = iota
	// Session storage lives as long as the Manager.
	Session
)

func (k Kind) String() string {
	if k == Local {
		return "localStorage"
	}
	return "sessionStorage"
}

// ErrQuotaExceeded is returned by SetItem when an origin's area would grow
// past the configured quota.
var ErrQuotaExceeded = errors.New("storage: quota exceeded")

// Event describes a change to a storage area. Key is empty for Clear.
type Event struct {
	Kind     Kind
	Origin   string
	Key      string
	OldValue string
	NewValue string
}

// Manager owns every storage area of a process.
type Manager struct {
	path  string
	quota int

	mu        sync.RWMutex
	areas     [2]map[string]map[string]string // kind -> origin -> key -> value
	listeners map[int]func(Event)
	nextID    int
}

// Option configures a Manager.
type Option func(*Manager)

// WithFile persists local storage to path. Existing contents are loaded
// by NewManager.
func WithFile(path string) Option {
	return func(m *Manager) { m.path = path }
}

// WithQuota limits each area to n bytes of keys plus values. Zero means
// unlimited.
func WithQuota(n int) Option {
	return func(m *Manager) { m.quota = n }
}

// NewManager creates a Manager. It fails only when a persistence file
// exists and cannot be read.
func NewManager(opts ...Option) (*Manager, error) {
	m := &Manager{listeners: make(map[int]func(Event))}
	m.areas[Local] = make(map[string]map[string]string)
	m.areas[Session] = make(map[string]map[string]string)
	for _, opt := range opts {
		opt(m)
	}
	if m.path != "" {
		if err := m.load(); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (m *Manager) load() error {
	data, err := os.ReadFile(m.path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return errors.Wrap(err, "read storage file")
	}
	if len(data) == 0 {
		return nil
	}
	local := make(map[string]map[string]string)
	if err := json.Unmarshal(data, &local); err != nil {
		return errors.Wrapf(err, "decode storage file %s", m.path)
	}
	m.areas[Local] = local
	return nil
}

// Save writes local storage to the persistence file, if one is configured.
func (m *Manager) Save() error {
	if m.path == "" {
		return nil
	}
	m.mu.RLock()
	data, err := json.MarshalIndent(m.areas[Local], "", "  ")
	m.mu.RUnlock()
	if err != nil {
		return errors.Wrap(err, "encode storage")
	}
	return errors.Wrap(os.WriteFile(m.path, data, 0o600), "write storage file")
}

// Subscribe registers fn to observe every change and returns a function
// that unregisters it.
func (m *Manager) Subscribe(fn func(Event)) (cancel func()) {
	m.mu.Lock()
	id := m.nextID
	m.nextID++
	m.listeners[id] = fn
	m.mu.Unlock()
	return func() {
		m.mu.Lock()
		delete(m.listeners, id)
		m.mu.Unlock()
	}
}

func (m *Manager) emit(ev Event) {
	m.mu.RLock()
	ids := make([]int, 0, len(m.listeners))
	for id := range m.listeners {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	fns := make([]func(Event), 0, len(ids))
	for _, id := range ids {
		fns = append(fns, m.listeners[id])
	}
	m.mu.RUnlock()
	for _, fn := range fns {
		fn(ev)
	}
}

// Area returns the storage area of kind for origin.
func (m *Manager) Area(kind Kind, origin string) *Area {
	return &Area{m: m, kind: kind, origin: origin}
}

// Origin returns the serialized origin (scheme://host:port) of u, or
// "null" for opaque origins.
func Origin(u *url.URL) string {
	if u == nil || u.Host == "" {
		return "null"
	}
	port := u.Port()
	if port == "" {
		switch u.Scheme {
		case "http":
			port = "80"
		case "https":
			port = "443"
		}
	}
	return strings.ToLower(u.Scheme) + "://" + strings.ToLower(u.Hostname()) + ":" + port
}

// Area is one origin's local or session storage.
type Area struct {
	m      *Manager
	kind   Kind
	origin string
}

func (a *Area) data() map[string]string {
	return a.m.areas[a.kind][a.origin]
}

// Length returns the number of stored items.
func (a *Area) Length() int {
	a.m.mu.RLock()
	defer a.m.mu.RUnlock()
	return len(a.data())
}

// Key returns the key at index in sorted key order.
func (a *Area) Key(index int) (string, bool) {
	keys := a.Keys()
	if index < 0 || index >= len(keys) {
		return "", false
	}
	return keys[index], true
}

// Keys returns every key, sorted.
func (a *Area) Keys() []string {
	a.m.mu.RLock()
	defer a.m.mu.RUnlock()
	keys := make([]string, 0, len(a.data()))
	for k := range a.data() {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// GetItem returns the value stored under key.
func (a *Area) GetItem(key string) (string, bool) {
	a.m.mu.RLock()
	defer a.m.mu.RUnlock()
	v, ok := a.data()[key]
	return v, ok
}

// SetItem stores value under key.
func (a *Area) SetItem(key, value string) error {
	a.m.mu.Lock()
	areas := a.m.areas[a.kind]
	data, ok := areas[a.origin]
	if !ok {
		data = make(map[string]string)
		areas[a.origin] = data
	}
	old, existed := data[key]
	if a.m.quota > 0 {
		size := len(key) + len(value)
		for k, v := range data {
			if k != key {
				size += len(k) + len(v)
			}
		}
		if size > a.m.quota {
			if len(data) == 0 {
				delete(areas, a.origin)
			}
			a.m.mu.Unlock()
			return errors.Wrapf(ErrQuotaExceeded, "set %q", key)
		}
	}
	data[key] = value
	a.m.mu.Unlock()
	if !existed || old != value {
		a.m.emit(Event{Kind: a.kind, Origin: a.origin, Key: key, OldValue: old, NewValue: value})
	}
	return nil
}

// RemoveItem deletes key. Missing keys are ignored.
func (a *Area) RemoveItem(key string) {
	a.m.mu.Lock()
	data := a.data()
	old, existed := data[key]
	if existed {
		delete(data, key)
		if len(data) == 0 {
			delete(a.m.areas[a.kind], a.origin)
		}
	}
	a.m.mu.Unlock()
	if existed {
		a.m.emit(Event{Kind: a.kind, Origin: a.origin, Key: key, OldValue: old})
	}
}

// Clear removes every item of the area.
func (a *Area) Clear() {
	a.m.mu.Lock()
	_, had := a.m.areas[a.kind][a.origin]
	delete(a.m.areas[a.kind], a.origin)
	a.m.mu.Unlock()
	if had {
		a.m.emit(Event{Kind: a.kind, Origin: a.origin})
	}
}
