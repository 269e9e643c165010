package domman

import (
	"net/url"

	"github.com/chrisuehlinger/domman/storage"
	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Data returns the value stored under key for the first element.
func (s *Selection) Data(key string) (any, bool) {
	first := s.First()
	if first == nil {
		return nil, false
	}
	m, ok := s.dm.data.get(first.AsNode())
	if !ok {
		return nil, false
	}
	v, ok := m[key]
	return v, ok
}

// DataAll returns a copy of everything stored for the first element.
func (s *Selection) DataAll() map[string]any {
	first := s.First()
	if first == nil {
		return nil
	}
	out := make(map[string]any)
	if m, ok := s.dm.data.get(first.AsNode()); ok {
		for k, v := range m {
			out[k] = v
		}
	}
	return out
}

// SetData stores value under key for every element.
func (s *Selection) SetData(key string, value any) *Selection {
	for _, el := range s.elems {
		m := s.dm.data.getOrCreate(el.AsNode(), func() map[string]any { return make(map[string]any) })
		m[key] = value
	}
	return s
}

// RemoveData deletes keys from every element, or all of their data when
// no key is given.
func (s *Selection) RemoveData(keys ...string) *Selection {
	for _, el := range s.elems {
		if len(keys) == 0 {
			s.dm.data.delete(el.AsNode())
			continue
		}
		if m, ok := s.dm.data.get(el.AsNode()); ok {
			for _, k := range keys {
				delete(m, k)
			}
		}
	}
	return s
}

// RemoveAllData deletes everything stored for every element.
func (s *Selection) RemoveAllData() *Selection {
	return s.RemoveData()
}

// LocalStorage returns the local storage area of the document origin, or
// the configured Origin when the document URL has none.
func (d *DomMan) LocalStorage() *storage.Area {
	if d.storage == nil {
		return nil
	}
	origin := d.cfg.Origin
	if u, err := url.Parse(d.doc.URL()); err == nil && u.Host != "" {
		origin = storage.Origin(u)
	}
	return d.storage.Area(storage.Local, origin)
}

// SetLocalStorage stores value as JSON under key.
func (d *DomMan) SetLocalStorage(key string, value any) error {
	area := d.LocalStorage()
	if area == nil {
		return errors.New("domman: no storage configured")
	}
	b, err := json.Marshal(value)
	if err != nil {
		d.debugError("setLocalStorage", err, "cannot encode value")
		return errors.Wrapf(err, "encode %q", key)
	}
	if err := area.SetItem(key, string(b)); err != nil {
		d.debugError("setLocalStorage", err, "cannot store value")
		return err
	}
	return nil
}

// GetLocalStorage decodes the JSON stored under key. ok is false when the
// key is missing or its value is not valid JSON.
func (d *DomMan) GetLocalStorage(key string) (value any, ok bool) {
	area := d.LocalStorage()
	if area == nil {
		return nil, false
	}
	raw, found := area.GetItem(key)
	if !found || raw == "" {
		return nil, false
	}
	if err := json.Unmarshal([]byte(raw), &value); err != nil {
		d.debugError("getLocalStorage", err, "cannot decode value")
		return nil, false
	}
	return value, true
}

// GetLocalStorageInto decodes the JSON stored under key into dst.
func (d *DomMan) GetLocalStorageInto(key string, dst any) (bool, error) {
	area := d.LocalStorage()
	if area == nil {
		return false, nil
	}
	raw, found := area.GetItem(key)
	if !found || raw == "" {
		return false, nil
	}
	return true, errors.Wrapf(json.Unmarshal([]byte(raw), dst), "decode %q", key)
}

// RemoveLocalStorage deletes key.
func (d *DomMan) RemoveLocalStorage(key string) {
	if area := d.LocalStorage(); area != nil {
		area.RemoveItem(key)
	}
}

// ClearLocalStorage deletes every key of the document's origin.
func (d *DomMan) ClearLocalStorage() {
	if area := d.LocalStorage(); area != nil {
		area.Clear()
	}
}
