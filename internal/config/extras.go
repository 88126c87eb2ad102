package config

import "fmt"

// Ambient keys read from the host's extra-properties store.
const (
	KeyOrganization = "sentryOrg"
	KeyProject      = "sentryProject"
)

// Extras is the host's ambient key-value store. A nil Extras means the host
// has no store.
type Extras interface {
	Get(key string) (any, bool)
}

// MapExtras is an Extras backed by a map.
type MapExtras map[string]any

// Get implements Extras.
func (m MapExtras) Get(key string) (any, bool) {
	v, ok := m[key]
	return v, ok
}

// Lookup is the result of an ambient lookup.
type Lookup struct {
	Value string
	Found bool
}

// String returns the value, or "<unset>" when not found.
func (l Lookup) String() string {
	if !l.Found {
		return "<unset>"
	}
	return l.Value
}

// LookupString reads key from extras. It never fails: a nil store, a missing
// key, and a nil value all yield an unset Lookup. Non-string values are
// rendered with fmt.Sprint.
func LookupString(extras Extras, key string) Lookup {
	if extras == nil {
		return Lookup{}
	}
	v, ok := extras.Get(key)
	if !ok || v == nil {
		return Lookup{}
	}
	if s, ok := v.(string); ok {
		return Lookup{Value: s, Found: true}
	}
	return Lookup{Value: fmt.Sprint(v), Found: true}
}
