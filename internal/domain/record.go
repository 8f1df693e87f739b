package domain

// Record is one raw search document as returned by the index service.
type Record map[string]any

// VolatileIDField is regenerated by every reindex and never compared.
const VolatileIDField = "objectID"

// SortKeyPaths is the fixed key tuple that orders normalized records.
var SortKeyPaths = [][]string{
	{"url"},
	{"hierarchy", "lvl0"},
	{"hierarchy", "lvl1"},
	{"hierarchy", "lvl2"},
	{"hierarchy", "lvl3"},
	{"hierarchy", "lvl4"},
	{"hierarchy", "lvl5"},
	{"hierarchy", "lvl6"},
	{"weight", "position"},
}

// Lookup walks nested objects along path. Explicit nulls count as missing.
func (r Record) Lookup(path ...string) (any, bool) {
	var current any = map[string]any(r)
	for _, segment := range path {
		object, ok := current.(map[string]any)
		if !ok {
			return nil, false
		}
		current, ok = object[segment]
		if !ok || current == nil {
			return nil, false
		}
	}

	return current, true
}

// WithoutVolatileID returns a shallow copy without the volatile identifier.
func (r Record) WithoutVolatileID() Record {
	out := make(Record, len(r))
	for key, value := range r {
		if key == VolatileIDField {
			continue
		}
		out[key] = value
	}

	return out
}
