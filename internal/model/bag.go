package model

import "sort"

// FieldBag is the raw key→text output of the document-understanding service.
// Keys are provider-specific dotted paths, possibly indexed
// (e.g. "vehiculo.motor", "pago.vencimiento_cuota[3]").
type FieldBag map[string]string

// Get returns the value for key, or "" when absent.
func (b FieldBag) Get(key string) string {
	return b[key]
}

// Has reports whether key is present with a non-empty value.
func (b FieldBag) Has(key string) bool {
	return b[key] != ""
}

// Clone returns a copy of the bag. Normalizers operate on clones so the
// caller's bag is never mutated.
func (b FieldBag) Clone() FieldBag {
	out := make(FieldBag, len(b))
	for k, v := range b {
		out[k] = v
	}
	return out
}

// Keys returns the bag's keys in sorted order. Iteration over the map
// directly is not deterministic; every scan over the whole bag goes through
// this so repeated runs produce identical output.
func (b FieldBag) Keys() []string {
	keys := make([]string, 0, len(b))
	for k := range b {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
