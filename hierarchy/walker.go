package hierarchy

import (
	"iter"

	"typebind/meta"
)

// Ancestors yields the supertypes of t, starting with the immediate one and
// ending at a root type. Catalogs reject supertype cycles, so the sequence is finite.
func Ancestors(t *meta.Type) iter.Seq[*meta.Type] {
	return func(yield func(*meta.Type) bool) {
		if t == nil {
			return
		}

		for s := t.Super(); s != nil; s = s.Super() {
			if !yield(s) {
				return
			}
		}
	}
}

// Lineage yields t followed by its ancestors.
func Lineage(t *meta.Type) iter.Seq[*meta.Type] {
	return func(yield func(*meta.Type) bool) {
		if t == nil || !yield(t) {
			return
		}

		for s := range Ancestors(t) {
			if !yield(s) {
				return
			}
		}
	}
}

// InterfacesAt returns the interfaces implemented directly by t, not by its ancestors.
func InterfacesAt(t *meta.Type) []*meta.Type {
	if t == nil {
		return nil
	}

	return t.Interfaces()
}

// Depth returns the number of ancestors of t.
func Depth(t *meta.Type) int {
	n := 0
	for range Ancestors(t) {
		n++
	}

	return n
}
