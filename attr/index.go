package attr

import (
	"iter"

	"typebind/bind"
	"typebind/meta"
)

// Pair is one tagged member together with the tag instance found on it.
type Pair struct {
	Tag    meta.Tag
	Member *meta.Member
}

// On binds the pair's member to instance.
func (p Pair) On(instance any) *bind.Handle {
	return bind.Bind(instance, p.Member)
}

// TaggedMembers yields every member declared directly on t that carries a
// tag of the given kind, in declaration order. Inherited members are not
// visited. Each iteration walks the members again.
func TaggedMembers(t *meta.Type, kind string) iter.Seq[Pair] {
	return func(yield func(Pair) bool) {
		if t == nil {
			return
		}

		for i := range t.NumMembers() {
			m := t.MemberAt(i)
			tag, ok := m.Tag(kind)
			if !ok {
				continue
			}

			if !yield(Pair{Tag: tag, Member: m}) {
				return
			}
		}
	}
}

// Collect returns TaggedMembers as a slice.
func Collect(t *meta.Type, kind string) []Pair {
	var out []Pair
	for p := range TaggedMembers(t, kind) {
		out = append(out, p)
	}

	return out
}

// BindAll binds every member tagged with kind to instance, keyed by member name.
func BindAll(instance any, t *meta.Type, kind string) map[string]*bind.Handle {
	out := make(map[string]*bind.Handle)
	for p := range TaggedMembers(t, kind) {
		out[p.Member.Name()] = p.On(instance)
	}

	return out
}
