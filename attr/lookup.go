package attr

import (
	"typebind/internal/common"
	"typebind/meta"
)

// TryGetTag returns the type-level tag of the given kind.
// When the type carries several, the first in declaration order wins;
// Ambiguous reports that case.
func TryGetTag(t *meta.Type, kind string) (meta.Tag, bool) {
	return common.First(typeTags(t, kind))
}

// Ambiguous reports whether t carries more than one type-level tag of kind.
func Ambiguous(t *meta.Type, kind string) bool {
	return common.IsMultiple(typeTags(t, kind))
}

func typeTags(t *meta.Type, kind string) []meta.Tag {
	if t == nil {
		return nil
	}

	var out []meta.Tag
	for _, tag := range t.Tags() {
		if tag.Kind == kind {
			out = append(out, tag)
		}
	}

	return out
}
