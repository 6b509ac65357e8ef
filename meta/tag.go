package meta

import (
	"fmt"
	"reflect"
	"slices"
	"strings"

	"github.com/fatih/structtag"
)

// ControlKey is the struct tag key typebind reads for its own directives
// (`typebind:"sealed"`, `typebind:"extends"`). It is never reported as a Tag.
const ControlKey = "typebind"

// Tag is one metadata annotation: the struct tag key is its kind, the
// quoted string its value.
type Tag struct {
	Kind  string // struct tag key, e.g. "validate"
	Value string // raw value, e.g. "required,min=1"
}

// Name returns the part of the value before the first comma.
func (t Tag) Name() string {
	name, _, _ := strings.Cut(t.Value, ",")
	return name
}

// Options returns the comma separated parts after the name.
func (t Tag) Options() []string {
	_, rest, found := strings.Cut(t.Value, ",")
	if !found || rest == "" {
		return nil
	}

	return strings.Split(rest, ",")
}

// HasOption reports whether opt is one of the tag options.
func (t Tag) HasOption(opt string) bool {
	return slices.Contains(t.Options(), opt)
}

// String renders the tag in struct tag syntax.
func (t Tag) String() string {
	return fmt.Sprintf("%s:%q", t.Kind, t.Value)
}

// ParseTags splits a struct tag into its key/value pairs, keeping declaration order.
// The typebind control key is returned separately.
func ParseTags(raw reflect.StructTag) (tags []Tag, control *Tag, err error) {
	if raw == "" {
		return nil, nil, nil
	}

	parsed, err := structtag.Parse(string(raw))
	if err != nil {
		return nil, nil, fmt.Errorf("malformed struct tag %q: %w", raw, err)
	}

	for _, t := range parsed.Tags() {
		tag := Tag{Kind: t.Key, Value: t.Value()}
		if t.Key == ControlKey {
			control = &tag
			continue
		}

		tags = append(tags, tag)
	}

	return tags, control, nil
}

func firstTag(tags []Tag, kind string) (Tag, bool) {
	for _, t := range tags {
		if t.Kind == kind {
			return t, true
		}
	}

	return Tag{}, false
}

// controlFlags returns the directive words of a typebind control tag,
// e.g. `typebind:"extends"` or `typebind:",sealed"`.
func controlFlags(control *Tag) []string {
	if control == nil {
		return nil
	}

	var flags []string
	if name := control.Name(); name != "" {
		flags = append(flags, name)
	}

	return append(flags, control.Options()...)
}
