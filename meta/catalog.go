package meta

import (
	"fmt"
	"reflect"
	"slices"
	"sync/atomic"

	"github.com/davecgh/go-spew/spew"
)

// Catalog is an immutable snapshot of type descriptors.
// All methods are safe for concurrent use.
type Catalog struct {
	types  map[TypeID]*Type
	byType map[reflect.Type]*Type
	order  []*Type
}

func newCatalog() *Catalog {
	return &Catalog{
		types:  make(map[TypeID]*Type),
		byType: make(map[reflect.Type]*Type),
	}
}

// Lookup returns the descriptor for id.
func (c *Catalog) Lookup(id TypeID) (*Type, bool) {
	t, ok := c.types[id]
	return t, ok
}

// MustLookup is like Lookup but panics when id is not in the catalog.
func (c *Catalog) MustLookup(id TypeID) *Type {
	t, ok := c.types[id]
	if !ok {
		panic(fmt.Sprintf("type %s not in catalog", id))
	}

	return t
}

// LookupType returns the descriptor for a reflect.Type. Pointers are dereferenced.
// Types loaded from source are matched by package path and name.
func (c *Catalog) LookupType(rt reflect.Type) (*Type, bool) {
	for rt != nil && rt.Kind() == reflect.Pointer {
		rt = rt.Elem()
	}

	if rt == nil {
		return nil, false
	}

	if t, ok := c.byType[rt]; ok {
		return t, true
	}

	return c.Lookup(IDOf(rt))
}

// Types returns every descriptor in registration order.
func (c *Catalog) Types() []*Type {
	return slices.Clone(c.order)
}

// Len returns the number of descriptors.
func (c *Catalog) Len() int {
	return len(c.order)
}

// TypeOf looks up the descriptor for T.
func TypeOf[T any](c *Catalog) (*Type, bool) {
	return c.LookupType(reflect.TypeFor[T]())
}

var dumpConfig = spew.ConfigState{
	Indent:                  "  ",
	MaxDepth:                3,
	DisablePointerAddresses: true,
	DisableCapacities:       true,
	DisableMethods:          true,
}

// Dump renders a descriptor with all its fields for debugging.
func Dump(t *Type) string {
	return dumpConfig.Sdump(t)
}

var defaultCatalog atomic.Pointer[Catalog]

// SetDefault publishes c as the process-wide catalog.
// Readers that already loaded the previous catalog keep using it.
func SetDefault(c *Catalog) {
	defaultCatalog.Store(c)
}

// Default returns the process-wide catalog, or an empty one if none was published.
func Default() *Catalog {
	if c := defaultCatalog.Load(); c != nil {
		return c
	}

	return newCatalog()
}
