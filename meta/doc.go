// Package meta provides the immutable type metadata that the rest of typebind queries.
//
// A Catalog is a snapshot of type descriptors. It is built once, either from
// reflection (Builder.Register) or from source (package source), and never
// mutated afterwards, so it can be shared by any number of goroutines.
//
// Key types:
//   - TypeID: package import path + type name
//   - Type: kind (struct/interface/enum/basic), sealed flag, supertype, direct interfaces
//   - Member: a field or accessor pair declared directly on a struct type
//   - Tag: one struct tag key/value attached to a member or to a type
package meta
