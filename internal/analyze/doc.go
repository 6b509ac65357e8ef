// Package analyze loads Go packages from source and describes their named
// types as meta.TypeDecl values.
//
// It uses golang.org/x/tools/go/packages with AST and go/types, which lets it
// see what reflection cannot: which methods a type declares itself, the
// declaration order of constants and methods, and doc-comment directives.
//
// Directives (the prefix is configurable):
//   - //typebind:sealed on a type marks it sealed
//   - //typebind:tag key:"value" on a type or accessor method attaches tags
package analyze
