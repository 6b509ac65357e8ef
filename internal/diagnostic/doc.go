// Package diagnostic provides structured warnings and errors collected while
// loading type metadata from source.
//
// Key capabilities:
//   - Skipped declaration warnings (generic types, unsupported shapes)
//   - Malformed struct tag and unknown directive reports
//   - Accessor pairing problems (setter type differs from getter)
package diagnostic
