// Package match ranks identifiers by similarity to a query.
//
// Names are normalized before comparison: CamelCase is split, case is
// folded and separators are dropped, so "shape_id", "ShapeID" and "shapeId"
// compare equal.
//
// Key functions:
//   - NormalizeIdent: normalizes identifiers for fuzzy matching
//   - Levenshtein: computes edit distance between strings
//   - Closest: picks the catalog names nearest to a misspelled query
package match
