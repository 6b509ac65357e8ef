// Package attr indexes the members of a type by tag kind and looks up
// type-level tags.
//
// Absence is never an error here: a type with no tagged members yields an
// empty sequence and a missing type-level tag reports found=false.
package attr
