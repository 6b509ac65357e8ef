// Package hierarchy walks supertype chains and decides assignment compatibility
// between type descriptors.
//
// The tie-break order is fixed: identity first, then a sealed target rejects
// every other candidate, then interfaces are searched over the candidate and
// all its ancestors, and finally a struct target must appear among the
// candidate's ancestors.
package hierarchy
