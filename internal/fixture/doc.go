// Package fixture holds the types the typebind tests describe, both through
// reflection and by loading this package from source.
package fixture
