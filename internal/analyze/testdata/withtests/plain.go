// Package withtests has types declared in its test files.
package withtests

type Plain struct {
	Name string
}
