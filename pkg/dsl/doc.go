/*
Package dsl provides a fluent builder for constructing Minsky programs in Go.

It is an alternative to the text and YAML formats when programs are generated or
assembled in tests. Take(tape, n) becomes a guard of -n, Give(tape, n) an action of +n,
and every other tape stays at zero.

Example usage:

	// tape0 += tape1
	adder, err := dsl.New(2).
		Rule(0).Take(1, 1).Give(0, 1).Loop().
		Build()

The resulting program can be passed to the interpreter or the transpiler.
*/
package dsl
