/*
Package minsky interprets Minsky machines and transpiles them into single-state form.

A Minsky machine is a finite set of control states plus a fixed number of unbounded
non-negative counters ("tapes"). A program is an ordered list of rules
(from, adjustment vector, to): a negative entry is a guard that requires at least that
much on the tape and subtracts it, a non-negative entry adds to the tape. Execution is
first-applicable, restart-from-top, and halts when no rule fires.

The transpiler eliminates control states: every multi-state program becomes an
equivalent single-state program on n + 2*m tapes, where each original state gets an
"active" flag tape and a "relay" tape.

# Usage

	package main

	import (
		"context"
		"fmt"
		"log"

		"github.com/aretw0/minsky"
		"github.com/aretw0/minsky/pkg/domain"
	)

	func main() {
		eng := minsky.New()

		adder, err := eng.Parse([]byte("tapes: 2\n0 [1, -1] 0\n"), minsky.FormatText)
		if err != nil {
			log.Fatal(err)
		}

		res, err := eng.Interpret(context.Background(), adder, domain.NewMachine(0, 2, 3), 100)
		if err != nil {
			log.Fatal(err)
		}
		fmt.Println(res.Machine.Tapes) // [5 0]
	}

# Adapters

The same engine is exposed over HTTP (pkg/adapters/http), over the Model Context
Protocol (pkg/adapters/mcp) and by the minsky CLI (cmd/minsky).
*/
package minsky
