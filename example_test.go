package minsky_test

import (
	"context"
	"fmt"
	"log"

	"github.com/aretw0/minsky"
	"github.com/aretw0/minsky/pkg/domain"
)

// ExampleEngine_Interpret runs the adder from text source.
func ExampleEngine_Interpret() {
	eng := minsky.New()

	adder, err := eng.Parse([]byte("tapes: 2\n0 [1, -1] 0\n"), minsky.FormatText)
	if err != nil {
		log.Fatal(err)
	}

	res, err := eng.Interpret(context.Background(), adder, domain.NewMachine(0, 2, 3), 100)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(res.Machine.Tapes, res.Steps)
	// Output: [5 0] 3
}

// ExampleEngine_Transpile shows the single-state form of a two-state program.
func ExampleEngine_Transpile() {
	eng := minsky.New()
	p := domain.NewProgram(1,
		domain.NewRule(0, 0, -1),
		domain.NewRule(0, 1, 0),
	)

	t, err := eng.Transpile(p)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(t.Program.NumTapes(), t.Program.NumRules())
	for _, r := range t.Program.Rules() {
		fmt.Println(r.Adjust)
	}
	// Output:
	// 5 3
	// [-1 -1 1 0 0]
	// [0 1 -1 0 0]
	// [0 -1 0 1 0]
}
