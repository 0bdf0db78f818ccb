// Package schema checks the structural well-formedness of programs and machines.
//
// Validation runs once, before a program reaches the interpreter or the transpiler.
// Every problem found is reported (not only the first), aggregated in an AggregateError:
//
//	if err := schema.ValidateProgram(program); err != nil {
//	    for _, e := range schema.StructuralErrors(err) {
//	        fmt.Println(e.RuleIndex, e.Expected, e.Actual)
//	    }
//	}
package schema
