/*
Package domain holds the value types shared by the Minsky interpreter and transpiler.

A Program is an ordered list of Rules over a fixed number of tapes (non-negative counters).
Each Rule carries one signed adjustment per tape: a negative entry is a guard (the tape must
hold at least that much, and it is subtracted), a non-negative entry is an action (added when
the rule fires). A Machine is the mutable cursor (control state + tapes) that the interpreter
threads through a run.

Programs and Rules are immutable once built; accessors hand out copies.
*/
package domain
