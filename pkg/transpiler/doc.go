/*
Package transpiler rewrites a multi-state Minsky program into an equivalent program that
uses a single control state.

Given a program A with n tapes and m distinct states, the states are relabeled densely
(collected, sorted ascending, numbered 0..m-1) and the output program B gets n+2m tapes.
For relabeled state s, tape n+2s is the active flag of s and tape n+2s+1 its relay.

Each rule of A firing in s and moving to t keeps its n adjustments and gains:

	t != s: guard -1 on flag(s), action +1 on flag(t)
	t == s: guard -1 on flag(s), action +1 on relay(s), followed by a second rule that
	        moves relay(s) back to flag(s)

For example, with n == 2 and m == 2:

	0 [-1, 2] 0   becomes   0 [-1, 2, -1,  1,  0,  0] 0
	                        0 [ 0, 0,  1, -1,  0,  0] 0

	0 [1, 1] 1    becomes   0 [ 1, 1, -1,  0,  1,  0] 0

Translated rules keep the relative order of their originals, so B's first-applicable
execution replays A's firing sequence. B starts on A's tapes with only the flag of A's
initial state set.
*/
package transpiler
