/*
Package ports defines the driven ports (interfaces) for the Minsky toolchain.

These interfaces decouple the core logic from external implementations, allowing
programs to be kept in memory, on disk or in Redis without the adapters (HTTP, MCP,
CLI) knowing which.

# Key Interfaces

  - ProgramStore: Persists compiled programs by name.
*/
package ports
