/*
Package ports defines the driven and driving ports (interfaces) of the dialcode engine.

These interfaces decouple the dialog state machine from storage backends and
transports, so the same engine runs behind HTTP, MCP or the terminal simulator
with either an in-memory or a Redis session store.

# Key Interfaces

  - SessionStore: persists and loads per-dialog Session state.
  - DistributedLocker: serializes access to a session across replicas.
  - DialogEngine: the single operation transports call.
*/
package ports
