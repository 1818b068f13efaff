/*
Package session orchestrates concurrent access to dialog sessions.

The Manager guards every session identifier with its own lock so a request's
read-modify-write transition is atomic, even when the gateway delivers the same
request twice. Locks are reference counted and disappear once no caller holds
them. An optional DistributedLocker extends the guard across replicas sharing a
store such as Redis.
*/
package session
