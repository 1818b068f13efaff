/*
Package domain contains the core domain models of the dialcode engine.

It defines the session tracked between a dialog's first and terminal request, the
request/response pair exchanged with the USSD gateway, the error taxonomy and the
lifecycle hooks. This package is kept pure and free of I/O, following Hexagonal
Architecture principles.

# Key Entities

  - Session: the per-dialog position in the menu tree plus the answers collected so far.
  - Request / Response: the structured payloads handed to and returned by the engine.
  - LifecycleHooks: observability callbacks fired by the engine.
*/
package domain
