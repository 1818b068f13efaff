package domain

// Request is the structured form of a gateway call.
// UserID and MSISDN are opaque and echoed back unchanged.
type Request struct {
	UserID    string
	MSISDN    string
	UserData  string
	SessionID string

	// FirstContact is true on the first request of a dial and false on continuations.
	FirstContact bool
}

// Response carries the next screen (or the final summary) back to the gateway.
type Response struct {
	UserID  string
	MSISDN  string
	Message string

	// Continue is false once the dialog has ended.
	Continue bool
}
