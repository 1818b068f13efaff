package ports

import (
	"context"

	"github.com/aretw0/dialcode/pkg/domain"
)

// DialogEngine is the driving port used by transport adapters.
type DialogEngine interface {
	// Handle advances the dialog addressed by req.SessionID and returns the next screen.
	Handle(ctx context.Context, req domain.Request) (domain.Response, error)
}
