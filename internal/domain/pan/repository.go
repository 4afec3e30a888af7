package pan

import (
	"context"
	"time"
)

type Repository interface {
	Create(ctx context.Context, v *Verification) error
	// LatestVerified returns the newest VERIFIED attempt for pan created at or after since.
	LatestVerified(ctx context.Context, pan string, since time.Time) (*Verification, error)
	// Latest returns the newest attempt for pan regardless of status.
	Latest(ctx context.Context, pan string) (*Verification, error)
}
