package audit

import "context"

type Repository interface {
	Create(ctx context.Context, l *Log) error
	// ListByApplicationID returns events oldest first.
	ListByApplicationID(ctx context.Context, applicationID string) ([]Log, error)
}
