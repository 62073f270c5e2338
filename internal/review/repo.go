package review

import (
	"context"
	"time"
)

// Repo defines persistence operations for reviews.
type Repo interface {
	Create(ctx context.Context, review Review) error
	GetByID(ctx context.Context, reviewID string) (Review, error)
	ListByUser(ctx context.Context, userID string, limit, offset int) ([]Review, error)
	MarkProcessing(ctx context.Context, reviewID string, startedAt time.Time) error
	MarkCompleted(ctx context.Context, reviewID string, result AnalysisResult, risks []RiskItem, report map[string]any, completedAt time.Time) error
	MarkFailed(ctx context.Context, reviewID, errorCode, errorMessage string, completedAt time.Time) error
}
