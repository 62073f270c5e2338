package review

import (
	"context"
	"sort"
	"sync"
	"time"
)

// MemoryRepo stores reviews in memory and is safe for concurrent use.
type MemoryRepo struct {
	mu     sync.RWMutex
	byID   map[string]Review
	byUser map[string][]string
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{
		byID:   make(map[string]Review),
		byUser: make(map[string][]string),
	}
}

// Create stores the review.
func (r *MemoryRepo) Create(ctx context.Context, review Review) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byID[review.ID] = review
	r.byUser[review.UserID] = append(r.byUser[review.UserID], review.ID)
	return nil
}

// GetByID returns a review by its ID.
func (r *MemoryRepo) GetByID(ctx context.Context, reviewID string) (Review, error) {
	if err := ctx.Err(); err != nil {
		return Review{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	review, ok := r.byID[reviewID]
	if !ok {
		return Review{}, ErrNotFound
	}
	return review, nil
}

// ListByUser returns reviews for a user, newest first, with limit/offset.
func (r *MemoryRepo) ListByUser(ctx context.Context, userID string, limit, offset int) ([]Review, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if offset < 0 {
		offset = 0
	}
	if limit < 0 {
		limit = 0
	}

	r.mu.RLock()
	ids := r.byUser[userID]
	reviews := make([]Review, 0, len(ids))
	for _, id := range ids {
		if review, ok := r.byID[id]; ok {
			reviews = append(reviews, review)
		}
	}
	r.mu.RUnlock()

	sort.Slice(reviews, func(i, j int) bool {
		return reviews[i].CreatedAt.After(reviews[j].CreatedAt)
	})

	if offset >= len(reviews) {
		return []Review{}, nil
	}
	end := len(reviews)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	return reviews[offset:end], nil
}

// MarkProcessing moves a queued review to processing.
func (r *MemoryRepo) MarkProcessing(ctx context.Context, reviewID string, startedAt time.Time) error {
	return r.update(ctx, reviewID, func(review *Review) {
		review.Status = StatusProcessing
		review.StartedAt = &startedAt
	})
}

// MarkCompleted records the analysis outcome and completes the review.
func (r *MemoryRepo) MarkCompleted(ctx context.Context, reviewID string, result AnalysisResult, risks []RiskItem, report map[string]any, completedAt time.Time) error {
	return r.update(ctx, reviewID, func(review *Review) {
		review.Status = StatusCompleted
		review.ContractType = result.ContractType
		review.GoverningLaw = result.GoverningLaw
		review.Analysis = &result
		review.Risks = risks
		review.Report = report
		review.CompletedAt = &completedAt
	})
}

// MarkFailed records a terminal failure.
func (r *MemoryRepo) MarkFailed(ctx context.Context, reviewID, errorCode, errorMessage string, completedAt time.Time) error {
	return r.update(ctx, reviewID, func(review *Review) {
		review.Status = StatusFailed
		review.ErrorCode = errorCode
		review.ErrorMessage = &errorMessage
		review.CompletedAt = &completedAt
	})
}

func (r *MemoryRepo) update(ctx context.Context, reviewID string, apply func(*Review)) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	review, ok := r.byID[reviewID]
	if !ok {
		return ErrNotFound
	}
	apply(&review)
	r.byID[reviewID] = review
	return nil
}
