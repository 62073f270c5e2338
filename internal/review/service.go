package review

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"contract-backend/internal/documents"
	"contract-backend/internal/extract"
	"contract-backend/internal/llm"
	"contract-backend/internal/normalize"
	"contract-backend/internal/shared/metrics"
	"contract-backend/internal/shared/storage/object"
	"contract-backend/internal/shared/telemetry"
)

const (
	StatusQueued     = "queued"
	StatusProcessing = "processing"
	StatusCompleted  = "completed"
	StatusFailed     = "failed"
)

// Service contains business logic for contract reviews.
type Service struct {
	Repo     Repo
	DocRepo  documents.DocumentsRepo
	Store    object.ObjectStore
	LLM      llm.Client
	Provider string
	Model    string
}

// Create enqueues a new review and kicks off asynchronous completion.
func (s *Service) Create(ctx context.Context, documentID, userID string) (Review, error) {
	if documentID == "" || userID == "" {
		return Review{}, errors.New("documentID and userID are required")
	}

	review := Review{
		ID:         uuid.NewString(),
		DocumentID: documentID,
		UserID:     userID,
		Provider:   normalizeProvider(s.Provider),
		Model:      s.Model,
		Status:     StatusQueued,
		CreatedAt:  time.Now().UTC(),
	}

	if err := s.Repo.Create(ctx, review); err != nil {
		return Review{}, err
	}

	go s.completeAsync(backgroundWithRequestID(ctx), review.ID)

	return review, nil
}

// Get returns a review by ID.
func (s *Service) Get(ctx context.Context, reviewID string) (Review, error) {
	if reviewID == "" {
		return Review{}, errors.New("reviewID is required")
	}
	return s.Repo.GetByID(ctx, reviewID)
}

// List returns reviews for a user ordered newest-first.
func (s *Service) List(ctx context.Context, userID string, limit, offset int) ([]Review, error) {
	if userID == "" {
		return nil, errors.New("userID is required")
	}
	return s.Repo.ListByUser(ctx, userID, limit, offset)
}

func normalizeProvider(provider string) string {
	if strings.TrimSpace(provider) == "" {
		return "openai"
	}
	return provider
}

func (s *Service) completeAsync(ctx context.Context, reviewID string) {
	defer func() {
		if r := recover(); r != nil {
			s.failReview(ctx, reviewID, "", "", fmt.Errorf("panic: %v", r), nil)
		}
	}()
	startedAt := time.Now().UTC()
	if err := s.Repo.MarkProcessing(ctx, reviewID, startedAt); err != nil {
		s.failReview(ctx, reviewID, "", "", fmt.Errorf("set processing failed: %w", err), &startedAt)
		return
	}

	review, err := s.Repo.GetByID(ctx, reviewID)
	if err != nil {
		s.failReview(ctx, reviewID, "", "", fmt.Errorf("review lookup: %w", err), &startedAt)
		return
	}
	metrics.IncReviewStarted()
	telemetry.Info("review.status", map[string]any{
		"request_id":        requestIDFromContext(ctx),
		"user_id":           review.UserID,
		"document_id":       review.DocumentID,
		"review_id":         review.ID,
		"status":            StatusProcessing,
		"status_transition": "queued->processing",
	})
	if s.DocRepo == nil || s.Store == nil {
		s.failReview(ctx, reviewID, review.UserID, review.DocumentID, errors.New("missing document store dependencies"), &startedAt)
		return
	}
	if s.LLM == nil {
		s.failReview(ctx, reviewID, review.UserID, review.DocumentID, errors.New("missing llm client"), &startedAt)
		return
	}

	doc, err := s.DocRepo.GetByID(ctx, review.UserID, review.DocumentID)
	if err != nil {
		s.failReview(ctx, reviewID, review.UserID, review.DocumentID, fmt.Errorf("document lookup id=%s: %w", review.DocumentID, err), &startedAt)
		return
	}

	extracted, err := s.extractedText(ctx, doc)
	if err != nil {
		s.failReview(ctx, reviewID, review.UserID, review.DocumentID, err, &startedAt)
		return
	}
	if strings.TrimSpace(extracted) == "" {
		s.failReview(ctx, reviewID, review.UserID, review.DocumentID, fmt.Errorf("document %s: no usable text", doc.ID), &startedAt)
		return
	}

	text := normalize.Normalize(extracted)

	analyzer := &Analyzer{LLM: newRetryingLLM(s.LLM, reviewID, requestIDFromContext(ctx))}
	result := analyzer.Analyze(ctx, text)
	risks := analyzer.ReviewRisks(ctx, text, result.ContractType, result.GoverningLaw)

	completedAt := time.Now().UTC()
	report := BuildReport(doc.FileName, result, risks, completedAt)
	if err := s.Repo.MarkCompleted(ctx, reviewID, result, risks, report, completedAt); err != nil {
		s.failReview(ctx, reviewID, review.UserID, review.DocumentID, fmt.Errorf("set review result failed: %w", err), &startedAt)
		return
	}
	metrics.IncReviewCompleted()
	metrics.ObserveReviewDurationMs(durationMs(&startedAt, &completedAt))
	telemetry.Info("review.status", map[string]any{
		"request_id":        requestIDFromContext(ctx),
		"user_id":           review.UserID,
		"document_id":       review.DocumentID,
		"review_id":         review.ID,
		"status":            StatusCompleted,
		"status_transition": "processing->completed",
		"contract_type":     result.ContractType,
		"governing_law":     result.GoverningLaw,
		"clause_count":      len(result.Clauses),
		"risk_count":        len(risks),
		"duration_ms":       durationMs(&startedAt, &completedAt),
	})
}

func (s *Service) failReview(ctx context.Context, reviewID, userID, documentID string, err error, startedAt *time.Time) {
	code := classifyFailure(err)
	msg := sanitizeError(err)
	completedAt := time.Now().UTC()
	if updateErr := s.Repo.MarkFailed(context.Background(), reviewID, code, msg, completedAt); updateErr != nil {
		log.Printf("failReview: update failed id=%s err=%v orig=%v", reviewID, updateErr, err)
	}
	metrics.IncReviewFailed()
	if startedAt != nil {
		metrics.ObserveReviewDurationMs(durationMs(startedAt, &completedAt))
	}
	telemetry.Info("review.status", map[string]any{
		"request_id":        requestIDFromContext(ctx),
		"user_id":           userID,
		"document_id":       documentID,
		"review_id":         reviewID,
		"status":            StatusFailed,
		"status_transition": "processing->failed",
		"error_code":        code,
		"duration_ms":       durationMs(startedAt, &completedAt),
	})
}

func durationMs(startedAt, completedAt *time.Time) float64 {
	if startedAt == nil || completedAt == nil {
		return 0
	}
	return float64(completedAt.Sub(*startedAt).Microseconds()) / 1000.0
}

func classifyFailure(err error) string {
	if err == nil {
		return ErrorCodeInternal
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return ErrorCodeLLMTimeout
	}
	msg := strings.ToLower(err.Error())
	if strings.Contains(msg, "no usable text") {
		return ErrorCodeNoUsableText
	}
	if strings.Contains(msg, "openai request timeout") {
		return ErrorCodeLLMTimeout
	}
	if strings.Contains(msg, "timeout") && strings.Contains(msg, "llm") {
		return ErrorCodeLLMTimeout
	}
	if strings.Contains(msg, "unsupported document format") {
		return ErrorCodeValidation
	}
	if strings.Contains(msg, "document") || strings.Contains(msg, "storage") || strings.Contains(msg, "review result") || strings.Contains(msg, "set processing") {
		return ErrorCodeStorage
	}
	return ErrorCodeInternal
}

func sanitizeError(err error) string {
	if err == nil {
		return ""
	}
	msg := strings.ReplaceAll(err.Error(), "\n", " ")
	msg = strings.ReplaceAll(msg, "\r", " ")
	msg = strings.TrimSpace(msg)
	const maxLen = 500
	if len(msg) > maxLen {
		msg = msg[:maxLen]
	}
	return msg
}

// extractedText returns the cached extracted text for the document, running
// the extraction chain and caching the result on first use.
func (s *Service) extractedText(ctx context.Context, doc documents.Document) (string, error) {
	if doc.ExtractedTextKey != "" {
		data, err := loadObject(ctx, s.Store, doc.ExtractedTextKey)
		if err != nil {
			return "", fmt.Errorf("document %s load extracted text: %w", doc.ID, err)
		}
		return string(data), nil
	}

	data, err := loadObject(ctx, s.Store, doc.StorageKey)
	if err != nil {
		return "", fmt.Errorf("document %s load: %w", doc.ID, err)
	}
	extracted, err := extract.Extract(ctx, bytes.NewReader(data), doc.FileName)
	if err != nil {
		return "", fmt.Errorf("document %s format %s: %w", doc.ID, doc.Format, err)
	}
	if strings.TrimSpace(extracted) == "" {
		return "", nil
	}

	extractedKey := doc.StorageKey + ".extracted.txt"
	if _, err := s.Store.SaveWithKey(ctx, extractedKey, "text/plain; charset=utf-8", strings.NewReader(extracted)); err != nil {
		return "", fmt.Errorf("document %s cache extracted text: %w", doc.ID, err)
	}
	if err := s.DocRepo.UpdateExtraction(ctx, doc.UserID, doc.ID, extractedKey, time.Now().UTC()); err != nil {
		return "", fmt.Errorf("document %s update extraction: %w", doc.ID, err)
	}
	return extracted, nil
}

func loadObject(ctx context.Context, store object.ObjectStore, key string) ([]byte, error) {
	body, err := store.Open(ctx, key)
	if err != nil {
		return nil, err
	}
	defer body.Close()
	return io.ReadAll(body)
}
