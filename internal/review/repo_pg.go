package review

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

const reviewColumns = `id, document_id, user_id, status, provider, model, contract_type, governing_law,
       analysis, risks, report, error_code, error_message, created_at, started_at, completed_at`

// Create inserts a new review.
func (r *PGRepo) Create(ctx context.Context, review Review) error {
	const query = `
INSERT INTO reviews (id, document_id, user_id, status, provider, model, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.DB.ExecContext(ctx, query,
		review.ID,
		review.DocumentID,
		review.UserID,
		review.Status,
		review.Provider,
		review.Model,
		review.CreatedAt,
	)
	return err
}

// GetByID returns a review by ID.
func (r *PGRepo) GetByID(ctx context.Context, reviewID string) (Review, error) {
	query := `
SELECT ` + reviewColumns + `
FROM reviews
WHERE id = $1
LIMIT 1`
	row := r.DB.QueryRowContext(ctx, query, reviewID)
	review, err := scanReview(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Review{}, ErrNotFound
		}
		return Review{}, err
	}
	return review, nil
}

// ListByUser lists reviews for a user ordered newest-first.
func (r *PGRepo) ListByUser(ctx context.Context, userID string, limit, offset int) ([]Review, error) {
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}

	query := `
SELECT ` + reviewColumns + `
FROM reviews
WHERE user_id = $1
ORDER BY created_at DESC
LIMIT $2 OFFSET $3`

	rows, err := r.DB.QueryContext(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Review
	for rows.Next() {
		review, err := scanReview(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, review)
	}
	return out, rows.Err()
}

// MarkProcessing moves a queued review to processing.
func (r *PGRepo) MarkProcessing(ctx context.Context, reviewID string, startedAt time.Time) error {
	const query = `
UPDATE reviews
SET status = $1,
    started_at = COALESCE($2::timestamptz, started_at)
WHERE id = $3::uuid`
	return r.exec(ctx, query, StatusProcessing, startedAt, reviewID)
}

// MarkCompleted records the analysis outcome and completes the review.
func (r *PGRepo) MarkCompleted(ctx context.Context, reviewID string, result AnalysisResult, risks []RiskItem, report map[string]any, completedAt time.Time) error {
	const query = `
UPDATE reviews
SET status = $1,
    contract_type = $2,
    governing_law = $3,
    analysis = $4::jsonb,
    risks = $5::jsonb,
    report = $6::jsonb,
    completed_at = $7::timestamptz
WHERE id = $8::uuid`

	analysisPayload, err := marshalJSONB(result)
	if err != nil {
		return err
	}
	risksPayload, err := marshalJSONB(risks)
	if err != nil {
		return err
	}
	reportPayload, err := marshalJSONB(report)
	if err != nil {
		return err
	}
	return r.exec(ctx, query, StatusCompleted, result.ContractType, result.GoverningLaw,
		analysisPayload, risksPayload, reportPayload, completedAt, reviewID)
}

// MarkFailed records a terminal failure.
func (r *PGRepo) MarkFailed(ctx context.Context, reviewID, errorCode, errorMessage string, completedAt time.Time) error {
	const query = `
UPDATE reviews
SET status = $1,
    error_code = $2,
    error_message = $3,
    completed_at = $4::timestamptz
WHERE id = $5::uuid`
	return r.exec(ctx, query, StatusFailed, errorCode, errorMessage, completedAt, reviewID)
}

func (r *PGRepo) exec(ctx context.Context, query string, args ...any) error {
	res, err := r.DB.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanReview(row rowScanner) (Review, error) {
	var review Review
	var provider sql.NullString
	var model sql.NullString
	var contractType sql.NullString
	var governingLaw sql.NullString
	var analysis sql.NullString
	var risks sql.NullString
	var report sql.NullString
	var errorCode sql.NullString
	var errorMessage sql.NullString
	var startedAt sql.NullTime
	var completedAt sql.NullTime

	if err := row.Scan(
		&review.ID,
		&review.DocumentID,
		&review.UserID,
		&review.Status,
		&provider,
		&model,
		&contractType,
		&governingLaw,
		&analysis,
		&risks,
		&report,
		&errorCode,
		&errorMessage,
		&review.CreatedAt,
		&startedAt,
		&completedAt,
	); err != nil {
		return Review{}, err
	}

	if provider.Valid {
		review.Provider = provider.String
	}
	if model.Valid {
		review.Model = model.String
	}
	if contractType.Valid {
		review.ContractType = contractType.String
	}
	if governingLaw.Valid {
		review.GoverningLaw = governingLaw.String
	}
	if analysis.Valid {
		var parsed AnalysisResult
		if err := json.Unmarshal([]byte(analysis.String), &parsed); err == nil {
			review.Analysis = &parsed
		}
	}
	if risks.Valid {
		if err := json.Unmarshal([]byte(risks.String), &review.Risks); err != nil {
			review.Risks = nil
		}
	}
	if report.Valid {
		review.Report = map[string]any{}
		if err := json.Unmarshal([]byte(report.String), &review.Report); err != nil {
			review.Report = nil
		}
	}
	if errorCode.Valid {
		review.ErrorCode = errorCode.String
	}
	if errorMessage.Valid {
		review.ErrorMessage = &errorMessage.String
	}
	if startedAt.Valid {
		review.StartedAt = &startedAt.Time
	}
	if completedAt.Valid {
		review.CompletedAt = &completedAt.Time
	}
	return review, nil
}

func marshalJSONB(value any) ([]byte, error) {
	if value == nil {
		return nil, nil
	}
	return json.Marshal(value)
}
