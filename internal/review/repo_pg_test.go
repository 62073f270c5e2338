package review

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestPGRepoCreate(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	repo := &PGRepo{DB: db}
	rev := Review{
		ID:         "review-1",
		DocumentID: "doc-1",
		UserID:     "user-1",
		Status:     StatusQueued,
		Provider:   "openai",
		Model:      "gpt-4o-mini",
		CreatedAt:  time.Now().UTC(),
	}

	mock.ExpectExec("INSERT INTO reviews").
		WithArgs(
			rev.ID,
			rev.DocumentID,
			rev.UserID,
			rev.Status,
			rev.Provider,
			rev.Model,
			sqlmock.AnyArg(),
		).
		WillReturnResult(sqlmock.NewResult(1, 1))

	if err := repo.Create(context.Background(), rev); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoGetByIDParsesJSON(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	repo := &PGRepo{DB: db}
	now := time.Now().UTC()

	columns := []string{
		"id", "document_id", "user_id", "status", "provider", "model",
		"contract_type", "governing_law", "analysis", "risks", "report",
		"error_code", "error_message", "created_at", "started_at", "completed_at",
	}
	rows := sqlmock.NewRows(columns).AddRow(
		"review-1", "doc-1", "user-1", StatusCompleted, "openai", "gpt-4o-mini",
		"NDA", "United States",
		`{"contract_type":"NDA","governing_law":"United States","clauses":{"termination":{"clause_type":"termination","text":"t","summary":"s"}},"clause_risks":{}}`,
		`[{"text":"five years","issue":"long","suggestion":"shorten","risk_level":"medium"}]`,
		`{"summary":{"total_risks":1}}`,
		nil, nil, now, now, now,
	)
	mock.ExpectQuery("SELECT (.+) FROM reviews").
		WithArgs("review-1").
		WillReturnRows(rows)

	got, err := repo.GetByID(context.Background(), "review-1")
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.Analysis == nil || len(got.Analysis.Clauses) != 1 {
		t.Fatalf("analysis not decoded: %+v", got.Analysis)
	}
	if len(got.Risks) != 1 || got.Risks[0].Text != "five years" {
		t.Fatalf("risks not decoded: %+v", got.Risks)
	}
	if got.Report == nil {
		t.Fatal("report not decoded")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoGetByIDNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	repo := &PGRepo{DB: db}
	mock.ExpectQuery("SELECT (.+) FROM reviews").
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	if _, err := repo.GetByID(context.Background(), "missing"); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestPGRepoMarkFailed(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	repo := &PGRepo{DB: db}
	now := time.Now().UTC()

	mock.ExpectExec("UPDATE reviews").
		WithArgs(StatusFailed, ErrorCodeNoUsableText, "no usable text", sqlmock.AnyArg(), "review-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.MarkFailed(context.Background(), "review-1", ErrorCodeNoUsableText, "no usable text", now); err != nil {
		t.Fatalf("MarkFailed: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoMarkFailedNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	repo := &PGRepo{DB: db}
	mock.ExpectExec("UPDATE reviews").
		WillReturnResult(sqlmock.NewResult(0, 0))

	if err := repo.MarkFailed(context.Background(), "missing", ErrorCodeInternal, "x", time.Now().UTC()); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
