package documents

import (
	"context"
	"errors"
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
	doc := Document{
		ID:         "doc-1",
		UserID:     "user-1",
		FileName:   "contract.pdf",
		Format:     "pdf",
		MimeType:   "application/pdf",
		SizeBytes:  1024,
		StorageKey: "objects/user-1/contract.pdf",
		CreatedAt:  time.Now().UTC(),
	}

	mock.ExpectExec("INSERT INTO documents").
		WithArgs(
			doc.ID,
			doc.UserID,
			doc.FileName,
			doc.FileName, // original_filename defaults to file_name
			doc.Format,
			doc.MimeType,
			doc.SizeBytes,
			sqlmock.AnyArg(),
			sqlmock.AnyArg(),
		).
		WillReturnResult(sqlmock.NewResult(1, 1))

	if err := repo.Create(context.Background(), doc); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoGetByID(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	repo := &PGRepo{DB: db}
	now := time.Now().UTC()

	columns := []string{
		"id", "user_id", "file_name", "original_filename", "format",
		"mime_type", "size_bytes", "storage_key", "extracted_text_key",
		"extracted_at", "created_at",
	}
	rows := sqlmock.NewRows(columns).AddRow(
		"doc-1", "user-1", "contract.docx", "contract.docx", "docx",
		"application/vnd.openxmlformats-officedocument.wordprocessingml.document",
		int64(2048), "objects/user-1/contract.docx", nil, nil, now,
	)

	mock.ExpectQuery("SELECT (.+) FROM documents").
		WithArgs("user-1", "doc-1").
		WillReturnRows(rows)

	doc, err := repo.GetByID(context.Background(), "user-1", "doc-1")
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if doc.FileName != "contract.docx" || doc.Format != "docx" {
		t.Fatalf("unexpected document: %+v", doc)
	}
	if doc.ExtractedTextKey != "" || doc.ExtractedAt != nil {
		t.Fatalf("expected empty extraction metadata, got %+v", doc)
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

	columns := []string{
		"id", "user_id", "file_name", "original_filename", "format",
		"mime_type", "size_bytes", "storage_key", "extracted_text_key",
		"extracted_at", "created_at",
	}
	mock.ExpectQuery("SELECT (.+) FROM documents").
		WithArgs("user-1", "missing").
		WillReturnRows(sqlmock.NewRows(columns))

	if _, err := repo.GetByID(context.Background(), "user-1", "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoUpdateExtraction(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	repo := &PGRepo{DB: db}
	extractedAt := time.Now().UTC()

	mock.ExpectExec("UPDATE documents").
		WithArgs("objects/user-1/contract.pdf.extracted.txt", extractedAt, "user-1", "doc-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.UpdateExtraction(context.Background(), "user-1", "doc-1", "objects/user-1/contract.pdf.extracted.txt", extractedAt); err != nil {
		t.Fatalf("UpdateExtraction: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}
