package documents

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"contract-backend/internal/shared/server/middleware"
	"contract-backend/internal/shared/storage/object/local"
)

func setupDocumentsRouter(t *testing.T) (*gin.Engine, *MemoryRepo) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	repo := NewMemoryRepo()
	svc := &Service{
		Store: local.New(t.TempDir()),
		Repo:  repo,
	}

	r := gin.New()
	api := r.Group("/api/v1")
	api.Use(middleware.RequestID(), middleware.Identity())
	NewHandler(svc).RegisterRoutes(api)

	return r, repo
}

func multipartUpload(t *testing.T, fileName string, content []byte) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile("file", fileName)
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	if _, err := part.Write(content); err != nil {
		t.Fatalf("write form file: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}
	return body, writer.FormDataContentType()
}

func TestUploadDocument(t *testing.T) {
	router, repo := setupDocumentsRouter(t)

	body, contentType := multipartUpload(t, "nda.txt", []byte("This agreement is confidential."))
	req := httptest.NewRequest(http.MethodPost, "/api/v1/documents", body)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("X-Guest-Id", "test-guest")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", resp.Code, resp.Body.String())
	}

	var uploaded DocumentResponse
	if err := json.NewDecoder(resp.Body).Decode(&uploaded); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if uploaded.DocumentID == "" {
		t.Fatal("expected documentId")
	}
	if uploaded.FileName != "nda.txt" {
		t.Fatalf("expected nda.txt, got %q", uploaded.FileName)
	}
	if uploaded.Format != "txt" {
		t.Fatalf("expected txt format, got %q", uploaded.Format)
	}
	if uploaded.SizeBytes == 0 {
		t.Fatal("expected non-zero size")
	}

	stored, err := repo.GetByID(context.Background(), "guest:test-guest", uploaded.DocumentID)
	if err != nil {
		t.Fatalf("fetch stored document: %v", err)
	}
	if stored.StorageKey == "" {
		t.Fatal("expected storage key")
	}
}

func TestUploadDocumentUnsupportedFormat(t *testing.T) {
	router, _ := setupDocumentsRouter(t)

	body, contentType := multipartUpload(t, "contract.exe", []byte("MZ"))
	req := httptest.NewRequest(http.MethodPost, "/api/v1/documents", body)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("X-Guest-Id", "test-guest")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", resp.Code, resp.Body.String())
	}
}

func TestUploadDocumentMissingFile(t *testing.T) {
	router, _ := setupDocumentsRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/documents", bytes.NewReader(nil))
	req.Header.Set("Content-Type", "multipart/form-data; boundary=x")
	req.Header.Set("X-Guest-Id", "test-guest")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.Code)
	}
}

func TestCurrentDocument(t *testing.T) {
	router, repo := setupDocumentsRouter(t)

	older := Document{
		ID:        "doc-old",
		UserID:    "guest:test-guest",
		FileName:  "old.txt",
		Format:    "txt",
		CreatedAt: time.Now().UTC().Add(-time.Hour),
	}
	newer := Document{
		ID:        "doc-new",
		UserID:    "guest:test-guest",
		FileName:  "new.txt",
		Format:    "txt",
		CreatedAt: time.Now().UTC(),
	}
	for _, doc := range []Document{older, newer} {
		if err := repo.Create(context.Background(), doc); err != nil {
			t.Fatalf("create doc: %v", err)
		}
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/documents/current", nil)
	req.Header.Set("X-Guest-Id", "test-guest")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	var current DocumentResponse
	if err := json.NewDecoder(resp.Body).Decode(&current); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if current.DocumentID != "doc-new" {
		t.Fatalf("expected doc-new, got %q", current.DocumentID)
	}
}

func TestCurrentDocumentNotFound(t *testing.T) {
	router, _ := setupDocumentsRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/documents/current", nil)
	req.Header.Set("X-Guest-Id", "test-guest")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.Code)
	}
}

func TestListDocumentsRejectsGuests(t *testing.T) {
	router, _ := setupDocumentsRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/documents", nil)
	req.Header.Set("X-Guest-Id", "test-guest")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for guest listing, got %d", resp.Code)
	}
}

func TestListDocumentsForUser(t *testing.T) {
	router, repo := setupDocumentsRouter(t)

	for _, id := range []string{"doc-a", "doc-b"} {
		doc := Document{
			ID:        id,
			UserID:    "user-7",
			FileName:  id + ".txt",
			Format:    "txt",
			CreatedAt: time.Now().UTC(),
		}
		if err := repo.Create(context.Background(), doc); err != nil {
			t.Fatalf("create doc: %v", err)
		}
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/documents?limit=1", nil)
	req.Header.Set("X-User-Id", "user-7")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	var listed []DocumentResponse
	if err := json.NewDecoder(resp.Body).Decode(&listed); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(listed) != 1 {
		t.Fatalf("expected 1 document, got %d", len(listed))
	}
}

func TestUploadRequiresIdentity(t *testing.T) {
	router, _ := setupDocumentsRouter(t)

	body, contentType := multipartUpload(t, "nda.txt", []byte("content"))
	req := httptest.NewRequest(http.MethodPost, "/api/v1/documents", body)
	req.Header.Set("Content-Type", contentType)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.Code)
	}
}
