package review

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"contract-backend/internal/documents"
	"contract-backend/internal/llm"
	"contract-backend/internal/shared/server/middleware"
	"contract-backend/internal/shared/storage/object"
	"contract-backend/internal/shared/storage/object/local"
)

func setupReviewRouter(t *testing.T, llmClient llm.Client) (*gin.Engine, *documents.MemoryRepo, *MemoryRepo, object.ObjectStore) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store := local.New(t.TempDir())
	docRepo := documents.NewMemoryRepo()
	reviewRepo := NewMemoryRepo()

	svc := &Service{
		Repo:    reviewRepo,
		DocRepo: docRepo,
		Store:   store,
		LLM:     llmClient,
	}

	r := gin.New()
	api := r.Group("/api/v1")
	api.Use(middleware.RequestID(), middleware.Identity())
	NewHandler(svc, docRepo).RegisterRoutes(api)

	return r, docRepo, reviewRepo, store
}

func seedDocument(t *testing.T, docRepo *documents.MemoryRepo, store object.ObjectStore, userID string) string {
	t.Helper()
	storageKey, size, mimeType, err := store.Save(context.Background(), userID, "contract.txt", bytes.NewReader([]byte(sampleContract)))
	if err != nil {
		t.Fatalf("save contract: %v", err)
	}
	doc := documents.Document{
		ID:         "doc-1",
		UserID:     userID,
		FileName:   "contract.txt",
		Format:     "txt",
		MimeType:   mimeType,
		SizeBytes:  size,
		StorageKey: storageKey,
		CreatedAt:  time.Now().UTC(),
	}
	if err := docRepo.Create(context.Background(), doc); err != nil {
		t.Fatalf("create doc: %v", err)
	}
	return doc.ID
}

func addGuestHeader(req *http.Request) {
	req.Header.Set("X-Guest-Id", "test-guest")
}

func waitForStatus(t *testing.T, repo *MemoryRepo, reviewID, want string) Review {
	t.Helper()
	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		rev, err := repo.GetByID(context.Background(), reviewID)
		if err == nil && rev.Status == want {
			return rev
		}
		time.Sleep(10 * time.Millisecond)
	}
	rev, _ := repo.GetByID(context.Background(), reviewID)
	t.Fatalf("review %s never reached %s (last status %q, error %q)", reviewID, want, rev.Status, rev.ErrorCode)
	return Review{}
}

func TestStartReview(t *testing.T) {
	client := scriptedLLM{
		typeResp:   "NDA",
		lawResp:    "United States",
		reviewResp: "No significant risks found.",
	}
	router, docRepo, reviewRepo, store := setupReviewRouter(t, client)
	documentID := seedDocument(t, docRepo, store, "guest:test-guest")

	body, _ := json.Marshal(map[string]string{"documentId": documentID})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/reviews", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	addGuestHeader(req)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusAccepted {
		t.Fatalf("expected status 202, got %d: %s", resp.Code, resp.Body.String())
	}

	var created struct {
		ReviewID string `json:"reviewId"`
		Status   string `json:"status"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if created.ReviewID == "" {
		t.Fatal("expected reviewId")
	}
	if created.Status != StatusQueued {
		t.Fatalf("expected queued, got %q", created.Status)
	}

	rev := waitForStatus(t, reviewRepo, created.ReviewID, StatusCompleted)
	if rev.ContractType != "NDA" {
		t.Fatalf("expected NDA, got %q", rev.ContractType)
	}
}

func TestStartReviewUnknownDocument(t *testing.T) {
	router, _, _, _ := setupReviewRouter(t, scriptedLLM{})

	body, _ := json.Marshal(map[string]string{"documentId": "missing"})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/reviews", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	addGuestHeader(req)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.Code)
	}
}

func TestStartReviewMissingBody(t *testing.T) {
	router, _, _, _ := setupReviewRouter(t, scriptedLLM{})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/reviews", bytes.NewReader([]byte("{}")))
	req.Header.Set("Content-Type", "application/json")
	addGuestHeader(req)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.Code)
	}
}

func TestStartReviewRequiresIdentity(t *testing.T) {
	router, _, _, _ := setupReviewRouter(t, scriptedLLM{})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/reviews", bytes.NewReader([]byte(`{"documentId":"doc-1"}`)))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.Code)
	}
}

func TestGetReviewLifecycle(t *testing.T) {
	client := scriptedLLM{
		typeResp:   "MSA",
		lawResp:    "United Kingdom",
		reviewResp: "Risk 1: strictest confidence - Issue: vague - Suggestion: define - Level: high",
	}
	router, docRepo, reviewRepo, store := setupReviewRouter(t, client)
	documentID := seedDocument(t, docRepo, store, "guest:test-guest")

	body, _ := json.Marshal(map[string]string{"documentId": documentID})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/reviews", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	addGuestHeader(req)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusAccepted {
		t.Fatalf("expected 202, got %d", resp.Code)
	}
	var created struct {
		ReviewID string `json:"reviewId"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	waitForStatus(t, reviewRepo, created.ReviewID, StatusCompleted)

	req = httptest.NewRequest(http.MethodGet, "/api/v1/reviews/"+created.ReviewID, nil)
	addGuestHeader(req)
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}

	var fetched struct {
		Status       string         `json:"status"`
		ContractType string         `json:"contractType"`
		Risks        []RiskItem     `json:"risks"`
		Report       map[string]any `json:"report"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&fetched); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if fetched.Status != StatusCompleted || fetched.ContractType != "MSA" {
		t.Fatalf("unexpected review: %+v", fetched)
	}
	if len(fetched.Risks) != 1 {
		t.Fatalf("expected 1 risk, got %d", len(fetched.Risks))
	}
	if fetched.Report == nil {
		t.Fatal("expected report")
	}

	req = httptest.NewRequest(http.MethodGet, "/api/v1/reviews/"+created.ReviewID+"/report", nil)
	addGuestHeader(req)
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for report, got %d", resp.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/v1/reviews/"+created.ReviewID+"/markdown", nil)
	addGuestHeader(req)
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for markdown, got %d", resp.Code)
	}
	if ct := resp.Header().Get("Content-Type"); ct != "text/markdown; charset=utf-8" {
		t.Fatalf("unexpected content type %q", ct)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/v1/reviews/"+created.ReviewID+"/highlight", nil)
	addGuestHeader(req)
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for highlight, got %d", resp.Code)
	}
}

func TestGetReviewNotFound(t *testing.T) {
	router, _, _, _ := setupReviewRouter(t, scriptedLLM{})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/reviews/missing", nil)
	addGuestHeader(req)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.Code)
	}
}

func TestListReviewsRejectsGuests(t *testing.T) {
	router, _, _, _ := setupReviewRouter(t, scriptedLLM{})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/reviews", nil)
	addGuestHeader(req)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for guest listing, got %d", resp.Code)
	}
}

func TestListReviewsForUser(t *testing.T) {
	router, _, reviewRepo, _ := setupReviewRouter(t, scriptedLLM{})
	rev := Review{
		ID:         "review-list",
		DocumentID: "doc-1",
		UserID:     "user-9",
		Status:     StatusQueued,
		CreatedAt:  time.Now().UTC(),
	}
	if err := reviewRepo.Create(context.Background(), rev); err != nil {
		t.Fatalf("create review: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/reviews", nil)
	req.Header.Set("X-User-Id", "user-9")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	var listed []map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&listed); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(listed) != 1 || listed[0]["reviewId"] != "review-list" {
		t.Fatalf("unexpected list: %+v", listed)
	}
}

func TestMarkdownNotCompletedConflict(t *testing.T) {
	router, _, reviewRepo, _ := setupReviewRouter(t, scriptedLLM{})
	rev := Review{
		ID:         "review-queued",
		DocumentID: "doc-1",
		UserID:     "guest:test-guest",
		Status:     StatusQueued,
		CreatedAt:  time.Now().UTC(),
	}
	if err := reviewRepo.Create(context.Background(), rev); err != nil {
		t.Fatalf("create review: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/reviews/review-queued/markdown", nil)
	addGuestHeader(req)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", resp.Code)
	}
}
