package review

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"contract-backend/internal/documents"
	"contract-backend/internal/shared/server/middleware"
	"contract-backend/internal/shared/server/respond"
)

// Handler wires HTTP handlers to the review service.
type Handler struct {
	Svc     *Service
	DocRepo documents.DocumentsRepo
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service, docRepo documents.DocumentsRepo) *Handler {
	return &Handler{Svc: svc, DocRepo: docRepo}
}

// RegisterRoutes attaches review routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/reviews", h.startReview)
	rg.GET("/reviews", h.listReviews)
	rg.GET("/reviews/:id", h.getReview)
	rg.GET("/reviews/:id/report", h.getReport)
	rg.GET("/reviews/:id/markdown", h.getMarkdown)
	rg.GET("/reviews/:id/highlight", h.getHighlight)
}

type startReviewRequest struct {
	DocumentID string `json:"documentId"`
}

func (h *Handler) startReview(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	var req startReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.DocumentID == "" {
		respond.Error(c, http.StatusBadRequest, "validation_error", "documentId is required", nil)
		return
	}

	doc, err := h.DocRepo.GetByID(c.Request.Context(), userID, req.DocumentID)
	if err != nil {
		switch {
		case errors.Is(err, documents.ErrNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "document not found", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to start review", nil)
		}
		return
	}

	rev, err := h.Svc.Create(WithRequestID(c.Request.Context(), middleware.RequestIDFromContext(c)), doc.ID, userID)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to start review", nil)
		return
	}

	respond.Accepted(c, gin.H{
		"reviewId": rev.ID,
		"status":   rev.Status,
	})
}

func (h *Handler) getReview(c *gin.Context) {
	reviewID := c.Param("id")
	if reviewID == "" {
		respond.Error(c, http.StatusBadRequest, "validation_error", "review id is required", nil)
		return
	}

	rev, err := h.Svc.Get(c.Request.Context(), reviewID)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "review not found", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to fetch review", nil)
		}
		return
	}

	resp := gin.H{
		"id":     rev.ID,
		"status": rev.Status,
	}
	if rev.Status == StatusCompleted {
		resp["contractType"] = rev.ContractType
		resp["governingLaw"] = rev.GoverningLaw
		if rev.Analysis != nil {
			resp["analysis"] = rev.Analysis
		}
		resp["risks"] = rev.Risks
		if rev.Report != nil {
			resp["report"] = rev.Report
		}
	}
	if rev.Status == StatusFailed {
		resp["errorCode"] = rev.ErrorCode
	}

	respond.JSON(c, http.StatusOK, resp)
}

func (h *Handler) listReviews(c *gin.Context) {
	if isGuest, ok := c.Get("isGuest"); ok {
		if guest, ok2 := isGuest.(bool); ok2 && guest {
			respond.Error(c, http.StatusUnauthorized, "login_required", "Login required to view history", nil)
			return
		}
	}

	userID := middleware.UserIDFromContext(c)

	limit := 20
	offset := 0

	if v := c.Query("limit"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			limit = parsed
		}
	}
	if limit < 0 {
		limit = 0
	}

	if v := c.Query("offset"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			offset = parsed
		}
	}
	if offset < 0 {
		offset = 0
	}

	reviews, err := h.Svc.List(c.Request.Context(), userID, limit, offset)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to list reviews", nil)
		return
	}

	resp := make([]gin.H, 0, len(reviews))
	for _, rev := range reviews {
		item := gin.H{
			"reviewId":   rev.ID,
			"documentId": rev.DocumentID,
			"status":     rev.Status,
			"createdAt":  rev.CreatedAt,
		}
		if rev.Status == StatusCompleted {
			item["contractType"] = rev.ContractType
			item["governingLaw"] = rev.GoverningLaw
			item["riskCount"] = len(rev.Risks)
		}
		resp = append(resp, item)
	}

	respond.JSON(c, http.StatusOK, resp)
}

func (h *Handler) getReport(c *gin.Context) {
	rev, ok := h.completedReview(c)
	if !ok {
		return
	}
	respond.JSON(c, http.StatusOK, rev.Report)
}

func (h *Handler) getMarkdown(c *gin.Context) {
	reviewID := c.Param("id")
	markdown, err := h.Svc.Markdown(c.Request.Context(), reviewID)
	if err != nil {
		h.artifactError(c, err)
		return
	}
	c.Data(http.StatusOK, "text/markdown; charset=utf-8", []byte(markdown))
}

func (h *Handler) getHighlight(c *gin.Context) {
	reviewID := c.Param("id")
	highlighted, err := h.Svc.Highlight(c.Request.Context(), reviewID)
	if err != nil {
		h.artifactError(c, err)
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(highlighted))
}

func (h *Handler) completedReview(c *gin.Context) (Review, bool) {
	reviewID := c.Param("id")
	if reviewID == "" {
		respond.Error(c, http.StatusBadRequest, "validation_error", "review id is required", nil)
		return Review{}, false
	}
	rev, err := h.Svc.Get(c.Request.Context(), reviewID)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "review not found", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to fetch review", nil)
		}
		return Review{}, false
	}
	if rev.Status != StatusCompleted {
		respond.Error(c, http.StatusConflict, "not_completed", "review is not completed", nil)
		return Review{}, false
	}
	return rev, true
}

func (h *Handler) artifactError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrNotFound), errors.Is(err, documents.ErrNotFound):
		respond.Error(c, http.StatusNotFound, "not_found", "review not found", nil)
	case errors.Is(err, ErrNotCompleted):
		respond.Error(c, http.StatusConflict, "not_completed", "review is not completed", nil)
	default:
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to render review", nil)
	}
}
