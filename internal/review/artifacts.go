package review

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"contract-backend/internal/normalize"
)

// Markdown renders the reviewed contract as a markdown document with promoted
// section headings.
func (s *Service) Markdown(ctx context.Context, reviewID string) (string, error) {
	_, text, fileName, err := s.sourceText(ctx, reviewID)
	if err != nil {
		return "", err
	}
	return normalize.ToMarkdown(text, "Contract Analysis: "+fileName), nil
}

// Highlight renders the contract text with risky segments wrapped in colored
// <mark> spans.
func (s *Service) Highlight(ctx context.Context, reviewID string) (string, error) {
	review, text, _, err := s.sourceText(ctx, reviewID)
	if err != nil {
		return "", err
	}
	return HighlightRisks(text, review.Risks), nil
}

// sourceText re-extracts and normalizes the text behind a completed review.
func (s *Service) sourceText(ctx context.Context, reviewID string) (Review, string, string, error) {
	review, err := s.Repo.GetByID(ctx, reviewID)
	if err != nil {
		return Review{}, "", "", err
	}
	if review.Status != StatusCompleted {
		return Review{}, "", "", ErrNotCompleted
	}
	doc, err := s.DocRepo.GetByID(ctx, review.UserID, review.DocumentID)
	if err != nil {
		return Review{}, "", "", fmt.Errorf("document lookup id=%s: %w", review.DocumentID, err)
	}
	extracted, err := s.extractedText(ctx, doc)
	if err != nil {
		return Review{}, "", "", err
	}
	if strings.TrimSpace(extracted) == "" {
		return Review{}, "", "", errors.New("no usable text")
	}
	return review, normalize.Normalize(extracted), doc.FileName, nil
}
