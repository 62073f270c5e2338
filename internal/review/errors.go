package review

import "errors"

var (
	ErrNotFound     = errors.New("not found")
	ErrNotCompleted = errors.New("review not completed")
)

const (
	ErrorCodeValidation   = "VALIDATION_ERROR"
	ErrorCodeNoUsableText = "NO_USABLE_TEXT"
	ErrorCodeLLMTimeout   = "LLM_TIMEOUT"
	ErrorCodeStorage      = "STORAGE_ERROR"
	ErrorCodeInternal     = "INTERNAL_ERROR"
)
