package canvas

import (
	"errors"
	"fmt"
	"time"
)

// ErrorCategory classifies where in the pipeline an error originated,
// so callers can alert on script errors without paging for a missing
// export directory.
type ErrorCategory int

const (
	// ErrorCategoryUnknown is the default for uncategorized errors.
	ErrorCategoryUnknown ErrorCategory = iota
	// ErrorCategoryConfig is for option validation errors.
	ErrorCategoryConfig
	// ErrorCategoryScript is for Lua compilation and execution errors.
	ErrorCategoryScript
	// ErrorCategoryRender is for preview window and export errors.
	ErrorCategoryRender
	// ErrorCategoryDraw is for drawing surface and buffer errors.
	ErrorCategoryDraw
	// ErrorCategoryIO is for file and I/O errors.
	ErrorCategoryIO
)

// String returns a human-readable name for the error category.
func (c ErrorCategory) String() string {
	switch c {
	case ErrorCategoryConfig:
		return "config"
	case ErrorCategoryScript:
		return "script"
	case ErrorCategoryRender:
		return "render"
	case ErrorCategoryDraw:
		return "draw"
	case ErrorCategoryIO:
		return "io"
	default:
		return "unknown"
	}
}

// CategorizedError wraps an error with its pipeline category and the
// time it occurred.
type CategorizedError struct {
	// Err is the underlying error.
	Err error
	// Category classifies the type of error.
	Category ErrorCategory
	// Timestamp is when the error occurred.
	Timestamp time.Time
}

// Error implements the error interface.
func (e *CategorizedError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("[%s] (no error)", e.Category)
	}
	return fmt.Sprintf("[%s] %s", e.Category, e.Err.Error())
}

// Unwrap returns the underlying error for errors.Is/As support.
func (e *CategorizedError) Unwrap() error {
	return e.Err
}

// categorize wraps err with a category, passing nil through and leaving
// already-categorized errors alone.
func categorize(category ErrorCategory, err error) error {
	if err == nil {
		return nil
	}
	var ce *CategorizedError
	if errors.As(err, &ce) {
		return err
	}
	return &CategorizedError{
		Err:       err,
		Category:  category,
		Timestamp: time.Now(),
	}
}

// CategoryOf returns the category of err, or ErrorCategoryUnknown when
// err carries none.
func CategoryOf(err error) ErrorCategory {
	var ce *CategorizedError
	if errors.As(err, &ce) {
		return ce.Category
	}
	return ErrorCategoryUnknown
}
