package errors

import (
	"fmt"
	"time"
)

// ErrorType represents the type of error
type ErrorType string

const (
	// ErrorTypeNavigation represents a failed page load (network failure, DNS failure, non-2xx)
	ErrorTypeNavigation ErrorType = "navigation"
	// ErrorTypeParsing represents a value that was found but failed numeric or JSON parsing
	ErrorTypeParsing ErrorType = "parsing"
	// ErrorTypeEnrichment represents a failed follow-up detail-page visit
	ErrorTypeEnrichment ErrorType = "enrichment"
	// ErrorTypeRateLimit represents rate limiting errors
	ErrorTypeRateLimit ErrorType = "rate_limit"
	// ErrorTypeCache represents cache-related errors
	ErrorTypeCache ErrorType = "cache"
	// ErrorTypePublisher represents publisher-related errors
	ErrorTypePublisher ErrorType = "publisher"
	// ErrorTypeValidation represents validation errors
	ErrorTypeValidation ErrorType = "validation"
	// ErrorTypeConfiguration represents configuration errors
	ErrorTypeConfiguration ErrorType = "configuration"
)

// ScrapeError represents a scraper-specific error
type ScrapeError struct {
	Type    ErrorType
	URL     string
	Message string
	Err     error
	Time    time.Time
}

// Error implements the error interface
func (e *ScrapeError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %s - %v", e.Type, e.URL, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s: %s", e.Type, e.URL, e.Message)
}

// Unwrap returns the underlying error
func (e *ScrapeError) Unwrap() error {
	return e.Err
}

// IsFatal returns true if the error aborts the scrape for its URL.
// Only navigation failures are fatal; every other failure mode degrades to
// an incomplete field or record.
func (e *ScrapeError) IsFatal() bool {
	return e.Type == ErrorTypeNavigation
}

// IsRetryable returns true if the error is retryable
func (e *ScrapeError) IsRetryable() bool {
	switch e.Type {
	case ErrorTypeNavigation, ErrorTypeEnrichment:
		return true
	case ErrorTypeRateLimit, ErrorTypeParsing:
		return false
	default:
		return false
	}
}

// New creates a new ScrapeError
func New(errType ErrorType, url, message string, err error) *ScrapeError {
	return &ScrapeError{
		Type:    errType,
		URL:     url,
		Message: message,
		Err:     err,
		Time:    time.Now(),
	}
}

// NewNavigation creates a new navigation error
func NewNavigation(url, message string, err error) *ScrapeError {
	return New(ErrorTypeNavigation, url, message, err)
}

// NewParsing creates a new parsing error
func NewParsing(url, message string, err error) *ScrapeError {
	return New(ErrorTypeParsing, url, message, err)
}

// NewEnrichment creates a new enrichment error
func NewEnrichment(url, message string, err error) *ScrapeError {
	return New(ErrorTypeEnrichment, url, message, err)
}

// NewRateLimit creates a new rate limit error
func NewRateLimit(url string, duration time.Duration) *ScrapeError {
	message := fmt.Sprintf("rate limited for %v", duration)
	return New(ErrorTypeRateLimit, url, message, nil)
}

// NewCache creates a new cache error
func NewCache(url, message string, err error) *ScrapeError {
	return New(ErrorTypeCache, url, message, err)
}

// NewPublisher creates a new publisher error
func NewPublisher(url, message string, err error) *ScrapeError {
	return New(ErrorTypePublisher, url, message, err)
}

// NewValidation creates a new validation error
func NewValidation(url, message string) *ScrapeError {
	return New(ErrorTypeValidation, url, message, nil)
}

// NewConfiguration creates a new configuration error
func NewConfiguration(message string, err error) *ScrapeError {
	return New(ErrorTypeConfiguration, "", message, err)
}
