package model

import "fmt"

// ExtractionError represents failures while turning a source document into text
type ExtractionError struct {
	Source  string
	Method  string
	Message string
	Cause   error
}

func (e *ExtractionError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("extraction failed [%s] %s: %s (%v)", e.Method, e.Source, e.Message, e.Cause)
	}
	return fmt.Sprintf("extraction failed [%s] %s: %s", e.Method, e.Source, e.Message)
}

func (e *ExtractionError) Unwrap() error {
	return e.Cause
}

// NewExtractionError creates a new extraction error
func NewExtractionError(source, method, message string, cause error) *ExtractionError {
	return &ExtractionError{
		Source:  source,
		Method:  method,
		Message: message,
		Cause:   cause,
	}
}

// ValidationError represents a structurally invalid input rejected before validation
type ValidationError struct {
	Field   string
	Value   interface{}
	Rule    string
	Message string
	Cause   error
}

func (e *ValidationError) Error() string {
	if e.Value != nil {
		return fmt.Sprintf("validation failed on %s: %s (value=%v, rule=%s)", e.Field, e.Message, e.Value, e.Rule)
	}
	return fmt.Sprintf("validation failed on %s: %s (rule=%s)", e.Field, e.Message, e.Rule)
}

func (e *ValidationError) Unwrap() error {
	return e.Cause
}

// NewValidationError creates a new validation error
func NewValidationError(field string, value interface{}, rule, message string, cause error) *ValidationError {
	return &ValidationError{
		Field:   field,
		Value:   value,
		Rule:    rule,
		Message: message,
		Cause:   cause,
	}
}
