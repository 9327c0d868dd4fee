package model

import (
	"fmt"
	"strings"
)

// ErrorResponse represents a standardised error response.
type ErrorResponse struct {
	Error   string       `json:"error"`
	Message string       `json:"message"`
	Fields  []FieldError `json:"fields,omitempty"`
}

// Standard error codes for API responses
const (
	ErrCodeInvalidJSON           = "INVALID_JSON"
	ErrCodeValidation            = "VALIDATION_FAILED"
	ErrCodeCourseNotFound        = "COURSE_NOT_FOUND"
	ErrCodeRoadmapNotFound       = "ROADMAP_NOT_FOUND"
	ErrCodeProductNotFound       = "PRODUCT_NOT_FOUND"
	ErrCodeOrderNotFound         = "ORDER_NOT_FOUND"
	ErrCodePageNotFound          = "PAGE_NOT_FOUND"
	ErrCodeInvalidProductType    = "INVALID_PRODUCT_TYPE"
	ErrCodeInvalidPaymentMethod  = "INVALID_PAYMENT_METHOD"
	ErrCodeInvalidStatus         = "INVALID_STATUS"
	ErrCodeNegativePrice         = "NEGATIVE_PRICE"
	ErrCodeInvalidTransition     = "INVALID_TRANSITION"
	ErrCodeAccessLinkNotApproved = "ACCESS_LINK_REQUIRES_APPROVAL"
	ErrCodeConcurrentUpdate      = "CONCURRENT_UPDATE"
	ErrCodeUnknownModuleCourse   = "UNKNOWN_MODULE_COURSE"
	ErrCodeUploadFailed          = "UPLOAD_FAILED"
	ErrCodeIdempotencyKeyReused  = "IDEMPOTENCY_KEY_REUSED"
	ErrCodeUnauthorised          = "UNAUTHORIZED"
	ErrCodeForbidden             = "FORBIDDEN"
	ErrCodeInternalError         = "INTERNAL_ERROR"
)

// Domain errors for business logic
type DomainError struct {
	Code    string
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// Common domain errors
var (
	ErrCourseNotFound             = NewDomainError(ErrCodeCourseNotFound, "Course not found")
	ErrRoadmapNotFound            = NewDomainError(ErrCodeRoadmapNotFound, "Roadmap not found")
	ErrProductNotFound            = NewDomainError(ErrCodeProductNotFound, "Product not found")
	ErrOrderNotFound              = NewDomainError(ErrCodeOrderNotFound, "Order not found")
	ErrPageNotFound               = NewDomainError(ErrCodePageNotFound, "Page not found")
	ErrInvalidProductType         = NewDomainError(ErrCodeInvalidProductType, "Product type must be course or track")
	ErrInvalidPaymentMethod       = NewDomainError(ErrCodeInvalidPaymentMethod, "Payment method must be manual-bank-transfer, instapay or vodafone-cash")
	ErrInvalidStatus              = NewDomainError(ErrCodeInvalidStatus, "Status must be pending, approved or rejected")
	ErrNegativePrice              = NewDomainError(ErrCodeNegativePrice, "Price must not be negative")
	ErrInvalidTransition          = NewDomainError(ErrCodeInvalidTransition, "Only pending orders can be approved or rejected")
	ErrAccessLinkRequiresApproval = NewDomainError(ErrCodeAccessLinkNotApproved, "Access link can only be set on approved orders")
	ErrConcurrentUpdate           = NewDomainError(ErrCodeConcurrentUpdate, "Order was modified by another request")
	ErrUnknownModuleCourse        = NewDomainError(ErrCodeUnknownModuleCourse, "Roadmap module references a course that does not exist")
	ErrUploadFailed               = NewDomainError(ErrCodeUploadFailed, "File upload failed")
	ErrIdempotencyKeyReused       = NewDomainError(ErrCodeIdempotencyKeyReused, "Idempotency key was already used for a different submission")
)

// FieldError describes a single invalid input field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError collects every invalid field of a request so callers can
// report them together.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		parts[i] = fmt.Sprintf("%s %s", f.Field, f.Message)
	}
	return "validation failed: " + strings.Join(parts, ", ")
}

// Add records an invalid field.
func (e *ValidationError) Add(field, message string) {
	e.Fields = append(e.Fields, FieldError{Field: field, Message: message})
}

// Err returns e when at least one field was recorded, nil otherwise.
func (e *ValidationError) Err() error {
	if len(e.Fields) == 0 {
		return nil
	}
	return e
}
