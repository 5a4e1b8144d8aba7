// Package dto provides Data Transfer Objects for API requests/responses.
//
// Domain entities carry their own json tags and are returned directly;
// DTOs here exist for request shapes, where partial updates and string
// IDs need translation before reaching the domain layer.
package dto

import (
	"comercia/internal/core/id"
)

// ListResponse wraps list results with pagination.
type ListResponse struct {
	Items      any   `json:"items"`
	TotalCount int64 `json:"totalCount"`
	Limit      int   `json:"limit"`
	Offset     int   `json:"offset"`
}

// IDResponse for create operations.
type IDResponse struct {
	ID string `json:"id"`
}

// NewIDResponse creates ID response.
func NewIDResponse(i id.ID) IDResponse {
	return IDResponse{ID: i.String()}
}

// SuccessResponse for operations without data.
type SuccessResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

// ErrorResponse for error details.
type ErrorResponse struct {
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}

// ParseID parses an optional string ID into a nullable domain ID.
// Returns (nil, false) on malformed input.
func ParseID(s *string) (*id.ID, bool) {
	if s == nil || *s == "" {
		return nil, true
	}
	parsed, err := id.Parse(*s)
	if err != nil {
		return nil, false
	}
	return &parsed, true
}
