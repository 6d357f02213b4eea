// Package dto provides Data Transfer Objects for API requests/responses.
package dto

// IDResponse is returned after a record has been created.
type IDResponse struct {
	ID int64 `json:"id"`
}

// ErrorResponse documents the body written by middleware.ErrorHandler.
type ErrorResponse struct {
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}
