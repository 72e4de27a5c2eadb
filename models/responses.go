package models

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

// Payload is a JSON success body. Session establishment merges
// {"success": true} into it.
type Payload map[string]any
