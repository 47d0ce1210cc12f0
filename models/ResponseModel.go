package models

// ErrorResponse is the generic error body returned by the API.
type ErrorResponse struct {
	Error   string `json:"error" example:"invalid JSON input"`
	Details string `json:"details,omitempty"`
}

// ListResponse wraps paginated list results.
type ListResponse struct {
	Data  interface{} `json:"data"`
	Total int64       `json:"total" example:"42"`
	Page  int         `json:"page" example:"1"`
	Limit int         `json:"limit" example:"20"`
}
