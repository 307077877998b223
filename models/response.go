package models

type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

type ErrorResponse struct {
	Success   bool   `json:"success"`
	Message   string `json:"message"`
	Error     string `json:"error,omitempty"`
	Retryable bool   `json:"retryable,omitempty"`
}

type PaginationMeta struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	TotalItems int `json:"total_items"`
	TotalPages int `json:"total_pages"`
}

type PaginationLinks struct {
	Self string `json:"self"`
	Next string `json:"next,omitempty"`
	Prev string `json:"prev,omitempty"`
}

type HATEOASResponse struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    interface{}     `json:"data"`
	Meta    PaginationMeta  `json:"meta"`
	Links   PaginationLinks `json:"links"`
}

// ListResponse mirrors the {data, total} shape of the resource accessor.
type ListResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data"`
	Total   int         `json:"total"`
}

type AuthError struct {
	Name    string `json:"name"`
	Message string `json:"message"`
}

type AuthResult struct {
	Success    bool       `json:"success"`
	RedirectTo string     `json:"redirectTo,omitempty"`
	Token      string     `json:"token,omitempty"`
	Error      *AuthError `json:"error,omitempty"`
}

type CheckResult struct {
	Authenticated bool       `json:"authenticated"`
	RedirectTo    string     `json:"redirectTo,omitempty"`
	Logout        bool       `json:"logout,omitempty"`
	Error         *AuthError `json:"error,omitempty"`
}
