package webapi

// APIResponse is the envelope every Web API response shares. Result types
// embed it so the client can evaluate success uniformly.
type APIResponse struct {
	OK               bool             `json:"ok"`
	Error            string           `json:"error,omitempty"`
	Warning          string           `json:"warning,omitempty"`
	Needed           string           `json:"needed,omitempty"`
	Provided         string           `json:"provided,omitempty"`
	ResponseMetadata ResponseMetadata `json:"response_metadata,omitempty"`

	// RequestID is the platform request identifier from the response headers.
	RequestID string `json:"-"`
}

// ResponseMetadata carries pagination cursors and diagnostic messages.
type ResponseMetadata struct {
	NextCursor string   `json:"next_cursor,omitempty"`
	Messages   []string `json:"messages,omitempty"`
	Warnings   []string `json:"warnings,omitempty"`
}

// envelope gives the client access to the embedded APIResponse of any result
// type. The unexported method forces result types to embed APIResponse.
func (r *APIResponse) envelope() *APIResponse { return r }

// result is satisfied by every typed Web API result via APIResponse embedding.
type result interface {
	envelope() *APIResponse
}
