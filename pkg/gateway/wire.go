package gateway

import "github.com/goliatone/go-formbuilder/pkg/model"

// Wire payloads shared by Client and the HTTP server.

// CreatePayload is the body of POST /api/forms.
type CreatePayload struct {
	Name      string        `json:"formName"`
	Fields    []model.Field `json:"formComponents"`
	SessionID string        `json:"sessionId"`
}

// Schema returns the schema carried by the payload.
func (p CreatePayload) Schema() model.FormSchema {
	return model.FormSchema{Name: p.Name, Fields: p.Fields}
}

// CreateResponse is the body returned by POST /api/forms.
type CreateResponse struct {
	Success bool   `json:"success"`
	ID      string `json:"uuid"`
	URL     string `json:"url"`
}

// SubmitResponse is the body returned by POST /api/forms/:uuid/submit.
type SubmitResponse struct {
	Success      bool   `json:"success"`
	SubmissionID string `json:"submissionId"`
}

// DeleteResponse is the body returned by DELETE /api/forms/:uuid.
type DeleteResponse struct {
	Success bool `json:"success"`
}

// ListResponse wraps the forms returned by GET /api/forms.
type ListResponse struct {
	Data []model.PublishedForm `json:"data"`
}

// ErrorResponse is the envelope of every failed request. Errors carries
// per-field messages on 422 responses.
type ErrorResponse struct {
	OK      int                 `json:"ok"`
	Code    int                 `json:"code"`
	Message string              `json:"message"`
	Errors  map[string][]string `json:"errors,omitempty"`
}

// Header names understood by the server.
const (
	HeaderSessionID     = "X-Session-Id"
	HeaderAuthorization = "Authorization"
)
