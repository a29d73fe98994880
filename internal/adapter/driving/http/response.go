package httphandler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/AptS-1547/dns-orchestrator/internal/application"
	"github.com/AptS-1547/dns-orchestrator/internal/domain/apperr"
	"github.com/AptS-1547/dns-orchestrator/internal/domain/model"
)

// writeJSON marshals v to JSON and writes it to the response with the given
// status code. If marshaling fails, a 500 error is written instead.
func writeJSON(w http.ResponseWriter, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"code":"STORAGE_ERROR","details":null}`))
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(data)
}

// writeAppError renders an error in the {code, details} wire format with the
// HTTP status the taxonomy maps it to. Errors outside the taxonomy become
// opaque 500s; those and other server-side failures are logged here, once.
func (h *Handler) writeAppError(w http.ResponseWriter, err error) {
	status := apperr.HTTPStatus(err)
	code := apperr.Code(err)
	if code == "" {
		code = "INTERNAL_ERROR"
	}
	if status >= http.StatusInternalServerError {
		h.logger.Error("request failed", "code", code, "error", err)
	}
	writeJSON(w, status, ErrorResponse{Code: code, Details: apperr.Details(err)})
}

// ErrorResponse is the standard error response body.
type ErrorResponse struct {
	Code    string         `json:"code"`
	Details map[string]any `json:"details"`
}

// AccountResponse is the JSON representation of an account.
type AccountResponse struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Provider     string `json:"provider"`
	Status       string `json:"status"`
	ErrorMessage string `json:"errorMessage,omitempty"`
	CreatedAt    string `json:"createdAt"`
	UpdatedAt    string `json:"updatedAt"`
}

// DomainResponse is the JSON representation of a zone. RecordCount is
// omitted for providers that do not report it.
type DomainResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	AccountID   string `json:"accountId"`
	Provider    string `json:"provider"`
	Status      string `json:"status"`
	RecordCount int    `json:"recordCount,omitempty"`
}

// RecordResponse is the JSON representation of a DNS record.
type RecordResponse struct {
	ID       string `json:"id"`
	DomainID string `json:"domainId"`
	Name     string `json:"name"`
	Type     string `json:"type"`
	Content  string `json:"content"`
	TTL      int    `json:"ttl"`
	Priority int    `json:"priority,omitempty"`
	Proxied  bool   `json:"proxied"`
}

// PageResponse is one page of a listing.
type PageResponse[T any] struct {
	Items    []T `json:"items"`
	Total    int `json:"total"`
	Page     int `json:"page"`
	PageSize int `json:"pageSize"`
}

// BatchFailureResponse names one item that failed and why.
type BatchFailureResponse struct {
	ID     string `json:"id"`
	Reason string `json:"reason"`
}

// BatchDeleteResponse reports the per-item outcome of a batch delete.
type BatchDeleteResponse struct {
	Deleted []string               `json:"deleted"`
	Failed  []BatchFailureResponse `json:"failed"`
}

// HealthResponse is the JSON representation of the health check endpoint.
type HealthResponse struct {
	Status string `json:"status"`
	Time   string `json:"time"`
}

// CreateAccountRequest is the JSON body for the create account endpoint.
type CreateAccountRequest struct {
	Name        string            `json:"name"`
	Provider    string            `json:"provider"`
	Credentials model.Credentials `json:"credentials"`
}

// UpdateAccountRequest is the JSON body for the update account endpoint.
// Omitted fields are left unchanged.
type UpdateAccountRequest struct {
	Name        string            `json:"name,omitempty"`
	Credentials model.Credentials `json:"credentials,omitempty"`
}

// BatchDeleteRequest is the JSON body for the batch delete endpoints.
type BatchDeleteRequest struct {
	IDs []string `json:"ids"`
}

// RecordRequest is the JSON body for the create and update record endpoints.
type RecordRequest struct {
	Name     string `json:"name"`
	Type     string `json:"type"`
	Content  string `json:"content"`
	TTL      int    `json:"ttl"`
	Priority int    `json:"priority,omitempty"`
	Proxied  bool   `json:"proxied,omitempty"`
}

// ExportRequest is the JSON body for the export endpoint.
type ExportRequest struct {
	AccountIDs []string `json:"accountIds"`
	Encrypt    bool     `json:"encrypt"`
	Password   string   `json:"password,omitempty"`
}

// ImportRequest is the JSON body for the import and preview endpoints.
// Content is the backup file's text, pasted or uploaded by the caller.
type ImportRequest struct {
	Content  string `json:"content"`
	Password string `json:"password,omitempty"`
}

// toAccountResponse converts a domain Account to its JSON representation.
func toAccountResponse(a model.Account) AccountResponse {
	return AccountResponse{
		ID:           a.ID,
		Name:         a.Name,
		Provider:     string(a.Provider),
		Status:       string(a.Status),
		ErrorMessage: a.ErrorMessage,
		CreatedAt:    a.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:    a.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

// toDomainResponse converts a domain zone to its JSON representation.
func toDomainResponse(d model.Domain) DomainResponse {
	return DomainResponse{
		ID:          d.ID,
		Name:        d.Name,
		AccountID:   d.AccountID,
		Provider:    string(d.Provider),
		Status:      string(d.Status),
		RecordCount: d.RecordCount,
	}
}

// toRecordResponse converts a DNS record to its JSON representation.
func toRecordResponse(rec model.DNSRecord) RecordResponse {
	return RecordResponse{
		ID:       rec.ID,
		DomainID: rec.DomainID,
		Name:     rec.Name,
		Type:     string(rec.Type),
		Content:  rec.Content,
		TTL:      rec.TTL,
		Priority: rec.Priority,
		Proxied:  rec.Proxied,
	}
}

// toBatchDeleteResponse converts an account batch result to its JSON
// representation, normalizing nil slices to empty ones.
func toBatchDeleteResponse(result application.BatchDeleteResult) BatchDeleteResponse {
	resp := BatchDeleteResponse{
		Deleted: result.Deleted,
		Failed:  make([]BatchFailureResponse, 0, len(result.Failed)),
	}
	if resp.Deleted == nil {
		resp.Deleted = []string{}
	}
	for _, f := range result.Failed {
		resp.Failed = append(resp.Failed, BatchFailureResponse{ID: f.ID, Reason: f.Reason})
	}
	return resp
}

// toBatchRecordResponse converts a record batch result to its JSON
// representation.
func toBatchRecordResponse(result application.BatchRecordResult) BatchDeleteResponse {
	resp := BatchDeleteResponse{
		Deleted: result.Deleted,
		Failed:  make([]BatchFailureResponse, 0, len(result.Failed)),
	}
	if resp.Deleted == nil {
		resp.Deleted = []string{}
	}
	for _, f := range result.Failed {
		resp.Failed = append(resp.Failed, BatchFailureResponse{ID: f.ID, Reason: f.Reason})
	}
	return resp
}
