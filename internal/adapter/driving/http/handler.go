package httphandler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/AptS-1547/dns-orchestrator/internal/application"
	"github.com/AptS-1547/dns-orchestrator/internal/domain/apperr"
	"github.com/AptS-1547/dns-orchestrator/internal/domain/model"
)

// Handler is the HTTP driving adapter that serves the REST API.
type Handler struct {
	accounts *application.AccountService
	domains  *application.DomainService
	dns      *application.DNSService
	export   *application.ExportService
	logger   *slog.Logger
}

// NewHandler creates a Handler with all required dependencies.
func NewHandler(
	accounts *application.AccountService,
	domains *application.DomainService,
	dns *application.DNSService,
	export *application.ExportService,
	logger *slog.Logger,
) *Handler {
	return &Handler{
		accounts: accounts,
		domains:  domains,
		dns:      dns,
		export:   export,
		logger:   logger,
	}
}

// NewServeMux creates an http.Handler with all routes registered and wrapped
// with logging and recovery middleware.
func NewServeMux(h *Handler, logger *slog.Logger) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/v1/accounts", h.ListAccounts)
	mux.HandleFunc("POST /api/v1/accounts", h.CreateAccount)
	mux.HandleFunc("POST /api/v1/accounts/batch-delete", h.BatchDeleteAccounts)
	mux.HandleFunc("GET /api/v1/accounts/{id}", h.GetAccount)
	mux.HandleFunc("PUT /api/v1/accounts/{id}", h.UpdateAccount)
	mux.HandleFunc("DELETE /api/v1/accounts/{id}", h.DeleteAccount)

	mux.HandleFunc("GET /api/v1/accounts/{id}/domains", h.ListDomains)
	mux.HandleFunc("GET /api/v1/accounts/{id}/domains/{domainId}", h.GetDomain)
	mux.HandleFunc("GET /api/v1/accounts/{id}/domains/{domainId}/records", h.ListRecords)
	mux.HandleFunc("POST /api/v1/accounts/{id}/domains/{domainId}/records", h.CreateRecord)
	mux.HandleFunc("POST /api/v1/accounts/{id}/domains/{domainId}/records/batch-delete", h.BatchDeleteRecords)
	mux.HandleFunc("PUT /api/v1/accounts/{id}/domains/{domainId}/records/{recordId}", h.UpdateRecord)
	mux.HandleFunc("DELETE /api/v1/accounts/{id}/domains/{domainId}/records/{recordId}", h.DeleteRecord)

	mux.HandleFunc("POST /api/v1/export", h.ExportAccounts)
	mux.HandleFunc("POST /api/v1/import/preview", h.PreviewImport)
	mux.HandleFunc("POST /api/v1/import", h.ImportAccounts)

	mux.HandleFunc("GET /api/v1/health", h.Health)

	// Recovery innermost so panics are caught before logging.
	wrapped := recoveryMiddleware(logger, mux)
	wrapped = loggingMiddleware(logger, wrapped)

	return wrapped
}

// ListAccounts returns all registered accounts.
func (h *Handler) ListAccounts(w http.ResponseWriter, r *http.Request) {
	accounts, err := h.accounts.List(r.Context())
	if err != nil {
		h.writeAppError(w, err)
		return
	}

	resp := make([]AccountResponse, 0, len(accounts))
	for _, a := range accounts {
		resp = append(resp, toAccountResponse(a))
	}
	writeJSON(w, http.StatusOK, resp)
}

// GetAccount returns a single account by id.
func (h *Handler) GetAccount(w http.ResponseWriter, r *http.Request) {
	account, err := h.accounts.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		h.writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toAccountResponse(account))
}

// CreateAccount registers a new provider account.
func (h *Handler) CreateAccount(w http.ResponseWriter, r *http.Request) {
	var req CreateAccountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeAppError(w, apperr.ValidationError("invalid request body"))
		return
	}

	account, err := h.accounts.Create(r.Context(), application.CreateAccountRequest{
		Name:        req.Name,
		Provider:    model.ProviderType(req.Provider),
		Credentials: req.Credentials,
	})
	if err != nil {
		h.writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toAccountResponse(account))
}

// UpdateAccount changes an account's name, credentials, or both.
func (h *Handler) UpdateAccount(w http.ResponseWriter, r *http.Request) {
	var req UpdateAccountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeAppError(w, apperr.ValidationError("invalid request body"))
		return
	}

	account, err := h.accounts.Update(r.Context(), r.PathValue("id"), application.UpdateAccountRequest{
		Name:        req.Name,
		Credentials: req.Credentials,
	})
	if err != nil {
		h.writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toAccountResponse(account))
}

// DeleteAccount removes an account, its connection, and its credentials.
func (h *Handler) DeleteAccount(w http.ResponseWriter, r *http.Request) {
	if err := h.accounts.Delete(r.Context(), r.PathValue("id")); err != nil {
		h.writeAppError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// BatchDeleteAccounts deletes several accounts, reporting per-id outcomes.
func (h *Handler) BatchDeleteAccounts(w http.ResponseWriter, r *http.Request) {
	var req BatchDeleteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeAppError(w, apperr.ValidationError("invalid request body"))
		return
	}
	if len(req.IDs) == 0 {
		h.writeAppError(w, apperr.ValidationError("ids must not be empty"))
		return
	}

	result := h.accounts.BatchDelete(r.Context(), req.IDs)
	writeJSON(w, http.StatusOK, toBatchDeleteResponse(result))
}

// ListDomains returns one page of the account's zones.
func (h *Handler) ListDomains(w http.ResponseWriter, r *http.Request) {
	page, err := h.domains.ListDomains(r.Context(), r.PathValue("id"), model.DomainQuery{
		Page:     queryInt(r, "page"),
		PageSize: queryInt(r, "pageSize"),
		Keyword:  r.URL.Query().Get("keyword"),
	})
	if err != nil {
		h.writeAppError(w, err)
		return
	}

	items := make([]DomainResponse, 0, len(page.Items))
	for _, d := range page.Items {
		items = append(items, toDomainResponse(d))
	}
	writeJSON(w, http.StatusOK, PageResponse[DomainResponse]{
		Items: items, Total: page.Total, Page: page.Page, PageSize: page.PageSize,
	})
}

// GetDomain returns a single zone.
func (h *Handler) GetDomain(w http.ResponseWriter, r *http.Request) {
	domain, err := h.domains.GetDomain(r.Context(), r.PathValue("id"), r.PathValue("domainId"))
	if err != nil {
		h.writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toDomainResponse(domain))
}

// ListRecords returns one page of records in a zone.
func (h *Handler) ListRecords(w http.ResponseWriter, r *http.Request) {
	page, err := h.dns.ListRecords(r.Context(), r.PathValue("id"), r.PathValue("domainId"), model.RecordQuery{
		Page:     queryInt(r, "page"),
		PageSize: queryInt(r, "pageSize"),
		Keyword:  r.URL.Query().Get("keyword"),
		Type:     model.RecordType(r.URL.Query().Get("type")),
	})
	if err != nil {
		h.writeAppError(w, err)
		return
	}

	items := make([]RecordResponse, 0, len(page.Items))
	for _, rec := range page.Items {
		items = append(items, toRecordResponse(rec))
	}
	writeJSON(w, http.StatusOK, PageResponse[RecordResponse]{
		Items: items, Total: page.Total, Page: page.Page, PageSize: page.PageSize,
	})
}

// CreateRecord creates a record in a zone.
func (h *Handler) CreateRecord(w http.ResponseWriter, r *http.Request) {
	var req RecordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeAppError(w, apperr.ValidationError("invalid request body"))
		return
	}

	record, err := h.dns.CreateRecord(r.Context(), r.PathValue("id"), model.CreateRecordRequest{
		DomainID: r.PathValue("domainId"),
		Name:     req.Name,
		Type:     model.RecordType(req.Type),
		Content:  req.Content,
		TTL:      req.TTL,
		Priority: req.Priority,
		Proxied:  req.Proxied,
	})
	if err != nil {
		h.writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toRecordResponse(record))
}

// UpdateRecord replaces the mutable fields of an existing record.
func (h *Handler) UpdateRecord(w http.ResponseWriter, r *http.Request) {
	var req RecordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeAppError(w, apperr.ValidationError("invalid request body"))
		return
	}

	record, err := h.dns.UpdateRecord(r.Context(), r.PathValue("id"), r.PathValue("recordId"), model.UpdateRecordRequest{
		DomainID: r.PathValue("domainId"),
		Name:     req.Name,
		Type:     model.RecordType(req.Type),
		Content:  req.Content,
		TTL:      req.TTL,
		Priority: req.Priority,
		Proxied:  req.Proxied,
	})
	if err != nil {
		h.writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toRecordResponse(record))
}

// DeleteRecord removes a record from a zone.
func (h *Handler) DeleteRecord(w http.ResponseWriter, r *http.Request) {
	err := h.dns.DeleteRecord(r.Context(), r.PathValue("id"), r.PathValue("recordId"), r.PathValue("domainId"))
	if err != nil {
		h.writeAppError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// BatchDeleteRecords deletes several records, reporting per-record outcomes.
func (h *Handler) BatchDeleteRecords(w http.ResponseWriter, r *http.Request) {
	var req BatchDeleteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeAppError(w, apperr.ValidationError("invalid request body"))
		return
	}
	if len(req.IDs) == 0 {
		h.writeAppError(w, apperr.ValidationError("ids must not be empty"))
		return
	}

	result, err := h.dns.BatchDeleteRecords(r.Context(), r.PathValue("id"), r.PathValue("domainId"), req.IDs)
	if err != nil {
		h.writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toBatchRecordResponse(result))
}

// ExportAccounts renders the selected accounts as a downloadable backup file.
func (h *Handler) ExportAccounts(w http.ResponseWriter, r *http.Request) {
	var req ExportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeAppError(w, apperr.ValidationError("invalid request body"))
		return
	}

	result, err := h.export.ExportAccounts(r.Context(), req.AccountIDs, req.Encrypt, req.Password)
	if err != nil {
		h.writeAppError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+result.Filename+`"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(result.Content)
}

// PreviewImport inspects an uploaded backup file without importing it.
func (h *Handler) PreviewImport(w http.ResponseWriter, r *http.Request) {
	var req ImportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeAppError(w, apperr.ValidationError("invalid request body"))
		return
	}

	preview, err := h.export.PreviewImport(r.Context(), []byte(req.Content), req.Password)
	if err != nil {
		h.writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, preview)
}

// ImportAccounts imports accounts from an uploaded backup file.
func (h *Handler) ImportAccounts(w http.ResponseWriter, r *http.Request) {
	var req ImportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeAppError(w, apperr.ValidationError("invalid request body"))
		return
	}

	result, err := h.export.ImportAccounts(r.Context(), []byte(req.Content), req.Password)
	if err != nil {
		h.writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// Health returns a simple health check response.
func (h *Handler) Health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{
		Status: "ok",
		Time:   time.Now().UTC().Format(time.RFC3339),
	})
}

// queryInt parses an integer query parameter, returning 0 when absent or
// malformed (services normalize zero to their defaults).
func queryInt(r *http.Request, key string) int {
	v := r.URL.Query().Get(key)
	if v == "" {
		return 0
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0
	}
	return n
}
