package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"github.com/AptS-1547/dns-orchestrator/internal/domain/apperr"
	"github.com/AptS-1547/dns-orchestrator/internal/domain/model"
	"github.com/AptS-1547/dns-orchestrator/internal/domain/port/driven"
)

const cloudflareBaseURL = "https://api.cloudflare.com/client/v4"

// Compile-time interface satisfaction check.
var _ driven.DNSProvider = (*Cloudflare)(nil)

// Cloudflare implements the DNSProvider port against the Cloudflare v4 API
// using API-token authentication.
type Cloudflare struct {
	client  *http.Client
	baseURL string
	token   string
}

// newCloudflare validates credential shape and builds an unvalidated
// connection. Required field: api_token.
func newCloudflare(credentials model.Credentials, client *http.Client) (driven.DNSProvider, error) {
	token := credentials["api_token"]
	if token == "" {
		return nil, apperr.CredentialValidation(string(model.ProviderCloudflare), "api_token", "api_token is required")
	}
	return &Cloudflare{
		client:  client,
		baseURL: cloudflareBaseURL,
		token:   token,
	}, nil
}

// NewCloudflareWithBaseURL builds a Cloudflare adapter against a custom base
// URL. Intended for tests with an httptest server.
func NewCloudflareWithBaseURL(client *http.Client, baseURL, token string) *Cloudflare {
	return &Cloudflare{client: client, baseURL: baseURL, token: token}
}

// Type identifies this connection as Cloudflare-backed.
func (c *Cloudflare) Type() model.ProviderType { return model.ProviderCloudflare }

// --- Cloudflare wire types ---

type cfEnvelope struct {
	Success    bool            `json:"success"`
	Errors     []cfError       `json:"errors"`
	Result     json.RawMessage `json:"result"`
	ResultInfo *cfResultInfo   `json:"result_info"`
}

type cfError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type cfResultInfo struct {
	Page       int `json:"page"`
	PerPage    int `json:"per_page"`
	TotalCount int `json:"total_count"`
}

type cfZone struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Status string `json:"status"`
}

type cfRecord struct {
	ID       string `json:"id"`
	ZoneID   string `json:"zone_id"`
	Name     string `json:"name"`
	Type     string `json:"type"`
	Content  string `json:"content"`
	TTL      int    `json:"ttl"`
	Priority int    `json:"priority,omitempty"`
	Proxied  bool   `json:"proxied"`
}

type cfRecordBody struct {
	Name     string `json:"name"`
	Type     string `json:"type"`
	Content  string `json:"content"`
	TTL      int    `json:"ttl"`
	Priority int    `json:"priority,omitempty"`
	Proxied  bool   `json:"proxied"`
}

// ValidateCredentials verifies the API token via the token-verify endpoint.
// A 401/403 answer means the token is explicitly rejected: (false, nil).
func (c *Cloudflare) ValidateCredentials(ctx context.Context) (bool, error) {
	env, err := c.do(ctx, http.MethodGet, "/user/tokens/verify", nil, nil)
	if err != nil {
		var perr *driven.ProviderError
		if errors.As(err, &perr) && perr.Kind == driven.ProviderErrInvalidCredentials {
			return false, nil
		}
		return false, err
	}
	return env.Success, nil
}

// ListDomains returns one page of zones.
func (c *Cloudflare) ListDomains(ctx context.Context, query model.DomainQuery) (model.Page[model.Domain], error) {
	page, pageSize := normalizePage(query.Page, query.PageSize)

	params := url.Values{}
	params.Set("page", strconv.Itoa(page))
	params.Set("per_page", strconv.Itoa(pageSize))
	if query.Keyword != "" {
		params.Set("name", "contains:"+query.Keyword)
	}

	env, err := c.do(ctx, http.MethodGet, "/zones?"+params.Encode(), nil, nil)
	if err != nil {
		return model.Page[model.Domain]{}, err
	}

	var zones []cfZone
	if err := json.Unmarshal(env.Result, &zones); err != nil {
		return model.Page[model.Domain]{}, c.parseErr(err)
	}

	domains := make([]model.Domain, 0, len(zones))
	for _, z := range zones {
		domains = append(domains, zoneToDomain(z))
	}

	total := len(domains)
	if env.ResultInfo != nil {
		total = env.ResultInfo.TotalCount
	}

	return model.Page[model.Domain]{Items: domains, Total: total, Page: page, PageSize: pageSize}, nil
}

// GetDomain returns a single zone.
func (c *Cloudflare) GetDomain(ctx context.Context, domainID string) (model.Domain, error) {
	env, err := c.do(ctx, http.MethodGet, "/zones/"+url.PathEscape(domainID), nil, map[string]driven.ProviderErrorKind{
		"404": driven.ProviderErrDomainNotFound,
	})
	if err != nil {
		return model.Domain{}, err
	}

	var zone cfZone
	if err := json.Unmarshal(env.Result, &zone); err != nil {
		return model.Domain{}, c.parseErr(err)
	}
	return zoneToDomain(zone), nil
}

// ListRecords returns one page of records in a zone.
func (c *Cloudflare) ListRecords(ctx context.Context, domainID string, query model.RecordQuery) (model.Page[model.DNSRecord], error) {
	page, pageSize := normalizePage(query.Page, query.PageSize)

	params := url.Values{}
	params.Set("page", strconv.Itoa(page))
	params.Set("per_page", strconv.Itoa(pageSize))
	if query.Keyword != "" {
		params.Set("search", query.Keyword)
	}
	if query.Type != "" {
		params.Set("type", string(query.Type))
	}

	path := "/zones/" + url.PathEscape(domainID) + "/dns_records?" + params.Encode()
	env, err := c.do(ctx, http.MethodGet, path, nil, map[string]driven.ProviderErrorKind{
		"404": driven.ProviderErrDomainNotFound,
	})
	if err != nil {
		return model.Page[model.DNSRecord]{}, err
	}

	var records []cfRecord
	if err := json.Unmarshal(env.Result, &records); err != nil {
		return model.Page[model.DNSRecord]{}, c.parseErr(err)
	}

	items := make([]model.DNSRecord, 0, len(records))
	for _, rec := range records {
		items = append(items, recordToModel(rec, domainID))
	}

	total := len(items)
	if env.ResultInfo != nil {
		total = env.ResultInfo.TotalCount
	}

	return model.Page[model.DNSRecord]{Items: items, Total: total, Page: page, PageSize: pageSize}, nil
}

// CreateRecord creates a record in a zone.
func (c *Cloudflare) CreateRecord(ctx context.Context, req model.CreateRecordRequest) (model.DNSRecord, error) {
	body := cfRecordBody{
		Name:     req.Name,
		Type:     string(req.Type),
		Content:  req.Content,
		TTL:      req.TTL,
		Priority: req.Priority,
		Proxied:  req.Proxied,
	}

	path := "/zones/" + url.PathEscape(req.DomainID) + "/dns_records"
	env, err := c.do(ctx, http.MethodPost, path, body, map[string]driven.ProviderErrorKind{
		"404":   driven.ProviderErrDomainNotFound,
		"81057": driven.ProviderErrRecordExists, // "record already exists"
	})
	if err != nil {
		return model.DNSRecord{}, err
	}

	var rec cfRecord
	if err := json.Unmarshal(env.Result, &rec); err != nil {
		return model.DNSRecord{}, c.parseErr(err)
	}
	return recordToModel(rec, req.DomainID), nil
}

// UpdateRecord replaces the mutable fields of an existing record.
func (c *Cloudflare) UpdateRecord(ctx context.Context, recordID string, req model.UpdateRecordRequest) (model.DNSRecord, error) {
	body := cfRecordBody{
		Name:     req.Name,
		Type:     string(req.Type),
		Content:  req.Content,
		TTL:      req.TTL,
		Priority: req.Priority,
		Proxied:  req.Proxied,
	}

	path := "/zones/" + url.PathEscape(req.DomainID) + "/dns_records/" + url.PathEscape(recordID)
	env, err := c.do(ctx, http.MethodPut, path, body, map[string]driven.ProviderErrorKind{
		"404": driven.ProviderErrRecordNotFound,
	})
	if err != nil {
		return model.DNSRecord{}, err
	}

	var rec cfRecord
	if err := json.Unmarshal(env.Result, &rec); err != nil {
		return model.DNSRecord{}, c.parseErr(err)
	}
	return recordToModel(rec, req.DomainID), nil
}

// DeleteRecord removes a record from a zone.
func (c *Cloudflare) DeleteRecord(ctx context.Context, recordID, domainID string) error {
	path := "/zones/" + url.PathEscape(domainID) + "/dns_records/" + url.PathEscape(recordID)
	_, err := c.do(ctx, http.MethodDelete, path, nil, map[string]driven.ProviderErrorKind{
		"404": driven.ProviderErrRecordNotFound,
	})
	return err
}

// do performs one API call and returns the decoded envelope. notFoundKinds
// maps HTTP status codes or Cloudflare error codes (both as strings) to the
// ProviderError kind to raise for them.
func (c *Cloudflare) do(ctx context.Context, method, path string, body any, kinds map[string]driven.ProviderErrorKind) (*cfEnvelope, error) {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, c.parseErr(err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, c.parseErr(err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, &driven.ProviderError{
			Kind:       driven.ProviderErrNetwork,
			Provider:   model.ProviderCloudflare,
			RawMessage: err.Error(),
		}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &driven.ProviderError{
			Kind:       driven.ProviderErrNetwork,
			Provider:   model.ProviderCloudflare,
			RawMessage: err.Error(),
		}
	}

	var env cfEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, c.parseErr(fmt.Errorf("status %d: %w", resp.StatusCode, err))
	}

	if env.Success && resp.StatusCode < 400 {
		return &env, nil
	}

	return nil, c.apiErr(resp.StatusCode, env.Errors, kinds)
}

// apiErr maps a failed Cloudflare response to a ProviderError.
func (c *Cloudflare) apiErr(status int, errs []cfError, kinds map[string]driven.ProviderErrorKind) error {
	raw := ""
	if len(errs) > 0 {
		raw = errs[0].Message
	}

	kind := driven.ProviderErrUnknown
	switch status {
	case http.StatusUnauthorized, http.StatusForbidden:
		kind = driven.ProviderErrInvalidCredentials
	case http.StatusTooManyRequests:
		kind = driven.ProviderErrQuotaExceeded
	default:
		if k, ok := kinds[strconv.Itoa(status)]; ok {
			kind = k
		}
		for _, e := range errs {
			if k, ok := kinds[strconv.Itoa(e.Code)]; ok {
				kind = k
				break
			}
		}
	}

	return &driven.ProviderError{
		Kind:       kind,
		Provider:   model.ProviderCloudflare,
		RawMessage: raw,
	}
}

func (c *Cloudflare) parseErr(err error) error {
	return &driven.ProviderError{
		Kind:       driven.ProviderErrParse,
		Provider:   model.ProviderCloudflare,
		RawMessage: err.Error(),
	}
}

func zoneToDomain(z cfZone) model.Domain {
	return model.Domain{
		ID:       z.ID,
		Name:     z.Name,
		Provider: model.ProviderCloudflare,
		Status:   zoneStatus(z.Status),
	}
}

func zoneStatus(s string) model.DomainStatus {
	switch s {
	case "active":
		return model.DomainStatusActive
	case "paused":
		return model.DomainStatusPaused
	default:
		return model.DomainStatusPending
	}
}

func recordToModel(rec cfRecord, domainID string) model.DNSRecord {
	return model.DNSRecord{
		ID:       rec.ID,
		DomainID: domainID,
		Name:     rec.Name,
		Type:     model.RecordType(rec.Type),
		Content:  rec.Content,
		TTL:      rec.TTL,
		Priority: rec.Priority,
		Proxied:  rec.Proxied,
	}
}

func normalizePage(page, pageSize int) (int, int) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}
	return page, pageSize
}
