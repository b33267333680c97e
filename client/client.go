// Package client is the HTTP consumer of the catalog API. It implements
// reconcile.Backend so the reconciliation engine can run against a remote server.
package client

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
	"time"

	"github.com/joemans3/TandemLaunch-Scouting-DB/config"
	"github.com/joemans3/TandemLaunch-Scouting-DB/model"
	"github.com/joemans3/TandemLaunch-Scouting-DB/services"
	"github.com/joemans3/TandemLaunch-Scouting-DB/services/reconcile"
	"github.com/joemans3/TandemLaunch-Scouting-DB/utils/response"
)

// PingTimeout bounds the liveness probe; data calls carry no timeout of their own
const PingTimeout = time.Second

// HTTPDoer is the transport the client sends requests through
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// APIError is a non-2xx answer decoded from the error envelope. It unwraps to the matching sentinel.
type APIError struct {
	Status  int
	Code    string
	Message string
	Details string
}

func (e *APIError) Error() string {
	msg := e.Message
	if e.Details != "" {
		msg += ": " + e.Details
	}
	return fmt.Sprintf("%d %s: %s", e.Status, e.Code, msg)
}

// Unwrap maps the wire code back into the service taxonomy
func (e *APIError) Unwrap() error {
	switch e.Code {
	case response.CodeNotFound:
		return services.ErrNotFound
	case response.CodeDuplicateEntry:
		return services.ErrDuplicateEntry
	case response.CodeValidation:
		return services.ErrValidation
	case response.CodeInconsistentState:
		return services.ErrInconsistent
	case response.CodeServiceUnavailable:
		return services.ErrServiceUnavailable
	}
	if e.Status == http.StatusNotFound {
		return services.ErrNotFound
	}
	return nil
}

// Client talks to a catalog server
type Client struct {
	baseURL string
	token   string
	http    HTTPDoer
}

// Option customises a Client
type Option func(*Client)

// WithHTTPDoer replaces the default transport, e.g. with an in-process test server
func WithHTTPDoer(doer HTTPDoer) Option {
	return func(c *Client) {
		c.http = doer
	}
}

// New creates a client for the server described by settings
func New(settings config.ClientSettings, opts ...Option) *Client {
	c := &Client{
		baseURL: settings.BaseURL(),
		token:   settings.Token,
		http:    &http.Client{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

var _ reconcile.Backend = (*Client)(nil)

// do sends a request and decodes a 2xx JSON body into out, which may be nil
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out interface{}) error {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %v: %w", method, path, err, services.ErrServiceUnavailable)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeError(resp)
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s %s: %w", method, path, err)
	}
	return nil
}

func decodeError(resp *http.Response) error {
	apiErr := &APIError{Status: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}

	var envelope response.Response
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err := json.Unmarshal(raw, &envelope); err == nil && envelope.Error != nil {
		apiErr.Code = envelope.Error.Code
		apiErr.Message = envelope.Error.Message
		apiErr.Details = envelope.Error.Details
	}
	return apiErr
}

func idPath(prefix string, id uint) string {
	return prefix + strconv.FormatUint(uint64(id), 10)
}

func contactPrefix(role model.ContactRole) (string, error) {
	switch role {
	case model.RoleDepartmentHead:
		return "/department_heads/", nil
	case model.RoleAdmin:
		return "/admins/", nil
	default:
		return "", fmt.Errorf("unknown contact role %q: %w", role, services.ErrValidation)
	}
}

// Ping reports whether the server answers its liveness probe within PingTimeout
func (c *Client) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, PingTimeout)
	defer cancel()
	return c.do(ctx, http.MethodGet, "/ping", nil, nil, nil)
}

// Search runs the multi-entity search
func (c *Client) Search(ctx context.Context, term string) ([]services.SearchRow, error) {
	rows := []services.SearchRow{}
	err := c.do(ctx, http.MethodGet, "/search/", url.Values{"q": {term}}, nil, &rows)
	return rows, err
}

// ListUniversities returns up to limit universities by name
func (c *Client) ListUniversities(ctx context.Context, limit int) ([]model.University, error) {
	query := url.Values{}
	if limit > 0 {
		query.Set("limit", strconv.Itoa(limit))
	}
	universities := []model.University{}
	err := c.do(ctx, http.MethodGet, "/universities/", query, nil, &universities)
	return universities, err
}

// CreateUniversity adds a university
func (c *Client) CreateUniversity(ctx context.Context, name string) (*model.University, error) {
	var university model.University
	if err := c.do(ctx, http.MethodPost, "/universities/", nil, map[string]string{"name": name}, &university); err != nil {
		return nil, err
	}
	return &university, nil
}

// UpdateUniversity renames a university
func (c *Client) UpdateUniversity(ctx context.Context, id uint, name string) (*model.University, error) {
	var university model.University
	if err := c.do(ctx, http.MethodPatch, idPath("/universities/", id), nil, map[string]string{"name": name}, &university); err != nil {
		return nil, err
	}
	return &university, nil
}

// DeleteUniversity removes a university and everything under it
func (c *Client) DeleteUniversity(ctx context.Context, id uint) error {
	return c.do(ctx, http.MethodDelete, idPath("/universities/", id), nil, nil, nil)
}

// CreateDepartment adds a department under universityID
func (c *Client) CreateDepartment(ctx context.Context, name string, universityID uint) (*model.Department, error) {
	body := map[string]interface{}{"name": name, "university_id": universityID}
	var department model.Department
	if err := c.do(ctx, http.MethodPost, "/departments/", nil, body, &department); err != nil {
		return nil, err
	}
	return &department, nil
}

// UpdateDepartment renames a department
func (c *Client) UpdateDepartment(ctx context.Context, id uint, name string) (*model.Department, error) {
	var department model.Department
	if err := c.do(ctx, http.MethodPatch, idPath("/departments/", id), nil, map[string]string{"name": name}, &department); err != nil {
		return nil, err
	}
	return &department, nil
}

// CreateContact adds a department head or admin
func (c *Client) CreateContact(ctx context.Context, role model.ContactRole, in services.ContactInput) (*model.Contact, error) {
	prefix, err := contactPrefix(role)
	if err != nil {
		return nil, err
	}
	body := map[string]interface{}{
		"name":          in.Name,
		"email":         in.Email,
		"department_id": in.DepartmentID,
		"university_id": in.UniversityID,
	}
	var contact model.Contact
	if err := c.do(ctx, http.MethodPost, prefix, nil, body, &contact); err != nil {
		return nil, err
	}
	return &contact, nil
}

// UpdateContact changes the non-empty fields of a department head or admin
func (c *Client) UpdateContact(ctx context.Context, role model.ContactRole, id uint, name, email string) (*model.Contact, error) {
	prefix, err := contactPrefix(role)
	if err != nil {
		return nil, err
	}
	var contact model.Contact
	body := map[string]string{"name": name, "email": email}
	if err := c.do(ctx, http.MethodPatch, idPath(prefix, id), nil, body, &contact); err != nil {
		return nil, err
	}
	return &contact, nil
}

// DeleteContact removes a department head or admin
func (c *Client) DeleteContact(ctx context.Context, role model.ContactRole, id uint) error {
	prefix, err := contactPrefix(role)
	if err != nil {
		return err
	}
	return c.do(ctx, http.MethodDelete, idPath(prefix, id), nil, nil, nil)
}

// IsUnavailable reports whether err means the server could not be reached
func IsUnavailable(err error) bool {
	return errors.Is(err, services.ErrServiceUnavailable)
}
