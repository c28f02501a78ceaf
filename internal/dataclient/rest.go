package dataclient

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/bscmoz/consultoria-platform/pkg/logging"
)

// RestClient speaks the hosted backend's REST dialect: tables under
// /rest/v1/{table} with `col=eq.val` filters and `order=col.desc` ordering,
// password-grant sign-in under /auth/v1.
type RestClient struct {
	http   *resty.Client
	apiKey string
	logger *logging.Logger
}

// NewRestClient builds a client for the given backend base URL and API key.
func NewRestClient(baseURL, apiKey string, logger *logging.Logger) *RestClient {
	if logger == nil {
		logger = logging.Default()
	}
	client := resty.New().
		SetBaseURL(strings.TrimRight(baseURL, "/")).
		SetTimeout(15 * time.Second).
		SetHeader("apikey", apiKey).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json")

	return &RestClient{
		http:   client,
		apiKey: apiKey,
		logger: logger,
	}
}

// bearer picks the session token when present, falling back to the API key
// for anonymous calls such as the public intake form.
func (c *RestClient) bearer(sess *Session) string {
	if sess != nil && sess.AccessToken != "" {
		return sess.AccessToken
	}
	return c.apiKey
}

// Select fetches rows from a table, returning the raw JSON array.
func (c *RestClient) Select(ctx context.Context, sess *Session, table string, q Query) ([]byte, error) {
	req := c.http.R().
		SetContext(ctx).
		SetAuthToken(c.bearer(sess)).
		SetQueryParam("select", "*")

	if q.Eq != nil {
		req.SetQueryParam(q.Eq.Column, "eq."+q.Eq.Value)
	}
	if q.OrderBy != "" {
		dir := "asc"
		if q.Descending {
			dir = "desc"
		}
		req.SetQueryParam("order", q.OrderBy+"."+dir)
	}

	resp, err := req.Get("/rest/v1/" + table)
	if err != nil {
		return nil, &FetchError{Table: table, Err: err}
	}
	if resp.IsError() {
		return nil, &FetchError{Table: table, Err: apiError(resp)}
	}
	return resp.Body(), nil
}

// Insert adds one record to a table.
func (c *RestClient) Insert(ctx context.Context, sess *Session, table string, record any) error {
	resp, err := c.http.R().
		SetContext(ctx).
		SetAuthToken(c.bearer(sess)).
		SetHeader("Prefer", "return=minimal").
		SetBody(record).
		Post("/rest/v1/" + table)
	if err != nil {
		return &InsertError{Table: table, Err: err}
	}
	if resp.IsError() {
		return &InsertError{Table: table, Err: apiError(resp)}
	}
	return nil
}

// Update patches the record matching id.
func (c *RestClient) Update(ctx context.Context, sess *Session, table string, id string, changes map[string]any) error {
	resp, err := c.http.R().
		SetContext(ctx).
		SetAuthToken(c.bearer(sess)).
		SetHeader("Prefer", "return=representation").
		SetQueryParam("id", "eq."+id).
		SetBody(changes).
		Patch("/rest/v1/" + table)
	if err != nil {
		return &UpdateError{Table: table, Err: err}
	}
	if resp.IsError() {
		return &UpdateError{Table: table, Err: apiError(resp)}
	}
	// An unmatched id patches zero rows and returns an empty array.
	if strings.TrimSpace(resp.String()) == "[]" {
		return &UpdateError{Table: table, Err: ErrNotFound}
	}
	return nil
}

// Delete removes the record matching id.
func (c *RestClient) Delete(ctx context.Context, sess *Session, table string, id string) error {
	resp, err := c.http.R().
		SetContext(ctx).
		SetAuthToken(c.bearer(sess)).
		SetHeader("Prefer", "return=representation").
		SetQueryParam("id", "eq."+id).
		Delete("/rest/v1/" + table)
	if err != nil {
		return &DeleteError{Table: table, Err: err}
	}
	if resp.IsError() {
		return &DeleteError{Table: table, Err: apiError(resp)}
	}
	// An unmatched id deletes zero rows and returns an empty array.
	if strings.TrimSpace(resp.String()) == "[]" {
		return &DeleteError{Table: table, Err: ErrNotFound}
	}
	return nil
}

type signInResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
	User        User   `json:"user"`
}

// SignIn exchanges credentials for a session token.
func (c *RestClient) SignIn(ctx context.Context, email, password string) (*Session, error) {
	var parsed signInResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetAuthToken(c.apiKey).
		SetQueryParam("grant_type", "password").
		SetBody(map[string]string{"email": email, "password": password}).
		SetResult(&parsed).
		Post("/auth/v1/token")
	if err != nil {
		return nil, fmt.Errorf("sign in: %w", err)
	}
	if resp.IsError() {
		return nil, apiError(resp)
	}

	return &Session{
		AccessToken: parsed.AccessToken,
		TokenType:   parsed.TokenType,
		ExpiresAt:   time.Now().Add(time.Duration(parsed.ExpiresIn) * time.Second),
		User:        parsed.User,
	}, nil
}

// SignOut revokes the session token.
func (c *RestClient) SignOut(ctx context.Context, sess *Session) error {
	if sess == nil || sess.AccessToken == "" {
		return nil
	}
	resp, err := c.http.R().
		SetContext(ctx).
		SetAuthToken(sess.AccessToken).
		Post("/auth/v1/logout")
	if err != nil {
		return fmt.Errorf("sign out: %w", err)
	}
	if resp.IsError() {
		return apiError(resp)
	}
	return nil
}

func apiError(resp *resty.Response) error {
	msg := strings.TrimSpace(resp.String())
	if msg == "" {
		msg = resp.Status()
	}
	return &APIError{Status: resp.StatusCode(), Message: msg}
}
