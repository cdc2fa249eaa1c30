// Package adminapi is the typed client for the remote trade/client
// management API. It attaches the session credential to protected calls,
// classifies failures into kinds, and clears the session on rejection.
package adminapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"trader-admin-console/internal/api"
	"trader-admin-console/internal/interfaces"
	"trader-admin-console/internal/logger"
	"trader-admin-console/internal/session"
	"trader-admin-console/internal/store"
	"trader-admin-console/internal/types"
)

type Client struct {
	api     *api.Client
	gate    *session.Gate
	timeout time.Duration
}

var _ interfaces.AdminAPI = (*Client)(nil)

func New(cfg *store.Config, gate *session.Gate) *Client {
	return &Client{
		api: api.NewClient(
			api.WithBaseURL(cfg.BaseURL),
			api.WithTimeout(cfg.RequestTimeout()),
		),
		gate:    gate,
		timeout: cfg.RequestTimeout(),
	}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string `json:"token"`
}

type messageResponse struct {
	Message string `json:"message"`
}

// Login authenticates the admin and stores the issued token in the gate.
func (c *Client) Login(ctx context.Context, email, password string) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	resp, err := c.api.POST(ctx, "/login", loginRequest{Email: email, Password: password})
	if err != nil {
		return transportError(err)
	}
	if resp.StatusCode != http.StatusOK {
		return c.statusError(ctx, resp, false)
	}

	var body loginResponse
	if err := resp.ParseJSON(&body); err != nil {
		return &Error{Kind: KindDecode, Status: resp.StatusCode, cause: err}
	}
	if body.Token == "" {
		return &Error{Kind: KindDecode, Status: resp.StatusCode, Message: "login response carried no token"}
	}
	return c.gate.Store(ctx, body.Token)
}

// Logout clears the stored credential. Purely local; the server keeps no
// session state beyond the token itself.
func (c *Client) Logout(ctx context.Context) {
	c.gate.Clear(ctx)
}

// Trades fetches one page of trades for the given query.
func (c *Client) Trades(ctx context.Context, q types.TradeQuery) (*types.TradesPage, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	resp, err := c.api.GET(ctx, "/trades?"+q.Values().Encode(), c.gate.BearerHeader())
	if err != nil {
		return nil, transportError(err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, c.statusError(ctx, resp, true)
	}

	var page types.TradesPage
	if err := resp.ParseJSON(&page); err != nil {
		return nil, &Error{Kind: KindDecode, Status: resp.StatusCode, cause: err}
	}
	return &page, nil
}

// Clients fetches one page of the client roster.
func (c *Client) Clients(ctx context.Context, page, limit int) (*types.ClientsPage, error) {
	return c.listClients(ctx, "/clients", page, limit)
}

// AllClients fetches one page from the unscoped listing variant.
func (c *Client) AllClients(ctx context.Context, page, limit int) (*types.ClientsPage, error) {
	return c.listClients(ctx, "/clients/all-clients", page, limit)
}

func (c *Client) listClients(ctx context.Context, path string, page, limit int) (*types.ClientsPage, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	v := url.Values{}
	v.Set("page", fmt.Sprint(page))
	v.Set("limit", fmt.Sprint(limit))

	resp, err := c.api.GET(ctx, path+"?"+v.Encode(), c.gate.BearerHeader())
	if err != nil {
		return nil, transportError(err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, c.statusError(ctx, resp, true)
	}

	var out types.ClientsPage
	if err := resp.ParseJSON(&out); err != nil {
		return nil, &Error{Kind: KindDecode, Status: resp.StatusCode, cause: err}
	}
	return &out, nil
}

// SetPaid patches only the isPaid flag of one client.
func (c *Client) SetPaid(ctx context.Context, clientID string, paid bool) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	body := map[string]bool{"isPaid": paid}
	resp, err := c.api.PATCH(ctx, "/clients/"+url.PathEscape(clientID)+"/isPaid", body, c.gate.BearerHeader())
	if err != nil {
		return transportError(err)
	}
	if resp.StatusCode != http.StatusOK {
		return c.statusError(ctx, resp, true)
	}
	return nil
}

// UpdateTradesAndBroker patches a client's instrument set and broker in one
// request; the two fields travel together on the wire.
func (c *Client) UpdateTradesAndBroker(ctx context.Context, clientID string, tags []string, broker string) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	body := map[string]any{"trade": tags, "broker": broker}
	resp, err := c.api.PATCH(ctx, "/clients/"+url.PathEscape(clientID)+"/trades", body, c.gate.BearerHeader())
	if err != nil {
		return transportError(err)
	}
	if resp.StatusCode != http.StatusOK {
		return c.statusError(ctx, resp, true)
	}
	return nil
}

// DeleteClient removes a client record.
func (c *Client) DeleteClient(ctx context.Context, clientID string) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	resp, err := c.api.DELETE(ctx, "/clients/"+url.PathEscape(clientID), c.gate.BearerHeader())
	if err != nil {
		return transportError(err)
	}
	if resp.StatusCode != http.StatusOK {
		return c.statusError(ctx, resp, true)
	}
	return nil
}

// UpdateClientToken re-provisions a client's own API access token. This is
// the client's credential for the upstream broker feed, unrelated to the
// admin session token held by the gate.
func (c *Client) UpdateClientToken(ctx context.Context, clientID, token string) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	body := map[string]string{"token": token}
	resp, err := c.api.PATCH(ctx, "/client/"+url.PathEscape(clientID), body, c.gate.BearerHeader())
	if err != nil {
		return transportError(err)
	}
	if resp.StatusCode != http.StatusOK {
		return c.statusError(ctx, resp, true)
	}
	return nil
}

// statusError maps a non-200 response to a typed error. When the call was
// authorized and the server answered 401/403, the session is torn down
// before returning so the caller lands on the login view next.
func (c *Client) statusError(ctx context.Context, resp *api.Response, authorized bool) error {
	if authorized && (resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden) {
		logger.Warn(ctx, "Session rejected by server, clearing credential", "status", resp.StatusCode)
		c.gate.Clear(ctx)
		return &Error{Kind: KindAuthRejected, Status: resp.StatusCode, Message: serverMessage(resp.Body)}
	}
	return &Error{Kind: KindValidation, Status: resp.StatusCode, Message: serverMessage(resp.Body)}
}

func serverMessage(body []byte) string {
	var m messageResponse
	if err := json.Unmarshal(body, &m); err == nil && m.Message != "" {
		return m.Message
	}
	return ""
}
