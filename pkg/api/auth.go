package api

import (
	"context"
	"encoding/json"
	"net/http"

	pkgerrors "github.com/angelmondragon/storefront-client/pkg/errors"
	"github.com/angelmondragon/storefront-client/pkg/types"
)

// AuthData is the authenticated payload returned by the Auth API. UserID is
// only populated by the login endpoint.
type AuthData struct {
	Token  string     `json:"token"`
	User   types.User `json:"user"`
	UserID string     `json:"userId"`
}

type authEnvelope struct {
	Data AuthData `json:"data"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login exchanges credentials for a token and user record.
func (c *Client) Login(ctx context.Context, email, password string) (*AuthData, error) {
	req, ctx, err := c.newRequest(ctx, http.MethodPost, "user/login", "", loginRequest{Email: email, Password: password})
	if err != nil {
		return nil, err
	}

	resp, err := c.do(ctx, req, "login request")
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	var envelope authEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeRequestFailed, err, "decode login response")
	}
	return &envelope.Data, nil
}

// Register creates an account and returns the issued token and user record.
func (c *Client) Register(ctx context.Context, name, email, password string) (*AuthData, error) {
	req, ctx, err := c.newRequest(ctx, http.MethodPost, "user/register", "", registerRequest{Name: name, Email: email, Password: password})
	if err != nil {
		return nil, err
	}

	resp, err := c.do(ctx, req, "register request")
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	var envelope authEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeRequestFailed, err, "decode register response")
	}
	return &envelope.Data, nil
}
