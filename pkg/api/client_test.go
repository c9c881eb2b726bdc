package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/angelmondragon/storefront-client/pkg/config"
	pkgerrors "github.com/angelmondragon/storefront-client/pkg/errors"
	"github.com/angelmondragon/storefront-client/pkg/logger"
	"github.com/angelmondragon/storefront-client/pkg/types"
	"github.com/stretchr/testify/require"
)

type roundTripFunc func(req *http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}

func newTestClient(t *testing.T, rt roundTripFunc) *Client {
	t.Helper()
	logg := logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
	client, err := NewClient(
		config.APIConfig{BaseURL: "http://api.test/api", AuthHeader: "auth-token"},
		logg,
		WithHTTPClient(&http.Client{Transport: rt}),
	)
	require.NoError(t, err)
	return client
}

func jsonResponse(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(strings.NewReader(body)),
		Header:     http.Header{},
	}
}

func TestNewClientRequiresBaseURL(t *testing.T) {
	_, err := NewClient(config.APIConfig{}, nil)
	require.ErrorIs(t, err, errBaseURLRequired)
}

func TestLoginSuccess(t *testing.T) {
	var capturedURL string
	var capturedBody map[string]any
	var capturedHeaders http.Header

	client := newTestClient(t, func(req *http.Request) (*http.Response, error) {
		capturedURL = req.URL.String()
		capturedHeaders = req.Header.Clone()
		raw, err := io.ReadAll(req.Body)
		require.NoError(t, err)
		require.NoError(t, json.Unmarshal(raw, &capturedBody))
		return jsonResponse(http.StatusOK, `{"data":{"token":"tok-1","userId":"u-1","user":{"_id":"u-1","name":"Sam","email":"sam@example.com"}}}`), nil
	})

	data, err := client.Login(context.Background(), "sam@example.com", "hunter2")
	require.NoError(t, err)
	require.Equal(t, "http://api.test/api/user/login", capturedURL)
	require.Equal(t, "sam@example.com", capturedBody["email"])
	require.Equal(t, "hunter2", capturedBody["password"])
	require.NotEmpty(t, capturedHeaders.Get("X-Request-ID"))
	require.Equal(t, "tok-1", data.Token)
	require.Equal(t, "u-1", data.UserID)
	require.Equal(t, "Sam", data.User.Name)
}

func TestLoginRequestFailedUsesBodyErrorField(t *testing.T) {
	client := newTestClient(t, func(req *http.Request) (*http.Response, error) {
		return jsonResponse(http.StatusUnauthorized, `{"error":"Invalid credentials"}`), nil
	})

	_, err := client.Login(context.Background(), "sam@example.com", "wrong")
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	require.Equal(t, pkgerrors.CodeRequestFailed, typed.Code())
	require.Equal(t, "Invalid credentials", typed.Message())
}

func TestLoginNetworkFailure(t *testing.T) {
	client := newTestClient(t, func(req *http.Request) (*http.Response, error) {
		return nil, errors.New("connection refused")
	})

	_, err := client.Login(context.Background(), "sam@example.com", "hunter2")
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	require.Equal(t, pkgerrors.CodeNetwork, typed.Code())
}

func TestRegisterSuccess(t *testing.T) {
	client := newTestClient(t, func(req *http.Request) (*http.Response, error) {
		require.Equal(t, "http://api.test/api/user/register", req.URL.String())
		return jsonResponse(http.StatusOK, `{"data":{"token":"tok-2","user":{"_id":"u-2","name":"Riley","email":"riley@example.com"}}}`), nil
	})

	data, err := client.Register(context.Background(), "Riley", "riley@example.com", "hunter2")
	require.NoError(t, err)
	require.Equal(t, "tok-2", data.Token)
	require.Empty(t, data.UserID)
}

func TestListProducts(t *testing.T) {
	client := newTestClient(t, func(req *http.Request) (*http.Response, error) {
		require.Equal(t, http.MethodGet, req.Method)
		require.Equal(t, "http://api.test/api/products", req.URL.String())
		require.Empty(t, req.Header.Get("auth-token"))
		return jsonResponse(http.StatusOK, `[{"_id":"p-1","name":"Widget","price":10}]`), nil
	})

	products, err := client.ListProducts(context.Background())
	require.NoError(t, err)
	require.Len(t, products, 1)
	require.Equal(t, "p-1", products[0].ID)
	require.Equal(t, 10.0, products[0].Price)
}

func TestCreateProductSendsAuthToken(t *testing.T) {
	var capturedToken string
	client := newTestClient(t, func(req *http.Request) (*http.Response, error) {
		capturedToken = req.Header.Get("auth-token")
		require.Equal(t, "application/json", req.Header.Get("Content-Type"))
		return jsonResponse(http.StatusCreated, `{"_id":"p-9","name":"Widget","price":100,"_createdBy":"u-1"}`), nil
	})

	created, err := client.CreateProduct(context.Background(), "tok-1", types.Product{Name: "Widget", Price: 100, CreatedBy: "u-1"})
	require.NoError(t, err)
	require.Equal(t, "tok-1", capturedToken)
	require.Equal(t, "p-9", created.ID)
}

func TestDeleteProductEscapesID(t *testing.T) {
	var capturedPath string
	client := newTestClient(t, func(req *http.Request) (*http.Response, error) {
		capturedPath = req.URL.EscapedPath()
		require.Equal(t, http.MethodDelete, req.Method)
		return jsonResponse(http.StatusOK, ``), nil
	})

	err := client.DeleteProduct(context.Background(), "tok-1", "p 1/x")
	require.NoError(t, err)
	require.Equal(t, "/api/products/p%201%2Fx", capturedPath)
}

func TestUpdateProductDecodesJSONBody(t *testing.T) {
	client := newTestClient(t, func(req *http.Request) (*http.Response, error) {
		require.Equal(t, http.MethodPut, req.Method)
		return jsonResponse(http.StatusOK, `{"_id":"p-1","name":"Renamed","price":25}`), nil
	})

	updated, err := client.UpdateProduct(context.Background(), "tok-1", "p-1", map[string]any{"name": "Renamed"})
	require.NoError(t, err)
	require.Equal(t, "Renamed", updated.Name)
	require.Equal(t, 25.0, updated.Price)
}

func TestUpdateProductWrapsNonJSONBody(t *testing.T) {
	client := newTestClient(t, func(req *http.Request) (*http.Response, error) {
		return jsonResponse(http.StatusOK, "Product updated successfully\n"), nil
	})

	updated, err := client.UpdateProduct(context.Background(), "tok-1", "p-1", map[string]any{"name": "Renamed"})
	require.NoError(t, err)
	require.Equal(t, "p-1", updated.ID)
	require.Equal(t, "Product updated successfully", updated.Name)
}

func TestErrorFromResponseFallsBackToGenericMessage(t *testing.T) {
	client := newTestClient(t, func(req *http.Request) (*http.Response, error) {
		return jsonResponse(http.StatusInternalServerError, `<html>oops</html>`), nil
	})

	_, err := client.ListProducts(context.Background())
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	require.Equal(t, pkgerrors.GenericMessage, typed.Message())
}
