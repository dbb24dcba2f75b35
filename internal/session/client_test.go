package session

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAPIClient_Login(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "/api/auth/login", r.URL.Path)
			assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

			var creds Credentials
			require.NoError(t, json.NewDecoder(r.Body).Decode(&creds))
			assert.Equal(t, "jean@example.com", creds.Email)

			w.Write([]byte(`{"token":"tok-1","user":{"id":5,"name":"Jean","email":"jean@example.com","role":"host"}}`))
		}))
		defer server.Close()

		client := NewAPIClient(server.URL)
		resp, err := client.Login(context.Background(), Credentials{Email: "jean@example.com", Password: "secret"})

		require.NoError(t, err)
		assert.Equal(t, "tok-1", resp.Token)
		require.NotNil(t, resp.User)
		assert.Equal(t, "Jean", resp.User.Name)
	})

	t.Run("rejection carries the server message", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"message":"mot de passe invalide"}`))
		}))
		defer server.Close()

		client := NewAPIClient(server.URL)
		_, err := client.Login(context.Background(), Credentials{})

		var authErr *AuthError
		require.ErrorAs(t, err, &authErr)
		assert.Equal(t, http.StatusUnauthorized, authErr.Status)
		assert.Equal(t, "mot de passe invalide", authErr.Message)
	})

	t.Run("unparseable success body is an invalid response", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`<html>proxy error</html>`))
		}))
		defer server.Close()

		client := NewAPIClient(server.URL)
		_, err := client.Login(context.Background(), Credentials{})

		assert.ErrorIs(t, err, ErrInvalidResponse)
	})

	t.Run("transport failure", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		server.Close()

		client := NewAPIClient(server.URL)
		_, err := client.Login(context.Background(), Credentials{})

		var authErr *AuthError
		assert.ErrorAs(t, err, &authErr)
	})
}

func TestAPIClient_Logout(t *testing.T) {
	t.Run("sends the bearer token", func(t *testing.T) {
		var gotAuth string
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/api/auth/logout", r.URL.Path)
			gotAuth = r.Header.Get("Authorization")
		}))
		defer server.Close()

		client := NewAPIClient(server.URL)
		require.NoError(t, client.Logout(context.Background(), "tok-1"))
		assert.Equal(t, "Bearer tok-1", gotAuth)
	})

	t.Run("server rejection is reported", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer server.Close()

		client := NewAPIClient(server.URL)
		err := client.Logout(context.Background(), "tok-1")

		var authErr *AuthError
		assert.ErrorAs(t, err, &authErr)
	})
}
