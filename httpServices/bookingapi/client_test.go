package bookingapi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCreds struct {
	token   string
	company string
	cleared bool
}

func (f *fakeCreds) Token() string     { return f.token }
func (f *fakeCreds) CompanyID() string { return f.company }
func (f *fakeCreds) Clear()            { f.cleared = true }

func TestRequestHeaders(t *testing.T) {
	var got http.Header
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Clone()
		w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	creds := &fakeCreds{token: "tok-1", company: "c-9"}
	client := NewClient(srv.URL+"/", creds)

	_, err := client.List(context.Background(), false)
	require.NoError(t, err)

	assert.Equal(t, "Bearer tok-1", got.Get("Authorization"))
	assert.Equal(t, "c-9", got.Get("x-company-id"))
	assert.Equal(t, "application/json", got.Get("Accept"))
}

func TestBearerPrefixNotDoubled(t *testing.T) {
	var auth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, &fakeCreds{token: "Bearer already"})
	_, err := client.List(context.Background(), false)
	require.NoError(t, err)
	assert.Equal(t, "Bearer already", auth)
}

func TestListScopes(t *testing.T) {
	var path string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		w.Write([]byte(`{"bookings": [{"_id": "b1"}]}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, &fakeCreds{})

	items, err := client.List(context.Background(), false)
	require.NoError(t, err)
	assert.Equal(t, "/api/bookings", path)
	require.Len(t, items, 1)

	_, err = client.List(context.Background(), true)
	require.NoError(t, err)
	assert.Equal(t, "/api/bookings/my", path)
}

func TestUnauthorizedClearsCredentials(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"message": "token expired"}`))
	}))
	defer srv.Close()

	creds := &fakeCreds{token: "stale"}
	client := NewClient(srv.URL, creds)

	_, err := client.List(context.Background(), false)
	require.Error(t, err)
	assert.True(t, creds.cleared)
	assert.True(t, IsStatus(err, http.StatusUnauthorized))

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "token expired", apiErr.Message)
}

func TestOtherErrorsKeepCredentials(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	creds := &fakeCreds{token: "valid"}
	client := NewClient(srv.URL, creds)

	_, err := client.Get(context.Background(), "nope")
	require.Error(t, err)
	assert.False(t, creds.cleared)
	assert.True(t, IsStatus(err, http.StatusNotFound))
	assert.False(t, IsStatus(err, http.StatusUnauthorized))
}

func TestCreateUnwrapsEnvelope(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		w.Write([]byte(`{"data": {"_id": "new-1", "customerName": "Ann"}}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, &fakeCreds{})
	created, err := client.Create(context.Background(), map[string]any{"customerName": "Ann"})
	require.NoError(t, err)
	assert.Equal(t, "new-1", created["_id"])
}

func TestDeleteEmptyBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, &fakeCreds{})
	assert.NoError(t, client.Delete(context.Background(), "b1"))
}

func TestExtractMessage(t *testing.T) {
	cases := []struct {
		name     string
		body     string
		fallback string
		want     string
	}{
		{"structured message", `{"message": "nope"}`, "500", "nope"},
		{"structured error", `{"error": "broken"}`, "500", "broken"},
		{"message wins over error", `{"message": "m", "error": "e"}`, "500", "m"},
		{"json string body", `"plain refusal"`, "500", "plain refusal"},
		{"short text body", `service unavailable`, "503 Service Unavailable", "service unavailable"},
		{"html body falls back", `<html>gateway error</html>`, "502 Bad Gateway", "502 Bad Gateway"},
		{"empty body falls back", ``, "500 Internal Server Error", "500 Internal Server Error"},
		{"unhelpful object falls back", `{"ok": false}`, "500", "500"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, ExtractMessage([]byte(tc.body), tc.fallback))
		})
	}
}

func TestExtractList(t *testing.T) {
	assert.Len(t, extractList([]any{1, 2}), 2)
	assert.Len(t, extractList(map[string]any{"data": []any{1}}), 1)
	assert.Len(t, extractList(map[string]any{"agents": []any{1, 2, 3}}), 3)
	assert.Empty(t, extractList(map[string]any{"data": "not a list"}))
	assert.Empty(t, extractList(nil))
}

func TestExtractObject(t *testing.T) {
	bare := map[string]any{"_id": "x"}
	assert.Equal(t, bare, extractObject(bare))
	assert.Equal(t, bare, extractObject(map[string]any{"data": bare}))
	assert.Equal(t, bare, extractObject(map[string]any{"booking": bare}))
	assert.Empty(t, extractObject("nonsense"))
}
