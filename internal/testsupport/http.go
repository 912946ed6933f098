package testsupport

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"toklen/internal/domain"
	"toklen/internal/pkg/jwt"

	"github.com/stretchr/testify/require"
)

const DevSecret = "test-dev-secret"

func DevTokens() *jwt.Service {
	return jwt.New(DevSecret, time.Hour)
}

func Token(t *testing.T, tokens *jwt.Service, u *domain.User) string {
	t.Helper()
	token, err := tokens.GenerateToken(u.FirebaseUID, u.Email, true)
	require.NoError(t, err)
	return token
}

// DoJSON sends body (if non-nil) as JSON with an optional bearer token.
func DoJSON(t *testing.T, h http.Handler, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func Decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body), w.Body.String())
	return body
}
