package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNormalizePath(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"root", "/", "/"},
		{"static", "/events", "/events"},
		{"ulid segment", "/events/01HQZX3Y4K6F7G8H9J0K1M2N3P", "/events/{id}"},
		{"uuid segment", "/user/1b4e28ba-2fa1-11d2-883f-0016d3cca427", "/user/{id}"},
		{"nested action", "/events/01HQZX3Y4K6F7G8H9J0K1M2N3P/register", "/events/{id}/register"},
		{"short segment kept", "/user/42", "/user/42"},
		{"no leading slash", "metrics", "metrics"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, normalizePath(tt.in))
		})
	}
}

func TestHTTPMiddlewareRecordsStatus(t *testing.T) {
	handler := HTTPMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	req := httptest.NewRequest(http.MethodGet, "/events", nil)
	res := httptest.NewRecorder()
	handler.ServeHTTP(res, req)

	require.Equal(t, http.StatusTeapot, res.Code)
}
