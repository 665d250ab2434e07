package middleware

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/a-h/templ"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func okHandler(c echo.Context) error {
	return c.String(http.StatusOK, "ok")
}

// serve runs a single request through an Echo instance with the given
// middleware and a GET/OPTIONS/POST route at "/".
func serve(t *testing.T, req *http.Request, h echo.HandlerFunc, mw ...echo.MiddlewareFunc) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	e.Use(mw...)
	e.Any("/", h)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestCORS_AllowedOrigin(t *testing.T) {
	mw := CORS(CORSConfig{AllowedOrigins: []string{"http://127.0.0.1:3000"}, AllowCredentials: true})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(echo.HeaderOrigin, "http://127.0.0.1:3000")
	rec := serve(t, req, okHandler, mw)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "http://127.0.0.1:3000", rec.Header().Get(echo.HeaderAccessControlAllowOrigin))
	assert.Equal(t, "true", rec.Header().Get(echo.HeaderAccessControlAllowCredentials))
	assert.Equal(t, echo.HeaderXRequestID, rec.Header().Get(echo.HeaderAccessControlExposeHeaders))
}

func TestCORS_UnknownOriginGetsNoHeaders(t *testing.T) {
	mw := CORS(CORSConfig{AllowedOrigins: []string{"http://127.0.0.1:3000"}, AllowCredentials: true})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(echo.HeaderOrigin, "https://evil.example")
	rec := serve(t, req, okHandler, mw)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Header().Get(echo.HeaderAccessControlAllowOrigin))
	assert.Empty(t, rec.Header().Get(echo.HeaderAccessControlAllowCredentials))
}

func TestCORS_Preflight(t *testing.T) {
	mw := CORS(CORSConfig{AllowedOrigins: []string{"http://127.0.0.1:3000"}, AllowCredentials: true})

	req := httptest.NewRequest(http.MethodOptions, "/", nil)
	req.Header.Set(echo.HeaderOrigin, "http://127.0.0.1:3000")
	req.Header.Set(echo.HeaderAccessControlRequestMethod, http.MethodPost)
	rec := serve(t, req, okHandler, mw)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Contains(t, rec.Header().Get(echo.HeaderAccessControlAllowHeaders), echo.HeaderAuthorization)
	assert.Contains(t, rec.Header().Get(echo.HeaderAccessControlAllowMethods), http.MethodPost)
	assert.Equal(t, "3600", rec.Header().Get(echo.HeaderAccessControlMaxAge))
}

func TestCORS_WildcardDropsCredentials(t *testing.T) {
	mw := CORS(CORSConfig{AllowedOrigins: []string{"*"}, AllowCredentials: true})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(echo.HeaderOrigin, "https://anywhere.example")
	rec := serve(t, req, okHandler, mw)

	assert.Equal(t, "https://anywhere.example", rec.Header().Get(echo.HeaderAccessControlAllowOrigin))
	assert.Empty(t, rec.Header().Get(echo.HeaderAccessControlAllowCredentials))
}

func TestRequestID_GeneratesAndEchoes(t *testing.T) {
	var seen string
	h := func(c echo.Context) error {
		seen = GetRequestID(c)
		return c.NoContent(http.StatusNoContent)
	}

	rec := serve(t, httptest.NewRequest(http.MethodGet, "/", nil), h, RequestID())

	require.NotEmpty(t, seen)
	assert.Len(t, seen, 36)
	assert.Equal(t, seen, rec.Header().Get(echo.HeaderXRequestID))
}

func TestRequestID_ReusesIncoming(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(echo.HeaderXRequestID, "abc-123")
	rec := serve(t, req, okHandler, RequestID())

	assert.Equal(t, "abc-123", rec.Header().Get(echo.HeaderXRequestID))
}

func TestRequestLogger_PassesErrorToHandler(t *testing.T) {
	h := func(c echo.Context) error {
		return echo.NewHTTPError(http.StatusTeapot, "short and stout")
	}

	rec := serve(t, httptest.NewRequest(http.MethodGet, "/", nil), h, RequestLogger())

	assert.Equal(t, http.StatusTeapot, rec.Code)
	assert.Contains(t, rec.Body.String(), "short and stout")
}

func TestRecovery_ConvertsPanicTo500(t *testing.T) {
	h := func(c echo.Context) error {
		panic("boom")
	}

	rec := serve(t, httptest.NewRequest(http.MethodGet, "/", nil), h, Recovery())

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestSecurityHeaders(t *testing.T) {
	rec := serve(t, httptest.NewRequest(http.MethodGet, "/", nil), okHandler, SecurityHeaders())

	assert.Equal(t, "nosniff", rec.Header().Get(echo.HeaderXContentTypeOptions))
	assert.Equal(t, "DENY", rec.Header().Get(echo.HeaderXFrameOptions))
	assert.Contains(t, rec.Header().Get(echo.HeaderContentSecurityPolicy), "frame-ancestors 'none'")
	assert.NotEmpty(t, rec.Header().Get(echo.HeaderStrictTransportSecurity))
}

func TestIPExtractor(t *testing.T) {
	extract := buildIPExtractor([]string{"10.0.0.0/8", "not-a-cidr"})

	tests := []struct {
		name    string
		remote  string
		headers map[string]string
		want    string
	}{
		{
			name:    "untrusted peer ignores headers",
			remote:  "203.0.113.9:5555",
			headers: map[string]string{echo.HeaderXRealIP: "1.2.3.4"},
			want:    "203.0.113.9",
		},
		{
			name:    "trusted peer uses X-Real-IP",
			remote:  "10.1.2.3:5555",
			headers: map[string]string{echo.HeaderXRealIP: "1.2.3.4"},
			want:    "1.2.3.4",
		},
		{
			name:    "trusted peer falls back to leftmost X-Forwarded-For",
			remote:  "10.1.2.3:5555",
			headers: map[string]string{echo.HeaderXForwardedFor: "5.6.7.8, 10.1.2.3"},
			want:    "5.6.7.8",
		},
		{
			name:   "trusted peer without headers",
			remote: "10.1.2.3:5555",
			want:   "10.1.2.3",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tc.remote
			for k, v := range tc.headers {
				req.Header.Set(k, v)
			}
			assert.Equal(t, tc.want, extract(req))
		})
	}
}

func TestRender(t *testing.T) {
	component := templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := io.WriteString(w, "<p>hello</p>")
		return err
	})
	h := func(c echo.Context) error {
		return Render(c, http.StatusAccepted, component)
	}

	rec := serve(t, httptest.NewRequest(http.MethodGet, "/", nil), h)

	assert.Equal(t, http.StatusAccepted, rec.Code)
	assert.Equal(t, echo.MIMETextHTMLCharsetUTF8, rec.Header().Get(echo.HeaderContentType))
	assert.Equal(t, "<p>hello</p>", rec.Body.String())
}
