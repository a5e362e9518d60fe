package middleware

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/multierr"

	"inventra/internal/core/apperror"
	appctx "inventra/internal/core/context"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeValidator struct {
	user *appctx.UserContext
	err  error
}

func (f fakeValidator) ValidateToken(string) (*appctx.UserContext, error) {
	if f.err != nil {
		return nil, f.err
	}
	u := *f.user
	return &u, nil
}

func newEngine(handler gin.HandlerFunc, mw ...gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	r.Use(ErrorHandler(), Recovery(), Trace())
	r.Use(mw...)
	r.GET("/", handler)
	return r
}

func serve(r *gin.Engine, req *http.Request) (*httptest.ResponseRecorder, map[string]any) {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	var body map[string]any
	_ = json.Unmarshal(w.Body.Bytes(), &body)
	return w, body
}

func TestErrorHandler_RendersViolations(t *testing.T) {
	r := newEngine(func(c *gin.Context) {
		_ = c.Error(multierr.Combine(
			apperror.NewInvalidFormat("voucher_number", "pattern", "bad format"),
			apperror.NewConflict(apperror.CodeVoucherUsedInOtherBranch, "used"),
		))
	})

	w, body := serve(r, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, apperror.CodeInvalidFormat, body["code"])
	violations, ok := body["violations"].([]any)
	require.True(t, ok)
	assert.Len(t, violations, 2)
}

func TestErrorHandler_HidesInternalErrors(t *testing.T) {
	r := newEngine(func(c *gin.Context) {
		_ = c.Error(multierr.Combine(
			apperror.NewValidation("x"),
			errors.New("pq: connection reset"),
		))
	})

	w, body := serve(r, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, apperror.CodeInternal, body["code"])
	assert.NotContains(t, w.Body.String(), "connection reset")
}

func TestRecovery(t *testing.T) {
	r := newEngine(func(c *gin.Context) { panic("boom") })

	w, body := serve(r, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, apperror.CodeInternal, body["code"])
}

func TestTrace_EchoesRequestID(t *testing.T) {
	var seen string
	r := newEngine(func(c *gin.Context) {
		seen = appctx.GetRequestID(c.Request.Context())
		c.Status(http.StatusNoContent)
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(HeaderRequestID, "req-42")
	w, _ := serve(r, req)

	assert.Equal(t, "req-42", seen)
	assert.Equal(t, "req-42", w.Header().Get(HeaderRequestID))
	assert.NotEmpty(t, w.Header().Get(HeaderTraceID))
}

func TestAuth(t *testing.T) {
	user := &appctx.UserContext{UserID: "u1", BranchIDs: []string{"b1"}, Roles: []string{"clerk"}}
	ok := func(c *gin.Context) {
		c.String(http.StatusOK, appctx.GetActiveBranchID(c.Request.Context()))
	}

	tests := []struct {
		name      string
		validator fakeValidator
		header    string
		branch    string
		want      int
	}{
		{"missing header", fakeValidator{user: user}, "", "", http.StatusUnauthorized},
		{"bad scheme", fakeValidator{user: user}, "Basic abc", "", http.StatusUnauthorized},
		{"invalid token", fakeValidator{err: errors.New("expired")}, "Bearer t", "", http.StatusUnauthorized},
		{"valid", fakeValidator{user: user}, "Bearer t", "", http.StatusOK},
		{"granted branch", fakeValidator{user: user}, "Bearer t", "b1", http.StatusOK},
		{"foreign branch", fakeValidator{user: user}, "Bearer t", "b9", http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newEngine(ok, Auth(tt.validator))
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			if tt.branch != "" {
				req.Header.Set("X-Branch-ID", tt.branch)
			}
			w, _ := serve(r, req)
			assert.Equal(t, tt.want, w.Code)
		})
	}
}

func TestRequireRole(t *testing.T) {
	ok := func(c *gin.Context) { c.Status(http.StatusOK) }

	clerk := fakeValidator{user: &appctx.UserContext{UserID: "u", Roles: []string{"clerk"}}}
	admin := fakeValidator{user: &appctx.UserContext{UserID: "a", IsSuperAdmin: true}}

	req := func() *http.Request {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.Header.Set("Authorization", "Bearer t")
		return r
	}

	w, _ := serve(newEngine(ok, Auth(clerk), RequireRole("clerk")), req())
	assert.Equal(t, http.StatusOK, w.Code)

	w, _ = serve(newEngine(ok, Auth(clerk), RequireRole("accountant")), req())
	assert.Equal(t, http.StatusForbidden, w.Code)

	w, _ = serve(newEngine(ok, Auth(admin), RequireRole("accountant")), req())
	assert.Equal(t, http.StatusOK, w.Code)
}
