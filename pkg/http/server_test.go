package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type probeRequest struct {
	TF    string `query:"tf" default:"15m" validate:"oneof=1m 15m"`
	Limit int    `query:"limit" default:"200" validate:"gte=2,lte=1000"`
}

type probeHandler struct{}

func (probeHandler) RegisterRoutes(e *echo.Echo) {
	e.GET("/probe", func(c echo.Context) error {
		req := &probeRequest{}
		if verr := ReadAndValidateRequest(c, req); verr != nil {
			return BadRequestResponse(c, verr)
		}
		return SuccessResponse(c, req)
	})
	e.GET("/bad-gateway", func(c echo.Context) error {
		return AppErrorResponse(c, BadGatewayError(CodeSourceStatus, "source returned error status 503").WithParam("status", 503))
	})
	e.GET("/plain-error", func(c echo.Context) error {
		return AppErrorResponse(c, errors.New("boom"))
	})
	e.GET("/panic", func(c echo.Context) error {
		panic("handler exploded")
	})
}

func serve(t *testing.T, s *Server, method, target string) (*httptest.ResponseRecorder, APIResponse) {
	t.Helper()
	req := httptest.NewRequest(method, target, nil)
	rec := httptest.NewRecorder()
	s.Echo().ServeHTTP(rec, req)

	var body APIResponse
	if rec.Body.Len() > 0 && strings.HasPrefix(rec.Header().Get(echo.HeaderContentType), echo.MIMEApplicationJSON) {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	}
	return rec, body
}

func newTestServer() *Server {
	return NewServer(nil, []Handler{probeHandler{}}, WithMetricsPath("/metrics"))
}

func TestReadAndValidateRequest_Defaults(t *testing.T) {
	rec, body := serve(t, newTestServer(), http.MethodGet, "/probe")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, http.StatusOK, body.Status)

	data := body.Data.(map[string]interface{})
	assert.Equal(t, "15m", data["TF"])
	assert.Equal(t, float64(200), data["Limit"])
}

func TestReadAndValidateRequest_Errors(t *testing.T) {
	rec, body := serve(t, newTestServer(), http.MethodGet, "/probe?tf=2h&limit=1")
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, http.StatusBadRequest, body.Status)

	errs := body.Data.([]interface{})
	require.Len(t, errs, 2)
	first := errs[0].(map[string]interface{})
	assert.Equal(t, "ERR_ONEOF", first["code"])
	assert.Equal(t, "tf", first["field"])
	second := errs[1].(map[string]interface{})
	assert.Equal(t, "ERR_GTE", second["code"])
	assert.Equal(t, "limit must be greater than or equal to 2", second["message"])
}

func TestReadAndValidateRequest_BindError(t *testing.T) {
	rec, body := serve(t, newTestServer(), http.MethodGet, "/probe?limit=many")
	require.Equal(t, http.StatusBadRequest, rec.Code)
	errs := body.Data.([]interface{})
	assert.Equal(t, "ERR_BIND", errs[0].(map[string]interface{})["code"])
}

func TestAppErrorResponse(t *testing.T) {
	s := newTestServer()

	rec, body := serve(t, s, http.MethodGet, "/bad-gateway")
	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Equal(t, http.StatusBadGateway, body.Status)
	appErr := body.Data.([]interface{})[0].(map[string]interface{})
	assert.Equal(t, CodeSourceStatus, appErr["code"])
	assert.Equal(t, float64(503), appErr["params"].(map[string]interface{})["status"])

	rec, _ = serve(t, s, http.MethodGet, "/plain-error")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestServer_RecoversFromPanic(t *testing.T) {
	rec, _ := serve(t, newTestServer(), http.MethodGet, "/panic")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestServer_MetricsAndCORS(t *testing.T) {
	s := newTestServer()

	rec, _ := serve(t, s, http.MethodGet, "/metrics")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec, _ = serve(t, s, http.MethodGet, "/probe")
	assert.Equal(t, "*", rec.Header().Get(echo.HeaderAccessControlAllowOrigin))
}

func TestServer_MetricsPathDisabled(t *testing.T) {
	s := NewServer(nil, []Handler{probeHandler{}}, WithMetricsPath(""))
	rec, _ := serve(t, s, http.MethodGet, "/metrics")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
