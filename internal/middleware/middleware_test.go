package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pattern_chat/internal/metrics"
	"pattern_chat/internal/models"
)

func TestLogger(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Logger())

	req := httptest.NewRequest("GET", "/test", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRecovery(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Recovery())

	// 添加一个会panic的路由
	r.GET("/panic", func(c *gin.Context) {
		panic("test panic")
	})

	req := httptest.NewRequest("GET", "/panic", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)

	var body models.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "Something went wrong", body.Error)
}

func TestCORS(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(CORS())

	// 测试OPTIONS请求
	req := httptest.NewRequest("OPTIONS", "/api/chat", nil)
	req.Header.Set("Origin", "https://patterns.example.com")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, w.Header().Get("Access-Control-Allow-Methods"), "POST")
	assert.Contains(t, w.Header().Get("Access-Control-Allow-Headers"), "Content-Type")

	// 测试普通GET请求
	req = httptest.NewRequest("GET", "/test", nil)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestRequestID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestID())

	var seen string
	var ctxLogger *zerolog.Logger
	r.GET("/id", func(c *gin.Context) {
		seen = GetRequestID(c)
		ctxLogger = zerolog.Ctx(c.Request.Context())
		c.Status(http.StatusOK)
	})

	// 生成新的请求ID
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/id", nil))
	assert.NotEmpty(t, seen)
	assert.Equal(t, seen, w.Header().Get(RequestIDHeader))
	require.NotNil(t, ctxLogger)
	assert.NotEqual(t, zerolog.Disabled, ctxLogger.GetLevel())

	// 透传调用方的请求ID
	req := httptest.NewRequest("GET", "/id", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "abc-123", seen)
	assert.Equal(t, "abc-123", w.Header().Get(RequestIDHeader))
}

func TestMetrics(t *testing.T) {
	gin.SetMode(gin.TestMode)
	collector := metrics.NewCollector("test")
	r := gin.New()
	r.Use(Metrics(collector))
	r.GET("/health", func(c *gin.Context) { c.Status(http.StatusOK) })

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/health", nil))
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/missing", nil))

	count, err := testutil.GatherAndCount(collector.Registry(), "test_http_requests_total")
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestSetup(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	Setup(r, nil)

	// 测试是否成功添加了所有中间件
	assert.Equal(t, 4, len(r.Handlers)) // RequestID, Logger, Recovery, CORS

	r = gin.New()
	Setup(r, metrics.NewCollector("test"))
	assert.Equal(t, 5, len(r.Handlers))

	// 测试一个请求是否能正常通过所有中间件
	req := httptest.NewRequest("GET", "/test", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
	assert.NotEmpty(t, w.Header().Get(RequestIDHeader))
}
