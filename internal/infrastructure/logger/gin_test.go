package logger

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// accessLogRouter wires the access-log middleware in front of the given
// handler, preceded by a stub that stamps the request id the way the HTTP
// middleware does in production.
func accessLogRouter(level zapcore.LevelEnabler, handler gin.HandlerFunc) (*gin.Engine, *observer.ObservedLogs) {
	core, logs := observer.New(level)
	engine := gin.New()
	engine.Use(func(c *gin.Context) {
		c.Set("request_id", "req-7f3a")
		c.Next()
	})
	engine.Use(GinMiddleware(zap.New(core)))
	engine.GET("/api/v1/bills", handler)
	return engine, logs
}

func requestLog(t *testing.T, logs *observer.ObservedLogs) observer.LoggedEntry {
	t.Helper()
	entries := logs.FilterMessage("request completed").All()
	require.Len(t, entries, 1)
	return entries[0]
}

func TestGinMiddleware_LogsRequestScope(t *testing.T) {
	engine, logs := accessLogRouter(zapcore.InfoLevel, func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"success": true})
	})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/bills", nil)
	req.Header.Set("X-Org-ID", "org-42")
	req.Header.Set("X-Actor-ID", "actor-9")
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	entry := requestLog(t, logs)
	assert.Equal(t, zapcore.InfoLevel, entry.Level)

	fields := entry.ContextMap()
	assert.Equal(t, "req-7f3a", fields["request_id"])
	assert.Equal(t, "org-42", fields["org_id"])
	assert.Equal(t, "actor-9", fields["actor_id"])
	assert.Equal(t, "GET", fields["method"])
	assert.Equal(t, "/api/v1/bills", fields["path"])
	assert.Equal(t, int64(http.StatusOK), fields["status"])
	assert.Contains(t, fields, "latency")
	assert.Contains(t, fields, "client_ip")
}

func TestGinMiddleware_SeedsRequestContext(t *testing.T) {
	var gotRequestID, gotOrgID, gotActorID string
	engine, _ := accessLogRouter(zapcore.InfoLevel, func(c *gin.Context) {
		ctx := c.Request.Context()
		gotRequestID = GetRequestID(ctx)
		gotOrgID = GetOrgID(ctx)
		gotActorID = GetActorID(ctx)
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/bills", nil)
	req.Header.Set("X-Org-ID", "org-42")
	req.Header.Set("X-Actor-ID", "actor-9")
	engine.ServeHTTP(httptest.NewRecorder(), req)

	assert.Equal(t, "req-7f3a", gotRequestID)
	assert.Equal(t, "org-42", gotOrgID)
	assert.Equal(t, "actor-9", gotActorID)
}

func TestGinMiddleware_LevelFollowsStatus(t *testing.T) {
	tests := []struct {
		name   string
		status int
		level  zapcore.Level
	}{
		{"created", http.StatusCreated, zapcore.InfoLevel},
		{"client error", http.StatusUnprocessableEntity, zapcore.WarnLevel},
		{"server error", http.StatusInternalServerError, zapcore.ErrorLevel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			engine, logs := accessLogRouter(zapcore.DebugLevel, func(c *gin.Context) {
				c.Status(tt.status)
			})

			req := httptest.NewRequest(http.MethodGet, "/api/v1/bills", nil)
			engine.ServeHTTP(httptest.NewRecorder(), req)

			assert.Equal(t, tt.level, requestLog(t, logs).Level)
		})
	}
}

func TestGinMiddleware_IncludesQueryString(t *testing.T) {
	engine, logs := accessLogRouter(zapcore.InfoLevel, func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/bills?status=OPEN&page=2", nil)
	engine.ServeHTTP(httptest.NewRecorder(), req)

	fields := requestLog(t, logs).ContextMap()
	assert.Contains(t, fields["query"], "status=OPEN")
}

func TestGinMiddleware_OmitsEmptyScopeFields(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	engine := gin.New()
	engine.Use(GinMiddleware(zap.New(core)))
	engine.GET("/ping", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	engine.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/ping", nil))

	fields := requestLog(t, logs).ContextMap()
	assert.NotContains(t, fields, "request_id")
	assert.NotContains(t, fields, "org_id")
	assert.NotContains(t, fields, "actor_id")
}

func TestRecovery_Converts_PanicTo500(t *testing.T) {
	core, logs := observer.New(zapcore.ErrorLevel)
	engine := gin.New()
	engine.Use(Recovery(zap.New(core)))
	engine.GET("/boom", func(c *gin.Context) {
		panic("unreachable repository")
	})

	req := httptest.NewRequest(http.MethodGet, "/boom", nil)
	req.Header.Set("X-Org-ID", "org-42")
	w := httptest.NewRecorder()
	require.NotPanics(t, func() {
		engine.ServeHTTP(w, req)
	})

	assert.Equal(t, http.StatusInternalServerError, w.Code)

	entries := logs.FilterMessage("panic recovered").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, "org-42", fields["org_id"])
	assert.Equal(t, "/boom", fields["path"])
	assert.Contains(t, fields, "stacktrace")
}

func TestGetGinLogger_RequestScoped(t *testing.T) {
	var fromContext *zap.Logger
	engine, _ := accessLogRouter(zapcore.InfoLevel, func(c *gin.Context) {
		fromContext = GetGinLogger(c)
		c.Status(http.StatusOK)
	})

	engine.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/v1/bills", nil))

	require.NotNil(t, fromContext)
}

func TestGetGinLogger_NoopWithoutMiddleware(t *testing.T) {
	var fromContext *zap.Logger
	engine := gin.New()
	engine.GET("/bare", func(c *gin.Context) {
		fromContext = GetGinLogger(c)
		c.Status(http.StatusOK)
	})

	engine.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/bare", nil))

	require.NotNil(t, fromContext)
	assert.NotPanics(t, func() {
		fromContext.Info("no sink")
	})
}
