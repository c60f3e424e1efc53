package logging

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zerolog.InfoLevel, parseLevel(""))
	assert.Equal(t, zerolog.DebugLevel, parseLevel("DEBUG"))
	assert.Equal(t, zerolog.WarnLevel, parseLevel(" warn "))
	assert.Equal(t, zerolog.InfoLevel, parseLevel("loud"))
}

func TestGinLogger_WritesRequestLine(t *testing.T) {
	var buf bytes.Buffer
	InitWithWriter(&buf, "test", "production", "info")
	t.Cleanup(func() { zerolog.SetGlobalLevel(zerolog.InfoLevel) })

	gin.SetMode(gin.TestMode)
	engine := gin.New()
	engine.Use(GinLogger())
	engine.GET("/missing", func(c *gin.Context) { c.Status(http.StatusNotFound) })

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/missing?x=1", nil))

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "warn", line["level"])
	assert.Equal(t, "/missing", line["path"])
	assert.Equal(t, "x=1", line["query"])
	assert.Equal(t, float64(http.StatusNotFound), line["status"])
	assert.Equal(t, "test", line["service"])
}
