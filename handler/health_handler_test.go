package handler

import (
	"net/http"
	"testing"

	"farmertwin/logging"
	"farmertwin/usecase"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHealthHandler(t *testing.T) {
	b := usecase.NewBroadcaster(logging.Discard(), nil, nil, nil)
	t.Cleanup(b.Close)
	sub, err := b.Subscribe()
	require.NoError(t, err)
	defer b.Unsubscribe(sub)

	r := gin.New()
	r.GET("/health", func(c *gin.Context) { HealthHandler(c, b) })

	w := performRequestWithHeader(r, "/health", "")
	require.Equal(t, http.StatusOK, w.Code)

	body := decodeBody(t, w)
	assert.Equal(t, "healthy", body["status"])
	assert.Equal(t, "farmer-digital-twin", body["service"])
	assert.EqualValues(t, 1, body["subscribers"])
	assert.Contains(t, body, "cpu_percent")
}
