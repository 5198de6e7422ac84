//go:build unit

package httperr_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"food-rescue-api/internal/handler/httperr"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAbortWithError(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("records a public error carrying the response", func(t *testing.T) {
		rec := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(rec)
		cause := errors.New("0 rows updated")

		httperr.AbortWithError(c, http.StatusConflict, cause, "sold_out", "Offer is sold out")

		require.Len(t, c.Errors, 1)
		recorded := c.Errors[0]
		assert.True(t, recorded.IsType(gin.ErrorTypePublic))
		assert.ErrorIs(t, recorded.Err, cause)
		assert.Equal(t, httperr.New(http.StatusConflict, "sold_out", "Offer is sold out"), recorded.Meta)

		assert.True(t, c.IsAborted())
		assert.Equal(t, http.StatusConflict, rec.Code)
		assert.JSONEq(t, `{"ok":false,"error":{"code":"sold_out","message":"Offer is sold out"}}`, rec.Body.String())
	})

	t.Run("nil error falls back to the message", func(t *testing.T) {
		rec := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(rec)

		httperr.AbortWithError(c, http.StatusUnauthorized, nil, "unauthorized", "Access token required")

		require.Len(t, c.Errors, 1)
		assert.EqualError(t, c.Errors[0].Err, "Access token required")
	})
}
