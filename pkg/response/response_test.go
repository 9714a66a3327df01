package response

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"course_commerce/internal/pkg/apperr"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromError(t *testing.T) {
	gin.SetMode(gin.TestMode)

	cases := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   int
	}{
		{"validation is business failure", apperr.Validation(ErrCouponExpired, "Mã giảm giá đã hết hạn"), http.StatusOK, ErrCouponExpired},
		{"not found", apperr.NotFound(ErrProductNotFound, "missing"), http.StatusNotFound, ErrProductNotFound},
		{"forbidden", apperr.Forbidden(ErrLessonLocked, "locked"), http.StatusForbidden, ErrLessonLocked},
		{"external", apperr.External(ErrGatewayUnavailable, "gateway", errors.New("timeout")), http.StatusBadGateway, ErrGatewayUnavailable},
		{"plain error", errors.New("db down"), http.StatusInternalServerError, ErrServerInternal},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)

			FromError(c, tc.err)

			assert.Equal(t, tc.wantStatus, w.Code)
			var body Response
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, tc.wantCode, body.Code)
		})
	}
}
