package middlewarectx_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/magabrotheeeer/partner-portal/internal/http/middlewarectx"
	"github.com/magabrotheeeer/partner-portal/internal/lib/jwt"
)

func TestPartnerLimiter(t *testing.T) {
	limiter := middlewarectx.NewPartnerLimiter(0.001, 2)
	h := limiter.Middleware(newNoopLogger())(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	do := func(partnerID int64) int {
		req := httptest.NewRequest(http.MethodPost, "/checkout", nil)
		req = req.WithContext(middlewarectx.WithIdentity(req.Context(), jwt.Identity{UserID: partnerID, PartnerID: partnerID}))
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec.Code
	}

	assert.Equal(t, http.StatusOK, do(1))
	assert.Equal(t, http.StatusOK, do(1))
	assert.Equal(t, http.StatusTooManyRequests, do(1))

	// у другого партнёра свой лимит
	assert.Equal(t, http.StatusOK, do(2))
}
