package Controllers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func loginAttemptFrom(t *testing.T, r http.Handler, remoteAddr string) *httptest.ResponseRecorder {
	payload, err := json.Marshal(map[string]string{
		"username": "whoever",
		"password": "whatever",
	})
	assert.NoError(t, err)

	req, err := http.NewRequest("POST", "/auth/login", bytes.NewBuffer(payload))
	assert.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	req.RemoteAddr = remoteAddr

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

// Limiter login dihitung per IP: IP yang kebanjiran kena 429,
// IP lain tetap dilayani
func TestStrictRateLimiterPerIP(t *testing.T) {
	db := setupTestDB(t)
	r := setupRouterForTest(db)

	var last *httptest.ResponseRecorder
	for i := 0; i < 6; i++ {
		last = loginAttemptFrom(t, r, "10.0.0.1:5000")
	}
	assert.Equal(t, http.StatusTooManyRequests, last.Code)

	// IP lain punya bucket sendiri: ditolak karena kredensial, bukan limit
	w := loginAttemptFrom(t, r, "10.0.0.2:5000")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
