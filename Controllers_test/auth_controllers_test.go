package Controllers_test

import (
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRegisterAndLogin(t *testing.T) {
	db := setupTestDB(t)
	r := setupRouterForTest(db)

	w := doJSON(t, r, "POST", "/auth/register", "", map[string]interface{}{
		"username": "test_user",
		"password": "password123",
	})
	assert.Equal(t, http.StatusCreated, w.Code)

	data := dataOf(t, w)
	user := data["user"].(map[string]interface{})
	assert.Equal(t, "test_user", user["username"])
	assert.Equal(t, false, user["isAdmin"])
	assert.NotNil(t, user["createdAt"])

	w = doJSON(t, r, "POST", "/auth/login", "", map[string]interface{}{
		"username": "test_user",
		"password": "password123",
	})
	assert.Equal(t, http.StatusOK, w.Code)

	data = dataOf(t, w)
	assert.NotEmpty(t, data["access_token"])
	user = data["user"].(map[string]interface{})
	assert.Equal(t, "test_user", user["username"])
}

func TestRegisterValidation(t *testing.T) {
	db := setupTestDB(t)
	r := setupRouterForTest(db)

	cases := []struct {
		name     string
		username string
		password string
	}{
		{"too short username", "ab", "password123"},
		{"invalid characters", "bad name!", "password123"},
		{"too long username", strings.Repeat("a", 51), "password123"},
		{"short password", "valid_user", "12345"},
	}

	for _, tc := range cases {
		w := doJSON(t, r, "POST", "/auth/register", "", map[string]interface{}{
			"username": tc.username,
			"password": tc.password,
		})
		assert.Equal(t, http.StatusBadRequest, w.Code, tc.name)
	}
}

func TestRegisterDuplicateUsername(t *testing.T) {
	db := setupTestDB(t)
	r := setupRouterForTest(db)

	seedUser(t, db, "taken_name", "password123", false)

	w := doJSON(t, r, "POST", "/auth/register", "", map[string]interface{}{
		"username": "taken_name",
		"password": "password123",
	})
	assert.Equal(t, http.StatusConflict, w.Code)
}

// Login dengan password salah dan login dengan user yang tidak ada
// harus menghasilkan status dan pesan yang identik
func TestLoginUniformError(t *testing.T) {
	db := setupTestDB(t)
	r := setupRouterForTest(db)

	seedUser(t, db, "real_user", "correct_password", false)

	wrongPassword := doJSON(t, r, "POST", "/auth/login", "", map[string]interface{}{
		"username": "real_user",
		"password": "wrong_password",
	})
	noSuchUser := doJSON(t, r, "POST", "/auth/login", "", map[string]interface{}{
		"username": "ghost_user",
		"password": "whatever_password",
	})

	assert.Equal(t, http.StatusUnauthorized, wrongPassword.Code)
	assert.Equal(t, http.StatusUnauthorized, noSuchUser.Code)
	assert.Equal(t, wrongPassword.Body.String(), noSuchUser.Body.String())
}

func TestAuthMe(t *testing.T) {
	db := setupTestDB(t)
	r := setupRouterForTest(db)

	user, token := seedUser(t, db, "profile_user", "password123", false)

	w := doJSON(t, r, "GET", "/auth/me", token, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	data := dataOf(t, w)
	got := data["user"].(map[string]interface{})
	assert.Equal(t, float64(user.ID), got["id"])
	assert.Equal(t, "profile_user", got["username"])

	// Tanpa token
	w = doJSON(t, r, "GET", "/auth/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// Token valid tapi user sudah dihapus
	db.Delete(&user)
	w = doJSON(t, r, "GET", "/auth/me", token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestLogout(t *testing.T) {
	db := setupTestDB(t)
	r := setupRouterForTest(db)

	_, token := seedUser(t, db, "logout_user", "password123", false)

	w := doJSON(t, r, "POST", "/auth/logout", token, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	// Stateless: token masih berlaku setelah logout
	w = doJSON(t, r, "GET", "/auth/me", token, nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestInvalidToken(t *testing.T) {
	db := setupTestDB(t)
	r := setupRouterForTest(db)

	w := doJSON(t, r, "GET", "/auth/me", "not-a-real-token", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

// Field hash password tidak boleh muncul di response manapun
func TestPasswordHashNeverSerialized(t *testing.T) {
	db := setupTestDB(t)
	r := setupRouterForTest(db)

	admin, token := seedUser(t, db, "admin_user", "password123", true)
	seedNotification(t, db, admin.ID, "Hello", "World", "medium", true)

	responses := []string{
		doJSON(t, r, "POST", "/auth/register", "", map[string]interface{}{
			"username": "serialize_check",
			"password": "password123",
		}).Body.String(),
		doJSON(t, r, "POST", "/auth/login", "", map[string]interface{}{
			"username": "serialize_check",
			"password": "password123",
		}).Body.String(),
		doJSON(t, r, "GET", "/auth/me", token, nil).Body.String(),
		doJSON(t, r, "GET", "/users", token, nil).Body.String(),
		doJSON(t, r, "GET", "/notifications", "", nil).Body.String(),
		doJSON(t, r, "GET", "/admin/notifications", token, nil).Body.String(),
	}

	for _, body := range responses {
		lower := strings.ToLower(body)
		assert.NotContains(t, lower, "passwordhash")
		assert.NotContains(t, lower, "password_hash")
	}
}
