package integration

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sairajtravels/site-api/internal/models"
)

func setupSuite(t *testing.T) (*TestDB, *TestServer) {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	ctx := context.Background()
	db, err := SetupTestDatabase(ctx)
	if err != nil {
		t.Skipf("could not start postgres container: %v", err)
	}
	t.Cleanup(func() { db.Teardown(context.Background()) })

	ts := NewTestServer(db.DB)
	t.Cleanup(ts.Close)

	return db, ts
}

func TestPasswordResetFlow(t *testing.T) {
	db, ts := setupSuite(t)
	ctx := context.Background()

	username, email, password := TestAdmin("reset")
	_, err := SeedAdminUser(ctx, db.Pool, username, email, password, models.RoleAdmin)
	require.NoError(t, err)

	// Login with the original password works.
	token, err := ts.Login(username, password)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	// Request a reset; the endpoint answers the same for any address.
	var forgotResp struct {
		Success bool   `json:"success"`
		Message string `json:"message"`
	}
	resp, err := ts.DoJSON(http.MethodPost, "/api/auth/forgot-password",
		map[string]string{"email": email}, "", &forgotResp)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, forgotResp.Success)

	// The reset email arrives in the background.
	var resetToken string
	require.Eventually(t, func() bool {
		mail := ts.Mailer.LastTo(email)
		if mail == nil {
			return false
		}
		resetToken = ExtractResetToken(mail.HTMLBody)
		return resetToken != ""
	}, 10*time.Second, 100*time.Millisecond, "reset email never arrived")

	// The frontend checks the token before showing the form.
	resp, err = ts.DoJSON(http.MethodGet, "/api/auth/validate-reset-token?token="+resetToken, nil, "", nil)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	// Redeem the token.
	newPassword := "BrandNewPass456!"
	resp, err = ts.DoJSON(http.MethodPost, "/api/auth/reset-password",
		map[string]string{"token": resetToken, "newPassword": newPassword}, "", nil)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	// The token is single-use.
	resp, err = ts.DoJSON(http.MethodPost, "/api/auth/reset-password",
		map[string]string{"token": resetToken, "newPassword": "AnotherPass789!"}, "", nil)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	// Old password no longer works, the new one does.
	_, err = ts.Login(username, password)
	assert.Error(t, err)

	newToken, err := ts.Login(username, newPassword)
	require.NoError(t, err)
	assert.NotEmpty(t, newToken)
}

func TestLoginDisclosesNothing(t *testing.T) {
	db, ts := setupSuite(t)
	ctx := context.Background()

	username, email, password := TestAdmin("generic")
	_, err := SeedAdminUser(ctx, db.Pool, username, email, password, models.RoleAdmin)
	require.NoError(t, err)

	var wrongPass, unknownUser struct {
		Success bool   `json:"success"`
		Message string `json:"message"`
	}

	resp1, err := ts.DoJSON(http.MethodPost, "/api/auth/login",
		map[string]string{"username": username, "password": "wrong"}, "", &wrongPass)
	require.NoError(t, err)

	resp2, err := ts.DoJSON(http.MethodPost, "/api/auth/login",
		map[string]string{"username": "no-such-user", "password": "wrong"}, "", &unknownUser)
	require.NoError(t, err)

	assert.Equal(t, resp1.StatusCode, resp2.StatusCode)
	assert.Equal(t, wrongPass.Message, unknownUser.Message,
		"wrong password and unknown user must be indistinguishable")
}

func TestContactMessageFlow(t *testing.T) {
	db, ts := setupSuite(t)
	ctx := context.Background()

	username, email, password := TestAdmin("contact")
	_, err := SeedAdminUser(ctx, db.Pool, username, email, password, models.RoleAdmin)
	require.NoError(t, err)

	// Public submission needs no authentication.
	var submitResp struct {
		Success bool  `json:"success"`
		ID      int64 `json:"id"`
	}
	resp, err := ts.DoJSON(http.MethodPost, "/api/contact", map[string]string{
		"name":    "Asha",
		"email":   "asha@example.com",
		"phone":   "9876543210",
		"message": "Need a bus for 30 people next weekend",
	}, "", &submitResp)
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	require.True(t, submitResp.Success)

	// Both notification emails go out in the background.
	require.Eventually(t, func() bool {
		return ts.Mailer.LastTo("asha@example.com") != nil &&
			ts.Mailer.LastTo(ts.Config.Email.DefaultAdminEmail) != nil
	}, 10*time.Second, 100*time.Millisecond)

	confirmation := ts.Mailer.LastTo("asha@example.com")
	assert.Contains(t, confirmation.Subject, "We received your message")

	// The admin inbox requires a token.
	resp, err = ts.DoJSON(http.MethodGet, "/api/admin/messages", nil, "", nil)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	token, err := ts.Login(username, password)
	require.NoError(t, err)

	var messages []struct {
		ID      int64  `json:"id"`
		Name    string `json:"name"`
		Message string `json:"message"`
	}
	resp, err = ts.DoJSON(http.MethodGet, "/api/admin/messages", nil, token, &messages)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Len(t, messages, 1)
	assert.Equal(t, "Asha", messages[0].Name)
}

func TestEmailToggleStopsNotifications(t *testing.T) {
	db, ts := setupSuite(t)
	ctx := context.Background()

	username, email, password := TestAdmin("toggle")
	_, err := SeedAdminUser(ctx, db.Pool, username, email, password, models.RoleAdmin)
	require.NoError(t, err)

	token, err := ts.Login(username, password)
	require.NoError(t, err)

	// First read creates the default settings row.
	var settings struct {
		EmailEnabled bool `json:"emailEnabled"`
	}
	resp, err := ts.DoJSON(http.MethodGet, "/api/admin/settings/email", nil, token, &settings)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, settings.EmailEnabled)

	// Disable notifications at runtime.
	resp, err = ts.DoJSON(http.MethodPost, "/api/admin/settings/email/toggle",
		map[string]bool{"enabled": false}, token, nil)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	// A submission still succeeds but sends nothing.
	before := len(ts.Mailer.Sent())
	resp, err = ts.DoJSON(http.MethodPost, "/api/contact", map[string]string{
		"name":    "Ravi",
		"email":   "ravi@example.com",
		"message": "Quote please",
	}, "", nil)
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	time.Sleep(500 * time.Millisecond)
	assert.Equal(t, before, len(ts.Mailer.Sent()), "disabled transport must not send")
}
