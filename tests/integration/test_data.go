package integration

import (
	"fmt"
	"strings"
	"time"
)

// TestAdmin generates unique admin credentials using a timestamp.
func TestAdmin(suffix string) (username, email, password string) {
	ts := time.Now().UnixNano()
	username = fmt.Sprintf("admin-%d-%s", ts, suffix)
	email = fmt.Sprintf("admin-%d-%s@example.com", ts, suffix)
	password = "TestPassword123!"
	return
}

// ExtractResetToken pulls the raw reset token out of a password reset
// email body. The link has the form .../reset-password?token=<token>.
func ExtractResetToken(body string) string {
	const marker = "reset-password?token="
	idx := strings.Index(body, marker)
	if idx < 0 {
		return ""
	}
	rest := body[idx+len(marker):]
	if end := strings.IndexAny(rest, "\"'<> \r\n"); end >= 0 {
		rest = rest[:end]
	}
	return rest
}
