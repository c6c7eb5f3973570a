//go:build chaos

package chaos

import (
	"fmt"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// generateLongString creates a string of the specified length filled with 'a'.
func generateLongString(length int) string {
	return strings.Repeat("a", length)
}

// TestInputBoundary_OversizedFields sends fields far beyond their declared
// limits and expects validation rejections, never 500s.
func TestInputBoundary_OversizedFields(t *testing.T) {
	cleanupTables(t)

	cases := []struct {
		name string
		body map[string]interface{}
	}{
		{"huge email", map[string]interface{}{
			"email":     generateLongString(10_000) + "@example.com",
			"password":  "s3cretpass",
			"full_name": "Chaos Tester",
		}},
		{"huge full name", map[string]interface{}{
			"email":     "huge_name@example.com",
			"password":  "s3cretpass",
			"full_name": generateLongString(100_000),
		}},
		{"huge password", map[string]interface{}{
			"email":     "huge_pass@example.com",
			"password":  generateLongString(50_000),
			"full_name": "Chaos Tester",
		}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resp, err := postJSON(formatURL("/api/auth/register"), "", tc.body)
			require.NoError(t, err)
			defer resp.Body.Close()

			assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode,
				"Oversized input should fail validation, got %d", resp.StatusCode)
		})
	}
}

// TestInputBoundary_SQLInjection throws classic injection payloads at the
// login and registration endpoints. The parameterized queries must treat
// them as plain strings.
func TestInputBoundary_SQLInjection(t *testing.T) {
	cleanupTables(t)

	payloads := []string{
		"' OR '1'='1",
		"'; DROP TABLE users; --",
		"admin'--",
		"1; SELECT * FROM users",
	}

	for i, payload := range payloads {
		t.Run(fmt.Sprintf("payload_%d", i), func(t *testing.T) {
			resp, err := postJSON(formatURL("/api/auth/login"), "", map[string]string{
				"email":    payload + "@example.com",
				"password": payload,
			})
			require.NoError(t, err)
			resp.Body.Close()

			// Rejected as a bad address or an unknown account. Never a 500.
			assert.Contains(t, []int{http.StatusUnauthorized, http.StatusUnprocessableEntity}, resp.StatusCode)
		})
	}

	// The users table is still alive.
	var count int
	require.NoError(t, testPool.QueryRow(t.Context(), "SELECT COUNT(*) FROM users").Scan(&count))
	assert.Equal(t, 0, count)
}

// TestInputBoundary_MalformedRequests exercises broken bodies and wrong
// content types on the booking endpoint.
func TestInputBoundary_MalformedRequests(t *testing.T) {
	cleanupTables(t)
	token := registerUser(t, "malformed@example.com")

	t.Run("truncated json", func(t *testing.T) {
		resp, err := postRaw(formatURL("/api/rentals"), token, "application/json",
			[]byte(`{"car_id": 1, "rental_type": "self_dr`))
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("wrong content type", func(t *testing.T) {
		resp, err := postRaw(formatURL("/api/rentals"), token, "text/plain",
			[]byte(`car_id=1`))
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("null body", func(t *testing.T) {
		resp, err := postRaw(formatURL("/api/rentals"), token, "application/json", []byte(`null`))
		require.NoError(t, err)
		resp.Body.Close()
		assert.Contains(t, []int{http.StatusBadRequest, http.StatusUnprocessableEntity}, resp.StatusCode)
	})

	t.Run("extreme duration", func(t *testing.T) {
		resp, err := postJSON(formatURL("/api/rentals"), token, map[string]interface{}{
			"car_id":         1,
			"rental_type":    "self_drive",
			"start_time":     "2025-06-01T10:00:00Z",
			"duration_hours": 1_000_000,
		})
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode,
			"Durations beyond the 720 hour cap should fail validation")
	})

	t.Run("negative ids in path", func(t *testing.T) {
		resp, err := postJSON(formatURL("/api/rentals/-1/return"), token, nil)
		require.NoError(t, err)
		body := readBody(resp)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode, "body: %s", body)
	})
}

// TestInputBoundary_UnicodePassesThrough stores unicode names and comments
// intact.
func TestInputBoundary_Unicode(t *testing.T) {
	cleanupTables(t)

	resp, err := postJSON(formatURL("/api/auth/register"), "", map[string]string{
		"email":     "unicode@example.com",
		"password":  "s3cretpass",
		"full_name": "María José 李小龙 🚗",
	})
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var name string
	require.NoError(t, testPool.QueryRow(t.Context(),
		"SELECT full_name FROM users WHERE email = 'unicode@example.com'").Scan(&name))
	assert.Equal(t, "María José 李小龙 🚗", name)
}
