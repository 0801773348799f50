package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-key-12345678901234567890123456789012"

func TestAuthRequired(t *testing.T) {
	app := fiber.New()
	app.Get("/test", AuthRequired(testSecret), func(c *fiber.Ctx) error {
		ctxID, _ := c.UserContext().Value(UserIDKey).(uint)
		return c.JSON(fiber.Map{"userID": c.Locals("userID"), "ctxID": ctxID})
	})

	signed := func(claims jwt.Claims, method jwt.SigningMethod, key interface{}) string {
		s, err := jwt.NewWithClaims(method, claims).SignedString(key)
		require.NoError(t, err)
		return s
	}
	valid, err := IssueToken(123, testSecret, time.Hour)
	require.NoError(t, err)
	expired, err := IssueToken(123, testSecret, -time.Hour)
	require.NoError(t, err)
	otherSecret, err := IssueToken(123, "another-secret", time.Hour)
	require.NoError(t, err)

	tests := []struct {
		name           string
		authHeader     string
		expectedStatus int
		expectedUserID uint
	}{
		{name: "Happy Path", authHeader: "Bearer " + valid, expectedStatus: http.StatusOK, expectedUserID: 123},
		{name: "Missing Header", expectedStatus: http.StatusUnauthorized},
		{name: "Invalid Format", authHeader: "Basic dXNlcjpwYXNz", expectedStatus: http.StatusUnauthorized},
		{name: "Malformed Token", authHeader: "Bearer malformed.token.here", expectedStatus: http.StatusUnauthorized},
		{name: "Expired Token", authHeader: "Bearer " + expired, expectedStatus: http.StatusUnauthorized},
		{name: "Wrong Secret", authHeader: "Bearer " + otherSecret, expectedStatus: http.StatusUnauthorized},
		{
			name:           "Missing Subject",
			authHeader:     "Bearer " + signed(jwt.MapClaims{"exp": time.Now().Add(time.Hour).Unix()}, jwt.SigningMethodHS256, []byte(testSecret)),
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "Non Numeric Subject",
			authHeader:     "Bearer " + signed(jwt.MapClaims{"sub": "alice"}, jwt.SigningMethodHS256, []byte(testSecret)),
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "Zero Subject",
			authHeader:     "Bearer " + signed(jwt.MapClaims{"sub": strconv.Itoa(0)}, jwt.SigningMethodHS256, []byte(testSecret)),
			expectedStatus: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/test", nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}
			resp, err := app.Test(req)
			require.NoError(t, err)
			defer resp.Body.Close()
			assert.Equal(t, tt.expectedStatus, resp.StatusCode)

			var body map[string]interface{}
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
			if tt.expectedStatus == http.StatusOK {
				assert.EqualValues(t, tt.expectedUserID, body["userID"])
				assert.EqualValues(t, tt.expectedUserID, body["ctxID"])
				return
			}
			assert.Equal(t, false, body["success"])
			errs, _ := body["errors"].(map[string]interface{})
			assert.Equal(t, "UNAUTHENTICATED", errs["code"])
		})
	}
}

func TestIssueTokenRoundTrip(t *testing.T) {
	token, err := IssueToken(42, testSecret, time.Minute)
	require.NoError(t, err)

	id, err := ParseToken(token, testSecret)
	require.NoError(t, err)
	assert.Equal(t, uint(42), id)

	_, err = IssueToken(42, "", time.Minute)
	assert.Error(t, err)
}
