package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/recipebox/recipebox/pkg/helpers"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func serve(mw gin.HandlerFunc, mutate func(*http.Request)) *httptest.ResponseRecorder {
	r := gin.New()
	r.GET("/ping", mw, func(c *gin.Context) {
		c.String(http.StatusOK, "pong")
	})
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	if mutate != nil {
		mutate(req)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthRejectsMissingCookie(t *testing.T) {
	jwt := helpers.NewJWTManager("a-secret", "r-secret", time.Hour, 24*time.Hour)

	w := serve(Auth(nil, jwt), nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthRejectsInvalidToken(t *testing.T) {
	jwt := helpers.NewJWTManager("a-secret", "r-secret", time.Hour, 24*time.Hour)

	w := serve(Auth(nil, jwt), func(req *http.Request) {
		req.AddCookie(&http.Cookie{Name: "access_token", Value: "garbage"})
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthRejectsTokenSignedWithWrongSecret(t *testing.T) {
	signer := helpers.NewJWTManager("other-secret", "r-secret", time.Hour, 24*time.Hour)
	token, _, err := signer.GenerateAccessToken("user-1")
	require.NoError(t, err)

	jwt := helpers.NewJWTManager("a-secret", "r-secret", time.Hour, 24*time.Hour)
	w := serve(Auth(nil, jwt), func(req *http.Request) {
		req.AddCookie(&http.Cookie{Name: "access_token", Value: token})
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRateLimitDisabledWithoutRedis(t *testing.T) {
	mw := RateLimit(nil, 1, time.Minute, KeyByIP(), nil)

	for i := 0; i < 3; i++ {
		w := serve(mw, nil)
		assert.Equal(t, http.StatusOK, w.Code)
	}
}

func TestKeyFuncs(t *testing.T) {
	r := gin.New()
	var ipKey, pathKey, userKey, anonKey string
	r.GET("/things/:id", func(c *gin.Context) {
		ipKey = KeyByIP()(c)
		pathKey = KeyByIPAndPath()(c)
		anonKey = KeyByUserID()(c)
		c.Set("userID", "user-1")
		userKey = KeyByUserID()(c)
	})
	req := httptest.NewRequest(http.MethodGet, "/things/42", nil)
	req.RemoteAddr = "203.0.113.9:1234"
	r.ServeHTTP(httptest.NewRecorder(), req)

	assert.Equal(t, "rl:ip:203.0.113.9", ipKey)
	assert.Equal(t, "rl:path:/things/:id:ip:203.0.113.9", pathKey)
	assert.Contains(t, anonKey, "rl:user:anon:")
	assert.Equal(t, "rl:user:user-1", userKey)
}

func TestRealIPPrecedence(t *testing.T) {
	r := gin.New()
	var got string
	r.GET("/", RealIP(), func(c *gin.Context) {
		got = c.GetString("real_ip")
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("CF-Connecting-IP", "198.51.100.7")
	req.Header.Set("X-Forwarded-For", "192.0.2.1, 10.0.0.1")
	r.ServeHTTP(httptest.NewRecorder(), req)
	assert.Equal(t, "198.51.100.7", got)

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Forwarded-For", "192.0.2.1, 10.0.0.1")
	r.ServeHTTP(httptest.NewRecorder(), req)
	assert.Equal(t, "192.0.2.1", got)
}

func TestRequestIDSet(t *testing.T) {
	r := gin.New()
	var first, second string
	r.GET("/", RequestIDMiddleware(), func(c *gin.Context) {
		if first == "" {
			first = c.GetString("request_id")
		} else {
			second = c.GetString("request_id")
		}
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	assert.NotEmpty(t, first)
	assert.NotEmpty(t, second)
	assert.NotEqual(t, first, second)
	assert.Equal(t, first, w.Header().Get("X-Request-ID"))
}

func TestAllowPrivateIP(t *testing.T) {
	r := gin.New()
	var allowed bool
	r.GET("/", func(c *gin.Context) {
		c.Set("real_ip", c.Query("ip"))
		allowed = AllowPrivateIP()(c)
	})

	req := httptest.NewRequest(http.MethodGet, "/?ip=10.1.2.3", nil)
	r.ServeHTTP(httptest.NewRecorder(), req)
	assert.True(t, allowed)

	req = httptest.NewRequest(http.MethodGet, "/?ip=203.0.113.9", nil)
	r.ServeHTTP(httptest.NewRecorder(), req)
	assert.False(t, allowed)
}
