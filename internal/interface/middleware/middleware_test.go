package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/docvault-api/internal/domain/entity"
	"github.com/oksasatya/docvault-api/internal/infrastructure/memory"
	"github.com/oksasatya/docvault-api/pkg/helpers"
)

func init() { gin.SetMode(gin.TestMode) }

type authFixture struct {
	engine *gin.Engine
	jwt    *helpers.JWTManager
	user   *entity.User
	admin  *entity.User
}

func newAuthFixture(t *testing.T) *authFixture {
	t.Helper()
	store := memory.NewStore()
	users := store.Users()
	u := &entity.User{Name: "Alice", Email: "alice@x.com"}
	a := &entity.User{Name: "Root", Email: "root@x.com", IsAdmin: true}
	require.NoError(t, users.Create(context.Background(), u))
	require.NoError(t, users.Create(context.Background(), a))

	jwt := helpers.NewJWTManager("a", "r", time.Minute, time.Hour)
	r := gin.New()
	r.Use(RequestIDMiddleware())
	r.GET("/me", Auth(nil, jwt, users), func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString(CtxUserEmail))
	})
	r.GET("/admin", Auth(nil, jwt, users), AdminOnly(), func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})
	return &authFixture{engine: r, jwt: jwt, user: u, admin: a}
}

func (f *authFixture) token(t *testing.T, uid string) string {
	t.Helper()
	tok, _, err := f.jwt.GenerateAccessToken(uid, uuid.NewString())
	require.NoError(t, err)
	return tok
}

func (f *authFixture) do(req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	f.engine.ServeHTTP(w, req)
	return w
}

func TestAuth_BearerAndCookie(t *testing.T) {
	f := newAuthFixture(t)

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+f.token(t, f.user.ID))
	w := f.do(req)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "alice@x.com", w.Body.String())

	req = httptest.NewRequest(http.MethodGet, "/me", nil)
	req.AddCookie(&http.Cookie{Name: helpers.AccessCookie, Value: f.token(t, f.user.ID)})
	assert.Equal(t, http.StatusOK, f.do(req).Code)
}

func TestAuth_Rejections(t *testing.T) {
	f := newAuthFixture(t)
	cases := map[string]string{
		"missing":      "",
		"not bearer":   "Token " + f.token(t, f.user.ID),
		"garbage":      "Bearer not-a-jwt",
		"unknown user": "Bearer " + f.token(t, uuid.NewString()),
	}
	for name, header := range cases {
		t.Run(name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if header != "" {
				req.Header.Set("Authorization", header)
			}
			w := f.do(req)
			assert.Equal(t, http.StatusUnauthorized, w.Code)
			assert.Contains(t, w.Body.String(), `"success":false`)
		})
	}
}

func TestAdminOnly(t *testing.T) {
	f := newAuthFixture(t)

	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.Header.Set("Authorization", "Bearer "+f.token(t, f.user.ID))
	assert.Equal(t, http.StatusForbidden, f.do(req).Code)

	req = httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.Header.Set("Authorization", "Bearer "+f.token(t, f.admin.ID))
	assert.Equal(t, http.StatusOK, f.do(req).Code)

	req = httptest.NewRequest(http.MethodGet, "/admin", nil)
	assert.Equal(t, http.StatusUnauthorized, f.do(req).Code)
}

func TestAdminOnly_WithoutAuth(t *testing.T) {
	r := gin.New()
	r.GET("/x", AdminOnly(), func(c *gin.Context) { c.Status(http.StatusOK) })
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequestID(t *testing.T) {
	r := gin.New()
	r.Use(RequestIDMiddleware())
	r.GET("/", func(c *gin.Context) { c.String(http.StatusOK, c.GetString("request_id")) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	_, err := uuid.Parse(w.Body.String())
	require.NoError(t, err)
	assert.Equal(t, w.Body.String(), w.Header().Get(RequestIDHeader))

	incoming := uuid.NewString()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, incoming)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, incoming, w.Body.String())

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "<script>")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.NotEqual(t, "<script>", w.Body.String())
}

func TestRealIPAndAllowPrivate(t *testing.T) {
	r := gin.New()
	r.Use(RealIP())
	r.GET("/ip", func(c *gin.Context) { c.String(http.StatusOK, c.GetString(CtxRealIP)) })
	r.GET("/private", func(c *gin.Context) {
		if AllowPrivateIP()(c) {
			c.Status(http.StatusOK)
			return
		}
		c.Status(http.StatusNotFound)
	})

	req := httptest.NewRequest(http.MethodGet, "/ip", nil)
	req.Header.Set("X-Forwarded-For", "203.0.113.9, 10.0.0.1")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "203.0.113.9", w.Body.String())

	req = httptest.NewRequest(http.MethodGet, "/ip", nil)
	req.Header.Set("X-Real-IP", "198.51.100.7")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "198.51.100.7", w.Body.String())

	req = httptest.NewRequest(http.MethodGet, "/private", nil)
	req.Header.Set("CF-Connecting-IP", "203.0.113.9")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNotFound, w.Code)

	req = httptest.NewRequest(http.MethodGet, "/private", nil)
	req.Header.Set("CF-Connecting-IP", "10.1.2.3")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRateLimit_NoRedisPassesThrough(t *testing.T) {
	r := gin.New()
	r.GET("/", RateLimit(nil, RateRule{Limit: 1, Window: time.Minute, Key: KeyByIPAndPath()}), func(c *gin.Context) { c.Status(http.StatusOK) })
	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, http.StatusOK, w.Code)
	}
}

func TestKeyFuncs(t *testing.T) {
	w := httptest.NewRecorder()
	c, r := gin.CreateTestContext(w)
	r.GET("/api/users/login", func(*gin.Context) {})
	c.Request = httptest.NewRequest(http.MethodGet, "/api/users/login", nil)
	c.Set(CtxRealIP, "1.2.3.4")

	assert.Equal(t, "rl:path:/api/users/login:ip:1.2.3.4", KeyByIPAndPath()(c))
	assert.Equal(t, "rl:user:anon:ip:1.2.3.4", KeyByUserID()(c))
	c.Set(CtxUserID, "u1")
	assert.Equal(t, "rl:user:u1", KeyByUserID()(c))
}
