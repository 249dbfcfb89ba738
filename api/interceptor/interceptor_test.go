package interceptor

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"realm/api/api/common"
	"realm/api/codes"
)

func newEngine(secret []byte, l *Limiter) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(HeaderInterceptor())
	g := r.Group("/auth", TokenInterceptor(secret))
	if l != nil {
		g.Use(RateLimitInterceptor(l))
	}
	g.GET("/me", func(c *gin.Context) {
		id, _ := TelegramID(c)
		res := common.NewResponse()
		res.Data = id
		c.JSON(http.StatusOK, res)
	})
	return r
}

func call(t *testing.T, r *gin.Engine, token string) common.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("http status %d", w.Code)
	}
	var res common.Response
	if err := json.Unmarshal(w.Body.Bytes(), &res); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	return res
}

func TestTokenInterceptor(t *testing.T) {
	secret := []byte("test-secret")
	r := newEngine(secret, nil)

	tok, err := IssueToken(secret, 424242, time.Hour)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	res := call(t, r, tok)
	if res.Code != codes.CODE_SUCCESS || res.Data.(float64) != 424242 {
		t.Fatalf("valid token: %+v", res)
	}

	if res := call(t, r, ""); res.Code != codes.CODE_ERR_SECURITY {
		t.Fatalf("missing token: %+v", res)
	}

	other, _ := IssueToken([]byte("other"), 1, time.Hour)
	if res := call(t, r, other); res.Code != codes.CODE_ERR_SECURITY {
		t.Fatalf("wrong secret: %+v", res)
	}

	expired, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   "1",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
	}).SignedString(secret)
	if res := call(t, r, expired); res.Code != codes.CODE_ERR_SECURITY {
		t.Fatalf("expired token: %+v", res)
	}
	if res := call(t, r, "abc.def.ghi"); res.Code != codes.CODE_ERR_SECURITY {
		t.Fatalf("garbage token: %+v", res)
	}
}

func TestRateLimit(t *testing.T) {
	secret := []byte("s")
	r := newEngine(secret, NewLimiter(1, 2))
	tok, _ := IssueToken(secret, 7, time.Hour)

	for i := 0; i < 2; i++ {
		if res := call(t, r, tok); res.Code != codes.CODE_SUCCESS {
			t.Fatalf("request %d limited: %+v", i, res)
		}
	}
	if res := call(t, r, tok); res.Code != codes.CODE_ERR_RATE_LIMIT {
		t.Fatalf("third request should be limited: %+v", res)
	}

	// 其他用户不受影响
	tok2, _ := IssueToken(secret, 8, time.Hour)
	if res := call(t, r, tok2); res.Code != codes.CODE_SUCCESS {
		t.Fatalf("other user limited: %+v", res)
	}
}

func TestLimiterPrunesIdleKeys(t *testing.T) {
	l := NewLimiter(6, 3)
	clock := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return clock }

	for _, k := range []string{"1", "2", "3"} {
		l.Allow(k)
	}
	if l.Len() != 3 {
		t.Fatalf("len = %d, want 3", l.Len())
	}

	clock = clock.Add(limiterIdleTTL / 2)
	l.Allow("1")

	clock = clock.Add(limiterIdleTTL/2 + time.Second)
	l.Allow("4")
	// 2、3 已空闲超过 TTL，1 刚用过
	if l.Len() != 2 {
		t.Fatalf("len = %d, want 2", l.Len())
	}
}

func TestLimiterKeepsBucketUntilRefilled(t *testing.T) {
	// 每分钟 1 次、桶容量 30，回满需要 30 分钟，长于默认 TTL
	l := NewLimiter(1, 30)
	clock := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return clock }

	for i := 0; i < 30; i++ {
		if !l.Allow("7") {
			t.Fatalf("request %d limited", i)
		}
	}
	clock = clock.Add(limiterIdleTTL + time.Minute + time.Second)
	l.Allow("8")
	if l.Len() != 2 {
		t.Fatalf("drained bucket was pruned early, len = %d", l.Len())
	}
	// 11 分钟只回了 11 个
	allowed := 0
	for i := 0; i < 30; i++ {
		if l.Allow("7") {
			allowed++
		}
	}
	if allowed != 11 {
		t.Fatalf("allowed = %d, want 11", allowed)
	}
}
