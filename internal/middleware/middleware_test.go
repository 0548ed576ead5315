package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

func serve(r *gin.Engine, bearer string) int {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "10.0.0.1:5555"
	if bearer != "" {
		req.Header.Set("Authorization", bearer)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w.Code
}

func TestRateLimit_BlocksAfterBurst(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RateLimitMiddleware(2))
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	for i := 0; i < 2; i++ {
		if code := serve(r, ""); code != http.StatusOK {
			t.Fatalf("request %d = %d", i, code)
		}
	}
	if code := serve(r, ""); code != http.StatusTooManyRequests {
		t.Fatalf("third request = %d, want 429", code)
	}
}

func TestAuth_SetsIdentityAndRoles(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(AuthMiddleware("s3cret"), RequireRole(RoleAdmin, RoleCashier))
	r.GET("/", func(c *gin.Context) {
		if c.GetString(ContextUserID) != "u-1" {
			c.Status(http.StatusTeapot)
			return
		}
		c.Status(http.StatusOK)
	})

	sign := func(claims jwt.MapClaims) string {
		s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("s3cret"))
		if err != nil {
			t.Fatalf("sign: %v", err)
		}
		return "Bearer " + s
	}

	cases := []struct {
		name   string
		header string
		want   int
	}{
		{"missing", "", http.StatusUnauthorized},
		{"not bearer", "Basic abc", http.StatusUnauthorized},
		{"garbage", "Bearer abc.def.ghi", http.StatusUnauthorized},
		{"no role", sign(jwt.MapClaims{"sub": "u-1"}), http.StatusUnauthorized},
		{"wrong role", sign(jwt.MapClaims{"sub": "u-1", "role": RoleCustomer}), http.StatusForbidden},
		{"cashier", sign(jwt.MapClaims{"sub": "u-1", "role": RoleCashier}), http.StatusOK},
	}
	for _, tt := range cases {
		if code := serve(r, tt.header); code != tt.want {
			t.Fatalf("%s: got %d, want %d", tt.name, code, tt.want)
		}
	}
}
