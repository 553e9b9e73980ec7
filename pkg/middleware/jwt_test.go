package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// testSecret はテスト用のJWTシークレット。
const testSecret = "test-secret-key-for-unit-tests"

// TestIssueToken はIssueToken関数を検証する。
func TestIssueToken(t *testing.T) {
	t.Parallel()

	t.Run("アカウントIDとロールを含むトークンを発行できること", func(t *testing.T) {
		t.Parallel()

		before := time.Now()
		tokenStr, err := IssueToken(testSecret, 42, "admin", time.Hour)
		if err != nil {
			t.Fatalf("IssueToken()でエラーが発生: %v", err)
		}

		claims := &Claims{}
		token, err := jwt.ParseWithClaims(tokenStr, claims, func(_ *jwt.Token) (any, error) {
			return []byte(testSecret), nil
		})
		if err != nil || !token.Valid {
			t.Fatalf("トークンのパースに失敗: %v", err)
		}
		if claims.Subject != "42" {
			t.Errorf("Subject = %q, want %q", claims.Subject, "42")
		}
		if claims.Role != "admin" {
			t.Errorf("Role = %q, want %q", claims.Role, "admin")
		}
		if claims.ID == "" {
			t.Error("トークンIDが空")
		}
		if claims.Issuer != tokenIssuer {
			t.Errorf("Issuer = %q, want %q", claims.Issuer, tokenIssuer)
		}
		// 有効期限がttl後の前後1分以内であること
		want := before.Add(time.Hour)
		if d := claims.ExpiresAt.Sub(want); d < -time.Minute || d > time.Minute {
			t.Errorf("ExpiresAt = %v, want about %v", claims.ExpiresAt.Time, want)
		}
	})

	t.Run("発行するたびにトークンIDが変わること", func(t *testing.T) {
		t.Parallel()

		a, err := IssueToken(testSecret, 1, "user", time.Hour)
		if err != nil {
			t.Fatalf("IssueToken()でエラーが発生: %v", err)
		}
		b, err := IssueToken(testSecret, 1, "user", time.Hour)
		if err != nil {
			t.Fatalf("IssueToken()でエラーが発生: %v", err)
		}
		if a == b {
			t.Error("同じトークンが発行された")
		}
	})
}

// newAuthRouter はJWTAuthで保護された /me を持つルーターを生成する。
func newAuthRouter(isRevoked func(string) bool) *gin.Engine {
	router := gin.New()
	router.GET("/me", JWTAuth(testSecret, isRevoked), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"account_id": GetAccountID(c),
			"role":       GetRole(c),
			"token_id":   GetTokenID(c),
		})
	})
	return router
}

// detailOf はレスポンスボディのdetailを取り出す。
func detailOf(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("レスポンスボディのパースに失敗: %v", err)
	}
	return body["detail"]
}

// TestJWTAuth はJWTAuthミドルウェアを検証する。
func TestJWTAuth(t *testing.T) {
	t.Parallel()

	t.Run("有効なトークンでアカウント情報がコンテキストに設定されること", func(t *testing.T) {
		t.Parallel()

		tokenStr, err := IssueToken(testSecret, 7, "user", time.Hour)
		if err != nil {
			t.Fatalf("IssueToken()でエラーが発生: %v", err)
		}

		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set("Authorization", "Bearer "+tokenStr)
		w := httptest.NewRecorder()
		newAuthRouter(nil).ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("ステータスコード = %d, want %d", w.Code, http.StatusOK)
		}
		var body struct {
			AccountID int64  `json:"account_id"`
			Role      string `json:"role"`
			TokenID   string `json:"token_id"`
		}
		if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
			t.Fatalf("レスポンスボディのパースに失敗: %v", err)
		}
		if body.AccountID != 7 || body.Role != "user" || body.TokenID == "" {
			t.Errorf("body = %+v", body)
		}
	})

	tests := []struct {
		name   string
		header func(t *testing.T) string
		detail string
	}{
		{
			name:   "Authorizationヘッダーがない場合は401になること",
			header: func(*testing.T) string { return "" },
			detail: detailMissingToken,
		},
		{
			name:   "Bearer形式でない場合は401になること",
			header: func(*testing.T) string { return "Basic dXNlcjpwYXNz" },
			detail: detailMalformedToken,
		},
		{
			name:   "不正なトークンの場合は401になること",
			header: func(*testing.T) string { return "Bearer invalid.token.here" },
			detail: detailInvalidSession,
		},
		{
			name: "異なるシークレットで署名されたトークンは401になること",
			header: func(t *testing.T) string {
				tokenStr, err := IssueToken("other-secret", 1, "user", time.Hour)
				if err != nil {
					t.Fatalf("IssueToken()でエラーが発生: %v", err)
				}
				return "Bearer " + tokenStr
			},
			detail: detailInvalidSession,
		},
		{
			name: "期限切れのトークンは401になること",
			header: func(t *testing.T) string {
				tokenStr, err := IssueToken(testSecret, 1, "user", -time.Minute)
				if err != nil {
					t.Fatalf("IssueToken()でエラーが発生: %v", err)
				}
				return "Bearer " + tokenStr
			},
			detail: detailInvalidSession,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if h := tt.header(t); h != "" {
				req.Header.Set("Authorization", h)
			}
			w := httptest.NewRecorder()
			newAuthRouter(nil).ServeHTTP(w, req)

			if w.Code != http.StatusUnauthorized {
				t.Errorf("ステータスコード = %d, want %d", w.Code, http.StatusUnauthorized)
			}
			if got := detailOf(t, w); got != tt.detail {
				t.Errorf("detail = %q, want %q", got, tt.detail)
			}
		})
	}

	t.Run("失効したトークンは401になること", func(t *testing.T) {
		t.Parallel()

		tokenStr, err := IssueToken(testSecret, 1, "user", time.Hour)
		if err != nil {
			t.Fatalf("IssueToken()でエラーが発生: %v", err)
		}

		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set("Authorization", "Bearer "+tokenStr)
		w := httptest.NewRecorder()
		newAuthRouter(func(string) bool { return true }).ServeHTTP(w, req)

		if w.Code != http.StatusUnauthorized {
			t.Errorf("ステータスコード = %d, want %d", w.Code, http.StatusUnauthorized)
		}
	})
}

// TestRequireRole はRequireRoleミドルウェアを検証する。
func TestRequireRole(t *testing.T) {
	t.Parallel()

	router := gin.New()
	router.GET("/admin", JWTAuth(testSecret, nil), RequireRole("admin", "Acesso restrito a administradores."), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	tests := []struct {
		name string
		role string
		want int
	}{
		{name: "ロールが一致する場合は通過すること", role: "admin", want: http.StatusOK},
		{name: "ロールが異なる場合は403になること", role: "user", want: http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			tokenStr, err := IssueToken(testSecret, 1, tt.role, time.Hour)
			if err != nil {
				t.Fatalf("IssueToken()でエラーが発生: %v", err)
			}
			req := httptest.NewRequest(http.MethodGet, "/admin", nil)
			req.Header.Set("Authorization", "Bearer "+tokenStr)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			if w.Code != tt.want {
				t.Errorf("ステータスコード = %d, want %d", w.Code, tt.want)
			}
			if tt.want == http.StatusForbidden {
				if got := detailOf(t, w); got != "Acesso restrito a administradores." {
					t.Errorf("detail = %q", got)
				}
			}
		})
	}
}
