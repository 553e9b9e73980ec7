package middleware

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Claims はセッショントークンのクレーム。
// Subject にアカウントID、ID にトークン固有のIDを入れる。
type Claims struct {
	jwt.RegisteredClaims
	// Role はアカウントのロール（"admin" または "user"）。
	Role string `json:"role"`
}

// tokenIssuer はトークンの発行者。
const tokenIssuer = "lojacontrol-api"

// コンテキストに設定するキー。
const (
	contextKeyAccountID = "account_id"
	contextKeyRole      = "role"
	contextKeyTokenID   = "token_id"
)

// 認証失敗時にdetailとして返す文言。
const (
	detailMissingToken   = "Token ausente."
	detailMalformedToken = "Formato de token invalido."
	detailInvalidSession = "Sessao invalida ou expirada."
)

// IssueToken はアカウントのセッショントークンを発行する。
func IssueToken(secret string, accountID int64, role string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   strconv.FormatInt(accountID, 10),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    tokenIssuer,
		},
		Role: role,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("JWTトークンの署名に失敗: %w", err)
	}
	return signed, nil
}

// JWTAuth はBearerトークンを検証するGinミドルウェアを返す。
// isRevokedがnilでなければ、trueを返したトークンIDを拒否する。
// 検証に成功した場合、コンテキストにアカウントID、ロール、トークンIDを設定する。
func JWTAuth(secret string, isRevoked func(tokenID string) bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			abortWithDetail(c, http.StatusUnauthorized, detailMissingToken)
			return
		}

		tokenString, found := strings.CutPrefix(authHeader, "Bearer ")
		if !found || tokenString == "" {
			abortWithDetail(c, http.StatusUnauthorized, detailMalformedToken)
			return
		}

		claims := &Claims{}
		token, err := jwt.ParseWithClaims(tokenString, claims, func(_ *jwt.Token) (any, error) {
			return []byte(secret), nil
		}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithIssuer(tokenIssuer))
		if err != nil || !token.Valid {
			abortWithDetail(c, http.StatusUnauthorized, detailInvalidSession)
			return
		}
		accountID, err := strconv.ParseInt(claims.Subject, 10, 64)
		if err != nil {
			abortWithDetail(c, http.StatusUnauthorized, detailInvalidSession)
			return
		}
		if isRevoked != nil && isRevoked(claims.ID) {
			abortWithDetail(c, http.StatusUnauthorized, detailInvalidSession)
			return
		}

		c.Set(contextKeyAccountID, accountID)
		c.Set(contextKeyRole, claims.Role)
		c.Set(contextKeyTokenID, claims.ID)
		c.Next()
	}
}

// RequireRole はロールが一致しないリクエストを403で拒否するGinミドルウェアを返す。
// JWTAuthの後に適用する。
func RequireRole(role, detail string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if GetRole(c) != role {
			abortWithDetail(c, http.StatusForbidden, detail)
			return
		}
		c.Next()
	}
}

// GetAccountID はGinコンテキストからアカウントIDを取得する。
func GetAccountID(c *gin.Context) int64 {
	return c.GetInt64(contextKeyAccountID)
}

// GetRole はGinコンテキストからロールを取得する。
func GetRole(c *gin.Context) string {
	return c.GetString(contextKeyRole)
}

// GetTokenID はGinコンテキストからトークンIDを取得する。
func GetTokenID(c *gin.Context) string {
	return c.GetString(contextKeyTokenID)
}

// abortWithDetail は {"detail": ...} 形式のエラーで処理を中断する。
func abortWithDetail(c *gin.Context, status int, detail string) {
	c.AbortWithStatusJSON(status, gin.H{"detail": detail})
}
