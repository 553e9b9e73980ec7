package session

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenInfo はトークンから読み取った表示用の情報。
type TokenInfo struct {
	// Subject はトークンの主体（アカウントID）。
	Subject string
	// ExpiresAt は有効期限。期限がない場合はゼロ値。
	ExpiresAt time.Time
}

// Peek はトークンがJWTであれば署名を検証せずにクレームを読み取る。
// 検証はAPI側の責務であり、ここでは有効期限の表示にだけ使う。
// JWTでない不透明なトークンの場合はokがfalse。
func Peek(token string) (TokenInfo, bool) {
	claims := jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		return TokenInfo{}, false
	}
	info := TokenInfo{Subject: claims.Subject}
	if claims.ExpiresAt != nil {
		info.ExpiresAt = claims.ExpiresAt.Time
	}
	return info, true
}
