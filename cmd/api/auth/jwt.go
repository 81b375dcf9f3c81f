package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// SessionTTL 은 DB 세션과 액세스 토큰의 수명이다.
const SessionTTL = 30 * 24 * time.Hour

// Claims 는 세션 토큰에 담기는 값이다. Role 은 표시용이며 권한 판단은 DB 의 사용자 role 로 한다.
type Claims struct {
	UserID    string
	SessionID string
	Role      string
}

// JWTManager 는 HS256 단일 시크릿으로 JWT 를 발급/검증한다.
type JWTManager struct {
	secret []byte
	issuer string
	ttl    time.Duration
}

func NewJWTManager(secret, issuer string) (*JWTManager, error) {
	if secret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}
	if issuer == "" {
		issuer = "portfolio"
	}
	return &JWTManager{
		secret: []byte(secret),
		issuer: issuer,
		ttl:    SessionTTL,
	}, nil
}

func (m *JWTManager) Sign(userID, sessionID, role string) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":  userID,
		"sid":  sessionID,
		"role": role,
		"iss":  m.issuer,
		"iat":  now.Unix(),
		"exp":  now.Add(m.ttl).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secret)
}

func (m *JWTManager) Parse(tokenString string) (Claims, error) {
	parsed, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return m.secret, nil
	}, jwt.WithIssuer(m.issuer), jwt.WithExpirationRequired())
	if err != nil {
		return Claims{}, err
	}

	mc, ok := parsed.Claims.(jwt.MapClaims)
	if !ok || !parsed.Valid {
		return Claims{}, errors.New("invalid token claims")
	}

	claims := Claims{}
	claims.UserID, _ = mc["sub"].(string)
	claims.SessionID, _ = mc["sid"].(string)
	claims.Role, _ = mc["role"].(string)
	if claims.UserID == "" {
		return Claims{}, errors.New("token missing sub claim")
	}
	if claims.SessionID == "" {
		return Claims{}, errors.New("token missing sid claim")
	}
	return claims, nil
}
