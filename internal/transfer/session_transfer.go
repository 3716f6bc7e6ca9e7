package transfer

import "github.com/golang-jwt/jwt/v5"

type SessionClaims struct {
	jwt.RegisteredClaims
}

type SessionRequest struct {
	APIKey string `json:"api_key"`
}
