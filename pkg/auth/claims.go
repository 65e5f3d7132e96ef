package auth

import (
	"github.com/golang-jwt/jwt/v5"
)

// ConsolePayload captures the data available when minting a console JWT.
type ConsolePayload struct {
	Username    string
	Permissions []string
	JTI         string
}

// ConsoleClaims represents the typed JWT the console shell presents.
type ConsoleClaims struct {
	Username    string   `json:"username"`
	Permissions []string `json:"permissions,omitempty"`
	jwt.RegisteredClaims
}
