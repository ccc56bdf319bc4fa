package utils

import (
	"strconv"
	"time"

	"sustbazaar/config"

	"github.com/golang-jwt/jwt/v5"
)

// Tokens is an access/refresh pair.
type Tokens struct {
	Access  string
	Refresh string
}

// TokenMetadata is the claim set this service cares about: the account id,
// whether 2FA validation is still pending, and expiry.
type TokenMetadata struct {
	Id  string
	Otp bool
	Exp int64
}

// GenerateTokens issues a fresh access/refresh pair for an account.
func GenerateTokens(id string, otp bool) (*Tokens, error) {
	accessToken, err := generateToken(id, otp, "JWT_ACCESS_EXPIRE", "JWT_ACCESS_KEY")
	if err != nil {
		return nil, err
	}

	refreshToken, err := generateToken(id, otp, "JWT_REFRESH_EXPIRE", "JWT_REFRESH_KEY")
	if err != nil {
		return nil, err
	}

	return &Tokens{
		Access:  accessToken,
		Refresh: refreshToken,
	}, nil
}

func generateToken(id string, otp bool, expire string, key string) (string, error) {
	minutesCount, _ := strconv.Atoi(config.Config(expire))

	claims := jwt.MapClaims{}
	claims["id"] = id
	claims["otp"] = otp
	claims["exp"] = time.Now().Add(time.Minute * time.Duration(minutesCount)).Unix()

	token := jwt.NewWithClaims(jwt.SigningMethodHS512, claims)
	return token.SignedString([]byte(config.Config(key)))
}

// CheckAndExtractTokenMetadata verifies a token against the named key and
// returns its claims.
func CheckAndExtractTokenMetadata(token string, key string) (*TokenMetadata, error) {
	t, err := jwt.Parse(token, func(token *jwt.Token) (interface{}, error) {
		return []byte(config.Config(key)), nil
	})
	if err != nil {
		return nil, err
	}

	if claims, ok := t.Claims.(jwt.MapClaims); ok && t.Valid {
		return &TokenMetadata{
			Id:  claims["id"].(string),
			Otp: claims["otp"].(bool),
			Exp: int64(claims["exp"].(float64)),
		}, nil
	}

	return nil, err
}
