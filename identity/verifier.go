package identity

import (
	"errors"

	"sustbazaar/apperror"
	"sustbazaar/model"
	"sustbazaar/utils"

	"gorm.io/gorm"
)

// Verifier resolves a bearer access token to a live, non-banned account.
// The REST middleware and the realtime handshake both go through here so
// the two surfaces cannot drift on what counts as a valid identity.
type Verifier struct {
	db *gorm.DB
}

func NewVerifier(db *gorm.DB) *Verifier {
	return &Verifier{db: db}
}

// Verify checks the token signature and claims, then loads the account.
// Unauthenticated: missing/malformed/expired token or a 2FA-pending one.
// Forbidden: token is fine but the account is banned or gone.
func (v *Verifier) Verify(token string) (*model.User, error) {
	if token == "" {
		return nil, apperror.Unauthenticated("Missing token", nil)
	}

	claims, err := utils.CheckAndExtractTokenMetadata(token, "JWT_ACCESS_KEY")
	if err != nil {
		return nil, apperror.Unauthenticated("Invalid or expired token", err)
	}
	if claims.Otp {
		return nil, apperror.Unauthenticated("2FA required", nil)
	}

	user := new(model.User)
	if err := v.db.First(user, claims.Id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.Forbidden("Account no longer exists", err)
		}
		return nil, apperror.Internal("Internal server error", err)
	}

	if user.Banned {
		return nil, apperror.Forbidden("Account is banned", nil)
	}

	return user, nil
}
