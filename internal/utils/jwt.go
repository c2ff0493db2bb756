package utils

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/eriktmidtun/secfit-auth/models"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// GenerateSignedToken creates a signed HMAC-SHA256 JWT for the given user
// and flow kind.
//
// The token includes the following claims:
//   - Issuer     (iss): identifies the service that issued the token
//   - Subject    (sub): the user ID encoded as a string
//   - IssuedAt   (iat): the current time
//   - ExpiresAt  (exp): the current time plus tokenDuration
//   - ID         (jti): a fresh UUID nonce used for single-use enforcement
//   - token_type      : the flow the token belongs to
//
// All parameters are required. Returns an error if any of them are empty or zero.
//
// Parameters:
//
//	issuer        - identifier of the token issuer (e.g. service name)
//	userID        - ID of the user the token is issued for
//	kind          - flow kind stamped into the token_type claim
//	tokenDuration - how long the token remains valid
//	signKey       - secret key used to sign the token with HMAC-SHA256
//
// Returns:
//
//	string                     - the signed token string
//	*models.SignedTokenClaims  - the claims embedded in the token
//	error                      - non-nil if parameters are invalid or signing fails
//
// Example usage:
//
//	token, claims, err := utils.GenerateSignedToken("secfit-auth", 42, models.KindAccess, 15*time.Minute, "secret")
func GenerateSignedToken(issuer string, userID int64, kind models.TokenKind, tokenDuration time.Duration, signKey string) (string, *models.SignedTokenClaims, error) {
	if issuer == "" || kind == "" || tokenDuration == 0 || signKey == "" {
		return "", nil, errors.New("invalid params for generating signed token")
	}

	now := time.Now()
	claims := &models.SignedTokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   strconv.FormatInt(userID, 10),
			ExpiresAt: jwt.NewNumericDate(now.Add(tokenDuration)),
			IssuedAt:  jwt.NewNumericDate(now),
			ID:        uuid.NewString(),
		},
		Kind: kind,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(signKey))
	if err != nil {
		return "", nil, fmt.Errorf("error occurred during signing token: %w", err)
	}

	return tokenString, claims, nil
}

// ValidateAndParseToken validates the given token string and extracts its claims.
//
// Validation includes:
//   - Signature verification using the provided sign key
//   - Issuer (iss) claim check against the provided tokenIssuer
//   - Expiration (exp) claim check
//   - token_type claim check against the expected kind
//   - Nonce (jti) claim presence
//
// Parameters:
//
//	tokenString  - the raw signed token string to validate and parse
//	tokenSignKey - secret key used to verify the token signature
//	tokenIssuer  - expected issuer value to validate against the iss claim
//	kind         - expected flow kind of the token
//
// Returns:
//
//	*models.SignedTokenClaims - the parsed claims including UserID, kind, and nonce
//	error                     - non-nil if validation fails or claims are missing
//
// Example usage:
//
//	claims, err := utils.ValidateAndParseToken(raw, "secret", "secfit-auth", models.KindPasswordReset)
//	if err != nil {
//	    // handle invalid, expired, or mistyped token
//	}
func ValidateAndParseToken(tokenString, tokenSignKey, tokenIssuer string, kind models.TokenKind) (*models.SignedTokenClaims, error) {
	claims := &models.SignedTokenClaims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
		return []byte(tokenSignKey), nil
	}, jwt.WithIssuer(tokenIssuer), jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, fmt.Errorf("error occurred validating and parsing token: %w", err)
	}

	if claims.Kind != kind {
		return nil, fmt.Errorf("unexpected token type %q", claims.Kind)
	}

	if claims.ID == "" {
		return nil, errors.New("token nonce is missing")
	}

	if _, err := claims.UserID(); err != nil {
		return nil, err
	}

	return claims, nil
}
