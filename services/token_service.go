package services

import (
	"strconv"
	"time"

	config "github.com/anjiri1684/corporate_training/configs"
	"github.com/anjiri1684/corporate_training/models"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
)

type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
}

func signingKey() []byte {
	return []byte(config.Config("JWT_SECRET"))
}

// IssueTokens signs a fresh access/refresh pair for the user.
func IssueTokens(user models.User) (TokenPair, error) {
	now := time.Now()

	access := jwt.MapClaims{
		"sub":  strconv.FormatUint(uint64(user.ID), 10),
		"role": string(user.Role),
		"typ":  TokenTypeAccess,
		"iat":  now.Unix(),
		"exp":  now.Add(config.Duration("ACCESS_TOKEN_TTL")).Unix(),
	}
	if user.CompanyID != nil {
		access["company_id"] = *user.CompanyID
	}

	refresh := jwt.MapClaims{
		"sub": strconv.FormatUint(uint64(user.ID), 10),
		"typ": TokenTypeRefresh,
		"jti": uuid.New().String(),
		"iat": now.Unix(),
		"exp": now.Add(config.Duration("REFRESH_TOKEN_TTL")).Unix(),
	}

	at, err := jwt.NewWithClaims(jwt.SigningMethodHS256, access).SignedString(signingKey())
	if err != nil {
		return TokenPair{}, errors.Wrap(err, "sign access token")
	}
	rt, err := jwt.NewWithClaims(jwt.SigningMethodHS256, refresh).SignedString(signingKey())
	if err != nil {
		return TokenPair{}, errors.Wrap(err, "sign refresh token")
	}
	return TokenPair{AccessToken: at, RefreshToken: rt, TokenType: "bearer"}, nil
}

// ParseToken verifies signature and expiry and checks the token type.
func ParseToken(tokenString, wantType string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return signingKey(), nil
	})
	if err != nil {
		return nil, errors.Wrap(ErrUnauthorized, err.Error())
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, errors.Wrap(ErrUnauthorized, "invalid token")
	}
	if typ, _ := claims["typ"].(string); typ != wantType {
		return nil, errors.Wrap(ErrUnauthorized, "wrong token type")
	}
	return claims, nil
}

// IdentityFromClaims rebuilds the caller identity carried by an access token.
func IdentityFromClaims(claims jwt.MapClaims) (Identity, error) {
	userID, err := SubjectID(claims)
	if err != nil {
		return Identity{}, err
	}

	roleName, _ := claims["role"].(string)
	role, err := models.ParseRole(roleName)
	if err != nil {
		return Identity{}, errors.Wrap(ErrUnauthorized, "unknown role in token")
	}

	id := Identity{UserID: userID, Role: role}
	switch v := claims["company_id"].(type) {
	case float64:
		cid := uint(v)
		id.CompanyID = &cid
	case nil:
	default:
		return Identity{}, errors.Wrap(ErrUnauthorized, "malformed company_id claim")
	}
	return id, nil
}

func SubjectID(claims jwt.MapClaims) (uint, error) {
	sub, _ := claims["sub"].(string)
	n, err := strconv.ParseUint(sub, 10, 64)
	if err != nil || n == 0 {
		return 0, errors.Wrap(ErrUnauthorized, "malformed subject claim")
	}
	return uint(n), nil
}
