// Package token issues and validates the bearer tokens that identify a
// customer session to the MenuQ server.
package token

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/HienLe2004/menuq/server/dao"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const issuer = "mqs"

// Lifetime is how long a generated token is valid for.
const Lifetime = 12 * time.Hour

// Validate parses tok, checks its signature and claims, and returns the
// session it was issued for. The session must still exist in db.
func Validate(ctx context.Context, tok string, secret []byte, db dao.SessionRepository) (dao.Session, error) {
	var sess dao.Session

	_, err := jwt.Parse(tok, func(t *jwt.Token) (interface{}, error) {
		subj, err := t.Claims.GetSubject()
		if err != nil {
			return nil, fmt.Errorf("cannot get subject: %w", err)
		}

		id, err := uuid.Parse(subj)
		if err != nil {
			return nil, fmt.Errorf("cannot parse subject UUID: %w", err)
		}

		sess, err = db.GetByID(ctx, id)
		if err != nil {
			if errors.Is(err, dao.ErrNotFound) {
				return nil, fmt.Errorf("subject does not exist")
			}
			return nil, fmt.Errorf("subject could not be validated")
		}

		return signingKey(secret, sess), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS512.Alg()}), jwt.WithIssuer(issuer), jwt.WithLeeway(time.Minute))

	if err != nil {
		return dao.Session{}, err
	}

	return sess, nil
}

// Get extracts the bearer token from the Authorization header of req.
func Get(req *http.Request) (string, error) {
	authHeader := strings.TrimSpace(req.Header.Get("Authorization"))

	if authHeader == "" {
		return "", fmt.Errorf("no authorization header present")
	}

	authParts := strings.SplitN(authHeader, " ", 2)
	if len(authParts) != 2 {
		return "", fmt.Errorf("authorization header not in Bearer format")
	}

	scheme := strings.TrimSpace(strings.ToLower(authParts[0]))
	token := strings.TrimSpace(authParts[1])

	if scheme != "bearer" {
		return "", fmt.Errorf("authorization header not in Bearer format")
	}

	return token, nil
}

// Generate creates a signed token for s.
func Generate(secret []byte, s dao.Session) (string, error) {
	claims := &jwt.MapClaims{
		"iss":      issuer,
		"exp":      time.Now().Add(Lifetime).Unix(),
		"sub":      s.ID.String(),
		"strategy": s.Strategy,
	}
	tok := jwt.NewWithClaims(jwt.SigningMethodHS512, claims)

	tokStr, err := tok.SignedString(signingKey(secret, s))
	if err != nil {
		return "", err
	}
	return tokStr, nil
}

// signingKey binds a token to the session creation time so a token for a
// deleted session cannot be reused for a new one with the same ID.
func signingKey(secret []byte, s dao.Session) []byte {
	var signKey []byte
	signKey = append(signKey, secret...)
	signKey = append(signKey, []byte(fmt.Sprintf("%d", s.Created.Unix()))...)
	return signKey
}
