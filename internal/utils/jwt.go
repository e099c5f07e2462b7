package utils // package utils provides helpers for access token creation

import (
    "time" // time utilities for generating expirations

    "github.com/golang-jwt/jwt/v5" // JWT library for creating signed tokens
)

// AccessToken represents a signed JWT access token along with its expiry.
// The Token field contains the serialized JWT.  Access tokens are
// short-lived and sent in the Authorization header when calling protected
// endpoints; the refresh token (issued separately) is the long-lived
// credential.
type AccessToken struct {
    Token string    // the serialized JWT string
    Exp   time.Time // the UTC expiration time
}

// AccessClaims describes the identity embedded into an access token.
type AccessClaims struct {
    UserID    uint64
    Email     string
    FirstName string
    LastName  string
    Role      string
}

// NewAccessToken builds and signs an HS256 JWT for a user.  The token
// carries the subject (user id), email, name and role claims plus the
// standard issuer, audience, expiration and issued-at claims.  Verification
// of signature and expiry happens in the bearer-token middleware.
func NewAccessToken(secret, issuer, audience string, c AccessClaims, ttlMin int) (AccessToken, error) {
    now := time.Now().UTC()
    exp := now.Add(time.Duration(ttlMin) * time.Minute)
    claims := jwt.MapClaims{
        "sub":         c.UserID,
        "email":       c.Email,
        "given_name":  c.FirstName,
        "family_name": c.LastName,
        "role":        c.Role,
        "iss":         issuer,
        "aud":         audience,
        "exp":         exp.Unix(),
        "iat":         now.Unix(),
    }
    t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
    signed, err := t.SignedString([]byte(secret))
    if err != nil {
        return AccessToken{}, err
    }
    return AccessToken{Token: signed, Exp: exp}, nil
}
