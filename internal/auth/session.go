package auth

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/Hunteraulo1/f95-france/internal/models"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	SessionLifetime = 30 * 24 * time.Hour
	// sessions closer than this to expiry are extended on use
	RenewThreshold = 15 * 24 * time.Hour

	CookieName  = "auth-session"
	RenewHeader = "X-Session-Token"
)

var (
	ErrInvalidSession = errors.New("invalid session")
	ErrSessionExpired = errors.New("session expired")
)

// Validated is the outcome of a successful token check
type Validated struct {
	User    *models.User
	Session *models.Session
	// RenewedToken is set when the session was extended and the client must store a new token
	RenewedToken string
}

// Sessions issues and validates login sessions. The token handed to the client is
// a signed JWT whose id claim is the session secret; only the secret's sha256 is stored.
type Sessions struct {
	db     *gorm.DB
	secret []byte
	now    func() time.Time
}

func NewSessions(db *gorm.DB, signingKey string) *Sessions {
	return &Sessions{db: db, secret: []byte(signingKey), now: time.Now}
}

// HashSecret derives the stored session id from the client secret
func HashSecret(secret string) string {
	sum := sha256.Sum256([]byte(secret))
	return hex.EncodeToString(sum[:])
}

// Issue creates a session for userID and returns its token
func (s *Sessions) Issue(ctx context.Context, userID string) (string, *models.Session, error) {
	secret := uuid.NewString()
	sess := &models.Session{
		ID:        HashSecret(secret),
		UserID:    userID,
		ExpiresAt: s.now().Add(SessionLifetime),
	}
	if err := s.db.WithContext(ctx).Create(sess).Error; err != nil {
		return "", nil, err
	}
	token, err := s.sign(secret, sess)
	if err != nil {
		return "", nil, err
	}
	return token, sess, nil
}

func (s *Sessions) sign(secret string, sess *models.Session) (string, error) {
	claims := jwt.RegisteredClaims{
		ID:        secret,
		Subject:   sess.UserID,
		ExpiresAt: jwt.NewNumericDate(sess.ExpiresAt),
		IssuedAt:  jwt.NewNumericDate(s.now()),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

func (s *Sessions) parse(token string, opts ...jwt.ParserOption) (*jwt.RegisteredClaims, error) {
	claims := &jwt.RegisteredClaims{}
	opts = append(opts, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(s.now))
	parsed, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return s.secret, nil
	}, opts...)
	if err != nil || !parsed.Valid || claims.ID == "" {
		return nil, ErrInvalidSession
	}
	return claims, nil
}

// Validate checks token against the stored session and loads its user.
// Expiry is read from the session row, not the token: expired sessions are deleted,
// sessions within RenewThreshold of expiry are extended.
func (s *Sessions) Validate(ctx context.Context, token string) (*Validated, error) {
	claims, err := s.parse(token, jwt.WithoutClaimsValidation())
	if err != nil {
		return nil, err
	}

	var sess models.Session
	err = s.db.WithContext(ctx).Preload("User").First(&sess, "id = ?", HashSecret(claims.ID)).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidSession
		}
		return nil, err
	}
	if sess.UserID != claims.Subject {
		return nil, ErrInvalidSession
	}

	now := s.now()
	if !now.Before(sess.ExpiresAt) {
		if err := s.db.WithContext(ctx).Delete(&models.Session{}, "id = ?", sess.ID).Error; err != nil {
			return nil, err
		}
		return nil, ErrSessionExpired
	}

	out := &Validated{User: &sess.User, Session: &sess}
	if sess.ExpiresAt.Sub(now) < RenewThreshold {
		expires := now.Add(SessionLifetime)
		if err := s.db.WithContext(ctx).Model(&models.Session{}).Where("id = ?", sess.ID).Update("expires_at", expires).Error; err != nil {
			return nil, fmt.Errorf("renew session: %w", err)
		}
		sess.ExpiresAt = expires
		if out.RenewedToken, err = s.sign(claims.ID, &sess); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// Revoke deletes the session behind token. Unknown or expired tokens are ignored.
func (s *Sessions) Revoke(ctx context.Context, token string) error {
	claims, err := s.parse(token, jwt.WithoutClaimsValidation())
	if err != nil {
		return nil
	}
	return s.db.WithContext(ctx).Delete(&models.Session{}, "id = ?", HashSecret(claims.ID)).Error
}

// RevokeUser deletes every session of a user
func (s *Sessions) RevokeUser(ctx context.Context, userID string) error {
	return s.db.WithContext(ctx).Delete(&models.Session{}, "user_id = ?", userID).Error
}

// PurgeExpired deletes all sessions past their expiry and returns how many were removed
func (s *Sessions) PurgeExpired(ctx context.Context) (int64, error) {
	res := s.db.WithContext(ctx).Where("expires_at <= ?", s.now()).Delete(&models.Session{})
	return res.RowsAffected, res.Error
}
