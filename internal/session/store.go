// Package session keeps the logged-in identity of one client context
// (token, role and identity label) in persistent storage.
package session

import (
	"context"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"github.com/stemsi/erp-portal/internal/config"
	"github.com/stemsi/erp-portal/internal/model"
	"github.com/stemsi/erp-portal/internal/storage"
)

// Store reads and writes one client's session. It holds no state of its
// own, so any number of Stores for the same client see the same session.
type Store struct {
	clientID string
	st       storage.Storage
	bus      Bus
	log      zerolog.Logger
}

// NewStore creates a Store over st, which must already be scoped to the
// client. bus may be nil.
func NewStore(clientID string, st storage.Storage, bus Bus, log zerolog.Logger) *Store {
	return &Store{
		clientID: clientID,
		st:       st,
		bus:      bus,
		log:      log.With().Str("component", "session").Str("client_id", clientID).Logger(),
	}
}

// ClientID returns the client context this store belongs to.
func (s *Store) ClientID() string {
	return s.clientID
}

// SetSession records a successful login. The token is stored as given and
// replaces any previous session. Identity labels of other roles are removed.
func (s *Store) SetSession(ctx context.Context, token string, role model.Role, label string) error {
	if err := s.writeSession(ctx, token, role, label); err != nil {
		// A half-written session could pair the new token with an old role.
		if delErr := s.st.Delete(ctx, config.StorageKeyToken, config.StorageKeyRole, role.IdentityKey()); delErr != nil {
			s.log.Error().Err(delErr).Msg("Failed to roll back partial session")
		}
		return err
	}

	s.publish(ctx, EventSet, role)
	return nil
}

func (s *Store) writeSession(ctx context.Context, token string, role model.Role, label string) error {
	if err := s.st.Set(ctx, config.StorageKeyToken, token); err != nil {
		return fmt.Errorf("store token: %w", err)
	}
	if err := s.st.Set(ctx, config.StorageKeyRole, string(role)); err != nil {
		return fmt.Errorf("store role: %w", err)
	}
	if err := s.st.Set(ctx, role.IdentityKey(), label); err != nil {
		return fmt.Errorf("store identity: %w", err)
	}

	var stale []string
	for _, r := range model.AllRoles {
		if r != role {
			stale = append(stale, r.IdentityKey())
		}
	}
	if err := s.st.Delete(ctx, stale...); err != nil {
		return fmt.Errorf("remove stale identity: %w", err)
	}
	return nil
}

// Token returns the stored bearer token. Storage failures are logged and
// reported as an absent token.
func (s *Store) Token(ctx context.Context) (string, bool) {
	token, ok, err := s.st.Get(ctx, config.StorageKeyToken)
	if err != nil {
		s.log.Warn().Err(err).Msg("Token read failed")
		return "", false
	}
	if !ok || token == "" {
		return "", false
	}
	return token, true
}

// Session returns the current session, or false when no token is stored
// or the stored role is unknown.
func (s *Store) Session(ctx context.Context) (*model.Session, bool) {
	token, ok := s.Token(ctx)
	if !ok {
		return nil, false
	}

	raw, ok, err := s.st.Get(ctx, config.StorageKeyRole)
	if err != nil {
		s.log.Warn().Err(err).Msg("Role read failed")
		return nil, false
	}
	role, known := model.ParseRole(raw)
	if !ok || !known {
		return nil, false
	}

	label, _, err := s.st.Get(ctx, role.IdentityKey())
	if err != nil {
		s.log.Warn().Err(err).Msg("Identity read failed")
	}

	return &model.Session{Token: token, Role: role, IdentityLabel: label}, true
}

// ClearSession removes every credential key. The backend is not told.
func (s *Store) ClearSession(ctx context.Context) error {
	keys := []string{config.StorageKeyToken, config.StorageKeyRole}
	for _, r := range model.AllRoles {
		keys = append(keys, r.IdentityKey())
	}
	if err := s.st.Delete(ctx, keys...); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	s.publish(ctx, EventCleared, "")
	return nil
}

// TokenInfo decodes the token's standard claims without verifying its
// signature. The result is informational; nothing here enforces expiry.
func (s *Store) TokenInfo(ctx context.Context) (*model.TokenInfo, bool) {
	token, ok := s.Token(ctx)
	if !ok {
		return nil, false
	}
	return ParseTokenInfo(token)
}

// ParseTokenInfo reads subject, issue and expiry claims from a JWT
// without checking its signature.
func ParseTokenInfo(token string) (*model.TokenInfo, bool) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return nil, false
	}

	info := &model.TokenInfo{}
	info.Subject, _ = claims.GetSubject()
	if iat, err := claims.GetIssuedAt(); err == nil && iat != nil {
		t := iat.Time
		info.IssuedAt = &t
	}
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		t := exp.Time
		info.ExpiresAt = &t
	}
	return info, true
}

func (s *Store) publish(ctx context.Context, typ EventType, role model.Role) {
	if s.bus == nil {
		return
	}
	ev := Event{Type: typ, ClientID: s.clientID, Role: role, At: time.Now().UTC()}
	if err := s.bus.Publish(ctx, ev); err != nil {
		s.log.Warn().Err(err).Str("event", string(typ)).Msg("Session event not delivered")
	}
}
