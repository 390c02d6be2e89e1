package token

import (
	"crypto/sha256"
	"errors"
	"strings"
	"time"

	"reward-platform/pkg/config"
	"reward-platform/pkg/errutil"
	"reward-platform/pkg/rbac"

	"github.com/go-jose/go-jose/v4"
	"github.com/go-jose/go-jose/v4/jwt"
	"go.uber.org/fx"
)

var Module = fx.Module("token",
	fx.Provide(NewManager),
)

const minKeySize = 32

type claims struct {
	jwt.Claims
	Roles []string `json:"roles"`
}

// Manager issues and verifies HS256 bearer credentials.
type Manager struct {
	key    []byte
	issuer string
	ttl    time.Duration
	now    func() time.Time
}

func NewManager(cfg *config.Config) (*Manager, error) {
	return New(cfg.JWT.Secret, cfg.JWT.Issuer, cfg.JWT.ExpiresIn)
}

func New(secret, issuer string, ttl time.Duration) (*Manager, error) {
	if secret == "" {
		return nil, errors.New("token secret is required")
	}
	key := []byte(secret)
	if len(key) < minKeySize {
		// HS256 wants a 256-bit key.
		sum := sha256.Sum256(key)
		key = sum[:]
	}
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &Manager{key: key, issuer: issuer, ttl: ttl, now: time.Now}, nil
}

func (m *Manager) Issue(subject string, roles []rbac.Role) (string, error) {
	signer, err := jose.NewSigner(
		jose.SigningKey{Algorithm: jose.HS256, Key: m.key},
		(&jose.SignerOptions{}).WithType("JWT"),
	)
	if err != nil {
		return "", errutil.Internal("failed to create signer", err)
	}

	now := m.now()
	c := claims{
		Claims: jwt.Claims{
			Subject:  subject,
			Issuer:   m.issuer,
			IssuedAt: jwt.NewNumericDate(now),
			Expiry:   jwt.NewNumericDate(now.Add(m.ttl)),
		},
		Roles: make([]string, 0, len(roles)),
	}
	for _, r := range roles {
		c.Roles = append(c.Roles, string(r))
	}

	raw, err := jwt.Signed(signer).Claims(c).Serialize()
	if err != nil {
		return "", errutil.Internal("failed to sign token", err)
	}
	return raw, nil
}

// Verify checks signature, issuer and expiry and returns the caller. Unknown
// role names in the token are dropped.
func (m *Manager) Verify(raw string) (rbac.Principal, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return rbac.Principal{}, errutil.Unauthorized("Unauthorized", nil)
	}

	tok, err := jwt.ParseSigned(raw, []jose.SignatureAlgorithm{jose.HS256})
	if err != nil {
		return rbac.Principal{}, errutil.Unauthorized("Unauthorized", err)
	}

	var c claims
	if err := tok.Claims(m.key, &c); err != nil {
		return rbac.Principal{}, errutil.Unauthorized("Unauthorized", err)
	}

	if err := c.ValidateWithLeeway(jwt.Expected{Issuer: m.issuer, Time: m.now()}, 0); err != nil {
		return rbac.Principal{}, errutil.Unauthorized("Unauthorized", err)
	}

	if c.Expiry == nil || strings.TrimSpace(c.Subject) == "" {
		return rbac.Principal{}, errutil.Unauthorized("Unauthorized", nil)
	}

	p := rbac.Principal{Subject: c.Subject, Roles: make([]rbac.Role, 0, len(c.Roles))}
	for _, s := range c.Roles {
		if r, ok := rbac.ParseRole(s); ok {
			p.Roles = append(p.Roles, r)
		}
	}
	return p, nil
}

// FromHeader extracts the credential from an "Authorization: Bearer" value.
func FromHeader(header string) (string, bool) {
	scheme, cred, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	cred = strings.TrimSpace(cred)
	return cred, cred != ""
}
