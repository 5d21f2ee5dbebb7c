package service

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/ballotworks/election-api/internal/core/domain"
	"github.com/ballotworks/election-api/internal/core/ports"
)

const (
	defaultTokenTTL   = 24 * time.Hour
	minPasswordLength = 8
)

// LoginThrottle abstracts the failed-login counter (Redis).
type LoginThrottle interface {
	Allowed(ctx context.Context, key string) (bool, error)
	Fail(ctx context.Context, key string) error
	Reset(ctx context.Context, key string) error
}

// sessionClaims is the JWT payload: subject is the user id.
type sessionClaims struct {
	Email string `json:"email"`
	Role  string `json:"role"`
	jwt.RegisteredClaims
}

// AuthService implements login, token verification and voter registration.
type AuthService struct {
	users     ports.UserRepository
	geography ports.GeographyRepository
	throttle  LoginThrottle
	audit     ports.AuditRecorder
	jwtSecret []byte
	tokenTTL  time.Duration
	log       zerolog.Logger
	now       func() time.Time
}

func NewAuthService(
	users ports.UserRepository,
	geography ports.GeographyRepository,
	throttle LoginThrottle,
	audit ports.AuditRecorder,
	jwtSecret string,
	tokenTTL time.Duration,
	log zerolog.Logger,
) *AuthService {
	if tokenTTL <= 0 {
		tokenTTL = defaultTokenTTL
	}
	return &AuthService{
		users:     users,
		geography: geography,
		throttle:  throttle,
		audit:     audit,
		jwtSecret: []byte(jwtSecret),
		tokenTTL:  tokenTTL,
		log:       log,
		now:       time.Now,
	}
}

// Login checks credentials for (email, role) and issues a session token.
// Unknown accounts and wrong passwords both yield ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, email, password string, role domain.Role) (string, *domain.User, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return "", nil, domain.ErrInvalidCredentials
	}
	if _, err := domain.ParseRole(string(role)); err != nil {
		return "", nil, err
	}

	throttleKey := string(role) + ":" + email
	allowed, err := s.throttle.Allowed(ctx, throttleKey)
	if err != nil {
		s.log.Warn().Err(err).Str("email", email).Msg("login throttle check failed, continuing")
	} else if !allowed {
		return "", nil, domain.ErrTooManyAttempts
	}

	user, err := s.users.FindByEmailAndRole(ctx, email, role)
	if errors.Is(err, domain.ErrUserNotFound) {
		s.recordFailure(ctx, throttleKey)
		return "", nil, domain.ErrInvalidCredentials
	}
	if err != nil {
		return "", nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		s.recordFailure(ctx, throttleKey)
		return "", nil, domain.ErrInvalidCredentials
	}

	if user.Status != domain.UserActive {
		return "", nil, domain.ErrAccountInactive
	}

	if err := s.throttle.Reset(ctx, throttleKey); err != nil {
		s.log.Warn().Err(err).Str("email", email).Msg("failed to reset login throttle")
	}

	token, err := s.generateToken(user)
	if err != nil {
		return "", nil, err
	}

	s.audit.Record(domain.AuditEvent{
		Type:       domain.AuditLogin,
		ActorID:    user.ID,
		ActorRole:  user.Role,
		SubjectID:  user.ID,
		OccurredAt: s.now().UTC(),
	})
	s.log.Info().Str("user_id", user.ID).Str("role", string(user.Role)).Msg("login succeeded")

	return token, user, nil
}

// Verify parses and validates a session token.
func (s *AuthService) Verify(_ context.Context, token string) (*domain.Identity, error) {
	if token == "" {
		return nil, domain.ErrUnauthorized
	}

	var claims sessionClaims
	parsed, err := jwt.ParseWithClaims(token, &claims, func(*jwt.Token) (any, error) {
		return s.jwtSecret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil || !parsed.Valid {
		return nil, domain.ErrUnauthorized
	}

	role, err := domain.ParseRole(claims.Role)
	if err != nil || claims.Subject == "" {
		return nil, domain.ErrUnauthorized
	}

	return &domain.Identity{
		UserID:    claims.Subject,
		Email:     claims.Email,
		Role:      role,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}

// Register creates a voter account awaiting admin approval.
func (s *AuthService) Register(ctx context.Context, in ports.RegisterInput) (*domain.User, error) {
	user, err := newUser(ctx, s.geography, s.now(), accountSpec{
		name:           in.Name,
		email:          in.Email,
		password:       in.Password,
		role:           domain.RoleVoter,
		status:         domain.UserPending,
		constituencyID: in.ConstituencyID,
		boothID:        in.BoothID,
	})
	if err != nil {
		return nil, err
	}

	created, err := s.users.Create(ctx, user)
	if err != nil {
		return nil, err
	}
	s.log.Info().Str("user_id", created.ID).Msg("voter registered")
	return created, nil
}

func (s *AuthService) recordFailure(ctx context.Context, key string) {
	if err := s.throttle.Fail(ctx, key); err != nil {
		s.log.Warn().Err(err).Msg("failed to record login failure")
	}
}

func (s *AuthService) generateToken(user *domain.User) (string, error) {
	now := s.now()
	claims := sessionClaims{
		Email: user.Email,
		Role:  string(user.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
		},
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(s.jwtSecret)
}
