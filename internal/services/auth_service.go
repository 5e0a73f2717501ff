package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"catalog/internal/models"
	"catalog/internal/repositories"
	"catalog/internal/validation"

	"github.com/dgrijalva/jwt-go"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
)

// DefaultTokenTTL is how long an issued token stays valid.
const DefaultTokenTTL = 2 * time.Hour

var (
	// ErrInvalidCredentials is returned by LoginUser for an unknown email or a wrong password.
	ErrInvalidCredentials = errors.New("incorrect details provided")
	// ErrTokenExpired is returned by ValidateToken for a token past its expiry.
	ErrTokenExpired = errors.New("token is expired")
	// ErrTokenInvalid is returned by ValidateToken for any other unusable token.
	ErrTokenInvalid = errors.New("invalid token")
)

// Claims is the payload of an access token: the user record without its
// password plus the standard expiry claims.
type Claims struct {
	User models.User `json:"user"`
	jwt.StandardClaims
}

// AuthService handles business logic for authentication and authorization.
type AuthService struct {
	userRepo  repositories.UserRepository
	jwtSecret []byte
	tokenTTL  time.Duration
	publisher EventPublisher
	logger    zerolog.Logger
}

// NewAuthService creates a new AuthService. A zero ttl means DefaultTokenTTL.
func NewAuthService(userRepo repositories.UserRepository, jwtSecret string, ttl time.Duration, publisher EventPublisher, logger zerolog.Logger) *AuthService {
	if ttl == 0 {
		ttl = DefaultTokenTTL
	}
	return &AuthService{
		userRepo:  userRepo,
		jwtSecret: []byte(jwtSecret),
		tokenTTL:  ttl,
		publisher: publisher,
		logger:    logger.With().Str("component", "auth_service").Logger(),
	}
}

// RegisterUser stores a new user with a hashed password and issues a token.
// The returned user carries no password.
func (s *AuthService) RegisterUser(ctx context.Context, values validation.Values) (*models.User, string, error) {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(values["password"]), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Name:         values["name"],
		Email:        values["email"],
		MobileNumber: values["mobileNumber"],
		Password:     string(hashedPassword),
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, "", fmt.Errorf("failed to register user: %w", err)
	}

	public := user.Public()
	token, err := s.IssueToken(public)
	if err != nil {
		return nil, "", err
	}
	s.logger.Info().Str("user_id", user.ID).Msg("user signed up")
	publishEvent(s.publisher, s.logger, EventUserSignedUp, user.ID, public)
	return &public, token, nil
}

// LoginUser checks the credentials and issues a token for the matching user.
func (s *AuthService) LoginUser(ctx context.Context, email, password string) (*models.User, string, error) {
	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, "", ErrInvalidCredentials
	}

	public := user.Public()
	token, err := s.IssueToken(public)
	if err != nil {
		return nil, "", err
	}
	s.logger.Info().Str("user_id", user.ID).Msg("user logged in")
	return &public, token, nil
}

// IssueToken signs an HS256 token embedding user.
func (s *AuthService) IssueToken(user models.User) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		User: user.Public(),
		StandardClaims: jwt.StandardClaims{
			Subject:   user.ID,
			IssuedAt:  now.Unix(),
			ExpiresAt: now.Add(s.tokenTTL).Unix(),
		},
	})
	tokenString, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	return tokenString, nil
}

// ValidateToken parses and validates a token, returning its claims.
// The error wraps ErrTokenExpired or ErrTokenInvalid.
func (s *AuthService) ValidateToken(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil {
		var ve *jwt.ValidationError
		if errors.As(err, &ve) && ve.Errors&jwt.ValidationErrorExpired != 0 {
			return nil, fmt.Errorf("%w: %v", ErrTokenExpired, err)
		}
		return nil, fmt.Errorf("%w: %v", ErrTokenInvalid, err)
	}
	if !token.Valid {
		return nil, ErrTokenInvalid
	}
	return claims, nil
}
