package services

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/sbilibin2017/gw-auth/internal/jwt"
	"github.com/sbilibin2017/gw-auth/internal/logger"
	"github.com/sbilibin2017/gw-auth/internal/models"
	"github.com/sbilibin2017/gw-auth/internal/repositories"
	"github.com/sbilibin2017/gw-auth/internal/validation"
	"github.com/segmentio/kafka-go"
)

// Error variables
var (
	ErrEmailAlreadyRegistered = errors.New("email already registered")
	ErrUsernameAlreadyTaken   = errors.New("username already taken")
	ErrInvalidCredentials     = errors.New("invalid email or password")
	ErrUnauthorized           = errors.New("unauthorized")
	ErrUserNotFound           = errors.New("user not found")
)

// UserReader defines read-only operations for users.
type UserReader interface {
	GetByEmail(ctx context.Context, email string) (*models.UserDB, error)
	GetByUsername(ctx context.Context, username string) (*models.UserDB, error)
}

// UserWriter defines write operations for users.
type UserWriter interface {
	Save(ctx context.Context, user *models.UserDB) error
}

// PasswordHasher hashes and verifies passwords.
type PasswordHasher interface {
	Hash(plaintext string) (string, error)
	Verify(plaintext, digest string) bool
}

// JWTGenerator defines an interface for issuing tokens.
type JWTGenerator interface {
	Generate(ctx context.Context, subject string) (string, error)
}

// JWTParser defines an interface for verifying tokens and extracting claims.
type JWTParser interface {
	GetClaims(ctx context.Context, tokenString string) (*jwt.Claims, error)
}

// KafkaWriter defines a Kafka writer abstraction.
type KafkaWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error // Writes messages to Kafka
	Close() error                                                   // Closes the Kafka writer
}

// AuthService handles registration, login, and current-user resolution.
type AuthService struct {
	reader      UserReader
	writer      UserWriter
	hasher      PasswordHasher
	generator   JWTGenerator
	parser      JWTParser
	kafkaWriter KafkaWriter
}

// NewAuthService creates a new AuthService instance.
func NewAuthService(
	reader UserReader,
	writer UserWriter,
	hasher PasswordHasher,
	generator JWTGenerator,
	parser JWTParser,
	kafkaWriter KafkaWriter,
) *AuthService {
	return &AuthService{
		reader:      reader,
		writer:      writer,
		hasher:      hasher,
		generator:   generator,
		parser:      parser,
		kafkaWriter: kafkaWriter,
	}
}

// Register validates input, enforces email and username uniqueness, hashes
// the password, and persists the new user. The pre-checks are advisory;
// the database constraints decide concurrent duplicates, and a lost race
// surfaces as the same conflict error the pre-check would have produced.
func (svc *AuthService) Register(ctx context.Context, email, username, password string) (*models.UserDB, error) {
	if err := validation.ValidateRegistration(email, username, password); err != nil {
		return nil, err
	}

	existing, err := svc.reader.GetByEmail(ctx, email)
	if err != nil {
		logger.Log.Errorw("failed to check email exists", "err", err)
		return nil, err
	}
	if existing != nil {
		return nil, ErrEmailAlreadyRegistered
	}

	existing, err = svc.reader.GetByUsername(ctx, username)
	if err != nil {
		logger.Log.Errorw("failed to check username exists", "err", err)
		return nil, err
	}
	if existing != nil {
		return nil, ErrUsernameAlreadyTaken
	}

	hashedPassword, err := svc.hasher.Hash(password)
	if err != nil {
		logger.Log.Errorw("failed to hash password", "err", err)
		return nil, err
	}

	now := time.Now()
	user := &models.UserDB{
		UserID:       uuid.New(),
		Email:        email,
		Username:     username,
		PasswordHash: hashedPassword,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := svc.writer.Save(ctx, user); err != nil {
		switch {
		case errors.Is(err, repositories.ErrEmailExists):
			return nil, ErrEmailAlreadyRegistered
		case errors.Is(err, repositories.ErrUsernameExists):
			return nil, ErrUsernameAlreadyTaken
		default:
			logger.Log.Errorw("failed to save user", "err", err)
			return nil, err
		}
	}

	svc.publishRegistration(ctx, user)

	return user, nil
}

// Login authenticates a user by email and password and returns a signed
// token. A missing user and a wrong password are indistinguishable to the
// caller to avoid account enumeration.
func (svc *AuthService) Login(ctx context.Context, email, password string) (string, error) {
	user, err := svc.reader.GetByEmail(ctx, email)
	if err != nil {
		logger.Log.Errorw("failed to get user", "err", err)
		return "", err
	}
	if user == nil {
		return "", ErrInvalidCredentials
	}

	if !svc.hasher.Verify(password, user.PasswordHash) {
		return "", ErrInvalidCredentials
	}

	token, err := svc.generator.Generate(ctx, user.Email)
	if err != nil {
		logger.Log.Errorw("failed to generate JWT", "err", err)
		return "", err
	}

	return token, nil
}

// GetCurrentUser resolves a bearer token into the user it was issued for.
// Any token failure or a missing subject yields ErrUnauthorized; a valid
// token whose subject no longer exists yields ErrUserNotFound.
func (svc *AuthService) GetCurrentUser(ctx context.Context, tokenString string) (*models.UserDB, error) {
	claims, err := svc.parser.GetClaims(ctx, tokenString)
	if err != nil {
		logger.Log.Infow("token verification failed", "err", err)
		return nil, ErrUnauthorized
	}
	if claims.Subject == "" {
		return nil, ErrUnauthorized
	}

	user, err := svc.reader.GetByEmail(ctx, claims.Subject)
	if err != nil {
		logger.Log.Errorw("failed to get user", "err", err)
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	return user, nil
}

// publishRegistration publishes a registration event to Kafka.
func (svc *AuthService) publishRegistration(ctx context.Context, user *models.UserDB) {
	if svc.kafkaWriter == nil {
		logger.Log.Debugw("Kafka writer not configured, skipping publishing", "user_id", user.UserID)
		return
	}

	event := models.RegistrationEvent{
		EventID:   uuid.NewString(),
		UserID:    user.UserID.String(),
		Email:     user.Email,
		Username:  user.Username,
		Timestamp: time.Now().Unix(),
	}

	data, err := json.Marshal(event)
	if err != nil {
		logger.Log.Errorw("failed to marshal registration event", "user_id", user.UserID, "error", err)
		return
	}

	msg := kafka.Message{
		Key:   []byte(event.UserID),
		Value: data,
	}

	if err := svc.kafkaWriter.WriteMessages(ctx, msg); err != nil {
		logger.Log.Errorw("failed to publish registration event", "user_id", user.UserID, "error", err)
	} else {
		logger.Log.Infow("registration event published", "user_id", user.UserID)
	}
}
