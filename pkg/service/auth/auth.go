package auth

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/payollar/payollar/pkg/config"
	"github.com/payollar/payollar/pkg/domain/user"
	"github.com/payollar/payollar/pkg/dto"
	"github.com/payollar/payollar/pkg/repository"
	repouser "github.com/payollar/payollar/pkg/repository/user"
	"github.com/payollar/payollar/pkg/utils"
)

type contextKey string

const userContextKey contextKey = "user"

// dummyHash is compared against when the identity is unknown so that a
// missing user costs the same as a wrong password.
const dummyHash = "$2a$10$7zFqzDbD3RrlkMTczbXG9OWZ0FLOXjIxXzSZ.QZxkVXjXcx7QZQiC"

type Strategy interface {
	Login(ctx context.Context, identity, password string) (*dto.UserRead, error)
	GetCurrentUserID(ctx context.Context) (uuid.UUID, error)
	GenerateToken(ctx context.Context, u *dto.UserRead) (string, error)
}

type Service struct {
	uow      repository.UnitOfWork
	strategy Strategy
	logger   *slog.Logger
}

func New(
	uow repository.UnitOfWork,
	strategy Strategy,
	logger *slog.Logger,
) *Service {
	return &Service{uow: uow, strategy: strategy, logger: logger}
}

func NewWithBasic(
	uow repository.UnitOfWork,
	logger *slog.Logger,
) *Service {
	return New(uow, NewBasicAuthStrategy(uow, logger), logger)
}

func NewWithJWT(
	uow repository.UnitOfWork,
	cfg *config.Jwt,
	logger *slog.Logger,
) *Service {
	return New(uow, NewJWTStrategy(uow, cfg, logger), logger)
}

func (s *Service) CheckPasswordHash(
	password, hash string,
) bool {
	valid := utils.CheckPasswordHash(password, hash)
	if !valid {
		s.logger.Debug("Password hash check failed")
	}
	return valid
}

func (s *Service) ValidEmail(email string) bool {
	return utils.IsEmail(email)
}

// GetCurrentUserID resolves the principal id carried by a verified token.
func (s *Service) GetCurrentUserID(
	token *jwt.Token,
) (userID uuid.UUID, err error) {
	log := s.logger.With("context", "GetCurrentUserID")
	userID, err = s.strategy.GetCurrentUserID(
		context.WithValue(
			context.Background(),
			userContextKey,
			token,
		),
	)
	if err != nil {
		log.Warn("GetCurrentUserID failed", "error", err)
		return
	}
	log.Debug("GetCurrentUserID successful", "userID", userID)
	return
}

func (s *Service) Login(
	ctx context.Context,
	identity, password string,
) (u *dto.UserRead, err error) {
	log := s.logger.With("context", "Login")
	log.Debug("Login called", "identity", identity)
	u, err = s.strategy.Login(ctx, identity, password)
	if err != nil {
		log.Error("Login failed", "identity", identity, "error", err)
		return nil, err
	}
	log.Info("Login successful", "userID", u.ID)
	return
}

func (s *Service) GenerateToken(
	ctx context.Context,
	u *dto.UserRead,
) (string, error) {
	log := s.logger.With("userID", u.ID)
	token, err := s.strategy.GenerateToken(ctx, u)
	if err != nil {
		log.Error("GenerateToken failed", "error", err)
		return "", err
	}
	log.Debug("GenerateToken successful")
	return token, nil
}

// lookup finds the user by email or username and checks the password.
func lookup(
	ctx context.Context,
	uow repository.UnitOfWork,
	identity, password string,
) (*dto.UserRead, error) {
	repo, err := repository.Get[repouser.Repository](uow)
	if err != nil {
		return nil, fmt.Errorf("failed to get user repository: %w", err)
	}
	var u *dto.UserRead
	if utils.IsEmail(identity) {
		u, err = repo.GetByEmail(ctx, identity)
	} else {
		u, err = repo.GetByUsername(ctx, identity)
	}
	if err != nil {
		return nil, fmt.Errorf("repository error: %w", err)
	}
	if u == nil {
		_ = utils.CheckPasswordHash(password, dummyHash)
		return nil, user.ErrUserUnauthorized
	}
	if !utils.CheckPasswordHash(password, u.HashedPassword) {
		return nil, user.ErrUserUnauthorized
	}
	return u, nil
}

// JWTStrategy authenticates against the user store and issues HS256 tokens.
type JWTStrategy struct {
	uow    repository.UnitOfWork
	cfg    *config.Jwt
	logger *slog.Logger
	now    func() time.Time
}

func NewJWTStrategy(
	uow repository.UnitOfWork,
	cfg *config.Jwt,
	logger *slog.Logger,
) *JWTStrategy {
	return &JWTStrategy{uow: uow, cfg: cfg, logger: logger, now: time.Now}
}

func (s *JWTStrategy) GenerateToken(
	ctx context.Context,
	u *dto.UserRead,
) (string, error) {
	token := jwt.New(jwt.SigningMethodHS256)
	claims := token.Claims.(jwt.MapClaims)
	claims["username"] = u.Username
	claims["email"] = u.Email
	claims["user_id"] = u.ID.String()
	claims["role"] = u.Role
	claims["exp"] = s.now().Add(s.cfg.Expiry).Unix()
	tokenString, err := token.SignedString([]byte(s.cfg.Secret))
	if err != nil {
		s.logger.Error("GenerateToken failed", "userID", u.ID, "error", err)
		return "", err
	}
	return tokenString, nil
}

func (s *JWTStrategy) Login(
	ctx context.Context,
	identity, password string,
) (u *dto.UserRead, err error) {
	log := s.logger.With("context", "Login", "identity", identity)
	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		var lerr error
		u, lerr = lookup(ctx, uow, identity, password)
		return lerr
	})
	if err != nil {
		log.Warn("Login failed", "error", err)
		return nil, err
	}
	return u, nil
}

func (s *JWTStrategy) GetCurrentUserID(
	ctx context.Context,
) (uuid.UUID, error) {
	token, ok := ctx.Value(userContextKey).(*jwt.Token)
	if !ok || token == nil {
		return uuid.Nil, user.ErrUserUnauthorized
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return uuid.Nil, user.ErrUserUnauthorized
	}
	userIDRaw, ok := claims["user_id"].(string)
	if !ok {
		return uuid.Nil, user.ErrUserUnauthorized
	}
	userID, err := uuid.Parse(userIDRaw)
	if err != nil {
		return uuid.Nil, user.ErrUserUnauthorized
	}
	return userID, nil
}

// BasicAuthStrategy checks a password without issuing tokens. The admin CLI
// uses it.
type BasicAuthStrategy struct {
	uow    repository.UnitOfWork
	logger *slog.Logger
}

func NewBasicAuthStrategy(
	uow repository.UnitOfWork,
	logger *slog.Logger,
) *BasicAuthStrategy {
	return &BasicAuthStrategy{uow: uow, logger: logger}
}

func (s *BasicAuthStrategy) Login(
	ctx context.Context,
	identity, password string,
) (*dto.UserRead, error) {
	log := s.logger.With("identity", identity)
	u, err := lookup(ctx, s.uow, identity, password)
	if err != nil {
		log.Warn("BasicAuth login failed", "error", err)
		return nil, err
	}
	log.Debug("BasicAuth login succeeded", "userID", u.ID)
	return u, nil
}

// GetCurrentUserID has no session to read from and always returns uuid.Nil.
func (s *BasicAuthStrategy) GetCurrentUserID(ctx context.Context) (uuid.UUID, error) {
	return uuid.Nil, nil
}

func (s *BasicAuthStrategy) GenerateToken(ctx context.Context, u *dto.UserRead) (string, error) {
	return "", nil
}
