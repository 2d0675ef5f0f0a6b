package application

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/docvault-api/internal/domain/apperror"
	"github.com/oksasatya/docvault-api/internal/domain/entity"
	repo "github.com/oksasatya/docvault-api/internal/domain/repository"
	"github.com/oksasatya/docvault-api/pkg/helpers"
)

var (
	ErrInvalidCredentials = apperror.Auth("invalid credentials")
	ErrUserNotFound       = apperror.NotFound("User not found")
)

type UserService struct {
	Repo   repo.UserRepository
	JWT    *helpers.JWTManager
	Redis  *redis.Client
	Logger *logrus.Logger
}

type TokenPair struct {
	AccessToken        string
	AccessTokenExpiry  time.Time
	RefreshToken       string
	RefreshTokenExpiry time.Time
}

func nowRFC3339() string {
	return time.Now().UTC().Format(time.RFC3339Nano)
}

func NewUserService(repo repo.UserRepository, jwt *helpers.JWTManager, rdb *redis.Client, logger *logrus.Logger) *UserService {
	return &UserService{Repo: repo, JWT: jwt, Redis: rdb, Logger: logger}
}

type RegisterInput struct {
	Name       string
	Email      string
	Password   string
	Mobile     string
	IsAdmin    bool
	ProfilePic string
}

func (s *UserService) Register(ctx context.Context, in RegisterInput) (*entity.User, error) {
	in.Email = strings.TrimSpace(strings.ToLower(in.Email))
	if in.Name == "" || in.Email == "" || in.Password == "" || in.Mobile == "" {
		return nil, apperror.Validation("Name, email, password and mobile are required")
	}
	if existing, err := s.Repo.GetByEmail(ctx, in.Email); err == nil && existing != nil {
		return nil, apperror.Validation("User already exists")
	}
	hash, err := helpers.HashPassword(in.Password)
	if err != nil {
		return nil, apperror.Storage("Error registering user", err)
	}
	u := &entity.User{
		Name:       in.Name,
		Email:      in.Email,
		Password:   hash,
		Mobile:     in.Mobile,
		IsAdmin:    in.IsAdmin,
		ProfilePic: in.ProfilePic,
	}
	if err := s.Repo.Create(ctx, u); err != nil {
		if errors.Is(err, repo.ErrDuplicate) {
			return nil, apperror.Validation("User already exists")
		}
		return nil, apperror.Storage("Error registering user", err)
	}
	return u, nil
}

// Authenticate validates email/password and returns the user without issuing tokens.
func (s *UserService) Authenticate(ctx context.Context, email, password string) (*entity.User, error) {
	u, err := s.Repo.GetByEmail(ctx, strings.TrimSpace(strings.ToLower(email)))
	if err != nil || u == nil {
		return nil, ErrInvalidCredentials
	}
	if !helpers.CheckPassword(u.Password, password) {
		return nil, ErrInvalidCredentials
	}
	return u, nil
}

// IssueTokens generates access/refresh tokens and records a session in Redis.
func (s *UserService) IssueTokens(ctx context.Context, u *entity.User) (TokenPair, error) {
	sid := uuid.NewString()
	pair, err := s.signPair(u.ID, sid)
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("user_id", u.ID).Error("generate tokens failed")
		}
		return TokenPair{}, apperror.Storage("Error logging in", err)
	}

	if s.Redis != nil {
		fields := map[string]any{
			"user_id":    u.ID,
			"email":      u.Email,
			"name":       u.Name,
			"is_admin":   u.IsAdmin,
			"sid":        sid,
			"created_at": nowRFC3339(),
		}
		key := helpers.SessionKey(u.ID)
		if rErr := helpers.RedisHSetTTL(ctx, s.Redis, key, fields, helpers.SessionTTL); rErr != nil && s.Logger != nil {
			s.Logger.WithError(rErr).WithField("key", key).Warn("redis pipeline failed")
		}
	}
	return pair, nil
}

func (s *UserService) signPair(userID, sid string) (TokenPair, error) {
	access, aexp, err := s.JWT.GenerateAccessToken(userID, sid)
	if err != nil {
		return TokenPair{}, err
	}
	refresh, rexp, err := s.JWT.GenerateRefreshToken(userID, sid)
	if err != nil {
		return TokenPair{}, err
	}
	return TokenPair{AccessToken: access, AccessTokenExpiry: aexp, RefreshToken: refresh, RefreshTokenExpiry: rexp}, nil
}

func (s *UserService) Login(ctx context.Context, email, password string) (*entity.User, TokenPair, error) {
	u, err := s.Authenticate(ctx, email, password)
	if err != nil {
		return nil, TokenPair{}, err
	}
	pair, err := s.IssueTokens(ctx, u)
	if err != nil {
		return nil, TokenPair{}, err
	}
	return u, pair, nil
}

// Refresh rotates the session id and both tokens. The presented refresh token
// must belong to the session currently stored in Redis.
func (s *UserService) Refresh(ctx context.Context, refreshToken string) (TokenPair, error) {
	claims, err := s.JWT.ParseRefreshToken(refreshToken)
	if err != nil {
		return TokenPair{}, ErrInvalidCredentials
	}
	u, err := s.Repo.GetByID(ctx, claims.UserID)
	if err != nil || u == nil {
		return TokenPair{}, ErrInvalidCredentials
	}
	if s.Redis != nil {
		data, rErr := s.Redis.HGetAll(ctx, helpers.SessionKey(u.ID)).Result()
		if rErr != nil || len(data) == 0 || data["sid"] != claims.SessionID {
			return TokenPair{}, ErrInvalidCredentials
		}
	}
	sid := uuid.NewString()
	pair, err := s.signPair(u.ID, sid)
	if err != nil {
		return TokenPair{}, apperror.Storage("Error refreshing token", err)
	}
	if s.Redis != nil {
		key := helpers.SessionKey(u.ID)
		_ = helpers.RedisHSetTTL(ctx, s.Redis, key, map[string]any{
			"sid":        sid,
			"updated_at": nowRFC3339(),
		}, helpers.SessionTTL)
	}
	return pair, nil
}

// Logout drops the user's session so outstanding tokens stop validating.
func (s *UserService) Logout(ctx context.Context, userID string) {
	if s.Redis == nil {
		return
	}
	if err := helpers.RedisDel(ctx, s.Redis, helpers.SessionKey(userID)); err != nil && s.Logger != nil {
		s.Logger.WithError(err).WithField("user_id", userID).Warn("session delete failed")
	}
}

func (s *UserService) GetProfile(ctx context.Context, userID string) (*entity.User, error) {
	u, err := s.Repo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, apperror.Storage("Error fetching user", err)
	}
	return u, nil
}

func (s *UserService) ListUsers(ctx context.Context) ([]entity.User, error) {
	users, err := s.Repo.List(ctx)
	if err != nil {
		return nil, apperror.Storage("Error fetching users", err)
	}
	return users, nil
}

// SetAdmin promotes or demotes a user. The cached session flag is refreshed
// so the admin guard sees the change on the next request.
func (s *UserService) SetAdmin(ctx context.Context, id string, isAdmin bool) (*entity.User, error) {
	u, err := s.Repo.SetAdmin(ctx, id, isAdmin)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, apperror.Storage("Error updating user role", err)
	}
	if s.Redis != nil {
		key := helpers.SessionKey(u.ID)
		if n, _ := s.Redis.Exists(ctx, key).Result(); n > 0 {
			s.Redis.HSet(ctx, key, "is_admin", isAdmin, "updated_at", nowRFC3339())
		}
	}
	return u, nil
}

func (s *UserService) DeleteUser(ctx context.Context, id string) error {
	if err := s.Repo.Delete(ctx, id); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return ErrUserNotFound
		}
		return apperror.Storage("Error deleting user", err)
	}
	s.Logout(ctx, id)
	return nil
}
