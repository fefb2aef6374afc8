package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"eventhub/internal/auth"
	"eventhub/internal/errors"
	"eventhub/internal/model"
	"eventhub/internal/repository"
)

// ProfileUpdate carries the optional fields of a profile update. Nil fields
// are left unchanged.
type ProfileUpdate struct {
	Username *string
	Email    *string
	Password *string
}

// AuthService handles account and authentication operations.
type AuthService interface {
	Register(ctx context.Context, username, email, password string, organizer bool) (*model.User, error)
	Login(ctx context.Context, username, password string) (token string, user *model.User, err error)
	Logout(ctx context.Context, token string) error
	CurrentUser(ctx context.Context, userID uint) (*model.User, error)
	UpdateProfile(ctx context.Context, userID uint, update ProfileUpdate) (*model.User, error)
}

type authService struct {
	userRepo     repository.UserRepository
	tokenService *auth.TokenService
	sessionStore auth.SessionStoreInterface
	bcryptCost   int
}

// NewAuthService creates a new authentication service.
func NewAuthService(userRepo repository.UserRepository, tokenService *auth.TokenService, sessionStore auth.SessionStoreInterface, bcryptCost int) AuthService {
	return &authService{
		userRepo:     userRepo,
		tokenService: tokenService,
		sessionStore: sessionStore,
		bcryptCost:   bcryptCost,
	}
}

// Register creates a new user with a salted password hash. Username and email
// must both be unused.
func (s *authService) Register(ctx context.Context, username, email, password string, organizer bool) (*model.User, error) {
	if err := s.checkAvailable(ctx, username, email, 0); err != nil {
		return nil, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &model.User{
		Username:     username,
		Email:        email,
		PasswordHash: string(hashed),
		Organizer:    organizer,
		Active:       true,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		// Unique index backstop for a concurrent registration of the same name.
		if err == gorm.ErrDuplicatedKey {
			return nil, errors.ErrDuplicateUser
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	return user, nil
}

// Login authenticates a user and returns a signed bearer token. The error is
// uniform regardless of whether the username or the password was wrong.
func (s *authService) Login(ctx context.Context, username, password string) (string, *model.User, error) {
	user, err := s.userRepo.FindByUsername(ctx, username)
	if err != nil {
		return "", nil, errors.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", nil, errors.ErrInvalidCredentials
	}

	tokenID := uuid.New().String()
	token, err := s.tokenService.Issue(user.ID, user.Username, tokenID)
	if err != nil {
		return "", nil, fmt.Errorf("issue token: %w", err)
	}

	if err := s.sessionStore.StoreSession(ctx, tokenID, user.ID, user.Username, s.tokenService.TTL()); err != nil {
		return "", nil, fmt.Errorf("store session: %w", err)
	}

	return token, user, nil
}

// Logout revokes the session behind a token.
func (s *authService) Logout(ctx context.Context, token string) error {
	claims, err := s.tokenService.Verify(token)
	if err != nil {
		return err
	}
	return s.sessionStore.DeleteSession(ctx, claims.ID)
}

// CurrentUser returns the user behind an authenticated request.
func (s *authService) CurrentUser(ctx context.Context, userID uint) (*model.User, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return user, nil
}

// UpdateProfile applies the fields present in update, re-hashing the password
// if it changed.
func (s *authService) UpdateProfile(ctx context.Context, userID uint, update ProfileUpdate) (*model.User, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}

	username, email := user.Username, user.Email
	if update.Username != nil {
		username = *update.Username
	}
	if update.Email != nil {
		email = *update.Email
	}
	if err := s.checkAvailable(ctx, username, email, user.ID); err != nil {
		return nil, err
	}

	user.Username = username
	user.Email = email
	if update.Password != nil {
		hashed, err := bcrypt.GenerateFromPassword([]byte(*update.Password), s.bcryptCost)
		if err != nil {
			return nil, fmt.Errorf("hash password: %w", err)
		}
		user.PasswordHash = string(hashed)
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		if err == gorm.ErrDuplicatedKey {
			return nil, errors.ErrDuplicateUser
		}
		return nil, fmt.Errorf("update user: %w", err)
	}

	return user, nil
}

// checkAvailable fails with ErrDuplicateUser when username or email belongs
// to a user other than selfID.
func (s *authService) checkAvailable(ctx context.Context, username, email string, selfID uint) error {
	existing, err := s.userRepo.FindByUsername(ctx, username)
	if err == nil && existing != nil && existing.ID != selfID {
		return errors.ErrDuplicateUser
	}
	if err != nil && err != gorm.ErrRecordNotFound {
		return fmt.Errorf("check username: %w", err)
	}

	existing, err = s.userRepo.FindByEmail(ctx, email)
	if err == nil && existing != nil && existing.ID != selfID {
		return errors.ErrDuplicateUser
	}
	if err != nil && err != gorm.ErrRecordNotFound {
		return fmt.Errorf("check email: %w", err)
	}

	return nil
}
