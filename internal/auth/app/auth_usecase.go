// Package app содержит сценарии провайдера аутентификации.
package app

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode"

	"go.uber.org/zap"

	"tagnote/internal/auth/domain/entities"
	"tagnote/internal/auth/domain/services"
	"tagnote/internal/auth/ports/api"
	"tagnote/internal/auth/ports/repositories"
	svc "tagnote/internal/auth/ports/services"
	"tagnote/pkg/logger"
)

const (
	methodSignUp         = "SignUp"
	methodSignIn         = "SignIn"
	methodRefresh        = "Refresh"
	methodSignOut        = "SignOut"
	methodGetUser        = "GetUser"
	methodCleanup        = "CleanupExpiredTokens"
	methodGenerateTokens = "issueSession"

	msgStartRegistration   = "starting user registration"
	msgInvalidEmailFormat  = "invalid email format"
	msgInvalidPassword     = "invalid password"
	msgEmailExists         = "user with this email already exists"
	msgUserRegistered      = "user registered successfully"
	msgLoginAttempt        = "login attempt"
	msgLoginNonExistent    = "login attempt with non-existent email"
	msgInvalidPasswordAuth = "invalid password provided"
	msgUserLoggedIn        = "user logged in successfully"
	msgRefreshingTokens    = "refreshing tokens"
	msgRevokedTokenAttempt = "attempt to use revoked token"
	msgExpiredTokenAttempt = "attempt to use expired token"
	msgTokensRefreshed     = "tokens refreshed successfully"
	msgProcessingLogout    = "processing logout request"
	msgUserLoggedOut       = "user logged out successfully"
	msgSessionIssued       = "session issued successfully"
	msgUserResolved        = "user resolved from access token"

	msgErrCheckExistingUser    = "failed to check existing user"
	msgErrHashPassword         = "failed to hash password"
	msgErrCreateUser           = "failed to create user"
	msgErrFindingUser          = "error finding user by email"
	msgErrVerifyingPassword    = "error verifying password"
	msgErrInvalidRefreshToken  = "invalid refresh token"
	msgErrFindingUserForToken  = "failed to find user for refresh token"
	msgErrRevokingOldToken     = "failed to revoke old token"
	msgErrRevokingRefreshToken = "failed to revoke refresh token"
	msgErrGenerateAccessToken  = "failed to generate access token"
	msgErrGenerateRefreshToken = "failed to generate refresh token"
	msgErrStoreRefreshToken    = "failed to store refresh token"
	msgErrValidateAccessToken  = "access token rejected"

	errCtxValidatingEmail        = "validating email"
	errCtxValidatingPassword     = "validating password"
	errCtxCheckingUser           = "checking existing user"
	errCtxEmailRegistered        = "email already registered"
	errCtxHashingPassword        = "hashing password"
	errCtxCreatingUser           = "creating user"
	errCtxInvalidCredentials     = "invalid credentials"
	errCtxFindingUser            = "finding user"
	errCtxVerifyingPassword      = "verifying password"
	errCtxFindingRefreshToken    = "finding refresh token"
	errCtxTokenRevoked           = "token revoked"
	errCtxTokenExpired           = "token expired"
	errCtxRevokingOldToken       = "revoking old token"
	errCtxRevokingToken          = "revoking token"
	errCtxGeneratingAccessToken  = "generating access token"
	errCtxGeneratingRefreshToken = "generating refresh token"
	errCtxStoringRefreshToken    = "storing refresh token"
	errCtxValidatingAccessToken  = "validating access token"
	errCtxCleanup                = "cleaning up tokens"
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// AuthUseCaseImpl реализует api.AuthUseCase.
type AuthUseCaseImpl struct {
	userRepo    repositories.UserRepository
	tokenRepo   repositories.TokenRepository
	passwordSvc svc.PasswordService
	tokenSvc    svc.TokenService
	now         func() time.Time
}

// NewAuthUseCase создает новый экземпляр сервиса аутентификации.
func NewAuthUseCase(
	userRepo repositories.UserRepository,
	tokenRepo repositories.TokenRepository,
	passwordSvc svc.PasswordService,
	tokenSvc svc.TokenService,
) api.AuthUseCase {
	return &AuthUseCaseImpl{
		userRepo:    userRepo,
		tokenRepo:   tokenRepo,
		passwordSvc: passwordSvc,
		tokenSvc:    tokenSvc,
		now:         time.Now,
	}
}

// SignUp регистрирует пользователя и сразу выдает ему сессию.
func (a *AuthUseCaseImpl) SignUp(ctx context.Context, email, password string) (*services.Session, error) {
	email = normalizeEmail(email)
	log := logger.Log(ctx).With(zap.String("method", methodSignUp), zap.String("email", email))
	log.Debug(ctx, msgStartRegistration)

	if err := validateEmail(email); err != nil {
		log.Debug(ctx, msgInvalidEmailFormat, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", errCtxValidatingEmail, err)
	}
	if err := validatePassword(password); err != nil {
		log.Debug(ctx, msgInvalidPassword, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", errCtxValidatingPassword, err)
	}

	existingUser, err := a.userRepo.FindByEmail(ctx, email)
	if err != nil && !errors.Is(err, entities.ErrUserNotFound) {
		log.Error(ctx, msgErrCheckExistingUser, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", errCtxCheckingUser, err)
	}
	if existingUser != nil {
		log.Debug(ctx, msgEmailExists)
		return nil, fmt.Errorf("%s: %w", errCtxEmailRegistered, services.ErrEmailAlreadyExists)
	}

	hashedPassword, err := a.passwordSvc.Hash(ctx, password)
	if err != nil {
		log.Error(ctx, msgErrHashPassword, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", errCtxHashingPassword, err)
	}

	createdUser, err := a.userRepo.Create(ctx, &entities.User{
		Email:        email,
		PasswordHash: hashedPassword,
	})
	if err != nil {
		if errors.Is(err, services.ErrEmailAlreadyExists) {
			log.Debug(ctx, msgEmailExists)
		} else {
			log.Error(ctx, msgErrCreateUser, zap.Error(err))
		}
		return nil, fmt.Errorf("%s: %w", errCtxCreatingUser, err)
	}

	log.Info(ctx, msgUserRegistered, zap.String("userID", createdUser.ID))

	return a.issueSession(ctx, createdUser)
}

// SignIn аутентифицирует пользователя по email и паролю.
func (a *AuthUseCaseImpl) SignIn(ctx context.Context, email, password string) (*services.Session, error) {
	email = normalizeEmail(email)
	log := logger.Log(ctx).With(zap.String("method", methodSignIn), zap.String("email", email))
	log.Debug(ctx, msgLoginAttempt)

	if email == "" || password == "" {
		return nil, fmt.Errorf("%s: %w", errCtxInvalidCredentials, services.ErrInvalidCredentials)
	}

	user, err := a.userRepo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, entities.ErrUserNotFound) {
			log.Debug(ctx, msgLoginNonExistent)
			return nil, fmt.Errorf("%s: %w", errCtxInvalidCredentials, services.ErrInvalidCredentials)
		}
		log.Error(ctx, msgErrFindingUser, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", errCtxFindingUser, err)
	}

	valid, err := a.passwordSvc.Verify(ctx, password, user.PasswordHash)
	if err != nil {
		log.Error(ctx, msgErrVerifyingPassword, zap.Error(err), zap.String("userID", user.ID))
		return nil, fmt.Errorf("%s: %w", errCtxVerifyingPassword, err)
	}
	if !valid {
		log.Debug(ctx, msgInvalidPasswordAuth, zap.String("userID", user.ID))
		return nil, fmt.Errorf("%s: %w", errCtxInvalidCredentials, services.ErrInvalidCredentials)
	}

	log.Info(ctx, msgUserLoggedIn, zap.String("userID", user.ID))

	return a.issueSession(ctx, user)
}

// Refresh обменивает refresh токен на новую сессию. Старый токен отзывается.
func (a *AuthUseCaseImpl) Refresh(ctx context.Context, refreshToken string) (*services.Session, error) {
	log := logger.Log(ctx).With(zap.String("method", methodRefresh))
	log.Debug(ctx, msgRefreshingTokens)

	token, err := a.tokenRepo.FindByToken(ctx, refreshToken)
	if err != nil {
		log.Debug(ctx, msgErrInvalidRefreshToken, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", errCtxFindingRefreshToken, err)
	}

	log = log.With(zap.String("userID", token.UserID))

	if token.IsRevoked {
		log.Debug(ctx, msgRevokedTokenAttempt)
		return nil, fmt.Errorf("%s: %w", errCtxTokenRevoked, services.ErrRevokedRefreshToken)
	}
	if !token.ExpiresAt.After(a.now()) {
		log.Debug(ctx, msgExpiredTokenAttempt)
		return nil, fmt.Errorf("%s: %w", errCtxTokenExpired, services.ErrExpiredRefreshToken)
	}

	user, err := a.userRepo.FindByID(ctx, token.UserID)
	if err != nil {
		log.Error(ctx, msgErrFindingUserForToken, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", errCtxFindingUser, err)
	}

	if err := a.tokenRepo.RevokeToken(ctx, refreshToken); err != nil {
		if errors.Is(err, services.ErrInvalidRefreshToken) {
			log.Debug(ctx, msgRevokedTokenAttempt)
			return nil, fmt.Errorf("%s: %w", errCtxTokenRevoked, services.ErrRevokedRefreshToken)
		}
		log.Error(ctx, msgErrRevokingOldToken, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", errCtxRevokingOldToken, err)
	}

	session, err := a.issueSession(ctx, user)
	if err != nil {
		return nil, err
	}

	log.Info(ctx, msgTokensRefreshed)
	return session, nil
}

// SignOut отзывает refresh токен.
func (a *AuthUseCaseImpl) SignOut(ctx context.Context, refreshToken string) error {
	log := logger.Log(ctx).With(zap.String("method", methodSignOut))
	log.Debug(ctx, msgProcessingLogout)

	if err := a.tokenRepo.RevokeToken(ctx, refreshToken); err != nil {
		if errors.Is(err, services.ErrInvalidRefreshToken) {
			log.Debug(ctx, msgErrRevokingRefreshToken, zap.Error(err))
		} else {
			log.Error(ctx, msgErrRevokingRefreshToken, zap.Error(err))
		}
		return fmt.Errorf("%s: %w", errCtxRevokingToken, err)
	}

	log.Info(ctx, msgUserLoggedOut)
	return nil
}

// GetUser возвращает пользователя, которому принадлежит access токен.
func (a *AuthUseCaseImpl) GetUser(ctx context.Context, accessToken string) (*entities.User, error) {
	log := logger.Log(ctx).With(zap.String("method", methodGetUser))

	userID, err := a.tokenSvc.ValidateAccessToken(ctx, accessToken)
	if err != nil {
		log.Debug(ctx, msgErrValidateAccessToken, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", errCtxValidatingAccessToken, err)
	}

	user, err := a.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", errCtxFindingUser, err)
	}

	log.Debug(ctx, msgUserResolved, zap.String("userID", userID))
	return user, nil
}

// CleanupExpiredTokens удаляет просроченные и отозванные refresh токены.
func (a *AuthUseCaseImpl) CleanupExpiredTokens(ctx context.Context) (int64, error) {
	removed, err := a.tokenRepo.CleanupExpiredTokens(ctx)
	if err != nil {
		logger.Log(ctx).Error(ctx, errCtxCleanup, zap.String("method", methodCleanup), zap.Error(err))
		return 0, fmt.Errorf("%s: %w", errCtxCleanup, err)
	}
	return removed, nil
}

func (a *AuthUseCaseImpl) issueSession(ctx context.Context, user *entities.User) (*services.Session, error) {
	log := logger.Log(ctx).With(
		zap.String("method", methodGenerateTokens),
		zap.String("userID", user.ID),
	)

	accessToken, accessExpires, err := a.tokenSvc.GenerateAccessToken(ctx, user.ID)
	if err != nil {
		log.Error(ctx, msgErrGenerateAccessToken, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", errCtxGeneratingAccessToken, services.ErrTokenGenerationFailed)
	}

	refreshToken, refreshExpires, err := a.tokenSvc.GenerateRefreshToken(ctx, user.ID)
	if err != nil {
		log.Error(ctx, msgErrGenerateRefreshToken, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", errCtxGeneratingRefreshToken, services.ErrTokenGenerationFailed)
	}

	if err := a.tokenRepo.StoreRefreshToken(ctx, &services.RefreshToken{
		UserID:    user.ID,
		Token:     refreshToken,
		ExpiresAt: refreshExpires,
	}); err != nil {
		log.Error(ctx, msgErrStoreRefreshToken, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", errCtxStoringRefreshToken, err)
	}

	log.Debug(ctx, msgSessionIssued)

	return &services.Session{
		User:         *user,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresAt:    accessExpires,
	}, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func validateEmail(email string) error {
	if email == "" || !emailRegex.MatchString(email) {
		return entities.ErrInvalidEmail
	}
	return nil
}

func validatePassword(password string) error {
	if len([]rune(password)) < services.MinPasswordLength {
		return entities.ErrPasswordTooShort
	}

	var hasLetter, hasDigit bool
	for _, r := range password {
		switch {
		case unicode.IsLetter(r):
			hasLetter = true
		case unicode.IsDigit(r):
			hasDigit = true
		}
	}
	if !hasLetter || !hasDigit {
		return entities.ErrPasswordTooWeak
	}

	return nil
}
