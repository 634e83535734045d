package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"confhub/core/cache"
	"confhub/core/config"
	"confhub/core/constants"
	"confhub/core/errors"
	"confhub/core/logger"
	"confhub/core/utils"
	"confhub/modules/auth/dto"
	"confhub/modules/auth/entity"
	"confhub/modules/auth/repository"

	"github.com/google/uuid"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

const (
	oauthStateTTL     = 10 * time.Minute
	oauthStateKey     = "auth:oauth-state:"
	googleUserInfoURL = "https://www.googleapis.com/oauth2/v2/userinfo"
)

type AuthServiceInterface interface {
	Register(ctx context.Context, req *dto.RegisterRequest) (*dto.AuthResponse, *errors.AppError)
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, *errors.AppError)
	Logout(ctx context.Context, token string) *errors.AppError
	Me(ctx context.Context, userID uuid.UUID) (*dto.UserResponse, *errors.AppError)
	GoogleLoginURL(ctx context.Context) (string, *errors.AppError)
	GoogleCallback(ctx context.Context, state, code string) (*dto.AuthResponse, *errors.AppError)
}

type authService struct {
	repo   repository.AuthRepositoryInterface
	cache  cache.Cache
	google *oauth2.Config
}

func NewAuthService(repo repository.AuthRepositoryInterface, c cache.Cache) AuthServiceInterface {
	cfg := config.Get()
	return &authService{
		repo:  repo,
		cache: c,
		google: &oauth2.Config{
			ClientID:     cfg.Auth.Google.ClientID,
			ClientSecret: cfg.Auth.Google.ClientSecret,
			RedirectURL:  cfg.Auth.Google.RedirectURL,
			Scopes:       []string{"openid", "email", "profile"},
			Endpoint:     google.Endpoint,
		},
	}
}

func (s *authService) issueToken(user *entity.User) (*dto.AuthResponse, *errors.AppError) {
	token, err := utils.GenerateToken(user.ID, user.RoleName)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to issue token", err)
	}
	return &dto.AuthResponse{
		Token: token,
		User:  dto.NewUserResponse(user),
	}, nil
}

func (s *authService) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.AuthResponse, *errors.AppError) {
	logger.Info("AuthService:Register:Start", "email", req.Email)

	if problems := req.Validate(); len(problems) > 0 {
		return nil, errors.NewAppError(errors.ErrInvalidRequestData, "Invalid registration data", nil).WithDetails(problems)
	}

	existing, err := s.repo.GetUserByEmail(ctx, req.Email)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrGetFailed, "Failed to check email", err)
	}
	if existing != nil {
		return nil, errors.NewAppError(errors.ErrAlreadyExists, "Email is already registered", nil)
	}

	// Self-registration never grants organizer; that role is seeded.
	roleName := constants.RoleAttendee
	if req.Role == constants.RoleSpeaker {
		roleName = constants.RoleSpeaker
	}
	role, err := s.repo.GetRoleByName(ctx, roleName)
	if err != nil || role == nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Role lookup failed", err)
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to hash password", err)
	}

	user, err := s.repo.CreateUser(ctx, &entity.User{
		Name:         req.Name,
		Email:        strings.ToLower(req.Email),
		PasswordHash: &hash,
		RoleID:       role.ID,
		RoleName:     role.Name,
	})
	if err != nil {
		return nil, errors.NewAppError(errors.ErrCreateFailed, "Failed to create account", err)
	}

	logger.Info("AuthService:Register:Success", "user_id", user.ID)
	return s.issueToken(user)
}

func (s *authService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, *errors.AppError) {
	logger.Info("AuthService:Login:Start", "email", req.Email)

	user, err := s.repo.GetUserByEmail(ctx, strings.ToLower(req.Email))
	if err != nil {
		return nil, errors.NewAppError(errors.ErrGetFailed, "Failed to load account", err)
	}
	if user == nil || user.PasswordHash == nil || !utils.ComparePassword(*user.PasswordHash, req.Password) {
		// Same answer whether the email or the password is wrong.
		return nil, errors.NewAppError(errors.ErrUnauthorized, "Invalid email or password", nil)
	}

	logger.Info("AuthService:Login:Success", "user_id", user.ID)
	return s.issueToken(user)
}

// Logout blacklists the presented token for its remaining lifetime.
func (s *authService) Logout(ctx context.Context, token string) *errors.AppError {
	claims, err := utils.ValidateAndParseToken(token)
	if err != nil {
		return errors.NewAppError(errors.ErrInvalidTokenFormat, "Invalid token", err)
	}

	ttl := time.Until(claims.ExpiresAt.Time)
	if err := s.cache.BlacklistToken(ctx, token, ttl); err != nil {
		return errors.NewAppError(errors.ErrInternalServer, "Failed to revoke token", err)
	}

	logger.Info("AuthService:Logout:Success", "user_id", claims.UserID)
	return nil
}

func (s *authService) Me(ctx context.Context, userID uuid.UUID) (*dto.UserResponse, *errors.AppError) {
	user, err := s.repo.GetUserByID(ctx, userID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrGetFailed, "Failed to load account", err)
	}
	if user == nil {
		return nil, errors.NewAppError(errors.ErrNotFound, "Account not found", nil)
	}
	return dto.NewUserResponse(user), nil
}

// GoogleLoginURL starts the OAuth flow; the state nonce lives in redis until
// the callback consumes it.
func (s *authService) GoogleLoginURL(ctx context.Context) (string, *errors.AppError) {
	state := utils.GenerateRandomString(32)
	if err := s.cache.SetJSON(ctx, oauthStateKey+state, true, oauthStateTTL); err != nil {
		return "", errors.NewAppError(errors.ErrInternalServer, "Failed to store login state", err)
	}
	return s.google.AuthCodeURL(state, oauth2.AccessTypeOnline), nil
}

type googleUserInfo struct {
	ID      string `json:"id"`
	Email   string `json:"email"`
	Name    string `json:"name"`
	Picture string `json:"picture"`
}

func (s *authService) GoogleCallback(ctx context.Context, state, code string) (*dto.AuthResponse, *errors.AppError) {
	logger.Info("AuthService:GoogleCallback:Start")

	var known bool
	found, err := s.cache.GetJSON(ctx, oauthStateKey+state, &known)
	if err != nil || !found {
		return nil, errors.NewAppError(errors.ErrUnauthorized, "Unknown or expired login state", err)
	}
	if err := s.cache.Delete(ctx, oauthStateKey+state); err != nil {
		logger.Warn("AuthService:GoogleCallback:DeleteState:Error", "error", err)
	}

	token, err := s.google.Exchange(ctx, code)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrUnauthorized, "Google code exchange failed", err)
	}

	info, err := s.fetchGoogleUser(ctx, token)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to load Google profile", err)
	}

	user, appErr := s.findOrCreateGoogleUser(ctx, info)
	if appErr != nil {
		return nil, appErr
	}

	logger.Info("AuthService:GoogleCallback:Success", "user_id", user.ID)
	return s.issueToken(user)
}

func (s *authService) fetchGoogleUser(ctx context.Context, token *oauth2.Token) (*googleUserInfo, error) {
	client := s.google.Client(ctx, token)
	resp, err := client.Get(googleUserInfoURL)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != 200 {
		return nil, fmt.Errorf("userinfo returned status %d", resp.StatusCode)
	}

	var info googleUserInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return nil, err
	}
	if info.Email == "" {
		return nil, fmt.Errorf("userinfo response missing email")
	}
	return &info, nil
}

func (s *authService) findOrCreateGoogleUser(ctx context.Context, info *googleUserInfo) (*entity.User, *errors.AppError) {
	user, err := s.repo.GetUserByGoogleID(ctx, info.ID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrGetFailed, "Failed to load account", err)
	}
	if user != nil {
		return user, nil
	}

	// Link by email when the account predates the Google login.
	user, err = s.repo.GetUserByEmail(ctx, strings.ToLower(info.Email))
	if err != nil {
		return nil, errors.NewAppError(errors.ErrGetFailed, "Failed to load account", err)
	}
	if user != nil {
		var avatar *string
		if info.Picture != "" {
			avatar = &info.Picture
		}
		if err := s.repo.LinkGoogleAccount(ctx, user.ID, info.ID, avatar); err != nil {
			return nil, errors.NewAppError(errors.ErrUpdateFailed, "Failed to link Google account", err)
		}
		user.GoogleID = &info.ID
		return user, nil
	}

	role, err := s.repo.GetRoleByName(ctx, constants.RoleAttendee)
	if err != nil || role == nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Role lookup failed", err)
	}

	var avatar *string
	if info.Picture != "" {
		avatar = &info.Picture
	}
	created, err := s.repo.CreateUser(ctx, &entity.User{
		Name:      info.Name,
		Email:     strings.ToLower(info.Email),
		AvatarURL: avatar,
		RoleID:    role.ID,
		RoleName:  role.Name,
		GoogleID:  &info.ID,
	})
	if err != nil {
		return nil, errors.NewAppError(errors.ErrCreateFailed, "Failed to create account", err)
	}
	return created, nil
}
