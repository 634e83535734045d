package service

import (
	"context"
	"testing"
	"time"

	"confhub/core/config"
	"confhub/core/constants"
	"confhub/core/errors"
	"confhub/modules/auth/dto"
	"confhub/modules/auth/entity"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

type fakeAuthRepo struct {
	byEmail map[string]*entity.User
	roles   map[string]*entity.Role
}

func newFakeAuthRepo() *fakeAuthRepo {
	return &fakeAuthRepo{
		byEmail: map[string]*entity.User{},
		roles: map[string]*entity.Role{
			constants.RoleOrganizer: {ID: uuid.New(), Name: constants.RoleOrganizer},
			constants.RoleSpeaker:   {ID: uuid.New(), Name: constants.RoleSpeaker},
			constants.RoleAttendee:  {ID: uuid.New(), Name: constants.RoleAttendee},
		},
	}
}

func (f *fakeAuthRepo) GetUserByEmail(ctx context.Context, email string) (*entity.User, error) {
	return f.byEmail[email], nil
}

func (f *fakeAuthRepo) GetUserByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	for _, u := range f.byEmail {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, nil
}

func (f *fakeAuthRepo) GetUserByGoogleID(ctx context.Context, googleID string) (*entity.User, error) {
	for _, u := range f.byEmail {
		if u.GoogleID != nil && *u.GoogleID == googleID {
			return u, nil
		}
	}
	return nil, nil
}

func (f *fakeAuthRepo) CreateUser(ctx context.Context, user *entity.User) (*entity.User, error) {
	user.ID = uuid.New()
	user.CreatedAt = time.Now()
	f.byEmail[user.Email] = user
	return user, nil
}

func (f *fakeAuthRepo) LinkGoogleAccount(ctx context.Context, userID uuid.UUID, googleID string, avatarURL *string) error {
	return nil
}

func (f *fakeAuthRepo) GetRoleByName(ctx context.Context, name string) (*entity.Role, error) {
	return f.roles[name], nil
}

type fakeAuthCache struct {
	blacklisted map[string]bool
}

func (f *fakeAuthCache) BlacklistToken(ctx context.Context, token string, ttl time.Duration) error {
	f.blacklisted[token] = true
	return nil
}
func (f *fakeAuthCache) IsTokenBlacklisted(ctx context.Context, token string) (bool, error) {
	return f.blacklisted[token], nil
}
func (f *fakeAuthCache) SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error {
	return nil
}
func (f *fakeAuthCache) GetJSON(ctx context.Context, key string, dest any) (bool, error) {
	return false, nil
}
func (f *fakeAuthCache) Delete(ctx context.Context, keys ...string) error { return nil }
func (f *fakeAuthCache) Client() *redis.Client                            { return nil }

func newAuthService(t *testing.T) (AuthServiceInterface, *fakeAuthRepo, *fakeAuthCache) {
	t.Helper()
	if _, ok := config.GetSafe(); !ok {
		if _, err := config.Load(); err != nil {
			t.Fatalf("config.Load: %v", err)
		}
	}
	repo := newFakeAuthRepo()
	c := &fakeAuthCache{blacklisted: map[string]bool{}}
	return NewAuthService(repo, c), repo, c
}

func TestRegisterAndLogin(t *testing.T) {
	svc, _, _ := newAuthService(t)

	resp, appErr := svc.Register(context.Background(), &dto.RegisterRequest{
		Name:     "Ada",
		Email:    "ada@example.com",
		Password: "correct horse",
		Role:     constants.RoleSpeaker,
	})
	if appErr != nil {
		t.Fatalf("Register() error = %v", appErr)
	}
	if resp.Token == "" {
		t.Error("expected a token")
	}
	if resp.User.Role != constants.RoleSpeaker {
		t.Errorf("role = %s, want speaker", resp.User.Role)
	}

	t.Run("duplicate email", func(t *testing.T) {
		_, appErr := svc.Register(context.Background(), &dto.RegisterRequest{
			Name:     "Ada Again",
			Email:    "ada@example.com",
			Password: "correct horse",
		})
		if appErr == nil || appErr.Code != errors.ErrAlreadyExists {
			t.Errorf("Register() = %v, want ALREADY_EXISTS", appErr)
		}
	})

	t.Run("organizer cannot be self-assigned", func(t *testing.T) {
		got, appErr := svc.Register(context.Background(), &dto.RegisterRequest{
			Name:     "Mallory",
			Email:    "mallory@example.com",
			Password: "long enough",
			Role:     constants.RoleOrganizer,
		})
		if appErr != nil {
			t.Fatalf("Register() error = %v", appErr)
		}
		if got.User.Role != constants.RoleAttendee {
			t.Errorf("role = %s, want attendee", got.User.Role)
		}
	})

	t.Run("login with registered credentials", func(t *testing.T) {
		got, appErr := svc.Login(context.Background(), &dto.LoginRequest{
			Email:    "ada@example.com",
			Password: "correct horse",
		})
		if appErr != nil {
			t.Fatalf("Login() error = %v", appErr)
		}
		if got.User.ID != resp.User.ID {
			t.Error("login returned a different account")
		}
	})

	t.Run("wrong password", func(t *testing.T) {
		_, appErr := svc.Login(context.Background(), &dto.LoginRequest{
			Email:    "ada@example.com",
			Password: "wrong",
		})
		if appErr == nil || appErr.Code != errors.ErrUnauthorized {
			t.Errorf("Login() = %v, want UNAUTHORIZED", appErr)
		}
	})

	t.Run("unknown email", func(t *testing.T) {
		_, appErr := svc.Login(context.Background(), &dto.LoginRequest{
			Email:    "nobody@example.com",
			Password: "whatever",
		})
		if appErr == nil || appErr.Code != errors.ErrUnauthorized {
			t.Errorf("Login() = %v, want UNAUTHORIZED", appErr)
		}
	})
}

func TestLogout(t *testing.T) {
	svc, _, c := newAuthService(t)

	resp, appErr := svc.Register(context.Background(), &dto.RegisterRequest{
		Name:     "Grace",
		Email:    "grace@example.com",
		Password: "long enough",
	})
	if appErr != nil {
		t.Fatalf("Register() error = %v", appErr)
	}

	if appErr := svc.Logout(context.Background(), resp.Token); appErr != nil {
		t.Fatalf("Logout() error = %v", appErr)
	}
	if !c.blacklisted[resp.Token] {
		t.Error("token was not blacklisted")
	}

	if appErr := svc.Logout(context.Background(), "not-a-jwt"); appErr == nil {
		t.Error("Logout() accepted a malformed token")
	}
}
