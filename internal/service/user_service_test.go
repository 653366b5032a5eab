package service

import (
	"testing"

	"github.com/google/uuid"
	"github.com/lshigami/Quokka/config"
	"github.com/lshigami/Quokka/internal/apperr"
	"github.com/lshigami/Quokka/internal/auth"
	"github.com/lshigami/Quokka/internal/dto"
	"github.com/lshigami/Quokka/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fakeUserRepo struct {
	users map[uuid.UUID]*model.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[uuid.UUID]*model.User)}
}

func (r *fakeUserRepo) Create(user *model.User) error {
	r.users[user.ID] = user
	return nil
}

func (r *fakeUserRepo) FindByID(id uuid.UUID) (*model.User, error) {
	user, ok := r.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return user, nil
}

func (r *fakeUserRepo) FindByUsername(username string) (*model.User, error) {
	for _, user := range r.users {
		if user.Username == username {
			return user, nil
		}
	}
	return nil, nil
}

func newUserFixture() (UserService, *auth.TokenManager) {
	cfg := &config.Config{}
	cfg.JWT.Secret = "test-secret"
	cfg.JWT.TTLMinutes = 60
	tokens := auth.NewTokenManager(cfg)
	return NewUserService(newFakeUserRepo(), tokens), tokens
}

func TestRegisterIssuesValidToken(t *testing.T) {
	svc, tokens := newUserFixture()

	result, err := svc.Register(dto.RegisterRequest{Username: "alice", Password: "hunter2hunter2"})
	require.NoError(t, err)

	assert.Equal(t, "alice", result.User.Username)
	assert.NotEqual(t, uuid.Nil, result.User.ID)

	principal, err := tokens.Parse(result.Token)
	require.NoError(t, err)
	assert.Equal(t, result.User.ID, principal.ID)
	assert.Equal(t, model.RoleUser, principal.Role)
}

func TestRegisterRejectsDuplicateUsername(t *testing.T) {
	svc, _ := newUserFixture()

	_, err := svc.Register(dto.RegisterRequest{Username: "alice", Password: "hunter2hunter2"})
	require.NoError(t, err)

	_, err = svc.Register(dto.RegisterRequest{Username: "alice", Password: "different-pass"})
	assert.True(t, apperr.Is(err, apperr.CodeUsernameTaken))
}

func TestLoginVerifiesPassword(t *testing.T) {
	svc, _ := newUserFixture()

	_, err := svc.Register(dto.RegisterRequest{Username: "alice", Password: "hunter2hunter2"})
	require.NoError(t, err)

	result, err := svc.Login(dto.LoginRequest{Username: "alice", Password: "hunter2hunter2"})
	require.NoError(t, err)
	assert.NotEmpty(t, result.Token)

	_, err = svc.Login(dto.LoginRequest{Username: "alice", Password: "wrong"})
	assert.True(t, apperr.Is(err, apperr.CodeInvalidCredentials))

	_, err = svc.Login(dto.LoginRequest{Username: "nobody", Password: "hunter2hunter2"})
	assert.True(t, apperr.Is(err, apperr.CodeInvalidCredentials))
}
