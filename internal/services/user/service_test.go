package userservice

import (
	"context"
	"docvault/internal/models"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockUserAdder struct {
	mock.Mock
}

func (m *MockUserAdder) AddUser(ctx context.Context, user models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

type MockUserProvider struct {
	mock.Mock
}

func (m *MockUserProvider) UserByID(ctx context.Context, id string) (*models.User, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserProvider) UserByLogin(ctx context.Context, login string) (*models.User, error) {
	args := m.Called(ctx, login)
	return args.Get(0).(*models.User), args.Error(1)
}

func TestAddUser_Success(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	mockAdder := new(MockUserAdder)
	mockProvider := new(MockUserProvider)
	service := New(slog.Default(), mockAdder, mockProvider)

	user := models.User{ID: "user1", Login: "someone"}

	mockAdder.On("AddUser", ctx, user).Return(nil)

	err := service.AddUser(ctx, user)

	assert.NoError(t, err)
	mockAdder.AssertExpectations(t)
}

func TestAddUser_DuplicateLogin(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	mockAdder := new(MockUserAdder)
	mockProvider := new(MockUserProvider)
	service := New(slog.Default(), mockAdder, mockProvider)

	mockAdder.On("AddUser", ctx, mock.Anything).Return(&models.UniqueConstraintError{
		Constraint: "users_login_key",
		Err:        models.ErrUNIQUEConstraintFailed,
	})

	err := service.AddUser(ctx, models.User{Login: "taken"})

	assert.ErrorIs(t, err, models.ErrUserExists)
}

func TestAddUser_RepoFailure(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	mockAdder := new(MockUserAdder)
	mockProvider := new(MockUserProvider)
	service := New(slog.Default(), mockAdder, mockProvider)

	mockAdder.On("AddUser", ctx, mock.Anything).Return(errors.New("db down"))

	err := service.AddUser(ctx, models.User{Login: "someone"})

	assert.ErrorIs(t, err, models.ErrInternal)
}

func TestUserByID_Success(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	mockAdder := new(MockUserAdder)
	mockProvider := new(MockUserProvider)
	service := New(slog.Default(), mockAdder, mockProvider)

	mockProvider.On("UserByID", ctx, "user1").Return(&models.User{ID: "user1", Login: "someone"}, nil)

	user, err := service.UserByID(ctx, "user1")

	require.NoError(t, err)
	assert.Equal(t, "someone", user.Login)
}

func TestUserByID_NotFound(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	mockAdder := new(MockUserAdder)
	mockProvider := new(MockUserProvider)
	service := New(slog.Default(), mockAdder, mockProvider)

	mockProvider.On("UserByID", ctx, "ghost").Return((*models.User)(nil), models.ErrUserNotFound)

	user, err := service.UserByID(ctx, "ghost")

	assert.Nil(t, user)
	assert.ErrorIs(t, err, models.ErrUserNotFound)
}

func TestUserByLogin_NotFound(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	mockAdder := new(MockUserAdder)
	mockProvider := new(MockUserProvider)
	service := New(slog.Default(), mockAdder, mockProvider)

	mockProvider.On("UserByLogin", ctx, "ghost").Return((*models.User)(nil), models.ErrUserNotFound)

	user, err := service.UserByLogin(ctx, "ghost")

	assert.Nil(t, user)
	assert.ErrorIs(t, err, models.ErrUserNotFound)
}
