package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/saudehub/backend/internal/application/services"
	"github.com/saudehub/backend/internal/domain/entities"
	"github.com/saudehub/backend/pkg/auth"
	apperrors "github.com/saudehub/backend/pkg/errors"
)

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *entities.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*entities.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.User), args.Error(1)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id string) (*entities.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.User), args.Error(1)
}

func TestAuthService_Register(t *testing.T) {
	ctx := context.Background()

	t.Run("creates account with hashed password", func(t *testing.T) {
		users := new(MockUserRepository)
		service := services.NewAuthService(users, "test-secret", time.Hour)

		users.On("GetByEmail", mock.Anything, "maria@example.com").
			Return(nil, apperrors.NewNotFoundError("user not found"))
		users.On("Create", mock.Anything, mock.MatchedBy(func(u *entities.User) bool {
			return u.Email == "maria@example.com" && u.PasswordHash != "demo-password"
		})).Return(nil)

		user, err := service.Register(ctx, "Maria Souza", "  Maria@Example.com ", "demo-password")

		assert.NoError(t, err)
		assert.Equal(t, "maria@example.com", user.Email)
		assert.True(t, auth.CheckPassword(user.PasswordHash, "demo-password"))
	})

	t.Run("rejects duplicate email", func(t *testing.T) {
		users := new(MockUserRepository)
		service := services.NewAuthService(users, "test-secret", time.Hour)

		users.On("GetByEmail", mock.Anything, "maria@example.com").
			Return(&entities.User{ID: "user-1", Email: "maria@example.com"}, nil)

		_, err := service.Register(ctx, "Maria Souza", "maria@example.com", "demo-password")

		appErr, ok := apperrors.AsAppError(err)
		assert.True(t, ok)
		assert.Equal(t, apperrors.ErrorTypeValidation, appErr.Type)
		users.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("rejects short password", func(t *testing.T) {
		service := services.NewAuthService(new(MockUserRepository), "test-secret", time.Hour)

		_, err := service.Register(ctx, "Maria Souza", "maria@example.com", "short")

		appErr, ok := apperrors.AsAppError(err)
		assert.True(t, ok)
		assert.Equal(t, apperrors.ErrorTypeValidation, appErr.Type)
	})
}

func TestAuthService_Login(t *testing.T) {
	ctx := context.Background()

	t.Run("issues a parseable token for valid credentials", func(t *testing.T) {
		users := new(MockUserRepository)
		service := services.NewAuthService(users, "test-secret", time.Hour)

		hash, err := auth.HashPassword("demo-password")
		assert.NoError(t, err)
		users.On("GetByEmail", mock.Anything, "maria@example.com").
			Return(&entities.User{ID: "user-1", Email: "maria@example.com", PasswordHash: hash}, nil)

		token, user, err := service.Login(ctx, "maria@example.com", "demo-password")

		assert.NoError(t, err)
		assert.Equal(t, "user-1", user.ID)

		claims, err := auth.ParseToken(token, "test-secret")
		assert.NoError(t, err)
		assert.Equal(t, "user-1", claims.UserID)
	})

	t.Run("wrong password and unknown email produce the same error", func(t *testing.T) {
		users := new(MockUserRepository)
		service := services.NewAuthService(users, "test-secret", time.Hour)

		hash, err := auth.HashPassword("demo-password")
		assert.NoError(t, err)
		users.On("GetByEmail", mock.Anything, "maria@example.com").
			Return(&entities.User{ID: "user-1", Email: "maria@example.com", PasswordHash: hash}, nil)
		users.On("GetByEmail", mock.Anything, "nobody@example.com").
			Return(nil, apperrors.NewNotFoundError("user not found"))

		_, _, wrongPassErr := service.Login(ctx, "maria@example.com", "wrong-password")
		_, _, unknownErr := service.Login(ctx, "nobody@example.com", "demo-password")

		wrongAppErr, ok := apperrors.AsAppError(wrongPassErr)
		assert.True(t, ok)
		unknownAppErr, ok := apperrors.AsAppError(unknownErr)
		assert.True(t, ok)
		assert.Equal(t, apperrors.ErrorTypeUnauthorized, wrongAppErr.Type)
		assert.Equal(t, wrongAppErr.Message, unknownAppErr.Message)
	})
}
