package user_test

import (
	"context"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/payollar/payollar/internal/fixtures/memstore"
	"github.com/payollar/payollar/pkg/domain"
	"github.com/payollar/payollar/pkg/domain/user"
	usersvc "github.com/payollar/payollar/pkg/service/user"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateUser(t *testing.T) {
	t.Parallel()
	store := memstore.New()
	svc := usersvc.New(store, slog.Default())

	u, err := svc.CreateUser(context.Background(), "alice", "alice@example.com", "secret", "creator")
	require.NoError(t, err)
	assert.Equal(t, user.RoleCreator, u.Role)

	stored, ok := store.User(u.ID)
	require.True(t, ok)
	assert.Equal(t, "CREATOR", stored.Role)
	assert.True(t, stored.Credits.IsZero())
	assert.NotEqual(t, "secret", stored.HashedPassword)
	assert.Equal(t, 1, store.Commits())
}

func TestCreateUser_InvalidRole(t *testing.T) {
	t.Parallel()
	store := memstore.New()
	svc := usersvc.New(store, slog.Default())

	_, err := svc.CreateUser(context.Background(), "alice", "alice@example.com", "secret", "SUPERUSER")
	assert.ErrorIs(t, err, user.ErrInvalidRole)
	assert.Equal(t, 0, store.Commits())
}

func TestCreateUser_Duplicate(t *testing.T) {
	t.Parallel()
	store := memstore.New()
	svc := usersvc.New(store, slog.Default())

	_, err := svc.CreateUser(context.Background(), "alice", "alice@example.com", "secret", "ADMIN")
	require.NoError(t, err)
	_, err = svc.CreateUser(context.Background(), "alice", "other@example.com", "secret", "ADMIN")
	assert.ErrorIs(t, err, domain.ErrAlreadyExists)
}

func TestGetUser(t *testing.T) {
	t.Parallel()
	store := memstore.New()
	svc := usersvc.New(store, slog.Default())

	created, err := svc.CreateUser(context.Background(), "alice", "alice@example.com", "secret", "ADMIN")
	require.NoError(t, err)

	got, err := svc.GetUser(context.Background(), created.ID.String())
	require.NoError(t, err)
	assert.Equal(t, "alice", got.Username)

	_, err = svc.GetUser(context.Background(), uuid.NewString())
	assert.ErrorIs(t, err, user.ErrUserNotFound)

	_, err = svc.GetUser(context.Background(), "not-a-uuid")
	assert.ErrorIs(t, err, user.ErrUserNotFound)
}
