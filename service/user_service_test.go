package service

import (
	"context"
	"errors"
	"testing"

	"marketly-backend/logging"
	"marketly-backend/models"
	"marketly-backend/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestUserService(t *testing.T) (*UserService, *repository.MemoryStore) {
	t.Helper()
	store := repository.NewMemoryStore()
	return NewUserService(UserWithStore(store), UserWithLogger(logging.Discard())), store
}

func TestRegisterThenAuthenticate(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestUserService(t)

	user, err := svc.Register(ctx, RegisterRequest{Name: "Sara", Email: "sara@x.com", Password: "pw1"})
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, user.ID)
	assert.NotEqual(t, "pw1", user.PasswordHash)

	got, err := svc.Authenticate(ctx, "sara@x.com", "pw1")
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)
	assert.Equal(t, "Sara", got.Name)
}

func TestRegister_MissingFields(t *testing.T) {
	svc, store := newTestUserService(t)

	for _, req := range []RegisterRequest{
		{Email: "a@x.com", Password: "p"},
		{Name: "A", Password: "p"},
		{Name: "A", Email: "a@x.com"},
	} {
		_, err := svc.Register(context.Background(), req)
		assert.ErrorIs(t, err, ErrInvalidInput)
	}
	assert.Equal(t, 0, store.UserCount())
}

func TestRegister_EmailTaken(t *testing.T) {
	ctx := context.Background()
	svc, store := newTestUserService(t)

	_, err := svc.Register(ctx, RegisterRequest{Name: "Sara", Email: "sara@x.com", Password: "pw1"})
	require.NoError(t, err)

	_, err = svc.Register(ctx, RegisterRequest{Name: "Other", Email: "sara@x.com", Password: "pw2"})
	assert.ErrorIs(t, err, ErrEmailTaken)
	assert.Equal(t, 1, store.UserCount())
}

func TestRegister_EmailIgnoresCase(t *testing.T) {
	ctx := context.Background()
	svc, store := newTestUserService(t)

	sara, err := svc.Register(ctx, RegisterRequest{Name: "Sara", Email: "sara@x.com", Password: "pw1"})
	require.NoError(t, err)

	_, err = svc.Register(ctx, RegisterRequest{Name: "Other", Email: "SARA@x.com", Password: "pw2"})
	assert.ErrorIs(t, err, ErrEmailTaken)
	assert.Equal(t, 1, store.UserCount())

	got, err := svc.Authenticate(ctx, "Sara@X.com", "pw1")
	require.NoError(t, err)
	assert.Equal(t, sara.ID, got.ID)
}

func TestRegister_OnCreatedFailureRollsBack(t *testing.T) {
	ctx := context.Background()
	svc, store := newTestUserService(t)
	boom := errors.New("sign token")

	var seen *models.User
	_, err := svc.Register(ctx, RegisterRequest{
		Name: "Sara", Email: "sara@x.com", Password: "pw1",
		OnCreated: func(user *models.User) error {
			seen = user
			return boom
		},
	})
	require.ErrorIs(t, err, boom)
	require.NotNil(t, seen)
	assert.NotEqual(t, uuid.Nil, seen.ID)
	assert.Equal(t, 0, store.UserCount())

	_, err = svc.Register(ctx, RegisterRequest{Name: "Sara", Email: "sara@x.com", Password: "pw1"})
	assert.NoError(t, err)
}

func TestRegister_DuplicateKeyOnInsert(t *testing.T) {
	svc, store := newTestUserService(t)
	store.CreateUserErr = repository.ErrDuplicateKey

	_, err := svc.Register(context.Background(), RegisterRequest{Name: "A", Email: "a@x.com", Password: "p"})
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestRegister_StorageFailure(t *testing.T) {
	svc, store := newTestUserService(t)
	boom := errors.New("connection reset")
	store.CreateUserErr = boom

	_, err := svc.Register(context.Background(), RegisterRequest{Name: "A", Email: "a@x.com", Password: "p"})
	require.ErrorIs(t, err, boom)
	assert.NotErrorIs(t, err, ErrEmailTaken)
}

func TestAuthenticate_FailuresAreIndistinguishable(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestUserService(t)

	_, err := svc.Register(ctx, RegisterRequest{Name: "Sara", Email: "sara@x.com", Password: "pw1"})
	require.NoError(t, err)

	_, wrongPassword := svc.Authenticate(ctx, "sara@x.com", "nope")
	_, unknownEmail := svc.Authenticate(ctx, "nobody@x.com", "pw1")

	require.ErrorIs(t, wrongPassword, ErrInvalidCredentials)
	require.ErrorIs(t, unknownEmail, ErrInvalidCredentials)
	assert.Equal(t, wrongPassword.Error(), unknownEmail.Error())
}

func TestAuthenticate_MissingFields(t *testing.T) {
	svc, _ := newTestUserService(t)

	_, err := svc.Authenticate(context.Background(), "", "pw")
	assert.ErrorIs(t, err, ErrInvalidInput)
	_, err = svc.Authenticate(context.Background(), "a@x.com", "")
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestUpdate(t *testing.T) {
	ctx := context.Background()

	setup := func(t *testing.T) (*UserService, *repository.MemoryStore, uuid.UUID) {
		svc, store := newTestUserService(t)
		sara, err := svc.Register(ctx, RegisterRequest{Name: "Sara", Email: "sara@x.com", Password: "pw1"})
		require.NoError(t, err)
		_, err = svc.Register(ctx, RegisterRequest{Name: "Omar", Email: "omar@x.com", Password: "pw"})
		require.NoError(t, err)
		return svc, store, sara.ID
	}

	t.Run("name and email", func(t *testing.T) {
		svc, _, id := setup(t)

		user, err := svc.Update(ctx, UpdateUserRequest{UserID: id, Name: "Sara A.", Email: "sara2@x.com"})
		require.NoError(t, err)
		assert.Equal(t, "Sara A.", user.Name)
		assert.Equal(t, "sara2@x.com", user.Email)

		_, err = svc.Authenticate(ctx, "sara2@x.com", "pw1")
		assert.NoError(t, err)
	})

	t.Run("password change", func(t *testing.T) {
		svc, _, id := setup(t)

		_, err := svc.Update(ctx, UpdateUserRequest{
			UserID: id, Name: "Sara", Email: "sara@x.com",
			CurrentPassword: "pw1", NewPassword: "pw2",
		})
		require.NoError(t, err)

		_, err = svc.Authenticate(ctx, "sara@x.com", "pw2")
		assert.NoError(t, err)
		_, err = svc.Authenticate(ctx, "sara@x.com", "pw1")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("only current password leaves hash unchanged", func(t *testing.T) {
		svc, store, id := setup(t)
		before, err := store.Users().GetByID(ctx, id)
		require.NoError(t, err)

		_, err = svc.Update(ctx, UpdateUserRequest{UserID: id, Name: "Sara", Email: "sara@x.com", CurrentPassword: "wrong"})
		require.NoError(t, err)

		after, err := store.Users().GetByID(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, before.PasswordHash, after.PasswordHash)
	})

	t.Run("only new password leaves hash unchanged", func(t *testing.T) {
		svc, store, id := setup(t)
		before, err := store.Users().GetByID(ctx, id)
		require.NoError(t, err)

		_, err = svc.Update(ctx, UpdateUserRequest{UserID: id, Name: "Sara", Email: "sara@x.com", NewPassword: "pw2"})
		require.NoError(t, err)

		after, err := store.Users().GetByID(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, before.PasswordHash, after.PasswordHash)

		_, err = svc.Authenticate(ctx, "sara@x.com", "pw1")
		assert.NoError(t, err)
		_, err = svc.Authenticate(ctx, "sara@x.com", "pw2")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("case change of own email", func(t *testing.T) {
		svc, _, id := setup(t)

		user, err := svc.Update(ctx, UpdateUserRequest{UserID: id, Name: "Sara", Email: "Sara@X.com"})
		require.NoError(t, err)
		assert.Equal(t, "Sara@X.com", user.Email)

		_, err = svc.Authenticate(ctx, "sara@x.com", "pw1")
		assert.NoError(t, err)
	})

	t.Run("email owned by another user in other case", func(t *testing.T) {
		svc, _, id := setup(t)

		_, err := svc.Update(ctx, UpdateUserRequest{UserID: id, Name: "Sara", Email: "OMAR@x.com"})
		assert.ErrorIs(t, err, ErrEmailTaken)
	})

	t.Run("wrong current password", func(t *testing.T) {
		svc, store, id := setup(t)

		_, err := svc.Update(ctx, UpdateUserRequest{
			UserID: id, Name: "Renamed", Email: "sara@x.com",
			CurrentPassword: "nope", NewPassword: "pw2",
		})
		require.ErrorIs(t, err, ErrWrongPassword)

		user, err := store.Users().GetByID(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, "Sara", user.Name)
	})

	t.Run("email owned by another user", func(t *testing.T) {
		svc, _, id := setup(t)

		_, err := svc.Update(ctx, UpdateUserRequest{UserID: id, Name: "Sara", Email: "omar@x.com"})
		assert.ErrorIs(t, err, ErrEmailTaken)
	})

	t.Run("missing name", func(t *testing.T) {
		svc, _, id := setup(t)

		_, err := svc.Update(ctx, UpdateUserRequest{UserID: id, Email: "sara@x.com"})
		assert.ErrorIs(t, err, ErrInvalidInput)
	})

	t.Run("unknown user", func(t *testing.T) {
		svc, _, _ := setup(t)

		_, err := svc.Update(ctx, UpdateUserRequest{UserID: uuid.New(), Name: "X", Email: "x@x.com"})
		assert.ErrorIs(t, err, ErrUserNotFound)
	})

	t.Run("storage failure rolls back", func(t *testing.T) {
		svc, store, id := setup(t)
		store.UpdateUserErr = errors.New("disk full")

		_, err := svc.Update(ctx, UpdateUserRequest{UserID: id, Name: "Renamed", Email: "sara@x.com"})
		require.Error(t, err)

		user, err := store.Users().GetByID(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, "Sara", user.Name)
	})
}
