package auth_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"golang.org/x/crypto/bcrypt"

	"github.com/ozank/kapici/internal/auth"
)

const testSecret = "test-secret"

func TestService_ResidentLogin_FirstLoginRegisters(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := auth.NewMockRepository(ctrl)
	repo.EXPECT().GetUser(gomock.Any(), "A1").Return(nil, auth.ErrUserNotFound)
	repo.EXPECT().
		CreateUser(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, u *auth.User) error {
			assert.Equal(t, "A1", u.ApartmentNumber)
			assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte("hunter2")))
			return nil
		})

	svc := auth.NewService(repo, testSecret, time.Hour, "", "")

	token, user, err := svc.ResidentLogin(context.Background(), "a1", "hunter2")
	require.NoError(t, err)
	require.NotNil(t, user)
	require.NotEmpty(t, token)

	claims, err := svc.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, auth.RoleResident, claims.Role)
	assert.Equal(t, "A1", claims.Subject)
}

func TestService_ResidentLogin_WrongPassword(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	hash, err := bcrypt.GenerateFromPassword([]byte("correct"), bcrypt.MinCost)
	require.NoError(t, err)

	repo := auth.NewMockRepository(ctrl)
	repo.EXPECT().GetUser(gomock.Any(), "A1").
		Return(&auth.User{ApartmentNumber: "A1", PasswordHash: string(hash)}, nil)

	svc := auth.NewService(repo, testSecret, time.Hour, "", "")

	_, _, err = svc.ResidentLogin(context.Background(), "A1", "wrong")
	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
}

func TestService_ResidentLogin_EmptyInput(t *testing.T) {
	svc := auth.NewService(nil, testSecret, time.Hour, "", "")

	_, _, err := svc.ResidentLogin(context.Background(), "", "pw")
	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)

	_, _, err = svc.ResidentLogin(context.Background(), "A1", "")
	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
}

func TestService_StaffLogin(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("staff-pass"), bcrypt.MinCost)
	require.NoError(t, err)

	svc := auth.NewService(nil, testSecret, time.Hour, "caretaker", string(hash))

	token, err := svc.StaffLogin(context.Background(), "caretaker", "staff-pass")
	require.NoError(t, err)

	claims, err := svc.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, auth.RoleStaff, claims.Role)
	assert.Equal(t, "caretaker", claims.Subject)

	_, err = svc.StaffLogin(context.Background(), "caretaker", "nope")
	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)

	_, err = svc.StaffLogin(context.Background(), "intruder", "staff-pass")
	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
}

func TestService_StaffLogin_DisabledWithoutHash(t *testing.T) {
	svc := auth.NewService(nil, testSecret, time.Hour, "caretaker", "")

	_, err := svc.StaffLogin(context.Background(), "caretaker", "anything")
	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
}

func TestService_ParseToken_Garbage(t *testing.T) {
	svc := auth.NewService(nil, testSecret, time.Hour, "", "")

	_, err := svc.ParseToken("not-a-token")
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestService_ParseToken_WrongSecret(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := auth.NewMockRepository(ctrl)
	repo.EXPECT().GetUser(gomock.Any(), "A1").Return(nil, auth.ErrUserNotFound)
	repo.EXPECT().CreateUser(gomock.Any(), gomock.Any()).Return(nil)

	issuer := auth.NewService(repo, "other-secret", time.Hour, "", "")
	verifier := auth.NewService(nil, testSecret, time.Hour, "", "")

	token, _, err := issuer.ResidentLogin(context.Background(), "A1", "pw")
	require.NoError(t, err)

	_, err = verifier.ParseToken(token)
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}
