package service_test

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"rambopet/internal/config"
	"rambopet/internal/dto"
	"rambopet/internal/infra"
	"rambopet/internal/model"
	"rambopet/internal/service"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newAuthFixture(t *testing.T) (service.AuthService, *stubUserRepo) {
	t.Helper()
	repo := newStubUserRepo()
	cfg := &config.Config{
		JWTSecret:          "test-secret",
		JWTExpirationHours: 8,
		JWTRefreshHours:    24,
	}
	return service.NewAuthService(repo, cfg, infra.NewFileStorage(t.TempDir())), repo
}

func seedLoginUser(t *testing.T, repo *stubUserRepo, username, password string, active bool) *model.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	u := &model.User{
		ID:           uuid.New(),
		Username:     username,
		Email:        username + "@rambopet.test",
		PasswordHash: string(hash),
		FirstName:    "Laura",
		LastName:     "Mendez",
		Role:         model.RoleReceptionist,
		Active:       active,
	}
	repo.users[u.ID] = u
	return u
}

func TestLogin(t *testing.T) {
	svc, repo := newAuthFixture(t)
	seedLoginUser(t, repo, "laura", "s3cret-pass", true)

	resp, err := svc.Login(context.Background(), dto.LoginRequest{Username: "laura", Password: "s3cret-pass"})
	require.NoError(t, err)

	assert.NotEmpty(t, resp.AccessToken)
	assert.NotEmpty(t, resp.RefreshToken)
	assert.Equal(t, "bearer", resp.TokenType)
	assert.Equal(t, 8*3600, resp.ExpiresIn)
	assert.Equal(t, "laura", resp.User.Username)
}

func TestLoginWrongPassword(t *testing.T) {
	svc, repo := newAuthFixture(t)
	seedLoginUser(t, repo, "laura", "s3cret-pass", true)

	_, err := svc.Login(context.Background(), dto.LoginRequest{Username: "laura", Password: "wrong"})
	require.EqualError(t, err, "invalid credentials")
}

func TestLoginUnknownUser(t *testing.T) {
	svc, _ := newAuthFixture(t)

	_, err := svc.Login(context.Background(), dto.LoginRequest{Username: "nobody", Password: "whatever"})
	require.EqualError(t, err, "invalid credentials")
}

func TestLoginInactiveUser(t *testing.T) {
	svc, repo := newAuthFixture(t)
	seedLoginUser(t, repo, "laura", "s3cret-pass", false)

	// Deactivated accounts get the same answer as bad passwords.
	_, err := svc.Login(context.Background(), dto.LoginRequest{Username: "laura", Password: "s3cret-pass"})
	require.EqualError(t, err, "invalid credentials")
}

func TestRefreshRoundTrip(t *testing.T) {
	svc, repo := newAuthFixture(t)
	seedLoginUser(t, repo, "laura", "s3cret-pass", true)

	first, err := svc.Login(context.Background(), dto.LoginRequest{Username: "laura", Password: "s3cret-pass"})
	require.NoError(t, err)

	second, err := svc.Refresh(context.Background(), first.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, second.AccessToken)
	assert.Equal(t, first.User.ID, second.User.ID)
}

func TestRefreshGarbageToken(t *testing.T) {
	svc, _ := newAuthFixture(t)

	_, err := svc.Refresh(context.Background(), "not.a.token")
	require.Error(t, err)
}

func TestRefreshDeactivatedUser(t *testing.T) {
	svc, repo := newAuthFixture(t)
	u := seedLoginUser(t, repo, "laura", "s3cret-pass", true)

	resp, err := svc.Login(context.Background(), dto.LoginRequest{Username: "laura", Password: "s3cret-pass"})
	require.NoError(t, err)

	u.Active = false
	_, err = svc.Refresh(context.Background(), resp.RefreshToken)
	require.Error(t, err)
}

func TestChangePassword(t *testing.T) {
	svc, repo := newAuthFixture(t)
	u := seedLoginUser(t, repo, "laura", "old-password", true)

	err := svc.ChangePassword(context.Background(), u.ID, dto.ChangePasswordRequest{
		CurrentPassword: "old-password",
		NewPassword:     "brand-new-password",
	})
	require.NoError(t, err)

	_, err = svc.Login(context.Background(), dto.LoginRequest{Username: "laura", Password: "brand-new-password"})
	assert.NoError(t, err)
	_, err = svc.Login(context.Background(), dto.LoginRequest{Username: "laura", Password: "old-password"})
	assert.Error(t, err)
}

func TestChangePasswordWrongCurrent(t *testing.T) {
	svc, repo := newAuthFixture(t)
	u := seedLoginUser(t, repo, "laura", "old-password", true)

	err := svc.ChangePassword(context.Background(), u.ID, dto.ChangePasswordRequest{
		CurrentPassword: "nope",
		NewPassword:     "brand-new-password",
	})
	require.EqualError(t, err, "current password does not match")
}

func TestCreateUser(t *testing.T) {
	svc, _ := newAuthFixture(t)
	license := "VET-2044"

	resp, err := svc.CreateUser(context.Background(), dto.CreateUserRequest{
		Username:      "drharris",
		Password:      "long-enough-pw",
		Email:         "harris@rambopet.test",
		FirstName:     "Elena",
		LastName:      "Harris",
		Role:          model.RoleVet,
		LicenseNumber: &license,
		Specialty:     "dermatology",
	})
	require.NoError(t, err)

	assert.Equal(t, "Elena Harris", resp.FullName)
	assert.True(t, resp.Active)
	require.NotNil(t, resp.LicenseNumber)
	assert.Equal(t, "VET-2044", *resp.LicenseNumber)
}

func TestCreateUserDuplicateUsername(t *testing.T) {
	svc, repo := newAuthFixture(t)
	seedLoginUser(t, repo, "laura", "s3cret-pass", true)

	_, err := svc.CreateUser(context.Background(), dto.CreateUserRequest{
		Username:  "laura",
		Password:  "long-enough-pw",
		Email:     "other@rambopet.test",
		FirstName: "Other",
		LastName:  "Person",
		Role:      model.RoleReceptionist,
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, service.ErrConflict)
}

func TestCreateVetWithoutLicense(t *testing.T) {
	svc, _ := newAuthFixture(t)

	_, err := svc.CreateUser(context.Background(), dto.CreateUserRequest{
		Username:  "drnolicense",
		Password:  "long-enough-pw",
		Email:     "x@rambopet.test",
		FirstName: "No",
		LastName:  "License",
		Role:      model.RoleVet,
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "license")
}

func TestCreateUserDropsLicenseForNonVets(t *testing.T) {
	svc, _ := newAuthFixture(t)
	license := "VET-9999"

	resp, err := svc.CreateUser(context.Background(), dto.CreateUserRequest{
		Username:      "frontdesk",
		Password:      "long-enough-pw",
		Email:         "desk@rambopet.test",
		FirstName:     "Front",
		LastName:      "Desk",
		Role:          model.RoleReceptionist,
		LicenseNumber: &license,
		Specialty:     "surgery",
	})
	require.NoError(t, err)

	assert.Nil(t, resp.LicenseNumber)
	assert.Empty(t, resp.Specialty)
}

func TestDeactivateAndReactivateUser(t *testing.T) {
	svc, repo := newAuthFixture(t)
	u := seedLoginUser(t, repo, "laura", "s3cret-pass", true)

	require.NoError(t, svc.DeactivateUser(context.Background(), u.ID))
	assert.False(t, repo.users[u.ID].Active)

	require.NoError(t, svc.ReactivateUser(context.Background(), u.ID))
	assert.True(t, repo.users[u.ID].Active)

	err := svc.DeactivateUser(context.Background(), uuid.New())
	assert.ErrorIs(t, err, service.ErrNotFound)
}

func TestRegisterIsAlwaysGuardian(t *testing.T) {
	svc, _ := newAuthFixture(t)

	resp, err := svc.Register(context.Background(), dto.RegisterRequest{
		Username:  "carlos",
		Password:  "longenough1",
		Email:     "carlos@rambopet.test",
		FirstName: "Carlos",
		LastName:  "Ruiz",
	})
	require.NoError(t, err)

	assert.Equal(t, model.RoleGuardian, resp.User.Role, "self-service signup never grants staff roles")
	assert.NotEmpty(t, resp.AccessToken, "registration logs the new account in")

	login, err := svc.Login(context.Background(), dto.LoginRequest{Username: "carlos", Password: "longenough1"})
	require.NoError(t, err)
	assert.Equal(t, "carlos", login.User.Username)
}

func TestRegisterDuplicateUsername(t *testing.T) {
	svc, repo := newAuthFixture(t)
	seedLoginUser(t, repo, "carlos", "whatever-pass", true)

	_, err := svc.Register(context.Background(), dto.RegisterRequest{
		Username:  "carlos",
		Password:  "longenough1",
		Email:     "carlos@rambopet.test",
		FirstName: "Carlos",
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, service.ErrConflict)
}

func TestUpdateProfile(t *testing.T) {
	svc, repo := newAuthFixture(t)
	u := seedLoginUser(t, repo, "laura", "s3cret-pass", true)

	phone := "+34 600 123 456"
	email := "laura.m@rambopet.test"
	resp, err := svc.UpdateProfile(context.Background(), u.ID, dto.UpdateProfileRequest{
		Phone: &phone,
		Email: &email,
	})
	require.NoError(t, err)

	assert.Equal(t, phone, resp.Phone)
	assert.Equal(t, email, resp.Email)
	assert.Equal(t, model.RoleReceptionist, resp.Role, "role is untouched")
	assert.Equal(t, "Laura", resp.FirstName, "omitted fields are untouched")
}

func TestUpdateProfileUnknownUser(t *testing.T) {
	svc, _ := newAuthFixture(t)

	_, err := svc.UpdateProfile(context.Background(), uuid.New(), dto.UpdateProfileRequest{})
	assert.ErrorIs(t, err, service.ErrNotFound)
}

func TestUploadProfilePhoto(t *testing.T) {
	svc, repo := newAuthFixture(t)
	u := seedLoginUser(t, repo, "laura", "s3cret-pass", true)

	resp, err := svc.UpdatePhoto(context.Background(), u.ID, "avatar.png", strings.NewReader("png-bytes"))
	require.NoError(t, err)
	require.NotEmpty(t, resp.PhotoPath)
	assert.Equal(t, ".png", filepath.Ext(resp.PhotoPath))

	// A second upload replaces the first.
	again, err := svc.UpdatePhoto(context.Background(), u.ID, "avatar2.jpg", strings.NewReader("jpg-bytes"))
	require.NoError(t, err)
	assert.NotEqual(t, resp.PhotoPath, again.PhotoPath)
}
