package services

import (
	"testing"
	"time"

	"github.com/nnypa/endorsement_service/internal/apperr"
	"github.com/nnypa/endorsement_service/internal/domain"
	"github.com/nnypa/endorsement_service/internal/dto"
	"github.com/nnypa/endorsement_service/internal/helper"
	"github.com/nnypa/endorsement_service/internal/helper/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type userServiceFixture struct {
	svc      UserService
	repo     *fakeUserRepo
	profiles *fakeProfileRepo
	producer *fakeProducer
}

func newUserServiceFixture(adminIDs ...uint) *userServiceFixture {
	repo := newFakeUserRepo()
	profiles := newFakeProfileRepo()
	producer := &fakeProducer{}
	gate := NewAccessGate(newFakeGrantRepo(adminIDs...))

	return &userServiceFixture{
		svc:      NewUserService(repo, profiles, gate, helper.SetupAuth("test-secret"), producer),
		repo:     repo,
		profiles: profiles,
		producer: producer,
	}
}

func (f *userServiceFixture) addVerifiedUser(email, password string) *domain.User {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		panic(err)
	}
	now := time.Now()
	u, err := f.repo.CreateUser(&domain.User{
		Email:           email,
		PasswordHash:    string(hash),
		FullName:        "Test User",
		Status:          "active",
		EmailVerifiedAt: &now,
	})
	if err != nil {
		panic(err)
	}
	return u
}

func TestRegister(t *testing.T) {
	fx := newUserServiceFixture()

	err := fx.svc.Register(dto.RegisterRequest{
		Email:    "New@Example.com",
		Password: "secret123",
		FullName: "Ada Obi",
	})
	require.NoError(t, err)

	user, err := fx.repo.FindUserByEmail("new@example.com")
	require.NoError(t, err)
	assert.Equal(t, "Ada Obi", user.FullName)
	assert.Nil(t, user.EmailVerifiedAt)
	assert.NotEmpty(t, user.VerificationToken)
	assert.NotEqual(t, "secret123", user.PasswordHash)

	assert.Equal(t, []string{dto.EventVerifyEmail}, fx.producer.keys)
}

func TestRegisterValidation(t *testing.T) {
	fx := newUserServiceFixture()

	tests := []struct {
		name  string
		input dto.RegisterRequest
	}{
		{"missing email", dto.RegisterRequest{Password: "secret123", FullName: "Ada"}},
		{"missing password", dto.RegisterRequest{Email: "a@b.com", FullName: "Ada"}},
		{"missing full name", dto.RegisterRequest{Email: "a@b.com", Password: "secret123"}},
		{"short password", dto.RegisterRequest{Email: "a@b.com", Password: "abc", FullName: "Ada"}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := fx.svc.Register(tc.input)
			assert.ErrorIs(t, err, apperr.ErrValidation)
		})
	}

	assert.Empty(t, fx.producer.keys)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	fx := newUserServiceFixture()
	fx.addVerifiedUser("taken@example.com", "secret123")

	err := fx.svc.Register(dto.RegisterRequest{
		Email:    "TAKEN@example.com",
		Password: "secret123",
		FullName: "Ada Obi",
	})
	assert.ErrorIs(t, err, apperr.ErrConflict)
}

func TestVerifyEmail(t *testing.T) {
	fx := newUserServiceFixture()

	user, err := fx.repo.CreateUser(&domain.User{Email: "v@example.com", Status: "active"})
	require.NoError(t, err)

	exp := time.Now().Add(time.Hour)
	user.VerificationToken = utils.Sha256Hex("plain-token")
	user.VerificationTokenExpiresAt = &exp
	require.NoError(t, fx.repo.SaveUser(user))

	require.NoError(t, fx.svc.VerifyEmail("plain-token"))

	got, err := fx.repo.FindUserById(user.ID)
	require.NoError(t, err)
	assert.NotNil(t, got.EmailVerifiedAt)
	assert.Empty(t, got.VerificationToken)
}

func TestVerifyEmailExpiredToken(t *testing.T) {
	fx := newUserServiceFixture()

	user, err := fx.repo.CreateUser(&domain.User{Email: "v@example.com", Status: "active"})
	require.NoError(t, err)

	exp := time.Now().Add(-time.Minute)
	user.VerificationToken = utils.Sha256Hex("plain-token")
	user.VerificationTokenExpiresAt = &exp
	require.NoError(t, fx.repo.SaveUser(user))

	err = fx.svc.VerifyEmail("plain-token")
	assert.ErrorIs(t, err, apperr.ErrValidation)
}

func TestVerifyEmailUnknownToken(t *testing.T) {
	fx := newUserServiceFixture()

	err := fx.svc.VerifyEmail("never-issued")
	assert.ErrorIs(t, err, apperr.ErrValidation)
}

func TestLogin(t *testing.T) {
	fx := newUserServiceFixture()
	fx.addVerifiedUser("ada@example.com", "secret123")

	user, err := fx.svc.Login(dto.UserLogin{Email: "Ada@Example.com", Password: "secret123"})
	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", user.Email)
}

func TestLoginWrongPassword(t *testing.T) {
	fx := newUserServiceFixture()
	fx.addVerifiedUser("ada@example.com", "secret123")

	_, err := fx.svc.Login(dto.UserLogin{Email: "ada@example.com", Password: "wrong"})
	assert.ErrorIs(t, err, apperr.ErrUnauthenticated)
}

func TestLoginUnknownEmail(t *testing.T) {
	fx := newUserServiceFixture()

	_, err := fx.svc.Login(dto.UserLogin{Email: "ghost@example.com", Password: "secret123"})
	assert.ErrorIs(t, err, apperr.ErrUnauthenticated)
}

func TestLoginUnverifiedEmail(t *testing.T) {
	fx := newUserServiceFixture()

	hash, _ := bcrypt.GenerateFromPassword([]byte("secret123"), bcrypt.MinCost)
	_, err := fx.repo.CreateUser(&domain.User{
		Email:        "new@example.com",
		PasswordHash: string(hash),
		Status:       "active",
	})
	require.NoError(t, err)

	_, err = fx.svc.Login(dto.UserLogin{Email: "new@example.com", Password: "secret123"})
	assert.ErrorIs(t, err, apperr.ErrForbidden)
}

func TestLoginSuspendedAccount(t *testing.T) {
	fx := newUserServiceFixture()
	user := fx.addVerifiedUser("ada@example.com", "secret123")
	user.Status = "suspended"
	require.NoError(t, fx.repo.SaveUser(user))

	_, err := fx.svc.Login(dto.UserLogin{Email: "ada@example.com", Password: "secret123"})
	assert.ErrorIs(t, err, apperr.ErrForbidden)
}

func TestForgotPasswordUnknownEmailIsSilent(t *testing.T) {
	fx := newUserServiceFixture()

	assert.NoError(t, fx.svc.ForgotPassword("ghost@example.com"))
	assert.Empty(t, fx.producer.keys)
}

func TestForgotPasswordThenSetPassword(t *testing.T) {
	fx := newUserServiceFixture()
	user := fx.addVerifiedUser("ada@example.com", "secret123")

	require.NoError(t, fx.svc.ForgotPassword("ada@example.com"))
	assert.Equal(t, []string{dto.EventResetPassword}, fx.producer.keys)

	got, err := fx.repo.FindUserById(user.ID)
	require.NoError(t, err)
	assert.NotEmpty(t, got.ResetTokenHash)

	// The plain token travels in the event; simulate it by planting a
	// known one.
	exp := time.Now().Add(30 * time.Minute)
	got.ResetTokenHash = utils.Sha256Hex("reset-token")
	got.ResetTokenExpiresAt = &exp
	require.NoError(t, fx.repo.SaveUser(got))

	require.NoError(t, fx.svc.SetPassword(dto.SetPasswordRequest{
		Token:       "reset-token",
		NewPassword: "brandnew1",
	}))

	_, err = fx.svc.Login(dto.UserLogin{Email: "ada@example.com", Password: "brandnew1"})
	require.NoError(t, err)

	// Token is single-use.
	err = fx.svc.SetPassword(dto.SetPasswordRequest{Token: "reset-token", NewPassword: "another1"})
	assert.ErrorIs(t, err, apperr.ErrValidation)
}

func TestSetPasswordExpiredToken(t *testing.T) {
	fx := newUserServiceFixture()
	user := fx.addVerifiedUser("ada@example.com", "secret123")

	exp := time.Now().Add(-time.Minute)
	user.ResetTokenHash = utils.Sha256Hex("reset-token")
	user.ResetTokenExpiresAt = &exp
	require.NoError(t, fx.repo.SaveUser(user))

	err := fx.svc.SetPassword(dto.SetPasswordRequest{Token: "reset-token", NewPassword: "brandnew1"})
	assert.ErrorIs(t, err, apperr.ErrValidation)
}

func TestGetMeReportsAdminFlag(t *testing.T) {
	fx := newUserServiceFixture(1)
	admin := fx.addVerifiedUser("admin@example.com", "secret123")
	member := fx.addVerifiedUser("member@example.com", "secret123")

	me, err := fx.svc.GetMe(admin.ID)
	require.NoError(t, err)
	assert.True(t, me.IsAdmin)

	me, err = fx.svc.GetMe(member.ID)
	require.NoError(t, err)
	assert.False(t, me.IsAdmin)

	_, err = fx.svc.GetMe(0)
	assert.ErrorIs(t, err, apperr.ErrUnauthenticated)
}

func TestUpsertProfile(t *testing.T) {
	fx := newUserServiceFixture()
	user := fx.addVerifiedUser("ada@example.com", "secret123")

	state := "Lagos"
	lga := "Ikeja"
	dob := "1998-04-12"

	profile, err := fx.svc.UpsertProfile(user.ID, dto.UpsertProfileRequest{
		FullName:    "Ada Obi",
		PhoneNumber: "+2348012345678",
		DateOfBirth: &dob,
		State:       &state,
		LGA:         &lga,
	})
	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", profile.Email)
	require.NotNil(t, profile.DateOfBirth)
	assert.Equal(t, 1998, profile.DateOfBirth.Year())
}

func TestUpsertProfileValidation(t *testing.T) {
	fx := newUserServiceFixture()
	user := fx.addVerifiedUser("ada@example.com", "secret123")

	country := "Canada"
	state := "Lagos"
	lga := "Ikeja"
	badDOB := "12/04/1998"

	tests := []struct {
		name  string
		input dto.UpsertProfileRequest
	}{
		{"missing full name", dto.UpsertProfileRequest{PhoneNumber: "080", State: &state, LGA: &lga}},
		{"missing phone", dto.UpsertProfileRequest{FullName: "Ada", State: &state, LGA: &lga}},
		{"resident missing state", dto.UpsertProfileRequest{FullName: "Ada", PhoneNumber: "080", LGA: &lga}},
		{"resident missing lga", dto.UpsertProfileRequest{FullName: "Ada", PhoneNumber: "080", State: &state}},
		{"diaspora missing country", dto.UpsertProfileRequest{FullName: "Ada", PhoneNumber: "080", IsDiaspora: true}},
		{"bad date of birth", dto.UpsertProfileRequest{FullName: "Ada", PhoneNumber: "080", State: &state, LGA: &lga, DateOfBirth: &badDOB}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := fx.svc.UpsertProfile(user.ID, tc.input)
			assert.ErrorIs(t, err, apperr.ErrValidation)
		})
	}

	t.Run("diaspora with country passes", func(t *testing.T) {
		_, err := fx.svc.UpsertProfile(user.ID, dto.UpsertProfileRequest{
			FullName:    "Ada",
			PhoneNumber: "080",
			IsDiaspora:  true,
			Country:     &country,
		})
		assert.NoError(t, err)
	})
}

func TestListProfilesRequiresAdmin(t *testing.T) {
	fx := newUserServiceFixture(1)
	admin := fx.addVerifiedUser("admin@example.com", "secret123")
	member := fx.addVerifiedUser("member@example.com", "secret123")

	state := "Lagos"
	lga := "Ikeja"
	_, err := fx.svc.UpsertProfile(member.ID, dto.UpsertProfileRequest{
		FullName: "Member", PhoneNumber: "080", State: &state, LGA: &lga,
	})
	require.NoError(t, err)

	profiles, err := fx.svc.ListProfiles(admin.ID, 50, 0)
	require.NoError(t, err)
	assert.Len(t, profiles, 1)

	_, err = fx.svc.ListProfiles(member.ID, 50, 0)
	assert.ErrorIs(t, err, apperr.ErrForbidden)
}
