package services

import (
	"encoding/json"
	"log"
	"strings"
	"time"

	"github.com/nnypa/endorsement_service/internal/apperr"
	"github.com/nnypa/endorsement_service/internal/domain"
	"github.com/nnypa/endorsement_service/internal/dto"
	"github.com/nnypa/endorsement_service/internal/helper"
	"github.com/nnypa/endorsement_service/internal/helper/utils"
	"github.com/nnypa/endorsement_service/internal/interfaces"
	"github.com/nnypa/endorsement_service/internal/repository"
	"golang.org/x/crypto/bcrypt"
)

type UserService interface {
	// Auth
	Register(input dto.RegisterRequest) error
	VerifyEmail(token string) error
	Login(input dto.UserLogin) (*domain.User, error)
	ForgotPassword(email string) error
	SetPassword(input dto.SetPasswordRequest) error

	// Profile
	GetMe(userID uint) (*dto.UserResponse, error)
	GetProfile(userID uint) (*domain.Profile, error)
	UpsertProfile(userID uint, input dto.UpsertProfileRequest) (*domain.Profile, error)

	// Admin
	ListProfiles(actorID uint, limit, offset int) ([]domain.Profile, error)
}

type userService struct {
	repo        repository.UserRepository
	profileRepo repository.ProfileRepository
	gate        *AccessGate
	auth        helper.Auth
	producer    interfaces.ProducerHandler
}

func NewUserService(
	repo repository.UserRepository,
	profileRepo repository.ProfileRepository,
	gate *AccessGate,
	auth helper.Auth,
	producer interfaces.ProducerHandler,
) UserService {
	return &userService{
		repo:        repo,
		profileRepo: profileRepo,
		gate:        gate,
		auth:        auth,
		producer:    producer,
	}
}

/* =========================
   AUTH
========================= */

func (u *userService) Register(input dto.RegisterRequest) error {
	email := strings.TrimSpace(strings.ToLower(input.Email))
	fullName := strings.TrimSpace(input.FullName)

	if email == "" || strings.TrimSpace(input.Password) == "" || fullName == "" {
		return apperr.Validation("email, password and full_name are required")
	}
	if len(input.Password) < 6 {
		return apperr.Validation("password must be at least 6 characters")
	}

	existing, err := u.repo.FindUserByEmail(email)
	if err == nil && existing != nil && existing.ID != 0 {
		return apperr.Conflict("email already exists")
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return apperr.Storage("hash password", err)
	}

	newUser := &domain.User{
		Email:        email,
		PasswordHash: string(hashedPassword),
		FullName:     fullName,
		Status:       "active",
	}

	usr, err := u.repo.CreateUser(newUser)
	if err != nil {
		if helper.IsUniqueViolation(err) {
			return apperr.Conflict("email already exists")
		}
		return apperr.Storage("create user", err)
	}

	// email verification token
	plainToken, err := utils.RandomToken(32)
	if err != nil {
		return apperr.Storage("generate verification token", err)
	}
	exp := time.Now().Add(24 * time.Hour)

	usr.VerificationToken = utils.Sha256Hex(plainToken)
	usr.VerificationTokenExpiresAt = &exp

	if err := u.repo.SaveUser(usr); err != nil {
		return apperr.Storage("save user", err)
	}

	u.publish(dto.EventVerifyEmail, dto.VerifyEmailEvent{
		UserID:    usr.ID,
		Email:     usr.Email,
		Token:     plainToken,
		ExpiresAt: exp.Format(time.RFC3339),
	})

	return nil
}

func (u *userService) VerifyEmail(token string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return apperr.Validation("token is required")
	}

	user, err := u.repo.FindUserByVerificationTokenHash(utils.Sha256Hex(token))
	if err != nil || user == nil {
		return apperr.Validation("invalid token")
	}

	if user.VerificationTokenExpiresAt == nil || time.Now().After(*user.VerificationTokenExpiresAt) {
		return apperr.Validation("token expired")
	}

	now := time.Now()
	user.EmailVerifiedAt = &now
	user.VerificationToken = ""
	user.VerificationTokenExpiresAt = nil

	if err := u.repo.SaveUser(user); err != nil {
		return apperr.Storage("save user", err)
	}
	return nil
}

func (u *userService) Login(input dto.UserLogin) (*domain.User, error) {
	email := strings.TrimSpace(strings.ToLower(input.Email))
	password := strings.TrimSpace(input.Password)

	if email == "" || password == "" {
		return nil, apperr.Unauthenticated("invalid email or password")
	}

	user, err := u.repo.FindUserByEmail(email)
	if err != nil || user == nil || user.ID == 0 {
		return nil, apperr.Unauthenticated("invalid email or password")
	}

	if user.EmailVerifiedAt == nil {
		return nil, apperr.Forbidden("please verify email")
	}
	if user.Status != "" && user.Status != "active" {
		return nil, apperr.Forbidden("account is not active")
	}

	if err := u.auth.VerifyPassword(password, user.PasswordHash); err != nil {
		return nil, apperr.Unauthenticated("invalid email or password")
	}

	return user, nil
}

func (u *userService) ForgotPassword(email string) error {
	email = strings.TrimSpace(strings.ToLower(email))

	user, err := u.repo.FindUserByEmail(email)
	if err != nil || user == nil {
		// do not reveal whether the address exists
		return nil
	}

	plain, err := utils.RandomToken(32)
	if err != nil {
		return apperr.Storage("generate reset token", err)
	}
	exp := time.Now().Add(30 * time.Minute)

	user.ResetTokenHash = utils.Sha256Hex(plain)
	user.ResetTokenExpiresAt = &exp
	if err := u.repo.SaveUser(user); err != nil {
		return apperr.Storage("save user", err)
	}

	u.publish(dto.EventResetPassword, dto.ResetPasswordEvent{
		UserID:    user.ID,
		Email:     user.Email,
		Token:     plain,
		ExpiresAt: exp.Format(time.RFC3339),
	})

	return nil
}

func (u *userService) SetPassword(input dto.SetPasswordRequest) error {
	token := strings.TrimSpace(input.Token)
	newPassword := strings.TrimSpace(input.NewPassword)

	if token == "" || newPassword == "" {
		return apperr.Validation("token and new_password are required")
	}
	if len(newPassword) < 6 {
		return apperr.Validation("password must be at least 6 characters")
	}

	user, err := u.repo.FindUserByResetToken(utils.Sha256Hex(token))
	if err != nil || user == nil {
		return apperr.Validation("invalid or expired token")
	}
	if user.ResetTokenExpiresAt == nil || time.Now().After(*user.ResetTokenExpiresAt) {
		return apperr.Validation("invalid or expired token")
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return apperr.Storage("hash password", err)
	}

	user.PasswordHash = string(hashedPassword)
	user.ResetTokenHash = ""
	user.ResetTokenExpiresAt = nil

	if err := u.repo.SaveUser(user); err != nil {
		return apperr.Storage("save user", err)
	}
	return nil
}

/* =========================
   PROFILE
========================= */

func (u *userService) GetMe(userID uint) (*dto.UserResponse, error) {
	if userID == 0 {
		return nil, apperr.Unauthenticated("login required")
	}

	user, err := u.repo.FindUserById(userID)
	if err != nil || user == nil {
		return nil, apperr.NotFound("user not found")
	}

	isAdmin, err := u.gate.IsAdmin(userID)
	if err != nil {
		return nil, err
	}

	return &dto.UserResponse{
		ID:       user.ID,
		Email:    user.Email,
		FullName: user.FullName,
		Status:   user.Status,
		IsAdmin:  isAdmin,
	}, nil
}

func (u *userService) GetProfile(userID uint) (*domain.Profile, error) {
	if userID == 0 {
		return nil, apperr.Unauthenticated("login required")
	}

	profile, err := u.profileRepo.FindByUserID(userID)
	if err != nil || profile == nil {
		return nil, apperr.NotFound("profile not found")
	}
	return profile, nil
}

func (u *userService) UpsertProfile(userID uint, input dto.UpsertProfileRequest) (*domain.Profile, error) {
	if userID == 0 {
		return nil, apperr.Unauthenticated("login required")
	}

	fullName := strings.TrimSpace(input.FullName)
	phone := strings.TrimSpace(input.PhoneNumber)
	if fullName == "" {
		return nil, apperr.Validation("full_name is required")
	}
	if phone == "" {
		return nil, apperr.Validation("phone_number is required")
	}

	// Diaspora applicants report a country; residents report state and LGA.
	if input.IsDiaspora {
		if input.Country == nil || strings.TrimSpace(*input.Country) == "" {
			return nil, apperr.Validation("country is required for diaspora applicants")
		}
	} else {
		if input.State == nil || strings.TrimSpace(*input.State) == "" {
			return nil, apperr.Validation("state is required")
		}
		if input.LGA == nil || strings.TrimSpace(*input.LGA) == "" {
			return nil, apperr.Validation("lga is required")
		}
	}

	user, err := u.repo.FindUserById(userID)
	if err != nil || user == nil {
		return nil, apperr.NotFound("user not found")
	}

	profile := &domain.Profile{
		UserID:      userID,
		FullName:    fullName,
		Email:       user.Email,
		PhoneNumber: &phone,
		AgeRange:    input.AgeRange,

		NationalIDType:   input.NationalIDType,
		NationalIDNumber: input.NationalIDNumber,

		IsDiaspora: input.IsDiaspora,
		Country:    input.Country,
		State:      input.State,
		LGA:        input.LGA,
		Address:    input.Address,

		ProfilePictureURL: input.ProfilePictureURL,
	}

	if input.DateOfBirth != nil && strings.TrimSpace(*input.DateOfBirth) != "" {
		dob, err := time.Parse("2006-01-02", strings.TrimSpace(*input.DateOfBirth))
		if err != nil {
			return nil, apperr.Validation("date_of_birth must be YYYY-MM-DD")
		}
		profile.DateOfBirth = &dob
	}

	if err := u.profileRepo.Upsert(profile); err != nil {
		return nil, apperr.Storage("save profile", err)
	}
	return profile, nil
}

/* =========================
   ADMIN
========================= */

func (u *userService) ListProfiles(actorID uint, limit, offset int) ([]domain.Profile, error) {
	if err := u.gate.RequireAdmin(actorID); err != nil {
		return nil, err
	}

	profiles, err := u.profileRepo.ListAll(limit, offset)
	if err != nil {
		return nil, apperr.Storage("list profiles", err)
	}
	return profiles, nil
}

func (u *userService) publish(key string, payload any) {
	if u.producer == nil {
		return
	}
	b, err := json.Marshal(payload)
	if err != nil {
		log.Printf("marshal %s event: %v", key, err)
		return
	}
	if err := u.producer.PublishMessage([]byte(key), b); err != nil {
		log.Printf("publish %s event: %v", key, err)
	}
}
