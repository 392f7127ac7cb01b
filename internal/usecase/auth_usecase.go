package usecase

import (
	"context"
	"strings"

	"go-appointment-booking/internal/converter"
	"go-appointment-booking/internal/delivery/dto"
	"go-appointment-booking/internal/domain/entity"
	"go-appointment-booking/internal/domain/repository"
	"go-appointment-booking/internal/service"
	"go-appointment-booking/pkg/jwt"

	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type AuthUsecase interface {
	RegisterPatient(ctx context.Context, req *dto.RegisterPatientRequest) (*dto.UserResponse, error)
	RegisterDoctor(ctx context.Context, req *dto.RegisterDoctorRequest) (*dto.UserResponse, error)
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error)
	Logout(ctx context.Context, principal entity.Principal, req *dto.LogoutRequest) error
	RefreshToken(ctx context.Context, req *dto.RefreshTokenRequest) (*dto.TokenResponse, error)
	GetCurrentUser(ctx context.Context, principal entity.Principal) (*dto.UserResponse, error)
}

type authUsecase struct {
	db           *gorm.DB
	log          *logrus.Logger
	userRepo     repository.UserRepository
	roleRepo     repository.RoleRepository
	doctorRepo   repository.DoctorRepository
	auditService service.AuditService
	tokenStore   service.TokenStore
	directory    service.DoctorDirectory
	jwtService   *jwt.JWTService
	hashCost     int
}

func NewAuthUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	userRepo repository.UserRepository,
	roleRepo repository.RoleRepository,
	doctorRepo repository.DoctorRepository,
	auditService service.AuditService,
	tokenStore service.TokenStore,
	directory service.DoctorDirectory,
	jwtService *jwt.JWTService,
) AuthUsecase {
	return &authUsecase{
		db:           db,
		log:          log,
		userRepo:     userRepo,
		roleRepo:     roleRepo,
		doctorRepo:   doctorRepo,
		auditService: auditService,
		tokenStore:   tokenStore,
		directory:    directory,
		jwtService:   jwtService,
		hashCost:     bcrypt.DefaultCost,
	}
}

func (u *authUsecase) RegisterPatient(ctx context.Context, req *dto.RegisterPatientRequest) (*dto.UserResponse, error) {
	tx := u.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return nil, storeError(tx.Error)
	}
	defer tx.Rollback()

	user, err := u.createUser(ctx, tx, req.Email, req.Password, req.FullName, req.Phone, entity.RolePatient)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, storeError(err)
	}

	return converter.UserToResponse(user, []string{entity.RolePatient}), nil
}

// RegisterDoctor creates the user account, the doctor role grant and the doctor profile together
func (u *authUsecase) RegisterDoctor(ctx context.Context, req *dto.RegisterDoctorRequest) (*dto.UserResponse, error) {
	tx := u.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return nil, storeError(tx.Error)
	}
	defer tx.Rollback()

	user, err := u.createUser(ctx, tx, req.Email, req.Password, req.FullName, req.Phone, entity.RoleDoctor)
	if err != nil {
		return nil, err
	}

	doctor := &entity.Doctor{
		UserID:          user.ID,
		Specialization:  req.Specialization,
		Qualification:   req.Qualification,
		ExperienceYears: req.ExperienceYears,
		About:           req.About,
	}

	if err := u.doctorRepo.Create(tx, doctor); err != nil {
		u.log.Warnf("Failed to create doctor profile: %+v", err)
		return nil, storeError(err)
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, storeError(err)
	}

	u.directory.Invalidate()

	doctor.User = user
	response := converter.UserToResponse(user, []string{entity.RoleDoctor})
	response.Doctor = converter.DoctorToResponse(doctor)
	return response, nil
}

func (u *authUsecase) createUser(ctx context.Context, tx *gorm.DB, email, password, fullName string, phone *string, role string) (*entity.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	existing, err := u.userRepo.FindByEmail(tx, email)
	if err != nil {
		u.log.Warnf("Failed to find user by email: %+v", err)
		return nil, storeError(err)
	}
	if existing != nil {
		return nil, ErrEmailAlreadyExists
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), u.hashCost)
	if err != nil {
		u.log.Warnf("Failed to hash password: %+v", err)
		return nil, err
	}

	user := &entity.User{
		Email:    email,
		Password: string(hashedPassword),
		FullName: fullName,
		Phone:    phone,
		IsActive: true,
	}

	if err := u.userRepo.Create(tx, user); err != nil {
		if isDuplicateKeyError(err, "email") {
			return nil, ErrEmailAlreadyExists
		}
		u.log.Warnf("Failed to create user: %+v", err)
		return nil, storeError(err)
	}

	if err := u.roleRepo.AssignRole(tx, user.ID, role); err != nil {
		u.log.Warnf("Failed to assign role %s: %+v", role, err)
		return nil, storeError(err)
	}

	if err := u.auditService.LogCreate(ctx, tx, &user.ID, entity.AuditActionUserRegister, "user", user.ID.String(),
		map[string]interface{}{"email": user.Email, "role": role},
	); err != nil {
		return nil, storeError(err)
	}

	return user, nil
}

func (u *authUsecase) Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error) {
	// read-only, no transaction needed
	user, err := u.userRepo.FindByEmail(u.db.WithContext(ctx), strings.ToLower(strings.TrimSpace(req.Email)))
	if err != nil {
		u.log.Warnf("Failed to find user by email: %+v", err)
		return nil, storeError(err)
	}
	if user == nil {
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, ErrUserInactive
	}

	tokens, err := u.issueTokens(ctx, user, user.RoleNames())
	if err != nil {
		return nil, err
	}

	if err := u.auditService.LogCreate(ctx, u.db, &user.ID, entity.AuditActionUserLogin, "user", user.ID.String(), nil); err != nil {
		u.log.Warnf("Failed to audit login for user %s: %+v", user.ID, err)
	}

	return tokens, nil
}

// Logout revokes the caller's access token and, when supplied, the matching refresh token
func (u *authUsecase) Logout(ctx context.Context, principal entity.Principal, req *dto.LogoutRequest) error {
	if !principal.IsAuthenticated() {
		return ErrUnauthenticated
	}

	if err := u.tokenStore.Revoke(ctx, jwt.AccessToken, principal.UserID, principal.TokenID); err != nil {
		u.log.Warnf("Failed to revoke access token: %+v", err)
		return storeError(err)
	}

	if req != nil && req.RefreshToken != "" {
		claims, err := u.jwtService.ValidateToken(req.RefreshToken)
		if err == nil && claims.TokenType == jwt.RefreshToken && claims.UserID == principal.UserID {
			if err := u.tokenStore.Revoke(ctx, jwt.RefreshToken, claims.UserID, claims.TokenID); err != nil {
				u.log.Warnf("Failed to revoke refresh token: %+v", err)
				return storeError(err)
			}
		}
	}

	if err := u.auditService.LogCreate(ctx, u.db, &principal.UserID, entity.AuditActionUserLogout, "user", principal.UserID.String(), nil); err != nil {
		u.log.Warnf("Failed to audit logout for user %s: %+v", principal.UserID, err)
	}

	return nil
}

// RefreshToken rotates a refresh token into a new token pair. Roles are reloaded so
// grants changed since login take effect.
func (u *authUsecase) RefreshToken(ctx context.Context, req *dto.RefreshTokenRequest) (*dto.TokenResponse, error) {
	claims, err := u.jwtService.ValidateToken(req.RefreshToken)
	if err != nil || claims.TokenType != jwt.RefreshToken {
		return nil, ErrInvalidToken
	}

	active, err := u.tokenStore.IsActive(ctx, jwt.RefreshToken, claims.UserID, claims.TokenID)
	if err != nil {
		u.log.Warnf("Failed to check refresh token: %+v", err)
		return nil, storeError(err)
	}
	if !active {
		return nil, ErrTokenRevoked
	}

	db := u.db.WithContext(ctx)
	user, err := u.userRepo.FindByID(db, claims.UserID)
	if err != nil {
		u.log.Warnf("Failed to find user by ID: %+v", err)
		return nil, storeError(err)
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	if !user.IsActive {
		return nil, ErrUserInactive
	}

	roles, err := u.roleRepo.FindRolesByUserID(db, user.ID)
	if err != nil {
		u.log.Warnf("Failed to find roles for user %s: %+v", user.ID, err)
		return nil, storeError(err)
	}

	if err := u.tokenStore.Revoke(ctx, jwt.RefreshToken, claims.UserID, claims.TokenID); err != nil {
		u.log.Warnf("Failed to delete old refresh token: %+v", err)
		return nil, storeError(err)
	}

	return u.issueTokens(ctx, user, roles)
}

func (u *authUsecase) GetCurrentUser(ctx context.Context, principal entity.Principal) (*dto.UserResponse, error) {
	if !principal.IsAuthenticated() {
		return nil, ErrUnauthenticated
	}

	db := u.db.WithContext(ctx)
	user, err := u.userRepo.FindByID(db, principal.UserID)
	if err != nil {
		u.log.Warnf("Failed to find user by ID: %+v", err)
		return nil, storeError(err)
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	response := converter.UserToResponse(user, nil)

	if principal.HasRole(entity.RoleDoctor) {
		doctor, err := u.doctorRepo.FindByUserID(db, user.ID)
		if err != nil {
			u.log.Warnf("Failed to find doctor profile for user %s: %+v", user.ID, err)
			return nil, storeError(err)
		}
		response.Doctor = converter.DoctorToResponse(doctor)
	}

	return response, nil
}

func (u *authUsecase) issueTokens(ctx context.Context, user *entity.User, roles []string) (*dto.TokenResponse, error) {
	accessToken, accessTokenID, err := u.jwtService.GenerateAccessToken(user.ID, user.Email, roles)
	if err != nil {
		u.log.Warnf("Failed to generate access token: %+v", err)
		return nil, err
	}

	refreshToken, refreshTokenID, err := u.jwtService.GenerateRefreshToken(user.ID, user.Email)
	if err != nil {
		u.log.Warnf("Failed to generate refresh token: %+v", err)
		return nil, err
	}

	if err := u.tokenStore.Register(ctx, jwt.AccessToken, user.ID, accessTokenID, u.jwtService.GetAccessExpiry()); err != nil {
		u.log.Warnf("Failed to store access token: %+v", err)
		return nil, storeError(err)
	}

	if err := u.tokenStore.Register(ctx, jwt.RefreshToken, user.ID, refreshTokenID, u.jwtService.GetRefreshExpiry()); err != nil {
		u.log.Warnf("Failed to store refresh token: %+v", err)
		return nil, storeError(err)
	}

	return &dto.TokenResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int64(u.jwtService.GetAccessExpiry().Seconds()),
	}, nil
}
