package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/medilink/telehealth-api/internal/converter"
	"github.com/medilink/telehealth-api/internal/delivery/dto"
	"github.com/medilink/telehealth-api/internal/domain/entity"
	"github.com/medilink/telehealth-api/internal/domain/repository"
	"github.com/medilink/telehealth-api/internal/infrastructure/identity"
	"github.com/medilink/telehealth-api/internal/service"
	"github.com/medilink/telehealth-api/internal/session"
	"github.com/medilink/telehealth-api/pkg/jwt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrEmailAlreadyExists   = errors.New("email already exists")
	ErrLicenseAlreadyExists = errors.New("license number already exists")
	ErrInvalidCredentials   = errors.New("invalid email or password")
	ErrInvalidToken         = errors.New("invalid or expired token")
	ErrTokenRevoked         = errors.New("token has been revoked")
	ErrUserNotFound         = errors.New("user not found")
	ErrRoleNotFound         = errors.New("role not found")
	ErrAccountDisabled      = errors.New("account is disabled")
	ErrIdentityRejected     = errors.New("identity provider rejected the token")
	ErrInvalidDateFormat    = errors.New("invalid date format, use YYYY-MM-DD")
)

type AuthUsecase interface {
	RegisterPatient(ctx context.Context, req *dto.RegisterPatientRequest) (*dto.UserResponse, error)
	RegisterDoctor(ctx context.Context, req *dto.RegisterDoctorRequest) (*dto.UserResponse, error)
	Login(ctx context.Context, sessionID string, req *dto.LoginRequest) (*dto.LoginResponse, error)
	ExchangeIDToken(ctx context.Context, sessionID string, req *dto.ExchangeTokenRequest) (*dto.LoginResponse, error)
	BootstrapSession(ctx context.Context, sessionID string) (*dto.SessionResponse, error)
	Logout(ctx context.Context, sessionID string, userID uuid.UUID) error
	RefreshToken(ctx context.Context, req *dto.RefreshTokenRequest) (*dto.TokenResponse, error)
	GetCurrentUser(ctx context.Context, userID uuid.UUID) (*dto.UserResponse, error)
}

type authUsecase struct {
	db                 *gorm.DB
	log                *logrus.Logger
	userRepo           repository.UserRepository
	doctorProfileRepo  repository.DoctorProfileRepository
	patientProfileRepo repository.PatientProfileRepository
	jwtService         *jwt.JWTService
	registry           session.TokenRegistry
	sessionStore       *session.Store
	identityProvider   identity.Provider
	auditService       service.AuditService
}

func NewAuthUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	userRepo repository.UserRepository,
	doctorProfileRepo repository.DoctorProfileRepository,
	patientProfileRepo repository.PatientProfileRepository,
	jwtService *jwt.JWTService,
	registry session.TokenRegistry,
	sessionStore *session.Store,
	identityProvider identity.Provider,
	auditService service.AuditService,
) AuthUsecase {
	return &authUsecase{
		db:                 db,
		log:                log,
		userRepo:           userRepo,
		doctorProfileRepo:  doctorProfileRepo,
		patientProfileRepo: patientProfileRepo,
		jwtService:         jwtService,
		registry:           registry,
		sessionStore:       sessionStore,
		identityProvider:   identityProvider,
		auditService:       auditService,
	}
}

func (u *authUsecase) RegisterPatient(ctx context.Context, req *dto.RegisterPatientRequest) (*dto.UserResponse, error) {
	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	dob, err := time.Parse("2006-01-02", req.DateOfBirth)
	if err != nil {
		return nil, ErrInvalidDateFormat
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		u.log.Warnf("Failed to hash password: %+v", err)
		return nil, err
	}

	user := &entity.User{
		Email:    req.Email,
		Password: string(hashedPassword),
		FullName: req.FullName,
		RoleID:   entity.RoleIDPatient,
		IsActive: true,
	}

	if err := u.userRepo.Create(tx, user); err != nil {
		if isDuplicateKeyError(err, "email") {
			return nil, ErrEmailAlreadyExists
		}
		if isForeignKeyError(err, "role") {
			return nil, ErrRoleNotFound
		}
		u.log.Warnf("Failed to create user: %+v", err)
		return nil, err
	}

	patientProfile := &entity.PatientProfile{
		UserID:      user.ID,
		PhoneNumber: req.PhoneNumber,
		DateOfBirth: dob,
		Gender:      req.Gender,
		Address:     req.Address,
	}

	if err := u.patientProfileRepo.Create(tx, patientProfile); err != nil {
		u.log.Warnf("Failed to create patient profile: %+v", err)
		return nil, err
	}

	if err := u.auditService.Log(ctx, tx, &user.ID, entity.AuditActionUserRegister, entity.JSON{"role": entity.RolePatient}); err != nil {
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	user.PatientProfile = patientProfile
	return converter.UserToResponse(user), nil
}

func (u *authUsecase) RegisterDoctor(ctx context.Context, req *dto.RegisterDoctorRequest) (*dto.UserResponse, error) {
	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		u.log.Warnf("Failed to hash password: %+v", err)
		return nil, err
	}

	user := &entity.User{
		Email:    req.Email,
		Password: string(hashedPassword),
		FullName: req.FullName,
		RoleID:   entity.RoleIDDoctor,
		IsActive: true,
	}

	if err := u.userRepo.Create(tx, user); err != nil {
		if isDuplicateKeyError(err, "email") {
			return nil, ErrEmailAlreadyExists
		}
		if isForeignKeyError(err, "role") {
			return nil, ErrRoleNotFound
		}
		u.log.Warnf("Failed to create user: %+v", err)
		return nil, err
	}

	doctorProfile := &entity.DoctorProfile{
		UserID:          user.ID,
		Specialization:  req.Specialization,
		LicenseNumber:   req.LicenseNumber,
		ConsultationFee: decimal.NewFromFloat(req.ConsultationFee),
		ExperienceYears: req.ExperienceYears,
		HospitalName:    req.HospitalName,
		HospitalAddress: req.HospitalAddress,
		Biography:       req.Biography,

		IsAcceptingAppointments: true,
	}

	if err := u.doctorProfileRepo.Create(tx, doctorProfile); err != nil {
		if isDuplicateKeyError(err, "license_number") {
			return nil, ErrLicenseAlreadyExists
		}
		u.log.Warnf("Failed to create doctor profile: %+v", err)
		return nil, err
	}

	if err := u.auditService.Log(ctx, tx, &user.ID, entity.AuditActionUserRegister, entity.JSON{"role": entity.RoleDoctor}); err != nil {
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	user.DoctorProfile = doctorProfile
	return converter.UserToResponse(user), nil
}

func (u *authUsecase) Login(ctx context.Context, sessionID string, req *dto.LoginRequest) (*dto.LoginResponse, error) {
	user, err := u.userRepo.FindByEmail(u.db.WithContext(ctx), req.Email)
	if err != nil {
		u.log.Warnf("Failed to find user by email: %+v", err)
		return nil, err
	}
	if user == nil {
		return nil, ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, ErrAccountDisabled
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	token, err := u.issueTokens(ctx, user)
	if err != nil {
		return nil, err
	}

	u.persistSession(ctx, sessionID, token.AccessToken, user)

	_ = u.auditService.Log(ctx, nil, &user.ID, entity.AuditActionUserLogin, nil)

	return &dto.LoginResponse{
		User:  *converter.UserToResponse(user),
		Token: *token,
	}, nil
}

// ExchangeIDToken trades an identity-provider ID token for first-party
// tokens. The provider's verdict on the user's role and profile is
// authoritative. Accounts are linked by external ID, falling back to email
// for users who registered locally first. Only patient accounts are created
// on the fly; doctor and admin accounts must already exist.
func (u *authUsecase) ExchangeIDToken(ctx context.Context, sessionID string, req *dto.ExchangeTokenRequest) (*dto.LoginResponse, error) {
	info, err := u.identityProvider.VerifyIDToken(ctx, req.IDToken)
	if err != nil {
		if errors.Is(err, identity.ErrTokenRejected) {
			return nil, ErrIdentityRejected
		}
		u.log.Warnf("Failed to verify ID token: %+v", err)
		return nil, err
	}

	user, err := u.findOrCreateExternalUser(ctx, info)
	if err != nil {
		return nil, err
	}
	if !user.IsActive {
		return nil, ErrAccountDisabled
	}

	token, err := u.issueTokens(ctx, user)
	if err != nil {
		return nil, err
	}

	u.persistSession(ctx, sessionID, token.AccessToken, user)

	_ = u.auditService.Log(ctx, nil, &user.ID, entity.AuditActionTokenExchange, entity.JSON{"external_id": info.ExternalID})

	return &dto.LoginResponse{
		User:  *converter.UserToResponse(user),
		Token: *token,
	}, nil
}

// BootstrapSession restores an authenticated session from its persisted
// token/user pair. Every validation failure clears the pair and yields an
// unauthenticated session rather than an error.
func (u *authUsecase) BootstrapSession(ctx context.Context, sessionID string) (*dto.SessionResponse, error) {
	sess, err := u.sessionStore.Initialize(ctx, sessionID)
	if err != nil {
		u.log.Warnf("Failed to bootstrap session %s: %+v", sessionID, err)
		return nil, err
	}

	response := &dto.SessionResponse{Authenticated: sess.Authenticated}
	if sess.Authenticated {
		response.User = &dto.SessionUserResponse{
			ID:           sess.User.ID,
			Role:         sess.User.Role,
			Email:        sess.User.Email,
			FullName:     sess.User.FullName,
			ProfileImage: sess.User.ProfileImage,
		}
	}
	return response, nil
}

// Logout revokes every live token for the user, signs the user out at the
// identity provider when the account is linked, and clears the persisted
// session pair. The local clear happens even when the remote sign-out fails.
func (u *authUsecase) Logout(ctx context.Context, sessionID string, userID uuid.UUID) error {
	if err := u.registry.RevokeAll(ctx, userID.String()); err != nil {
		u.log.Warnf("Failed to revoke tokens: %+v", err)
		return err
	}

	externalID := ""
	user, err := u.userRepo.FindByID(u.db.WithContext(ctx), userID)
	if err != nil {
		u.log.Warnf("Failed to find user for logout: %+v", err)
	} else if user != nil && user.ExternalID != nil {
		externalID = *user.ExternalID
	}

	if err := u.sessionStore.Logout(ctx, sessionID, externalID); err != nil {
		return err
	}

	_ = u.auditService.Log(ctx, nil, &userID, entity.AuditActionUserLogout, nil)
	return nil
}

func (u *authUsecase) RefreshToken(ctx context.Context, req *dto.RefreshTokenRequest) (*dto.TokenResponse, error) {
	claims, err := u.jwtService.ValidateToken(req.RefreshToken)
	if err != nil {
		return nil, ErrInvalidToken
	}
	if claims.TokenType != jwt.RefreshToken {
		return nil, ErrInvalidToken
	}

	active, err := u.registry.IsActive(ctx, session.KindRefresh, claims.UserID.String(), claims.TokenID)
	if err != nil {
		u.log.Warnf("Failed to check refresh token: %+v", err)
		return nil, err
	}
	if !active {
		return nil, ErrTokenRevoked
	}

	user, err := u.userRepo.FindByID(u.db.WithContext(ctx), claims.UserID)
	if err != nil {
		u.log.Warnf("Failed to find user by ID: %+v", err)
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	if !user.IsActive {
		return nil, ErrAccountDisabled
	}

	// Rotate: the old refresh token dies with the exchange.
	if err := u.registry.Revoke(ctx, session.KindRefresh, claims.UserID.String(), claims.TokenID); err != nil {
		u.log.Warnf("Failed to revoke old refresh token: %+v", err)
		return nil, err
	}

	return u.issueTokens(ctx, user)
}

func (u *authUsecase) GetCurrentUser(ctx context.Context, userID uuid.UUID) (*dto.UserResponse, error) {
	user, err := u.userRepo.FindByID(u.db.WithContext(ctx), userID)
	if err != nil {
		u.log.Warnf("Failed to find user by ID: %+v", err)
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	return converter.UserToResponse(user), nil
}

func (u *authUsecase) issueTokens(ctx context.Context, user *entity.User) (*dto.TokenResponse, error) {
	accessToken, accessTokenID, err := u.jwtService.GenerateAccessToken(user.ID, user.Email, user.RoleID, user.RoleName())
	if err != nil {
		u.log.Warnf("Failed to generate access token: %+v", err)
		return nil, err
	}

	refreshToken, refreshTokenID, err := u.jwtService.GenerateRefreshToken(user.ID, user.Email, user.RoleID, user.RoleName())
	if err != nil {
		u.log.Warnf("Failed to generate refresh token: %+v", err)
		return nil, err
	}

	if err := u.registry.Store(ctx, session.KindAccess, user.ID.String(), accessTokenID, u.jwtService.GetAccessExpiry()); err != nil {
		u.log.Warnf("Failed to store access token: %+v", err)
		return nil, err
	}
	if err := u.registry.Store(ctx, session.KindRefresh, user.ID.String(), refreshTokenID, u.jwtService.GetRefreshExpiry()); err != nil {
		u.log.Warnf("Failed to store refresh token: %+v", err)
		return nil, err
	}

	return &dto.TokenResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int64(u.jwtService.GetAccessExpiry().Seconds()),
	}, nil
}

// persistSession mirrors the issued credentials into the session store.
// Failures here do not fail the login; the next bootstrap simply comes back
// unauthenticated.
func (u *authUsecase) persistSession(ctx context.Context, sessionID, token string, user *entity.User) {
	if sessionID == "" {
		sessionID = user.ID.String()
	}

	snapshot := &session.User{
		ID:           user.ID.String(),
		Role:         user.RoleName(),
		Email:        user.Email,
		FullName:     user.FullName,
		ProfileImage: user.ProfileImage,
	}
	if _, err := u.sessionStore.Login(ctx, sessionID, token, snapshot); err != nil {
		u.log.Warnf("Failed to persist session %s: %+v", sessionID, err)
	}
}

func (u *authUsecase) findOrCreateExternalUser(ctx context.Context, info *identity.UserInfo) (*entity.User, error) {
	db := u.db.WithContext(ctx)

	user, err := u.userRepo.FindByExternalID(db, info.ExternalID)
	if err != nil {
		u.log.Warnf("Failed to find user by external ID: %+v", err)
		return nil, err
	}
	if user != nil {
		return user, nil
	}

	// Link an existing local account by email.
	user, err = u.userRepo.FindByEmail(db, info.Email)
	if err != nil {
		u.log.Warnf("Failed to find user by email: %+v", err)
		return nil, err
	}
	if user != nil {
		externalID := info.ExternalID
		user.ExternalID = &externalID
		if err := u.userRepo.Update(db, user); err != nil {
			u.log.Warnf("Failed to link external ID: %+v", err)
			return nil, err
		}
		return user, nil
	}

	roleID := entity.RoleIDByName(info.Role)
	if roleID != entity.RoleIDPatient {
		return nil, ErrUserNotFound
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	externalID := info.ExternalID
	user = &entity.User{
		Email:        info.Email,
		FullName:     info.DisplayName,
		ProfileImage: info.ProfileImage,
		ExternalID:   &externalID,
		RoleID:       entity.RoleIDPatient,
		IsActive:     true,
	}

	if err := u.userRepo.Create(tx, user); err != nil {
		if isDuplicateKeyError(err, "email") {
			return nil, ErrEmailAlreadyExists
		}
		u.log.Warnf("Failed to create user: %+v", err)
		return nil, err
	}

	if err := u.patientProfileRepo.Create(tx, &entity.PatientProfile{UserID: user.ID}); err != nil {
		u.log.Warnf("Failed to create patient profile: %+v", err)
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	return user, nil
}

// isDuplicateKeyError checks for a PostgreSQL unique constraint violation
// whose constraint name contains the given fragment.
func isDuplicateKeyError(err error, constraintName string) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if pgErr.Code == "23505" && strings.Contains(strings.ToLower(pgErr.ConstraintName), strings.ToLower(constraintName)) {
			return true
		}
	}
	return false
}

// isForeignKeyError checks for a PostgreSQL foreign key violation whose
// constraint name contains the given fragment.
func isForeignKeyError(err error, constraintName string) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if pgErr.Code == "23503" && strings.Contains(strings.ToLower(pgErr.ConstraintName), strings.ToLower(constraintName)) {
			return true
		}
	}
	return false
}
