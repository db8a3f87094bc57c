package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"woodzire_server/database"
	"woodzire_server/lib"
	"woodzire_server/structs"
	"woodzire_server/structs/tables"

	"github.com/MonkyMars/gecho"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

var (
	ErrUserNotFound = fmt.Errorf("user %w", lib.ErrNotFound)
	ErrEmailTaken   = fmt.Errorf("email already registered: %w", lib.ErrConflict)
	ErrInvalidRole  = fmt.Errorf("unknown role: %w", lib.ErrInvalid)
)

type AuthService struct {
	logger       *gecho.Logger
	cfg          *structs.Config
	db           *database.DB
	cacheService *CacheService
}

func NewAuthService(cfg *structs.Config, logger *gecho.Logger, db *database.DB, cacheService *CacheService) *AuthService {
	return &AuthService{
		logger:       logger,
		cfg:          cfg,
		db:           db,
		cacheService: cacheService,
	}
}

// Register creates the profile with the plain user role and signs the
// user in.
func (as *AuthService) Register(ctx context.Context, req *structs.RegisterRequest) (*structs.AuthResponse, error) {
	startTime := time.Now()

	passwordHash, err := lib.HashPassword(req.Password, lib.DefaultArgonParams)
	if err != nil {
		as.logger.Error("Failed to hash password", gecho.Field("error", err))
		return nil, err
	}

	profile, err := database.TransactionWithResult(as.db, ctx, func(ctx context.Context, tx bun.Tx) (*tables.Profile, error) {
		profile := &tables.Profile{
			Email:        normalizeEmail(req.Email),
			PasswordHash: passwordHash,
			FullName:     strings.TrimSpace(req.FullName),
			Phone:        strings.TrimSpace(req.Phone),
		}
		if _, err := database.QueryTx[tables.Profile](tx).Insert(ctx, profile); err != nil {
			return nil, lib.MapPgError(err)
		}
		_, err := database.QueryTx[tables.UserRole](tx).Insert(ctx, &tables.UserRole{UserID: profile.ID, Role: tables.RoleUser})
		return profile, lib.MapPgError(err)
	})
	if err != nil {
		if lib.IsUniqueViolation(err) {
			as.logger.Warn("Registration failed - duplicate email", gecho.Field("email", req.Email))
			return nil, ErrEmailTaken
		}
		as.logger.Error("Database error during registration", gecho.Field("error", err))
		return nil, err
	}

	as.logger.Debug("User registered successfully",
		gecho.Field("user_id", profile.ID),
		gecho.Field("elapsed_time_ms", time.Since(startTime).Milliseconds()))

	return as.issueTokens(toUser(profile, tables.RoleUser))
}

// Login never reveals whether the email exists.
func (as *AuthService) Login(ctx context.Context, req *structs.LoginRequest) (*structs.AuthResponse, error) {
	startTime := time.Now()

	profile, err := database.Query[tables.Profile](as.db).Where("email", normalizeEmail(req.Email)).First(ctx)
	if err != nil {
		as.logger.Error("Unexpected database error during login", gecho.Field("error", lib.MapPgError(err)))
		return nil, lib.ErrInvalidCredentials
	}
	if profile == nil {
		as.logger.Debug("User not found during login attempt", gecho.Field("identifier", req.Email))
		return nil, lib.ErrInvalidCredentials
	}

	valid, err := lib.VerifyPassword(req.Password, profile.PasswordHash)
	if err != nil {
		as.logger.Error("Failed to verify password hash", gecho.Field("error", err), gecho.Field("user_id", profile.ID))
		return nil, err
	}
	if !valid {
		as.logger.Debug("Invalid password attempt", gecho.Field("user_id", profile.ID))
		return nil, lib.ErrInvalidCredentials
	}

	now := time.Now()
	profile.LastLogin = &now
	if err := database.Query[tables.Profile](as.db).UpdateModel(ctx, profile, "last_login"); err != nil {
		as.logger.Warn("Failed to update last login", gecho.Field("error", err), gecho.Field("user_id", profile.ID))
	}

	role, err := as.resolveRole(ctx, profile.ID)
	if err != nil {
		return nil, err
	}

	as.logger.Debug("User logged in successfully",
		gecho.Field("user_id", profile.ID),
		gecho.Field("elapsed_time_ms", time.Since(startTime).Milliseconds()))
	return as.issueTokens(toUser(profile, role))
}

// Refresh rotates the pair. The presented refresh token is blacklisted so
// it cannot be replayed.
func (as *AuthService) Refresh(ctx context.Context, refreshToken string) (*structs.AuthResponse, error) {
	claims, err := lib.ParseToken(refreshToken, as.cfg.Auth.RefreshTokenSecret)
	if err != nil {
		as.logger.Debug("Failed to parse refresh token", gecho.Field("error", err))
		return nil, err
	}

	blacklisted, err := as.cacheService.IsTokenBlacklisted(ctx, claims.Jti)
	if err != nil {
		as.logger.Error("Failed to check if token is blacklisted", gecho.Field("error", err), gecho.Field("jti", claims.Jti))
		return nil, err
	}
	if blacklisted {
		as.logger.Warn("Refresh token is blacklisted", gecho.Field("jti", claims.Jti))
		return nil, lib.ErrInvalidToken
	}

	user, err := as.GetUser(ctx, claims.Sub)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, lib.ErrInvalidToken
		}
		return nil, err
	}

	if err := as.cacheService.BlacklistToken(ctx, claims.Jti, claims.Exp); err != nil {
		as.logger.Warn("Failed to blacklist rotated refresh token", gecho.Field("error", err), gecho.Field("jti", claims.Jti))
	}
	return as.issueTokens(user)
}

// Logout blacklists the refresh token until it would have expired anyway.
func (as *AuthService) Logout(ctx context.Context, refreshToken string) error {
	if refreshToken == "" {
		return nil
	}
	claims, err := lib.ParseToken(refreshToken, as.cfg.Auth.RefreshTokenSecret)
	if err != nil {
		return nil
	}
	if err := as.cacheService.BlacklistToken(ctx, claims.Jti, claims.Exp); err != nil {
		as.logger.Error("Failed to blacklist refresh token", gecho.Field("error", err), gecho.Field("jti", claims.Jti))
		return err
	}
	return nil
}

func (as *AuthService) GetUser(ctx context.Context, id uuid.UUID) (*structs.User, error) {
	profile, err := database.FindByID[tables.Profile](as.db, ctx, id)
	if err != nil {
		as.logger.Error("Failed to find user by ID", gecho.Field("error", err), gecho.Field("user_id", id))
		return nil, lib.MapPgError(err)
	}
	if profile == nil {
		return nil, ErrUserNotFound
	}
	role, err := as.resolveRole(ctx, id)
	if err != nil {
		return nil, err
	}
	return toUser(profile, role), nil
}

// resolveRole picks the highest-ranked grant; no grants means user.
func (as *AuthService) resolveRole(ctx context.Context, userID uuid.UUID) (tables.Role, error) {
	grants, err := database.Query[tables.UserRole](as.db).Where("user_id", userID).All(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to load roles: %w", lib.MapPgError(err))
	}
	return highestRole(grants), nil
}

func highestRole(grants []tables.UserRole) tables.Role {
	role := tables.RoleUser
	for _, g := range grants {
		if g.Role.Rank() > role.Rank() {
			role = g.Role
		}
	}
	return role
}

func (as *AuthService) GrantRole(ctx context.Context, userID uuid.UUID, role tables.Role) error {
	if !role.IsValid() {
		return ErrInvalidRole
	}
	exists, err := database.Query[tables.Profile](as.db).Where("id", userID).Exists(ctx)
	if err != nil {
		return fmt.Errorf("failed to load user: %w", lib.MapPgError(err))
	}
	if !exists {
		return ErrUserNotFound
	}
	if _, err := database.Query[tables.UserRole](as.db).Upsert(ctx, &tables.UserRole{UserID: userID, Role: role}, "user_id, role"); err != nil {
		return fmt.Errorf("failed to grant role: %w", lib.MapPgError(err))
	}
	as.logger.Info("Role granted", gecho.Field("user_id", userID), gecho.Field("role", role))
	return nil
}

// GrantRoleByEmail is used to bootstrap the first admin from the CLI.
func (as *AuthService) GrantRoleByEmail(ctx context.Context, email string, role tables.Role) error {
	profile, err := database.Query[tables.Profile](as.db).Where("email", normalizeEmail(email)).First(ctx)
	if err != nil {
		return fmt.Errorf("failed to load user: %w", lib.MapPgError(err))
	}
	if profile == nil {
		return ErrUserNotFound
	}
	return as.GrantRole(ctx, profile.ID, role)
}

func (as *AuthService) RevokeRole(ctx context.Context, userID uuid.UUID, role tables.Role) error {
	if !role.IsValid() {
		return ErrInvalidRole
	}
	if _, err := database.Query[tables.UserRole](as.db).Where("user_id", userID).Where("role", role).Delete(ctx); err != nil {
		return fmt.Errorf("failed to revoke role: %w", lib.MapPgError(err))
	}
	as.logger.Info("Role revoked", gecho.Field("user_id", userID), gecho.Field("role", role))
	return nil
}

func (as *AuthService) issueTokens(user *structs.User) (*structs.AuthResponse, error) {
	access, _, err := lib.SignToken(user.ID, user.Email, string(user.Role), as.cfg.Auth.AccessTokenExpiry, as.cfg.Auth.AccessTokenSecret)
	if err != nil {
		as.logger.Error("Failed to generate access token", gecho.Field("error", err), gecho.Field("user_id", user.ID))
		return nil, err
	}
	refresh, _, err := lib.SignToken(user.ID, user.Email, string(user.Role), as.cfg.Auth.RefreshTokenExpiry, as.cfg.Auth.RefreshTokenSecret)
	if err != nil {
		as.logger.Error("Failed to generate refresh token", gecho.Field("error", err), gecho.Field("user_id", user.ID))
		return nil, err
	}
	return &structs.AuthResponse{User: user, AccessToken: access, RefreshToken: refresh}, nil
}

func (as *AuthService) AccessTokenExpiry() time.Time {
	return time.Now().Add(as.cfg.Auth.AccessTokenExpiry)
}

func (as *AuthService) RefreshTokenExpiry() time.Time {
	return time.Now().Add(as.cfg.Auth.RefreshTokenExpiry)
}

func toUser(p *tables.Profile, role tables.Role) *structs.User {
	return &structs.User{
		ID:        p.ID,
		Email:     p.Email,
		FullName:  p.FullName,
		Phone:     p.Phone,
		Role:      role,
		LastLogin: p.LastLogin,
		CreatedAt: p.CreatedAt,
	}
}
