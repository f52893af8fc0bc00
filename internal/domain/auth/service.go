package auth

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/pquerna/otp/totp"

	"turno/internal/platform/crypto"
)

var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrMFARequired        = errors.New("mfa code required")
	ErrMFAInvalid         = errors.New("invalid mfa code")
	ErrSessionExpired     = errors.New("session expired")
	ErrWeakPassword       = errors.New("password too short")
)

const (
	accessTokenTTL  = 15 * time.Minute
	refreshTokenTTL = 14 * 24 * time.Hour
	minPasswordLen  = 8
)

type Service struct {
	Store     *Store
	Secret    string
	Encryptor *crypto.Service
}

func NewService(store *Store, secret string, enc *crypto.Service) *Service {
	return &Service{Store: store, Secret: secret, Encryptor: enc}
}

type LoginResult struct {
	AccessToken        string `json:"accessToken"`
	RefreshToken       string `json:"refreshToken"`
	EmployeeID         string `json:"employeeId"`
	Role               string `json:"role"`
	NeedsPasswordReset bool   `json:"needsPasswordReset"`
}

// Login verifies credentials, and the TOTP code when the account has
// MFA enabled, then opens a session.
func (s *Service) Login(ctx context.Context, username, password, mfaCode string) (LoginResult, error) {
	creds, err := s.Store.FindCredentials(ctx, username)
	if errors.Is(err, pgx.ErrNoRows) {
		return LoginResult{}, ErrInvalidCredentials
	}
	if err != nil {
		return LoginResult{}, err
	}
	if err := CheckPassword(creds.PasswordHash, password); err != nil {
		return LoginResult{}, ErrInvalidCredentials
	}

	if creds.MFAEnabled {
		if mfaCode == "" {
			return LoginResult{}, ErrMFARequired
		}
		secret, err := s.Encryptor.DecryptString(creds.MFASecretEnc)
		if err != nil {
			return LoginResult{}, err
		}
		if !totp.Validate(mfaCode, secret) {
			return LoginResult{}, ErrMFAInvalid
		}
	}

	result, err := s.openSession(ctx, creds.EmployeeID, creds.Role)
	if err != nil {
		return LoginResult{}, err
	}
	result.NeedsPasswordReset = creds.NeedsPasswordReset

	if err := s.Store.UpdateLastLogin(ctx, creds.EmployeeID); err != nil {
		return LoginResult{}, err
	}
	return result, nil
}

func (s *Service) openSession(ctx context.Context, employeeID, role string) (LoginResult, error) {
	sessionID := uuid.NewString()
	access, err := GenerateToken(s.Secret, Claims{EmployeeID: employeeID, Role: role, SessionID: sessionID}, accessTokenTTL)
	if err != nil {
		return LoginResult{}, err
	}
	refresh := uuid.NewString()
	if err := s.Store.CreateSession(ctx, employeeID, HashToken(refresh), time.Now().Add(refreshTokenTTL)); err != nil {
		return LoginResult{}, err
	}
	return LoginResult{
		AccessToken:  access,
		RefreshToken: refresh,
		EmployeeID:   employeeID,
		Role:         role,
	}, nil
}

// Refresh rotates the refresh token and mints a new access token.
func (s *Service) Refresh(ctx context.Context, employeeID, role, refreshToken string) (LoginResult, error) {
	oldHash := HashToken(refreshToken)
	ok, err := s.Store.SessionValid(ctx, employeeID, oldHash)
	if err != nil {
		return LoginResult{}, err
	}
	if !ok {
		return LoginResult{}, ErrSessionExpired
	}

	newRefresh := uuid.NewString()
	if err := s.Store.RotateSession(ctx, employeeID, oldHash, HashToken(newRefresh), time.Now().Add(refreshTokenTTL)); err != nil {
		return LoginResult{}, err
	}
	access, err := GenerateToken(s.Secret, Claims{EmployeeID: employeeID, Role: role, SessionID: uuid.NewString()}, accessTokenTTL)
	if err != nil {
		return LoginResult{}, err
	}
	return LoginResult{AccessToken: access, RefreshToken: newRefresh, EmployeeID: employeeID, Role: role}, nil
}

func (s *Service) Logout(ctx context.Context, employeeID, refreshToken string) error {
	return s.Store.RevokeSession(ctx, employeeID, HashToken(refreshToken))
}

// ChangePassword sets a new password and clears the first-login reset
// flag.
func (s *Service) ChangePassword(ctx context.Context, employeeID, newPassword string) error {
	if len(newPassword) < minPasswordLen {
		return ErrWeakPassword
	}
	hash, err := HashPassword(newPassword)
	if err != nil {
		return err
	}
	return s.Store.UpdatePassword(ctx, employeeID, hash, false)
}

// SetupMFA generates a TOTP secret for the account and stores it
// encrypted. The returned otpauth URL feeds the authenticator app;
// MFA stays off until the first code is confirmed.
func (s *Service) SetupMFA(ctx context.Context, employeeID, username string) (string, error) {
	key, err := totp.Generate(totp.GenerateOpts{Issuer: "Turno", AccountName: username})
	if err != nil {
		return "", err
	}
	enc, err := s.Encryptor.EncryptString(key.Secret())
	if err != nil {
		return "", err
	}
	if err := s.Store.UpdateMFASecret(ctx, employeeID, enc); err != nil {
		return "", err
	}
	return key.URL(), nil
}

func (s *Service) ConfirmMFA(ctx context.Context, employeeID, code string) error {
	encSecret, err := s.Store.MFASecret(ctx, employeeID)
	if err != nil {
		return err
	}
	secret, err := s.Encryptor.DecryptString(encSecret)
	if err != nil {
		return err
	}
	if !totp.Validate(code, secret) {
		return ErrMFAInvalid
	}
	return s.Store.SetMFAEnabled(ctx, employeeID, true)
}

func (s *Service) DisableMFA(ctx context.Context, employeeID string) error {
	if err := s.Store.SetMFAEnabled(ctx, employeeID, false); err != nil {
		return err
	}
	return s.Store.UpdateMFASecret(ctx, employeeID, nil)
}
