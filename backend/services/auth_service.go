package services

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/MohammadSabeti/K2/backend/models"
	"github.com/MohammadSabeti/K2/backend/report"
	"github.com/MohammadSabeti/K2/backend/storage"
)

// Latin letters, digits, the Persian Unicode block, whitespace and ._-
// survive sanitization; everything else is stripped.
var usernamePattern = regexp.MustCompile(`[^a-zA-Z0-9\x{0600}-\x{06FF}\s._-]`)

const (
	maxUsernameLen   = 50
	fallbackUsername = "anonymous"
)

// SanitizeUsername strips disallowed characters, trims whitespace and
// caps the length. An empty result falls back to a fixed literal.
func SanitizeUsername(username string) string {
	clean := strings.TrimSpace(usernamePattern.ReplaceAllString(username, ""))
	runes := []rune(clean)
	if len(runes) > maxUsernameLen {
		runes = runes[:maxUsernameLen]
	}
	if len(runes) == 0 {
		return fallbackUsername
	}
	return string(runes)
}

// AuthService is the credential manager plus the login/registration state
// machine. Logging in with an unknown username registers it; the
// configured admin pair bootstraps the single admin account.
type AuthService struct {
	store         storage.Store
	adminUsername string
	adminPassword string
}

func NewAuthService(store storage.Store, adminUsername, adminPassword string) *AuthService {
	return &AuthService{
		store:         store,
		adminUsername: adminUsername,
		adminPassword: adminPassword,
	}
}

func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func VerifyPassword(password, storedHash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(storedHash), []byte(password)) == nil
}

// Login resolves one login attempt per the account-resolution rules:
//  1. the configured admin pair authenticates as admin, provisioning the
//     account on first use;
//  2. an existing account authenticates only if the password verifies;
//  3. an unknown username self-registers with role user.
func (s *AuthService) Login(rawUsername, password string) (*models.User, error) {
	username := SanitizeUsername(rawUsername)

	user, err := s.store.UserByName(username)
	if err != nil {
		return nil, err
	}

	if s.adminUsername != "" && username == s.adminUsername && password == s.adminPassword {
		return s.loginAdmin(user)
	}

	if user != nil {
		if !VerifyPassword(password, user.PasswordHash) {
			return nil, report.ErrInvalidCredentials
		}
		_ = s.store.RecordLogin(user.ID)
		return user, nil
	}

	return s.register(username, password, models.RoleUser)
}

// loginAdmin is the bootstrap branch: the account is created on first
// use, and the stored hash is still verified afterwards so a stale row
// with a different password cannot be hijacked by the env pair alone.
func (s *AuthService) loginAdmin(user *models.User) (*models.User, error) {
	if user == nil {
		return s.register(s.adminUsername, s.adminPassword, models.RoleAdmin)
	}
	if !VerifyPassword(s.adminPassword, user.PasswordHash) {
		return nil, report.ErrInvalidCredentials
	}
	_ = s.store.RecordLogin(user.ID)
	return user, nil
}

func (s *AuthService) register(username, password, role string) (*models.User, error) {
	hash, err := HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", report.ErrRegistrationFailed)
	}

	user := &models.User{Username: username, PasswordHash: hash, Role: role}
	if err := s.store.CreateUser(user); err != nil {
		if errors.Is(err, report.ErrConstraintViolation) {
			return nil, fmt.Errorf("%s: %w", username, report.ErrRegistrationFailed)
		}
		return nil, err
	}
	_ = s.store.RecordLogin(user.ID)
	return user, nil
}

// ChangePassword overwrites the stored hash. Re-authentication is the
// caller's responsibility.
func (s *AuthService) ChangePassword(username, newPassword string) error {
	if newPassword == "" {
		return fmt.Errorf("empty password: %w", report.ErrConstraintViolation)
	}
	hash, err := HashPassword(newPassword)
	if err != nil {
		return err
	}
	return s.store.UpdatePassword(username, hash)
}
