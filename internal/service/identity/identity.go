// Package identity resolves authenticated callers to their directory
// profile. Tokens carry a UPN-style principal; the local part is matched
// against the employee directory, and callers without a directory row fall
// back to a configured default department so they can still use the API.
package identity

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/phrazzld/routine-api/internal/config"
	"github.com/phrazzld/routine-api/internal/domain"
	"github.com/phrazzld/routine-api/internal/store"
)

// Service resolves a verified token principal to an employee profile.
type Service interface {
	// Resolve returns the directory profile for the given principal.
	// Principals without a directory match resolve to a fallback profile
	// rather than an error.
	Resolve(ctx context.Context, principal string) (*domain.EmployeeProfile, error)
}

// serviceImpl implements the Service interface
type serviceImpl struct {
	directory store.DirectoryStore
	fallback  config.DirectoryConfig
	logger    *slog.Logger
}

// NewService creates a new identity Service.
// It returns an error if the directory store is nil.
func NewService(
	directory store.DirectoryStore,
	fallback config.DirectoryConfig,
	logger *slog.Logger,
) (Service, error) {
	if directory == nil {
		return nil, errors.New("identity service: directory store cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &serviceImpl{
		directory: directory,
		fallback:  fallback,
		logger:    logger.With("component", "identity_service"),
	}, nil
}

// Resolve looks up the principal's login in the employee directory.
func (s *serviceImpl) Resolve(ctx context.Context, principal string) (*domain.EmployeeProfile, error) {
	login := LoginFromPrincipal(principal)
	if login == "" {
		s.logger.Warn("empty principal, using fallback profile")
		return s.fallbackProfile(login), nil
	}

	profile, err := s.directory.GetEmployeeByLogin(ctx, login)
	if err != nil {
		if errors.Is(err, store.ErrEmployeeNotFound) {
			s.logger.Info("principal has no directory entry, using fallback department",
				"login", login)
			return s.fallbackProfile(login), nil
		}
		s.logger.Error("directory lookup failed",
			"error", err,
			"login", login)
		return nil, err
	}
	return profile, nil
}

func (s *serviceImpl) fallbackProfile(login string) *domain.EmployeeProfile {
	return &domain.EmployeeProfile{
		Name:           login,
		Login:          login,
		DepartmentCD:   s.fallback.FallbackDepartmentCode,
		DepartmentName: s.fallback.FallbackDepartmentName,
	}
}

// LoginFromPrincipal extracts the directory login from a UPN-style
// principal: the part before "@", lowercased and trimmed. A principal
// without "@" is used as-is.
func LoginFromPrincipal(principal string) string {
	login := strings.TrimSpace(principal)
	if at := strings.Index(login, "@"); at >= 0 {
		login = login[:at]
	}
	return strings.ToLower(login)
}
