package identity

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/phrazzld/routine-api/internal/config"
	"github.com/phrazzld/routine-api/internal/domain"
	"github.com/phrazzld/routine-api/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-key-thats-long-enough-to-be-valid"

// mockDirectoryStore is a hand-written store.DirectoryStore stub.
type mockDirectoryStore struct {
	profile *domain.EmployeeProfile
	err     error
}

func (m *mockDirectoryStore) GetEmployeeByLogin(ctx context.Context, login string) (*domain.EmployeeProfile, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.profile, nil
}

func (m *mockDirectoryStore) ListDepartments(ctx context.Context) ([]domain.Department, error) {
	return nil, nil
}

func (m *mockDirectoryStore) ListDepartmentMembers(
	ctx context.Context,
	departmentCD string,
	employeesOnly bool,
) ([]domain.Employee, error) {
	return nil, nil
}

func signToken(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func TestNewTokenVerifier_RejectsShortSecret(t *testing.T) {
	_, err := NewTokenVerifier(config.AuthConfig{JWTSecret: "short"})
	assert.Error(t, err)
}

func TestTokenVerifier_Verify(t *testing.T) {
	ctx := context.Background()
	verifier, err := NewTokenVerifier(config.AuthConfig{JWTSecret: testSecret})
	require.NoError(t, err)

	now := time.Now()

	t.Run("valid_token_with_upn", func(t *testing.T) {
		tokenString := signToken(t, testSecret, jwt.MapClaims{
			"upn":  "Yamada.Taro@example.co.jp",
			"name": "山田太郎",
			"exp":  now.Add(time.Hour).Unix(),
			"iat":  now.Unix(),
		})
		claims, err := verifier.Verify(ctx, tokenString)
		require.NoError(t, err)
		assert.Equal(t, "Yamada.Taro@example.co.jp", claims.Principal)
		assert.Equal(t, "山田太郎", claims.Name)
	})

	t.Run("preferred_username_fallback", func(t *testing.T) {
		tokenString := signToken(t, testSecret, jwt.MapClaims{
			"preferred_username": "sato.hanako@example.co.jp",
			"exp":                now.Add(time.Hour).Unix(),
		})
		claims, err := verifier.Verify(ctx, tokenString)
		require.NoError(t, err)
		assert.Equal(t, "sato.hanako@example.co.jp", claims.Principal)
	})

	t.Run("email_fallback", func(t *testing.T) {
		tokenString := signToken(t, testSecret, jwt.MapClaims{
			"email": "sato.hanako@example.co.jp",
			"exp":   now.Add(time.Hour).Unix(),
		})
		claims, err := verifier.Verify(ctx, tokenString)
		require.NoError(t, err)
		assert.Equal(t, "sato.hanako@example.co.jp", claims.Principal)
	})

	t.Run("subject_fallback", func(t *testing.T) {
		tokenString := signToken(t, testSecret, jwt.MapClaims{
			"sub": "sato.hanako",
			"exp": now.Add(time.Hour).Unix(),
		})
		claims, err := verifier.Verify(ctx, tokenString)
		require.NoError(t, err)
		assert.Equal(t, "sato.hanako", claims.Principal)
	})

	t.Run("expired_token", func(t *testing.T) {
		tokenString := signToken(t, testSecret, jwt.MapClaims{
			"upn": "yamada.taro@example.co.jp",
			"exp": now.Add(-time.Hour).Unix(),
		})
		_, err := verifier.Verify(ctx, tokenString)
		assert.ErrorIs(t, err, ErrExpiredToken)
	})

	t.Run("wrong_signing_key", func(t *testing.T) {
		tokenString := signToken(t, "another-secret-key-also-long-enough-here", jwt.MapClaims{
			"upn": "yamada.taro@example.co.jp",
			"exp": now.Add(time.Hour).Unix(),
		})
		_, err := verifier.Verify(ctx, tokenString)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("missing_principal", func(t *testing.T) {
		tokenString := signToken(t, testSecret, jwt.MapClaims{
			"exp": now.Add(time.Hour).Unix(),
		})
		_, err := verifier.Verify(ctx, tokenString)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("garbage_token", func(t *testing.T) {
		_, err := verifier.Verify(ctx, "not.a.token")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}

func TestLoginFromPrincipal(t *testing.T) {
	tests := []struct {
		principal string
		want      string
	}{
		{"Yamada.Taro@example.co.jp", "yamada.taro"},
		{"sato.hanako", "sato.hanako"},
		{"  Suzuki@corp  ", "suzuki"},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, LoginFromPrincipal(tt.principal))
	}
}

func TestService_Resolve(t *testing.T) {
	ctx := context.Background()
	fallback := config.DirectoryConfig{
		FallbackDepartmentCode: "D000013",
		FallbackDepartmentName: "システム",
	}

	t.Run("directory_match", func(t *testing.T) {
		want := &domain.EmployeeProfile{
			Name:           "山田太郎",
			Login:          "yamada.taro",
			DepartmentCD:   "D000001",
			DepartmentName: "経理部",
		}
		svc, err := NewService(&mockDirectoryStore{profile: want}, fallback, nil)
		require.NoError(t, err)

		got, err := svc.Resolve(ctx, "Yamada.Taro@example.co.jp")
		require.NoError(t, err)
		assert.Equal(t, want, got)
	})

	t.Run("no_directory_entry_falls_back", func(t *testing.T) {
		svc, err := NewService(&mockDirectoryStore{err: store.ErrEmployeeNotFound}, fallback, nil)
		require.NoError(t, err)

		got, err := svc.Resolve(ctx, "guest@example.co.jp")
		require.NoError(t, err)
		assert.Equal(t, "guest", got.Login)
		assert.Equal(t, "D000013", got.DepartmentCD)
		assert.Equal(t, "システム", got.DepartmentName)
		assert.Nil(t, got.EmployeeID)
	})

	t.Run("directory_failure_propagates", func(t *testing.T) {
		boom := errors.New("connection reset")
		svc, err := NewService(&mockDirectoryStore{err: boom}, fallback, nil)
		require.NoError(t, err)

		_, err = svc.Resolve(ctx, "yamada.taro@example.co.jp")
		assert.ErrorIs(t, err, boom)
	})

	t.Run("nil_directory_store", func(t *testing.T) {
		_, err := NewService(nil, fallback, nil)
		assert.Error(t, err)
	})
}
