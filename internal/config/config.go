package config

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server    ServerConfig    `mapstructure:"server"    validate:"required"`
	Database  DatabaseConfig  `mapstructure:"database"  validate:"required"`
	Auth      AuthConfig      `mapstructure:"auth"      validate:"required"`
	Directory DirectoryConfig `mapstructure:"directory" validate:"required"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port"      validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
}

// DatabaseConfig contains all database-related configuration settings.
type DatabaseConfig struct {
	URL string `mapstructure:"url" validate:"required,url"`
}

// AuthConfig contains all authentication and authorization settings. Tokens
// are issued by the organization's directory login flow; this service only
// verifies them.
type AuthConfig struct {
	JWTSecret string `mapstructure:"jwt_secret" validate:"required,min=32"`
}

// DirectoryConfig configures the employee-directory collaborator, including
// the fallback profile applied when a caller has no directory match.
type DirectoryConfig struct {
	FallbackDepartmentCode string `mapstructure:"fallback_department_code" validate:"required"`
	FallbackDepartmentName string `mapstructure:"fallback_department_name" validate:"required"`
}
