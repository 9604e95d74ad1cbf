// Package config defines the application's configuration structure and
// loading. Settings come from an optional YAML file and ROUTINE_-prefixed
// environment variables, with the environment taking precedence, and are
// validated before use.
package config
