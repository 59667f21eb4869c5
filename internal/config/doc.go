// Package config handles configuration loading, parsing, and validation
// from environment variables and an optional config.yaml. Values are exposed
// as typed structs so the rest of the application never touches viper directly.
package config
