// Package config loads KeyHaven configuration from keyhaven.yml and
// KEYHAVEN_* environment variables, with environment taking precedence.
// The source of every value is tracked for "keyhavenctl config show".
package config
