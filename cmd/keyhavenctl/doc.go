// Package main provides keyhavenctl, the CLI for the KeyHaven secrets
// management server.
//
// KeyHaven stores team credentials in hierarchical vaults, encrypts secret
// material at rest, and gates sensitive items behind checkout, just-in-time
// access requests, and break-glass emergency approvals. Every sensitive
// action lands in a tamper-evident audit trail.
//
// # Quick Start
//
//	# Generate a master key for encryption
//	export KEYHAVEN_MASTER_KEY="$(keyhavenctl data-key generate)"
//
//	# Run database migrations
//	keyhavenctl db migrate
//
//	# Invite the first administrator
//	keyhavenctl user invite admin@example.com --role admin
//
//	# Start the server
//	keyhavenctl server
//
// # Environment Variables
//
//   - DATABASE_URL: PostgreSQL connection string
//   - KEYHAVEN_MASTER_KEY: passphrase the at-rest encryption key is derived from
//   - KEYHAVEN_SESSION_KEY: HMAC key for session token signing
//   - KEYHAVEN_OAUTH_CLIENT_ID / KEYHAVEN_OAUTH_CLIENT_SECRET: identity provider client
//   - KEYHAVEN_OAUTH_REDIRECT_URL: OAuth redirect URL
//   - KEYHAVEN_OAUTH_TOKEN_URL / KEYHAVEN_OAUTH_USERINFO_URL: provider endpoints
//   - KEYHAVEN_CONFIG_PATH: config directory (default /etc/keyhaven/config)
//   - KEYHAVEN_LOG_LEVEL: log level (debug enables SQL logging)
package main
