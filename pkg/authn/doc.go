// Package authn handles external-identity login and session tokens. Sessions
// are HS256 JWTs minted on login; the external provider is reached through a
// small authorization-code client with injectable endpoints.
package authn
