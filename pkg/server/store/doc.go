// Package store provides storage abstractions for the KeyHaven server.
//
// This package defines interfaces for database operations, allowing the
// server endpoints to be decoupled from the specific database implementation.
// This enables easier testing with mocks and potential support for different
// storage backends.
//
// # Available Stores
//
//   - UsersStore: user lookup, provisioning and administration
//   - VaultsStore: vault tree operations and share links
//   - ItemsStore: encrypted item operations (reveal, checkout, checkin)
//   - RequestsStore: JIT and emergency access request lifecycles
//   - AuditStore: append-only audit rows and read-side queries
//   - StatsStore: dashboard aggregates
package store
