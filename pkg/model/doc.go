// Package model contains the database models for KeyHaven.
//
// All ids are opaque uuid strings generated by the application, never by the
// database. Secret item fields (password, notes) hold only ciphertext tokens
// produced by pkg/keybox; plaintext never reaches this package.
package model
