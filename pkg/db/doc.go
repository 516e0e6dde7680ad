// Package db provides the gorm/postgres connection used by all stores.
package db
