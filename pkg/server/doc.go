// Package server wires the HTTP router, stores, auditor and notifier into a
// runnable KeyHaven server.
package server
