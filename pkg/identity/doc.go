// Package identity carries the authenticated request identity through
// context. The session middleware sets it; handlers and the audit logger
// read it. Nothing here caches entity state across requests.
package identity
