// Package audit provides tamper-evident audit logging. Every state-changing
// or secret-revealing action emits an Event, which is written as an RFC5424
// syslog line and persisted as an append-only database row.
package audit
