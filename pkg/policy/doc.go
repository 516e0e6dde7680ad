// Package policy is the role-based access policy: a table mapping each
// privileged operation to the roles permitted to perform it. Every mutating
// or sensitive-read handler consults it before touching any entity.
package policy
