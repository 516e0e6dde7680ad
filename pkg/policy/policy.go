package policy

import (
	"errors"
	"fmt"

	"github.com/keyhaven/keyhaven/pkg/model"
)

// ErrPermissionDenied is returned when a role check fails. Checks always run
// before the operation touches any entity, so a denial has no partial effect.
var ErrPermissionDenied = errors.New("permission denied")

// Operation names every role-gated action.
type Operation string

const (
	OpVaultManage      Operation = "vault:manage" // rename, retag, delete, share-link
	OpItemUse          Operation = "item:use"     // create, read, reveal, update, delete, checkout
	OpCheckinOverride  Operation = "item:checkin-override"
	OpJITDecide        Operation = "jit:decide"
	OpBreakGlassRead   Operation = "breakglass:read"
	OpBreakGlassDecide Operation = "breakglass:decide"
	OpUserManage       Operation = "user:manage" // list, invite, status update
	OpUserRoleUpdate   Operation = "user:role-update"
	OpAuditRead        Operation = "audit:read"
	OpSettingsRead     Operation = "settings:read"
)

// minimumRoles is the policy table: operation -> roles allowed to perform it.
var minimumRoles = map[Operation][]string{
	OpVaultManage:      {model.RoleAdmin, model.RoleManager},
	OpItemUse:          {model.RoleAdmin, model.RoleManager, model.RoleContributor},
	OpCheckinOverride:  {model.RoleAdmin, model.RoleManager},
	OpJITDecide:        {model.RoleAdmin, model.RoleManager},
	OpBreakGlassRead:   {model.RoleAdmin, model.RoleManager},
	OpBreakGlassDecide: {model.RoleAdmin, model.RoleManager},
	OpUserManage:       {model.RoleAdmin, model.RoleManager},
	OpUserRoleUpdate:   {model.RoleAdmin},
	OpAuditRead:        {model.RoleAdmin, model.RoleManager},
	OpSettingsRead:     {model.RoleAdmin},
}

// Allowed reports whether role may perform op.
func Allowed(role string, op Operation) bool {
	for _, allowed := range minimumRoles[op] {
		if role == allowed {
			return true
		}
	}
	return false
}

// Check returns ErrPermissionDenied (with a reason) unless role may perform op.
func Check(role string, op Operation) error {
	if !Allowed(role, op) {
		return fmt.Errorf("%w: role %q may not perform %s", ErrPermissionDenied, role, op)
	}
	return nil
}

// CanCheckin reports whether an identity may release an item's checkout
// lock: the holder always can, admin and manager can release anyone's.
func CanCheckin(role, userID, holderID string) bool {
	if userID == holderID {
		return true
	}
	return Allowed(role, OpCheckinOverride)
}
