package rbac

// Role constants. Roles are derived per property at call time: the property
// owner is RoleOwner, the active booking's renter is RoleRenter, anyone else
// is RoleVisitor.
const (
	RoleOwner   = "owner"
	RoleRenter  = "renter"
	RoleVisitor = "visitor"
)

// Permission constants
const (
	PermCreateBooking     = "create_booking"
	PermConfirmBooking    = "confirm_booking"
	PermPayBooking        = "pay_booking"
	PermRejectBooking     = "reject_booking"
	PermCancelBooking     = "cancel_booking"
	PermReserveProperty   = "reserve_property"
	PermToggleStatus      = "toggle_status"
	PermSetWithdrawWallet = "set_withdraw_wallet"
)

// RolePermissions defines what each role can do.
var RolePermissions = map[string][]string{
	RoleOwner: {
		PermConfirmBooking, PermRejectBooking, PermReserveProperty,
		PermToggleStatus, PermSetWithdrawWallet,
		// Owner CANNOT book or pay for their own property.
	},
	RoleRenter: {
		PermPayBooking, PermCancelBooking,
	},
	RoleVisitor: {
		PermCreateBooking,
	},
}

// RoleFor derives the caller's role for one property.
func RoleFor(caller, owner, renter string) string {
	switch {
	case caller != "" && caller == owner:
		return RoleOwner
	case caller != "" && caller == renter:
		return RoleRenter
	default:
		return RoleVisitor
	}
}

// HasPermission checks if a role has a specific permission.
func HasPermission(role, permission string) bool {
	perms, ok := RolePermissions[role]
	if !ok {
		return false
	}
	for _, p := range perms {
		if p == permission {
			return true
		}
	}
	return false
}
