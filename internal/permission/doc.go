// Package permission defines the permission model of the panel.
//
// Permissions are scoped to modules (functional areas such as "Firmalar" or
// "Bakiye-Yonetimi"). Every module supports a fixed subset of actions
// (view, create, edit, delete, load, query) declared in the Registry.
//
// # Shapes
//
//   - Capability: action -> bool for one module
//   - Set: module -> Capability for one role
//
// A Set read from storage may be sparse. Anything missing from a Set is
// treated as not granted; Set.Allows never reports true for a key it does
// not hold.
//
// # Privileged roles
//
// Two built-in roles are special. "Super Admin" is always fully authorized
// and never needs a stored Set. "Admin" receives the legacy default set
// (modules that existed before permissions were introduced) until an
// explicit Set is stored for it. Policy is the only place that decides
// which role string is which, so callers never compare role names directly.
package permission
