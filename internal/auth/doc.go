// Package auth resolves and enforces role permissions.
//
// # Resolution
//
// Resolver answers "what may role R do" for the whole registry and for a
// single module/action pair. The rules, in order:
//   - a super admin role gets every action of every module, without a store read
//   - a stored permission set always wins and is returned densely normalized
//   - without a stored set the legacy Admin role gets the legacy default set,
//     every other role gets nothing
//   - a storage failure is returned as an error and never grants anything
//
// Check is defined as ResolveAll(role).Allows(module, action). It rejects
// modules and actions the registry does not know with
// permission.ErrInvalidArgument instead of denying them silently.
//
// # Administration
//
// Service bundles the permission store and the resolver for role management:
// replacing and patching permission sets, creating and deleting roles. Every
// successful write drops the cached resolution of the role it touched.
//
// # Middleware
//
// RequireSession loads the session of the request into fiber.Locals and
// RequirePermission protects a route with a module/action pair of the
// session's role.
package auth
