// Package main provides the entry point of BayiPanel, the permission service
// of the dealer admin panel. It serves a JSON API over fiber that resolves
// the permission set of a role, checks single module actions, and lets
// authorized users administer roles. Roles and their permission sets are
// persisted with gorm; resolved sets may be cached in process or in redis.
// The client commands log in against a running server and print the menu a
// role may see or the decision of the route gate.
package main
