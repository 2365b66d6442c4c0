// Package client is the panel side of the permission system.
//
// API talks to the server. Cache keeps the resolved permission set of the
// logged in role and coalesces concurrent lookups into one request. Gate
// decides whether a route may be entered.
package client
