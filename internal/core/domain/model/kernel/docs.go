// Package kernel provides the shared domain primitives of the order service.
//
// UUID is the identifier type used for orders and for the users that own them.
// The zero value is invalid, so an identifier that skipped its constructor is
// caught by Validate before it reaches storage or the broker.
package kernel
