// Package session implements the controller's single-session token guard.
//
// The real board supports exactly one authenticated operator at a time: a
// password login mints an opaque token, every subsequent request must
// present it in the Authorization header, and logout (or a newer login)
// invalidates it. This package reproduces that contract.
//
// # Usage
//
//	guard := session.New(session.Options{Password: "admin"})
//
//	token, err := guard.Login("admin")
//	if err != nil {
//	    // wrong password
//	}
//
//	if err := guard.Authorize("Bearer " + token); err != nil {
//	    // no active session, or token missing from the header
//	}
//
//	guard.Logout()
//
// # Matching Semantics
//
// Authorize passes when the Authorization header CONTAINS the active
// token, so "Bearer <token>" and a bare "<token>" both work. That is the
// controller firmware's comparison, kept so clients written against the
// real board behave identically here. With no active session every
// request is refused.
//
// # Thread Safety
//
// A Guard is safe for concurrent use.
package session
