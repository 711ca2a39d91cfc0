// Package auth provides editor accounts and login sessions for the catalog.
//
// Passwords are stored as Argon2id PHC strings. A successful login issues a
// signed HS256 session token carried in an HttpOnly cookie; the token is
// validated by signature and expiry only, without a database lookup.
//
// Two roles exist: editors may create, update and delete heritage sites;
// admins may additionally manage accounts from the command line.
package auth
