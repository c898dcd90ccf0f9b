// Package auth owns the credential layer of the server.
//
// Callers hold a long-lived OCM offline token. Every backend call needs a
// short-lived access token minted from it through the Red Hat SSO
// refresh_token grant. This package resolves which credential applies to a
// given invocation (per-request header vs. process default) and caches the
// exchanged access tokens per offline-token identity so that concurrent
// invocations sharing a credential perform at most one exchange while a
// valid token is outstanding. One caller's token is never visible to
// another caller's identity.
package auth
