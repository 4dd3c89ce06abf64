// Package auth implements account authentication for the song library.
//
// The [Service] signs users up and in against the local store, issues
// token-based sessions, and publishes auth-state changes to subscribers.
// Session presence is modeled as an explicit state machine (anonymous,
// authenticating, authenticated) driven by login, logout and
// session-expired events rather than ambient flags.
//
// [TranslateError] maps backend error text to the pt-BR user-facing
// messages shown by the application.
package auth
