// Package services contains the application services of the authapp client.
//
// SessionManager owns the authentication lifecycle: it validates persisted
// credentials at startup and drives login, registration, profile updates,
// logout and account deletion. Each transition runs its side effects in a
// fixed order: the remote call, then the persistent store, then the shared
// session state, then navigation. Only Logout skips the remote call.
package services
