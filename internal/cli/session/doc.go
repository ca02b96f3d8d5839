// Package session owns the single live sign-in session of a rentdesk-cli
// process.
//
// The Store moves between three states:
//
//	Unknown ──Rehydrate──▶ Anonymous | Authenticated
//	Anonymous ──SignIn──▶ Authenticated
//	Authenticated ──SignOut | Invalidate──▶ Anonymous
//
// Durable state lives behind the Storage interface under a single key
// ("auth"). FileStorage, BadgerStorage and MemoryStorage are provided;
// SealedStorage encrypts any of them at rest.
package session
