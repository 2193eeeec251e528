// Package model defines the data structures used throughout the application.
// In Go, we use structs to represent our data, similar to classes in other languages
// but without inheritance. Go favours composition over inheritance.
package model

// Account is a registered owner of the site.
//
// The email is the unique key and is compared exactly as entered (no case
// folding). Accounts are created on registration and never updated or deleted.
//
// The whole collection is stored as one JSON array under a fixed storage key,
// so the json tags below are the on-disk format:
//
//	[{"name":"Alex","email":"alex@x.com","passwordHash":"$2a$12$..."}]
type Account struct {
	Name         string `json:"name"`
	Email        string `json:"email"`
	PasswordHash string `json:"passwordHash"`
}

// Session is the signed-in identity of one client.
//
// It is a denormalized copy of the Account's public fields. Password material
// is never part of a Session, neither in memory nor in storage.
type Session struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// SessionFor builds the public session view of an account.
func SessionFor(a Account) *Session {
	return &Session{Name: a.Name, Email: a.Email}
}
