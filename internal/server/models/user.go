// Package models defines server-side persistence models.
package models

import "time"

// User is the sole persisted entity: an account identified by a unique email,
// holding a bcrypt password digest and an opaque synchronized data blob.
// Data is always a serialized JSON value; it defaults to "{}" on creation and
// is only ever replaced wholesale by a sync.
type User struct {
	ID           int64
	Email        string
	PasswordHash []byte
	Data         string
	CreatedAt    time.Time
}
