package models

import "time"

type User struct {
	ID        int64      `db:"id"`
	Username  *string    `db:"username"`
	FirstName *string    `db:"first_name"`
	LastName  *string    `db:"last_name"`
	CreatedAt time.Time  `db:"created_at"`
	LastSeen  *time.Time `db:"last_seen"`
}

// UserPresets is the persisted preset collection of one user, stored as a
// single JSON document that is rewritten as a whole on every change.
type UserPresets struct {
	UserID    int64     `db:"user_id"`
	Payload   []byte    `db:"payload"`
	UpdatedAt time.Time `db:"updated_at"`
}
