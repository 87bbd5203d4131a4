package user

import "time"

// User is the owner of zero or more accounts. Users are provisioned out of
// band (seeded by migrations); this service only looks them up.
type User struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
