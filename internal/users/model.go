package users

import "time"

type User struct {
	ID        int64
	FirstName string
	LastName  string
	Email     string
	Country   string
	Gender    string
	Role      string
	Credits   int
	LastLogin *time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
}
