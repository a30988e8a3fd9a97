package user

import "time"

// User is a guest account (matches users table). Accounts are created by
// the identity service; this service only reads them.
type User struct {
	ID            int64     `db:"id"`
	Email         string    `db:"email"`
	FullName      string    `db:"full_name"`
	EmailVerified bool      `db:"email_verified"`
	IsBanned      bool      `db:"is_banned"`
	CreatedAt     time.Time `db:"created_at"`
}

// IsActive returns true if user is not banned
func (u *User) IsActive() bool {
	return !u.IsBanned
}

// DisplayName returns the name used in emails.
func (u *User) DisplayName() string {
	if u.FullName != "" {
		return u.FullName
	}
	return u.Email
}
