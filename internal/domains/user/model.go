package user

import (
	"time"

	"github.com/google/uuid"

	"social-backend/internal/shared/policy"
)

// User maps 1:1 onto the users table.
type User struct {
	ID           uuid.UUID   `db:"id" json:"id"`
	Username     string      `db:"username" json:"username"`
	PasswordHash string      `db:"password_hash" json:"-"`
	FullName     string      `db:"full_name" json:"full_name"`
	Initials     string      `db:"initials" json:"initials"`
	Role         policy.Role `db:"role" json:"role"`

	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// Actor is the identity this user acts as.
func (u *User) Actor() *policy.Actor {
	return policy.NewActor(u.ID, u.Role)
}

// AuthorInfo is the public identity embedded in posts and comments.
// It never carries moderator identities.
type AuthorInfo struct {
	ID       uuid.UUID   `json:"id"`
	Username string      `json:"username"`
	FullName string      `json:"full_name"`
	Initials string      `json:"initials"`
	Role     policy.Role `json:"role"`
}

func (u *User) AuthorInfo() *AuthorInfo {
	return &AuthorInfo{
		ID:       u.ID,
		Username: u.Username,
		FullName: u.FullName,
		Initials: u.Initials,
		Role:     u.Role,
	}
}
