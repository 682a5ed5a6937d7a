package types

import "time"

type UserType string

const (
	UserTypeAdmin      UserType = "admin"
	UserTypeInstructor UserType = "instructor"
)

// User is an administrator or instructor account. Accounts act as document
// owners; authentication is handled outside this service.
type User struct {
	ID         string    `db:"id" json:"id"`
	UserType   UserType  `db:"user_type" json:"userType"`
	Email      string    `db:"email" json:"email"`
	GivenName  *string   `db:"given_name" json:"givenName"`
	FamilyName *string   `db:"family_name" json:"familyName"`
	CreatedAt  time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt  time.Time `db:"updated_at" json:"updatedAt"`
}
