// Package domain holds the core entities of the social graph.
package domain

import (
	"social_server/pkg/identifier"
)

// User is a stored profile. Following is a set of user identifiers with
// unique membership; entries are weak references and may point at users
// that no longer exist.
type User struct {
	ID        identifier.ID   `bson:"_id,omitempty" json:"userId"`
	FirstName string          `bson:"firstName" json:"firstName"`
	LastName  string          `bson:"lastName" json:"lastName"`
	BirthDate string          `bson:"birthDate" json:"birthDate"`
	Bio       string          `bson:"bio" json:"bio"`
	Following []identifier.ID `bson:"following" json:"-"`
}

// NewUser creates a user with a fresh identifier and an empty following set.
// BirthDate is an opaque string and is not validated for calendar correctness.
func NewUser(firstName, lastName, birthDate, bio string) *User {
	return &User{
		ID:        identifier.New(),
		FirstName: firstName,
		LastName:  lastName,
		BirthDate: birthDate,
		Bio:       bio,
		Following: []identifier.ID{},
	}
}

// IsFollowing reports whether id is in the following set.
func (u *User) IsFollowing(id identifier.ID) bool {
	for _, f := range u.Following {
		if f == id {
			return true
		}
	}
	return false
}
