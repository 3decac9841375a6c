// Package identifier validates and issues the entity identifiers used as
// storage keys. Identifiers are MongoDB ObjectIDs carried as 24-character
// hex strings on the wire.
package identifier

import (
	"errors"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ID is the internal identifier type for users and posts.
type ID = primitive.ObjectID

// ErrInvalid is returned for any string that does not decode to an ObjectID.
var ErrInvalid = errors.New("invalid identifier")

// New issues a fresh identifier.
func New() ID {
	return primitive.NewObjectID()
}

// Parse decodes an externally supplied identifier string. Empty, wrong-length
// and non-hex input all fail closed with ErrInvalid; Parse never panics.
func Parse(s string) (ID, error) {
	if len(s) != 24 {
		return primitive.NilObjectID, ErrInvalid
	}
	id, err := primitive.ObjectIDFromHex(s)
	if err != nil {
		return primitive.NilObjectID, ErrInvalid
	}
	return id, nil
}

// IsValid reports whether s parses to an identifier.
func IsValid(s string) bool {
	_, err := Parse(s)
	return err == nil
}
