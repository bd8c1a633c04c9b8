package repository

import (
	"errors"
	"fmt"

	echoo_errors "github.com/muhammedkh45/Echoo/pkg/errors"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

func isDuplicateKey(err error) bool {
	return mongo.IsDuplicateKeyError(err)
}

// storeError maps a driver error onto the error taxonomy. notFound is used
// for mongo.ErrNoDocuments; everything else is treated as a store outage.
func storeError(op string, err error, notFound error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, mongo.ErrNoDocuments) {
		return notFound
	}
	if isDuplicateKey(err) {
		return fmt.Errorf("%s: %w", op, echoo_errors.ErrAlreadyExists)
	}
	return fmt.Errorf("%s: %w: %v", op, echoo_errors.ErrStoreUnavailable, err)
}

// ParseRef parses a chat reference that may be an object id.
func ParseRef(ref string) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(ref)
	if err != nil {
		return primitive.NilObjectID, false
	}
	return id, true
}
