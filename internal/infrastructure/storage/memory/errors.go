package memory

import (
	"errors"

	"autoparts/internal/core/apperror"
	"autoparts/internal/core/id"
)

var errReadOnly = errors.New("write attempted in read-only transaction")

func notFound(entity string, rowID id.ID) error {
	return apperror.NewNotFound(entity, rowID.String())
}

func versionConflict(entity string, rowID id.ID) error {
	return apperror.NewConcurrentModification(entity, rowID.String())
}

func duplicateID(entity string, rowID id.ID) error {
	return apperror.NewDuplicate(entity, "id", rowID.String())
}
