package repository

import (
	"classroom_backend/pkg/database"

	"github.com/pkg/errors"
)

// wrap translates engine errors to the util sentinels and adds context.
func wrap(err error, msg string) error {
	if err == nil {
		return nil
	}
	return errors.Wrap(database.Translate(err), msg)
}
