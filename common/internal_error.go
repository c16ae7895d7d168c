package common

import (
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"github.com/squareup/pgrow/errors"
)

// LogInternalError logs err with a random reference and returns an error that only carries the
// reference, so internal details are kept out of user-facing output.
func LogInternalError(err error) errors.ClientError {
	id, err2 := uuid.NewRandom()
	var errRef string
	if err2 != nil {
		log.Errorf("failed to generate uuid %v", err2)
	} else {
		errRef = id.String()
	}
	log.Errorf("internal error occurred with reference %s\n%+v", errRef, err)
	return errors.NewInternalError(errRef)
}
