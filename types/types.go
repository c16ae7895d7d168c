// Package types holds the decode capability used by rows and a set of decoders for the PostgreSQL
// wire encodings.
//
// A decoder is a destination value: the caller states the Go type it wants by passing a pointer to
// one of the types below (or its own FromSQL implementation) and reads the value back from it.
package types

import (
	"github.com/squareup/pgrow/common"
	"github.com/squareup/pgrow/errors"
)

// FromSQL is implemented by values that can be decoded from a column.
//
// raw is nil when the field is NULL. raw is only valid for the duration of the call; implementations
// must copy anything they keep.
type FromSQL interface {
	// Accepts reports whether values of the declared column type can be decoded into the receiver.
	Accepts(ty common.Type) bool
	FromSQLNullable(ty common.Type, raw []byte) error
}

// ErrUnexpectedNull is returned by decoders of non-nullable types when the field is NULL.
var ErrUnexpectedNull = errors.New("unexpected null value")

func nonNull(raw []byte) error {
	if raw == nil {
		return errors.WithStack(ErrUnexpectedNull)
	}
	return nil
}

func isTextual(ty common.Type) bool {
	switch ty {
	case common.TypeText, common.TypeVarchar, common.TypeBpchar, common.TypeName, common.TypeUnknown,
		common.TypeJSON:
		return true
	default:
		return false
	}
}
