package types

import (
	"time"

	"github.com/squareup/pgrow/common"
	"github.com/squareup/pgrow/errors"
)

// Nullable turns a non-nullable decoder into a nullable one. After decoding, Valid is false if the
// field was NULL, in which case Value is left untouched.
type Nullable struct {
	Value FromSQL
	Valid bool
}

func NewNullable(value FromSQL) *Nullable {
	return &Nullable{Value: value}
}

func (n *Nullable) Accepts(ty common.Type) bool { return n.Value.Accepts(ty) }

func (n *Nullable) FromSQLNullable(ty common.Type, raw []byte) error {
	if raw == nil {
		n.Valid = false
		return nil
	}
	if err := n.Value.FromSQLNullable(ty, raw); err != nil {
		return err
	}
	n.Valid = true
	return nil
}

// Any decodes every type that has a decoder in this package into its natural Go value:
// bool, int16, int32, int64, uint32, float32, float64, string, []byte or time.Time.
// NULL decodes to a nil Value.
type Any struct {
	Value interface{}
}

func (a *Any) Accepts(ty common.Type) bool {
	_, ok := decoderFor(ty)
	return ok
}

func (a *Any) FromSQLNullable(ty common.Type, raw []byte) error {
	if raw == nil {
		a.Value = nil
		return nil
	}
	dec, ok := decoderFor(ty)
	if !ok {
		return errors.Errorf("no decoder for type %s", ty)
	}
	if err := dec.FromSQLNullable(ty, raw); err != nil {
		return err
	}
	a.Value = valueOf(dec)
	return nil
}

func decoderFor(ty common.Type) (FromSQL, bool) {
	switch ty {
	case common.TypeBool:
		return new(Bool), true
	case common.TypeInt2:
		return new(Int2), true
	case common.TypeInt4:
		return new(Int4), true
	case common.TypeInt8:
		return new(Int8), true
	case common.TypeOID:
		return new(OID), true
	case common.TypeFloat4:
		return new(Float4), true
	case common.TypeFloat8:
		return new(Float8), true
	case common.TypeBytea:
		return new(Bytea), true
	case common.TypeTimestamp, common.TypeTimestampTz:
		return new(Timestamp), true
	}
	if isTextual(ty) {
		return new(Text), true
	}
	return nil, false
}

func valueOf(dec FromSQL) interface{} {
	switch v := dec.(type) {
	case *Bool:
		return bool(*v)
	case *Int2:
		return int16(*v)
	case *Int4:
		return int32(*v)
	case *Int8:
		return int64(*v)
	case *OID:
		return uint32(*v)
	case *Float4:
		return float32(*v)
	case *Float8:
		return float64(*v)
	case *Bytea:
		return []byte(*v)
	case *Timestamp:
		return time.Time(*v)
	case *Text:
		return string(*v)
	default:
		panic("unexpected decoder")
	}
}
