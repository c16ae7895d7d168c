package types

import (
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/squareup/pgrow/common"
	"github.com/squareup/pgrow/errors"
)

type Bool bool

func (b *Bool) Accepts(ty common.Type) bool { return ty == common.TypeBool }

func (b *Bool) FromSQLNullable(_ common.Type, raw []byte) error {
	if err := nonNull(raw); err != nil {
		return err
	}
	if err := common.CheckLength(raw, 1); err != nil {
		return err
	}
	*b = raw[0] != 0
	return nil
}

type Int2 int16

func (i *Int2) Accepts(ty common.Type) bool { return ty == common.TypeInt2 }

func (i *Int2) FromSQLNullable(_ common.Type, raw []byte) error {
	if err := nonNull(raw); err != nil {
		return err
	}
	if err := common.CheckLength(raw, 2); err != nil {
		return err
	}
	u, _ := common.ReadUint16FromBufferBE(raw, 0)
	*i = Int2(int16(u))
	return nil
}

type Int4 int32

func (i *Int4) Accepts(ty common.Type) bool { return ty == common.TypeInt4 }

func (i *Int4) FromSQLNullable(_ common.Type, raw []byte) error {
	if err := nonNull(raw); err != nil {
		return err
	}
	if err := common.CheckLength(raw, 4); err != nil {
		return err
	}
	u, _ := common.ReadUint32FromBufferBE(raw, 0)
	*i = Int4(int32(u))
	return nil
}

type Int8 int64

func (i *Int8) Accepts(ty common.Type) bool { return ty == common.TypeInt8 }

func (i *Int8) FromSQLNullable(_ common.Type, raw []byte) error {
	if err := nonNull(raw); err != nil {
		return err
	}
	if err := common.CheckLength(raw, 8); err != nil {
		return err
	}
	u, _ := common.ReadUint64FromBufferBE(raw, 0)
	*i = Int8(int64(u))
	return nil
}

// OID decodes the oid type, an unsigned 32 bit integer.
type OID uint32

func (o *OID) Accepts(ty common.Type) bool { return ty == common.TypeOID }

func (o *OID) FromSQLNullable(_ common.Type, raw []byte) error {
	if err := nonNull(raw); err != nil {
		return err
	}
	if err := common.CheckLength(raw, 4); err != nil {
		return err
	}
	u, _ := common.ReadUint32FromBufferBE(raw, 0)
	*o = OID(u)
	return nil
}

type Float4 float32

func (f *Float4) Accepts(ty common.Type) bool { return ty == common.TypeFloat4 }

func (f *Float4) FromSQLNullable(_ common.Type, raw []byte) error {
	if err := nonNull(raw); err != nil {
		return err
	}
	if err := common.CheckLength(raw, 4); err != nil {
		return err
	}
	v, _ := common.ReadFloat32FromBufferBE(raw, 0)
	*f = Float4(v)
	return nil
}

type Float8 float64

func (f *Float8) Accepts(ty common.Type) bool { return ty == common.TypeFloat8 }

func (f *Float8) FromSQLNullable(_ common.Type, raw []byte) error {
	if err := nonNull(raw); err != nil {
		return err
	}
	if err := common.CheckLength(raw, 8); err != nil {
		return err
	}
	v, _ := common.ReadFloat64FromBufferBE(raw, 0)
	*f = Float8(v)
	return nil
}

// Text decodes any textual column. The bytes must be valid UTF-8.
type Text string

func (s *Text) Accepts(ty common.Type) bool { return isTextual(ty) }

func (s *Text) FromSQLNullable(_ common.Type, raw []byte) error {
	if err := nonNull(raw); err != nil {
		return err
	}
	if !utf8.Valid(raw) {
		return errors.New("invalid utf-8 sequence")
	}
	*s = Text(raw)
	return nil
}

type Bytea []byte

func (b *Bytea) Accepts(ty common.Type) bool { return ty == common.TypeBytea }

func (b *Bytea) FromSQLNullable(_ common.Type, raw []byte) error {
	if err := nonNull(raw); err != nil {
		return err
	}
	*b = common.CopyByteSlice(raw)
	return nil
}

// Seconds between the Unix epoch and 2000-01-01, the epoch used by binary timestamps.
const pgEpochSeconds = 946684800

const (
	infinityMicros    = int64(^uint64(0) >> 1)
	negInfinityMicros = -infinityMicros - 1
)

// Timestamp decodes timestamp and timestamptz columns. Values are returned in UTC.
type Timestamp time.Time

func (ts *Timestamp) Accepts(ty common.Type) bool {
	return ty == common.TypeTimestamp || ty == common.TypeTimestampTz
}

func (ts *Timestamp) FromSQLNullable(_ common.Type, raw []byte) error {
	if err := nonNull(raw); err != nil {
		return err
	}
	if err := common.CheckLength(raw, 8); err != nil {
		return err
	}
	u, _ := common.ReadUint64FromBufferBE(raw, 0)
	micros := int64(u)
	if micros == infinityMicros || micros == negInfinityMicros {
		return errors.New("infinite timestamps are not supported")
	}
	// micros plus the epoch in microseconds overflows int64 near the upper bound
	secs, rem := micros/1e6, micros%1e6
	if rem < 0 {
		secs--
		rem += 1e6
	}
	*ts = Timestamp(time.Unix(secs+pgEpochSeconds, rem*1e3).UTC())
	return nil
}

func (ts Timestamp) Time() time.Time { return time.Time(ts) }

func (ts Timestamp) String() string { return time.Time(ts).Format("2006-01-02 15:04:05.999999") }

// Raw accepts every type and keeps a copy of the undecoded bytes. Bytes is nil for NULL.
type Raw struct {
	Type  common.Type
	Bytes []byte
}

func (r *Raw) Accepts(common.Type) bool { return true }

func (r *Raw) FromSQLNullable(ty common.Type, raw []byte) error {
	r.Type = ty
	if raw == nil {
		r.Bytes = nil
		return nil
	}
	r.Bytes = common.CopyByteSlice(raw)
	return nil
}

func (r Raw) String() string {
	if r.Bytes == nil {
		return "NULL"
	}
	return fmt.Sprintf("%s:%x", r.Type, r.Bytes)
}
