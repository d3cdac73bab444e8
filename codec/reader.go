package codec

import (
	"reflect"

	"github.com/cqfd/anchor-tl/errors"
	"github.com/gogo/protobuf/proto"
)

// Reader iterates over the fields of a protobuf encoded message.
//
//   r := codec.NewReader(raw)
//   for r.Next() {
//   	switch r.Field() {
//   	case 1:
//   		m.Name = r.String()
//   	default:
//   		r.Skip()
//   	}
//   }
//   return r.Err()
type Reader struct {
	buf   []byte
	field int
	wire  int
	err   error
}

// NewReader returns a reader over the given message.
func NewReader(data []byte) *Reader {
	return &Reader{buf: data}
}

// Next reads the next field tag. It returns false once the message is
// consumed or when a decoding error happened.
func (r *Reader) Next() bool {
	if r.err != nil || len(r.buf) == 0 {
		return false
	}
	key, ok := r.varint()
	if !ok {
		return false
	}
	r.field = int(key >> 3)
	r.wire = int(key & 7)
	if r.field < 1 {
		r.fail("invalid field number %d", r.field)
		return false
	}
	return true
}

// Field returns the number of the current field.
func (r *Reader) Field() int {
	return r.field
}

// Err returns the first decoding error.
func (r *Reader) Err() error {
	return r.err
}

// Uint reads the current field as an unsigned varint.
func (r *Reader) Uint() uint64 {
	if !r.expect(proto.WireVarint) {
		return 0
	}
	v, _ := r.varint()
	return v
}

// Int reads the current field as a signed varint.
func (r *Reader) Int() int64 {
	return int64(r.Uint())
}

// Bool reads the current field as a boolean.
func (r *Reader) Bool() bool {
	return r.Uint() != 0
}

// Bytes reads the current length delimited field. The returned slice is a
// copy and can be retained.
func (r *Reader) Bytes() []byte {
	raw := r.raw()
	if raw == nil {
		return nil
	}
	cpy := make([]byte, len(raw))
	copy(cpy, raw)
	return cpy
}

// String reads the current field as a string.
func (r *Reader) String() string {
	return string(r.raw())
}

// Message decodes the current field into the given message.
func (r *Reader) Message(m interface{ Unmarshal([]byte) error }) {
	raw := r.raw()
	if r.err != nil {
		return
	}
	if err := m.Unmarshal(raw); err != nil {
		r.err = err
	}
}

// Skip ignores the current field. Unknown fields are skipped so that older
// nodes can read messages extended with new fields.
func (r *Reader) Skip() {
	switch r.wire {
	case proto.WireVarint:
		r.varint()
	case proto.WireBytes:
		r.raw()
	case proto.WireFixed64:
		r.advance(8)
	case proto.WireFixed32:
		r.advance(4)
	default:
		r.fail("unsupported wire type %d", r.wire)
	}
}

func (r *Reader) expect(wire int) bool {
	if r.err != nil {
		return false
	}
	if r.wire != wire {
		r.fail("field %d: unexpected wire type %d", r.field, r.wire)
		return false
	}
	return true
}

func (r *Reader) raw() []byte {
	if !r.expect(proto.WireBytes) {
		return nil
	}
	size, ok := r.varint()
	if !ok {
		return nil
	}
	if size > uint64(len(r.buf)) {
		r.fail("field %d: length %d exceeds message", r.field, size)
		return nil
	}
	raw := r.buf[:size]
	r.buf = r.buf[size:]
	return raw
}

func (r *Reader) varint() (uint64, bool) {
	v, n := proto.DecodeVarint(r.buf)
	if n == 0 {
		r.fail("malformed varint")
		return 0, false
	}
	r.buf = r.buf[n:]
	return v, true
}

func (r *Reader) advance(n int) {
	if n > len(r.buf) {
		r.fail("unexpected end of message")
		return
	}
	r.buf = r.buf[n:]
}

func (r *Reader) fail(format string, args ...interface{}) {
	if r.err == nil {
		r.err = errors.Wrapf(errors.ErrInput, "codec: "+format, args...)
	}
}

func isNil(m Marshaller) bool {
	if m == nil {
		return true
	}
	v := reflect.ValueOf(m)
	return v.Kind() == reflect.Ptr && v.IsNil()
}
