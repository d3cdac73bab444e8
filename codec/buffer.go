package codec

import (
	"github.com/cqfd/anchor-tl/errors"
	"github.com/gogo/protobuf/proto"
)

// Marshaller is implemented by every structure that can be nested inside
// another message.
type Marshaller interface {
	Marshal() ([]byte, error)
}

// Buffer accumulates protobuf encoded fields. The first failure is kept and
// all following writes are ignored.
type Buffer struct {
	pb  *proto.Buffer
	err error
}

// NewBuffer returns an empty buffer.
func NewBuffer() *Buffer {
	return &Buffer{pb: proto.NewBuffer(nil)}
}

// Bytes returns the serialized message.
func (b *Buffer) Bytes() []byte {
	return b.pb.Bytes()
}

// Err returns the first error that happened while encoding.
func (b *Buffer) Err() error {
	return b.err
}

func (b *Buffer) tag(field int, wire int) {
	if b.err != nil {
		return
	}
	if field < 1 {
		b.err = errors.Wrapf(errors.ErrHuman, "invalid field number %d", field)
		return
	}
	b.err = b.pb.EncodeVarint(uint64(field)<<3 | uint64(wire))
}

// EncodeUint writes an unsigned varint field.
func (b *Buffer) EncodeUint(field int, v uint64) {
	if v == 0 {
		return
	}
	b.tag(field, proto.WireVarint)
	if b.err == nil {
		b.err = b.pb.EncodeVarint(v)
	}
}

// EncodeInt writes a signed varint field. Negative values take ten bytes
// the same way protobuf int64 does.
func (b *Buffer) EncodeInt(field int, v int64) {
	b.EncodeUint(field, uint64(v))
}

// EncodeBool writes a boolean field.
func (b *Buffer) EncodeBool(field int, v bool) {
	if v {
		b.EncodeUint(field, 1)
	}
}

// EncodeBytes writes a length delimited field.
func (b *Buffer) EncodeBytes(field int, v []byte) {
	if len(v) == 0 {
		return
	}
	b.tag(field, proto.WireBytes)
	if b.err == nil {
		b.err = b.pb.EncodeRawBytes(v)
	}
}

// EncodeRepeatedBytes writes every element as a separate length delimited
// field, including the empty ones.
func (b *Buffer) EncodeRepeatedBytes(field int, v [][]byte) {
	for _, elem := range v {
		b.tag(field, proto.WireBytes)
		if b.err == nil {
			b.err = b.pb.EncodeRawBytes(elem)
		}
	}
}

// EncodeString writes a string field.
func (b *Buffer) EncodeString(field int, v string) {
	if len(v) == 0 {
		return
	}
	b.tag(field, proto.WireBytes)
	if b.err == nil {
		b.err = b.pb.EncodeStringBytes(v)
	}
}

// EncodeMessage writes a nested message. Nothing is written for a nil
// message.
func (b *Buffer) EncodeMessage(field int, m Marshaller) {
	if b.err != nil || isNil(m) {
		return
	}
	raw, err := m.Marshal()
	if err != nil {
		b.err = err
		return
	}
	// An empty nested message must still be present on the wire.
	b.tag(field, proto.WireBytes)
	if b.err == nil {
		b.err = b.pb.EncodeRawBytes(raw)
	}
}
