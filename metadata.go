package anchortl

import (
	"github.com/cqfd/anchor-tl/codec"
	"github.com/cqfd/anchor-tl/errors"
)

// CurrentSchema is the version of every model and message this code writes.
const CurrentSchema = 1

// Metadata is embedded in every persisted model and every message. The
// schema version allows the stored format to evolve.
type Metadata struct {
	Schema uint32
}

// NewMetadata returns metadata with the current schema.
func NewMetadata() *Metadata {
	return &Metadata{Schema: CurrentSchema}
}

// Validate returns an error if the schema is missing or unknown.
func (m *Metadata) Validate() error {
	if m == nil {
		return errors.Wrap(errors.ErrSchema, "missing metadata")
	}
	if m.Schema == 0 {
		return errors.Wrap(errors.ErrSchema, "missing schema")
	}
	if m.Schema > CurrentSchema {
		return errors.Wrapf(errors.ErrSchema, "unsupported schema %d", m.Schema)
	}
	return nil
}

// Copy returns a copy of this object. This method is helpful when implementing
// orm.CloneableData interface to make a copy of the header.
func (m *Metadata) Copy() *Metadata {
	if m == nil {
		return nil
	}
	cpy := *m
	return &cpy
}

func (m *Metadata) Marshal() ([]byte, error) {
	b := codec.NewBuffer()
	b.EncodeUint(1, uint64(m.Schema))
	return b.Bytes(), b.Err()
}

func (m *Metadata) Unmarshal(raw []byte) error {
	*m = Metadata{}
	r := codec.NewReader(raw)
	for r.Next() {
		switch r.Field() {
		case 1:
			m.Schema = uint32(r.Uint())
		default:
			r.Skip()
		}
	}
	return r.Err()
}
