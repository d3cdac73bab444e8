package weavetest

import (
	anchortl "github.com/cqfd/anchor-tl"
	"github.com/cqfd/anchor-tl/orm"
)

// Tx carries Msg, or fails with Err. It cannot be serialized.
type Tx struct {
	Msg anchortl.Msg
	Err error
}

var _ anchortl.Tx = (*Tx)(nil)

func (tx *Tx) GetMsg() (anchortl.Msg, error) { return tx.Msg, tx.Err }

func (tx *Tx) Marshal() ([]byte, error) { panic("weavetest.Tx cannot be marshaled") }

func (tx *Tx) Unmarshal([]byte) error { panic("weavetest.Tx cannot be unmarshaled") }

// Msg is routed to RoutePath. Its serialized form is Serialized. Every
// method, Validate included, fails with Err if set.
type Msg struct {
	RoutePath  string
	Serialized []byte
	Err        error
}

var _ anchortl.Msg = (*Msg)(nil)

func (m *Msg) Path() string { return m.RoutePath }

func (m *Msg) Validate() error { return m.Err }

func (m *Msg) Marshal() ([]byte, error) { return m.Serialized, m.Err }

func (m *Msg) Unmarshal(raw []byte) error {
	m.Serialized = raw
	return m.Err
}

// SequenceID is the key the n-th value of an orm sequence gets.
func SequenceID(n uint64) []byte {
	return orm.EncodeSequence(int64(n))
}
