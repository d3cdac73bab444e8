package anchortl

import (
	"reflect"

	"github.com/cqfd/anchor-tl/errors"
)

// Msg is the request for a single state transition. It carries no
// authentication, signatures live in the Tx around it.
type Msg interface {
	Persistent

	// Path routes the message to its handler, for example
	// "timelock/lock". Only [0-9A-Za-z_/] may be used.
	Path() string

	// Validate checks the message on its own, without reading state.
	Validate() error
}

type Marshaller interface {
	Marshal() ([]byte, error)
}

// Persistent is implemented by pointer types that can be stored and
// loaded.
type Persistent interface {
	Marshaller
	Unmarshal([]byte) error
}

// Tx is a signed envelope around one message. The application defines
// the concrete type together with its decoder.
type Tx interface {
	Persistent
	GetMsg() (Msg, error)
}

// TxDecoder parses raw transaction bytes.
type TxDecoder func(txBytes []byte) (Tx, error)

// GetPath returns the path of the message in tx, "(missing)" if there
// is none.
func GetPath(tx Tx) string {
	if msg, err := tx.GetMsg(); err == nil && msg != nil {
		return msg.Path()
	}
	return "(missing)"
}

// LoadMsg validates the message of tx and stores it in dest, which must
// be a pointer to the message type or to a pointer of it.
func LoadMsg(tx Tx, dest interface{}) error {
	msg, err := tx.GetMsg()
	switch {
	case err != nil:
		return errors.Wrap(err, "transaction message")
	case msg == nil:
		return errors.Wrap(errors.ErrMsg, "missing message")
	}

	out := reflect.ValueOf(dest)
	if out.Kind() != reflect.Ptr {
		return errors.Wrap(errors.ErrType, "destination must be a pointer")
	}
	want := out.Elem().Type()
	val := reflect.ValueOf(msg)
	if !val.Type().AssignableTo(want) {
		if val.Kind() != reflect.Ptr || !val.Elem().Type().AssignableTo(want) {
			return errors.WithType(errors.ErrMsg, msg)
		}
		val = val.Elem()
	}
	if err := msg.Validate(); err != nil {
		return errors.Wrap(err, "invalid message")
	}
	out.Elem().Set(val)
	return nil
}
