/*
Package codec implements the protobuf wire format used to persist models and
to transmit transactions.

Every persisted structure implements Marshal and Unmarshal by hand on top of
a Buffer and a Reader, field numbers are stable and must never be reused.
Zero values are omitted from the output, the same way proto3 does.

  func (m *Foo) Marshal() ([]byte, error) {
  	b := codec.NewBuffer()
  	b.EncodeString(1, m.Name)
  	b.EncodeUint(2, m.Count)
  	return b.Bytes(), b.Err()
  }
*/
package codec
