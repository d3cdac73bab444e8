package sigs

import "github.com/cqfd/anchor-tl/errors"

// ErrInvalidSequence is returned when a signature nonce does not match the
// one stored for the signer.
var ErrInvalidSequence = errors.Register(120, "invalid sequence number")
