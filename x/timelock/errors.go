package timelock

import "github.com/cqfd/anchor-tl/errors"

// Timelock extension takes codes 1300-1399.
var (
	ErrDurationOverflow = errors.Register(1300, "unlock time overflow")
	ErrNotOwner         = errors.Register(1301, "not the account owner")
	ErrHasntUnlockedYet = errors.Register(1302, "not unlocked yet")
	ErrNoSuchEscrow     = errors.Register(1303, "no such escrow")
	ErrReceiverMismatch = errors.Register(1304, "receiver mismatch")
)
