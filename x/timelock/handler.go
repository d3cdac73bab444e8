package timelock

import (
	anchortl "github.com/cqfd/anchor-tl"
	"github.com/cqfd/anchor-tl/errors"
	"github.com/cqfd/anchor-tl/orm"
	"github.com/cqfd/anchor-tl/x"
	"github.com/cqfd/anchor-tl/x/token"
)

const (
	lockCost   int64 = 200
	unlockCost int64 = 0
)

// RegisterRoutes will instantiate and register
// all handlers in this package
func RegisterRoutes(r anchortl.Registry, auth x.Authenticator, ctrl token.Controller) {
	bucket := NewBucket()
	r.Handle(pathLockMsg, LockHandler{auth: auth, bucket: bucket, ctrl: ctrl})
	r.Handle(pathUnlockMsg, UnlockHandler{bucket: bucket, ctrl: ctrl})
}

// LockHandler creates a timelock and takes custody of the locked account.
type LockHandler struct {
	auth   x.Authenticator
	bucket orm.ModelBucket
	ctrl   token.Controller
}

var _ anchortl.Handler = LockHandler{}

func (h LockHandler) Check(ctx anchortl.Context, db anchortl.KVStore, tx anchortl.Tx) (*anchortl.CheckResult, error) {
	if _, _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &anchortl.CheckResult{GasAllocated: lockCost}, nil
}

// Deliver stores the timelock and hands the account over to the escrow
// address. The escrow address is returned as the result data.
func (h LockHandler) Deliver(ctx anchortl.Context, db anchortl.KVStore, tx anchortl.Tx) (*anchortl.DeliverResult, error) {
	msg, escrow, unlock, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}

	tl := Timelock{
		Metadata:        anchortl.NewMetadata(),
		Account:         msg.Account,
		Receiver:        msg.Receiver,
		ReceiverAccount: msg.ReceiverAccount,
		UnlockTime:      unlock,
		Bump:            uint8(msg.Bump),
	}
	if err := h.bucket.Create(db, escrow, &tl); err != nil {
		return nil, errors.Wrap(err, "cannot store timelock")
	}
	if err := h.ctrl.SetOwner(ctx, h.auth, db, msg.Account, escrow); err != nil {
		return nil, errors.Wrap(err, "custody")
	}

	anchortl.GetLogger(ctx).Info("timelock locked",
		"escrow", escrow, "account", msg.Account, "unlock_time", unlock)
	return &anchortl.DeliverResult{Data: escrow}, nil
}

// validate does all common pre-processing between Check and Deliver.
func (h LockHandler) validate(ctx anchortl.Context, db anchortl.KVStore, tx anchortl.Tx) (*LockMsg, anchortl.Address, anchortl.UnixTime, error) {
	var msg LockMsg
	if err := anchortl.LoadMsg(tx, &msg); err != nil {
		return nil, nil, 0, errors.Wrap(err, "load msg")
	}
	if !h.auth.HasAddress(ctx, msg.Initializer) {
		return nil, nil, 0, errors.Wrap(errors.ErrUnauthorized, "initializer signature missing")
	}

	cond, bump, err := EscrowCondition(msg.Receiver)
	if err != nil {
		return nil, nil, 0, errors.Wrap(err, "escrow condition")
	}
	if uint32(bump) != msg.Bump {
		return nil, nil, 0, errors.Wrapf(errors.ErrInput, "bump %d is not canonical", msg.Bump)
	}
	escrow := cond.Address()

	owner, err := h.ctrl.Owner(db, msg.Account)
	if err != nil {
		return nil, nil, 0, errors.Wrap(err, "account")
	}
	if !owner.Equals(msg.Initializer) {
		return nil, nil, 0, errors.Wrapf(ErrNotOwner, "account owned by %s", owner)
	}

	switch err := h.bucket.Has(db, escrow); {
	case err == nil:
		return nil, nil, 0, errors.Wrapf(errors.ErrDuplicate, "receiver %s already has a timelock", msg.Receiver)
	case !errors.ErrNotFound.Is(err):
		return nil, nil, 0, err
	}

	locked, err := h.ctrl.Balance(db, msg.Account)
	if err != nil {
		return nil, nil, 0, errors.Wrap(err, "account")
	}
	credited, err := h.ctrl.Balance(db, msg.ReceiverAccount)
	if err != nil {
		return nil, nil, 0, errors.Wrap(err, "receiver account")
	}
	if !locked.SameType(credited) {
		return nil, nil, 0, errors.Wrapf(errors.ErrCurrency, "cannot release %s to a %s account", locked.Ticker, credited.Ticker)
	}

	now, ok := anchortl.BlockTime(ctx)
	if !ok {
		return nil, nil, 0, errors.Wrap(errors.ErrHuman, "block time not present")
	}
	unlock, err := anchortl.AsUnixTime(now).AddSeconds(msg.Duration)
	if err != nil {
		return nil, nil, 0, errors.Wrap(ErrDurationOverflow, err.Error())
	}
	return &msg, escrow, unlock, nil
}

// UnlockHandler releases the tokens held in custody once the unlock time is
// reached. It does not require any signature.
type UnlockHandler struct {
	bucket orm.ModelBucket
	ctrl   token.Controller
}

var _ anchortl.Handler = UnlockHandler{}

func (h UnlockHandler) Check(ctx anchortl.Context, db anchortl.KVStore, tx anchortl.Tx) (*anchortl.CheckResult, error) {
	if _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &anchortl.CheckResult{GasAllocated: unlockCost}, nil
}

// Deliver moves the whole balance of the custody account to the receiver
// account and deletes the timelock.
func (h UnlockHandler) Deliver(ctx anchortl.Context, db anchortl.KVStore, tx anchortl.Tx) (*anchortl.DeliverResult, error) {
	msg, tl, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}

	cond, err := Condition(tl.Receiver, tl.Bump)
	if err != nil {
		return nil, errors.Wrap(err, "escrow condition")
	}
	available, err := h.ctrl.Balance(db, msg.Account)
	if err != nil {
		return nil, err
	}
	if !available.IsZero() {
		auth := escrowAuth{cond: cond}
		if err := h.ctrl.Transfer(ctx, auth, db, msg.Account, tl.ReceiverAccount, available); err != nil {
			return nil, errors.Wrap(err, "release")
		}
	}
	if err := h.bucket.Delete(db, msg.Escrow); err != nil {
		return nil, errors.Wrap(err, "cannot delete timelock")
	}

	anchortl.GetLogger(ctx).Info("timelock released",
		"escrow", msg.Escrow, "receiver_account", tl.ReceiverAccount, "amount", available)
	return &anchortl.DeliverResult{}, nil
}

// validate does all common pre-processing between Check and Deliver.
func (h UnlockHandler) validate(ctx anchortl.Context, db anchortl.KVStore, tx anchortl.Tx) (*UnlockMsg, *Timelock, error) {
	var msg UnlockMsg
	if err := anchortl.LoadMsg(tx, &msg); err != nil {
		return nil, nil, errors.Wrap(err, "load msg")
	}

	var tl Timelock
	switch err := h.bucket.One(db, msg.Escrow, &tl); {
	case errors.ErrNotFound.Is(err):
		return nil, nil, errors.Wrapf(ErrNoSuchEscrow, "escrow %s", msg.Escrow)
	case err != nil:
		return nil, nil, errors.Wrap(err, "cannot load timelock")
	}

	if !anchortl.IsExpired(ctx, tl.UnlockTime) {
		return nil, nil, errors.Wrapf(ErrHasntUnlockedYet, "unlocks at %s", tl.UnlockTime)
	}

	if !msg.Receiver.Equals(tl.Receiver) {
		return nil, nil, errors.Wrap(ErrReceiverMismatch, "receiver")
	}
	if !msg.ReceiverAccount.Equals(tl.ReceiverAccount) {
		return nil, nil, errors.Wrap(ErrReceiverMismatch, "receiver account")
	}

	if !msg.Account.Equals(tl.Account) {
		return nil, nil, errors.Wrapf(errors.ErrInput, "account %s is not held by the timelock", msg.Account)
	}
	owner, err := h.ctrl.Owner(db, msg.Account)
	if err != nil {
		return nil, nil, errors.Wrap(err, "account")
	}
	if !owner.Equals(msg.Escrow) {
		return nil, nil, errors.Wrap(errors.ErrUnauthorized, "account not held by the escrow")
	}
	return &msg, &tl, nil
}
