package token

import (
	anchortl "github.com/cqfd/anchor-tl"
	"github.com/cqfd/anchor-tl/errors"
	"github.com/cqfd/anchor-tl/x"
)

const (
	createAccountCost = 100
	transferCost      = 100
	setOwnerCost      = 50
)

// RegisterRoutes will instantiate and register
// all handlers in this package
func RegisterRoutes(r anchortl.Registry, auth x.Authenticator, ctrl BaseController) {
	r.Handle(pathCreateAccountMsg, &createAccountHandler{ctrl: ctrl})
	r.Handle(pathTransferMsg, &transferHandler{auth: auth, ctrl: ctrl})
	r.Handle(pathSetOwnerMsg, &setOwnerHandler{auth: auth, ctrl: ctrl})
}

type createAccountHandler struct {
	ctrl BaseController
}

var _ anchortl.Handler = (*createAccountHandler)(nil)

func (h *createAccountHandler) Check(ctx anchortl.Context, db anchortl.KVStore, tx anchortl.Tx) (*anchortl.CheckResult, error) {
	var msg CreateAccountMsg
	if err := anchortl.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	return &anchortl.CheckResult{GasAllocated: createAccountCost}, nil
}

// Deliver returns the new account address as the result data.
func (h *createAccountHandler) Deliver(ctx anchortl.Context, db anchortl.KVStore, tx anchortl.Tx) (*anchortl.DeliverResult, error) {
	var msg CreateAccountMsg
	if err := anchortl.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	addr, err := h.ctrl.CreateAccount(db, msg.Owner, msg.Ticker)
	if err != nil {
		return nil, err
	}
	return &anchortl.DeliverResult{Data: addr}, nil
}

type transferHandler struct {
	auth x.Authenticator
	ctrl BaseController
}

var _ anchortl.Handler = (*transferHandler)(nil)

func (h *transferHandler) Check(ctx anchortl.Context, db anchortl.KVStore, tx anchortl.Tx) (*anchortl.CheckResult, error) {
	var msg TransferMsg
	if err := anchortl.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	owner, err := h.ctrl.Owner(db, msg.Source)
	if err != nil {
		return nil, err
	}
	if !h.auth.HasAddress(ctx, owner) {
		return nil, errors.Wrapf(errors.ErrUnauthorized, "owner %s not in signers %v", owner, x.Signers(ctx, h.auth))
	}
	return &anchortl.CheckResult{GasAllocated: transferCost}, nil
}

func (h *transferHandler) Deliver(ctx anchortl.Context, db anchortl.KVStore, tx anchortl.Tx) (*anchortl.DeliverResult, error) {
	var msg TransferMsg
	if err := anchortl.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	if err := h.ctrl.Transfer(ctx, h.auth, db, msg.Source, msg.Destination, *msg.Amount); err != nil {
		return nil, err
	}
	return &anchortl.DeliverResult{}, nil
}

type setOwnerHandler struct {
	auth x.Authenticator
	ctrl BaseController
}

var _ anchortl.Handler = (*setOwnerHandler)(nil)

func (h *setOwnerHandler) Check(ctx anchortl.Context, db anchortl.KVStore, tx anchortl.Tx) (*anchortl.CheckResult, error) {
	var msg SetOwnerMsg
	if err := anchortl.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	owner, err := h.ctrl.Owner(db, msg.Account)
	if err != nil {
		return nil, err
	}
	if !h.auth.HasAddress(ctx, owner) {
		return nil, errors.Wrapf(errors.ErrUnauthorized, "owner %s not in signers %v", owner, x.Signers(ctx, h.auth))
	}
	return &anchortl.CheckResult{GasAllocated: setOwnerCost}, nil
}

func (h *setOwnerHandler) Deliver(ctx anchortl.Context, db anchortl.KVStore, tx anchortl.Tx) (*anchortl.DeliverResult, error) {
	var msg SetOwnerMsg
	if err := anchortl.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	if err := h.ctrl.SetOwner(ctx, h.auth, db, msg.Account, msg.NewOwner); err != nil {
		return nil, err
	}
	return &anchortl.DeliverResult{}, nil
}
