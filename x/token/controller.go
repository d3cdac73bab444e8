package token

import (
	anchortl "github.com/cqfd/anchor-tl"
	"github.com/cqfd/anchor-tl/coin"
	"github.com/cqfd/anchor-tl/errors"
	"github.com/cqfd/anchor-tl/orm"
	"github.com/cqfd/anchor-tl/x"
)

// Controller is the token account functionality other extensions may use.
type Controller interface {
	// Balance returns the current balance of an account.
	Balance(db anchortl.ReadOnlyKVStore, account anchortl.Address) (coin.Coin, error)
	// Owner returns the address allowed to control an account.
	Owner(db anchortl.ReadOnlyKVStore, account anchortl.Address) (anchortl.Address, error)
	// SetOwner reassigns the account to a new owner. Only the current
	// owner, as reported by the authenticator, may do that.
	SetOwner(ctx anchortl.Context, auth x.Authenticator, db anchortl.KVStore, account, newOwner anchortl.Address) error
	// Transfer moves tokens between two accounts of the same currency.
	// Only the owner of the source account may do that.
	Transfer(ctx anchortl.Context, auth x.Authenticator, db anchortl.KVStore, src, dest anchortl.Address, amount coin.Coin) error
}

// BaseController implements Controller on top of the account bucket.
type BaseController struct {
	bucket orm.ModelBucket
	seq    orm.Sequence
}

var _ Controller = BaseController{}

// NewController returns a controller of the accounts stored in this
// extension bucket.
func NewController() BaseController {
	return BaseController{
		bucket: NewBucket(),
		seq:    orm.NewBucket(BucketName).Sequence("id"),
	}
}

// CreateAccount opens a new empty account of the given currency and returns
// its address.
func (c BaseController) CreateAccount(db anchortl.KVStore, owner anchortl.Address, ticker string) (anchortl.Address, error) {
	if !coin.IsCC(ticker) {
		return nil, errors.Wrapf(errors.ErrCurrency, "invalid ticker %q", ticker)
	}
	_, id, err := c.seq.Next(db)
	if err != nil {
		return nil, errors.Wrap(err, "account sequence")
	}
	addr := AccountCondition(id).Address()
	acc := Account{
		Metadata: anchortl.NewMetadata(),
		Owner:    owner,
		Coin:     coin.NewCoinp(0, 0, ticker),
	}
	if err := c.bucket.Create(db, addr, &acc); err != nil {
		return nil, errors.Wrap(err, "create account")
	}
	return addr, nil
}

func (c BaseController) account(db anchortl.ReadOnlyKVStore, addr anchortl.Address) (*Account, error) {
	var acc Account
	if err := c.bucket.One(db, addr, &acc); err != nil {
		return nil, errors.Wrapf(err, "account %s", addr)
	}
	return &acc, nil
}

func (c BaseController) Balance(db anchortl.ReadOnlyKVStore, addr anchortl.Address) (coin.Coin, error) {
	acc, err := c.account(db, addr)
	if err != nil {
		return coin.Coin{}, err
	}
	return *acc.Coin, nil
}

func (c BaseController) Owner(db anchortl.ReadOnlyKVStore, addr anchortl.Address) (anchortl.Address, error) {
	acc, err := c.account(db, addr)
	if err != nil {
		return nil, err
	}
	return acc.Owner, nil
}

func (c BaseController) SetOwner(ctx anchortl.Context, auth x.Authenticator, db anchortl.KVStore, addr, newOwner anchortl.Address) error {
	if err := newOwner.Validate(); err != nil {
		return errors.Wrap(err, "new owner")
	}
	acc, err := c.account(db, addr)
	if err != nil {
		return err
	}
	if !auth.HasAddress(ctx, acc.Owner) {
		return errors.Wrap(errors.ErrUnauthorized, "account owner signature missing")
	}
	acc.Owner = newOwner
	return c.bucket.Put(db, addr, acc)
}

func (c BaseController) Transfer(ctx anchortl.Context, auth x.Authenticator, db anchortl.KVStore, src, dest anchortl.Address, amount coin.Coin) error {
	if !amount.IsPositive() {
		return errors.Wrap(errors.ErrAmount, "non positive transfer")
	}
	if src.Equals(dest) {
		return errors.Wrap(errors.ErrInput, "source and destination are the same account")
	}
	from, err := c.account(db, src)
	if err != nil {
		return err
	}
	if !auth.HasAddress(ctx, from.Owner) {
		return errors.Wrap(errors.ErrUnauthorized, "account owner signature missing")
	}
	to, err := c.account(db, dest)
	if err != nil {
		return err
	}
	if !from.Coin.SameType(amount) || !to.Coin.SameType(amount) {
		return errors.Wrapf(errors.ErrCurrency, "cannot transfer %s", amount.Ticker)
	}
	if !from.Coin.IsGTE(amount) {
		return errors.Wrapf(errors.ErrInsufficientAmount, "balance %s", from.Coin)
	}

	left, err := from.Coin.Subtract(amount)
	if err != nil {
		return err
	}
	total, err := to.Coin.Add(amount)
	if err != nil {
		return err
	}
	from.Coin, to.Coin = &left, &total

	if err := c.bucket.Put(db, src, from); err != nil {
		return err
	}
	return c.bucket.Put(db, dest, to)
}

// Issue adds newly created tokens to an account. It must never be reachable
// by a transaction; it is used to fund accounts at genesis.
func (c BaseController) Issue(db anchortl.KVStore, addr anchortl.Address, amount coin.Coin) error {
	acc, err := c.account(db, addr)
	if err != nil {
		return err
	}
	total, err := acc.Coin.Add(amount)
	if err != nil {
		return err
	}
	acc.Coin = &total
	return c.bucket.Put(db, addr, acc)
}
