package timelock

import (
	"context"
	"math"
	"testing"
	"time"

	anchortl "github.com/cqfd/anchor-tl"
	"github.com/cqfd/anchor-tl/coin"
	"github.com/cqfd/anchor-tl/errors"
	"github.com/cqfd/anchor-tl/store"
	"github.com/cqfd/anchor-tl/weavetest"
	"github.com/cqfd/anchor-tl/x/token"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fixture holds a database with an initializer account funded with 100 IOV
// and an empty receiver account.
type fixture struct {
	db   anchortl.CacheableKVStore
	auth *weavetest.CtxAuth
	ctrl token.BaseController
	lock LockHandler
	free UnlockHandler

	initializer anchortl.Condition
	receiver    anchortl.Condition
	account     anchortl.Address
	recvAccount anchortl.Address
}

func newFixture(t testing.TB) *fixture {
	t.Helper()

	f := &fixture{
		db:          store.MemStore(),
		auth:        &weavetest.CtxAuth{Key: "auth"},
		ctrl:        token.NewController(),
		initializer: weavetest.NewCondition(),
		receiver:    weavetest.NewCondition(),
	}
	f.lock = LockHandler{auth: f.auth, bucket: NewBucket(), ctrl: f.ctrl}
	f.free = UnlockHandler{bucket: NewBucket(), ctrl: f.ctrl}

	var err error
	f.account, err = f.ctrl.CreateAccount(f.db, f.initializer.Address(), "IOV")
	require.NoError(t, err)
	require.NoError(t, f.ctrl.Issue(f.db, f.account, coin.NewCoin(100, 0, "IOV")))
	f.recvAccount, err = f.ctrl.CreateAccount(f.db, f.receiver.Address(), "IOV")
	require.NoError(t, err)
	return f
}

// ctx returns a context at the given block time signed by the signers.
func (f *fixture) ctx(now int64, signers ...anchortl.Condition) anchortl.Context {
	ctx := anchortl.WithBlockTime(context.Background(), time.Unix(now, 0))
	return f.auth.SetConditions(ctx, signers...)
}

func (f *fixture) lockMsg(t testing.TB, duration int64) *LockMsg {
	t.Helper()
	_, bump, err := EscrowCondition(f.receiver.Address())
	require.NoError(t, err)
	return &LockMsg{
		Metadata:        anchortl.NewMetadata(),
		Initializer:     f.initializer.Address(),
		Account:         f.account,
		Receiver:        f.receiver.Address(),
		ReceiverAccount: f.recvAccount,
		Bump:            uint32(bump),
		Duration:        duration,
	}
}

func (f *fixture) unlockMsg(t testing.TB) *UnlockMsg {
	t.Helper()
	return &UnlockMsg{
		Metadata:        anchortl.NewMetadata(),
		Escrow:          f.escrow(t),
		Account:         f.account,
		Receiver:        f.receiver.Address(),
		ReceiverAccount: f.recvAccount,
	}
}

func (f *fixture) escrow(t testing.TB) anchortl.Address {
	t.Helper()
	cond, _, err := EscrowCondition(f.receiver.Address())
	require.NoError(t, err)
	return cond.Address()
}

// doLock locks the initializer account at block time now.
func (f *fixture) doLock(t testing.TB, now, duration int64) {
	t.Helper()
	tx := &weavetest.Tx{Msg: f.lockMsg(t, duration)}
	res, err := f.lock.Deliver(f.ctx(now, f.initializer), f.db, tx)
	require.NoError(t, err)
	require.Equal(t, []byte(f.escrow(t)), res.Data)
}

func (f *fixture) unlock(now int64, msg *UnlockMsg) error {
	_, err := f.free.Deliver(f.ctx(now), f.db, &weavetest.Tx{Msg: msg})
	return err
}

func (f *fixture) balance(t testing.TB, addr anchortl.Address) coin.Coin {
	t.Helper()
	c, err := f.ctrl.Balance(f.db, addr)
	require.NoError(t, err)
	return c
}

func (f *fixture) owner(t testing.TB, addr anchortl.Address) anchortl.Address {
	t.Helper()
	o, err := f.ctrl.Owner(f.db, addr)
	require.NoError(t, err)
	return o
}

func (f *fixture) hasTimelock(t testing.TB) bool {
	t.Helper()
	err := NewBucket().Has(f.db, f.escrow(t))
	if errors.ErrNotFound.Is(err) {
		return false
	}
	require.NoError(t, err)
	return true
}

func TestLockAndReleaseOnTime(t *testing.T) {
	f := newFixture(t)

	f.doLock(t, 1000, 3600)

	var tl Timelock
	require.NoError(t, NewBucket().One(f.db, f.escrow(t), &tl))
	assert.Equal(t, anchortl.UnixTime(4600), tl.UnlockTime)
	assert.Equal(t, f.account, tl.Account)
	assert.Equal(t, f.receiver.Address(), tl.Receiver)
	assert.Equal(t, f.recvAccount, tl.ReceiverAccount)
	assert.Equal(t, f.escrow(t), f.owner(t, f.account))

	err := f.unlock(4599, f.unlockMsg(t))
	assert.True(t, ErrHasntUnlockedYet.Is(err), "%+v", err)
	assert.True(t, f.hasTimelock(t))
	assert.Equal(t, coin.NewCoin(0, 0, "IOV"), f.balance(t, f.recvAccount))

	require.NoError(t, f.unlock(4600, f.unlockMsg(t)))
	assert.Equal(t, coin.NewCoin(100, 0, "IOV"), f.balance(t, f.recvAccount))
	assert.Equal(t, coin.NewCoin(0, 0, "IOV"), f.balance(t, f.account))
	assert.False(t, f.hasTimelock(t))
	// Custody account is left with the escrow.
	assert.Equal(t, f.escrow(t), f.owner(t, f.account))
}

func TestLockDurationOverflow(t *testing.T) {
	f := newFixture(t)

	tx := &weavetest.Tx{Msg: f.lockMsg(t, math.MaxInt64)}
	ctx := f.ctx(1000, f.initializer)

	_, err := f.lock.Check(ctx, f.db, tx)
	assert.True(t, ErrDurationOverflow.Is(err), "%+v", err)
	_, err = f.lock.Deliver(ctx, f.db, tx)
	assert.True(t, ErrDurationOverflow.Is(err), "%+v", err)

	assert.False(t, f.hasTimelock(t))
	assert.Equal(t, f.initializer.Address(), f.owner(t, f.account))
}

func TestLockNotOwner(t *testing.T) {
	f := newFixture(t)
	thief := weavetest.NewCondition()

	msg := f.lockMsg(t, 10)
	msg.Initializer = thief.Address()
	_, err := f.lock.Deliver(f.ctx(1000, thief), f.db, &weavetest.Tx{Msg: msg})
	assert.True(t, ErrNotOwner.Is(err), "%+v", err)

	assert.False(t, f.hasTimelock(t))
	assert.Equal(t, f.initializer.Address(), f.owner(t, f.account))
}

func TestUnlockAfterRelease(t *testing.T) {
	f := newFixture(t)
	f.doLock(t, 1000, 10)

	require.NoError(t, f.unlock(1010, f.unlockMsg(t)))
	err := f.unlock(1010, f.unlockMsg(t))
	assert.True(t, ErrNoSuchEscrow.Is(err), "%+v", err)
	err = f.unlock(5000, f.unlockMsg(t))
	assert.True(t, ErrNoSuchEscrow.Is(err), "%+v", err)

	assert.Equal(t, coin.NewCoin(100, 0, "IOV"), f.balance(t, f.recvAccount))
}

func TestOneTimelockPerReceiver(t *testing.T) {
	f := newFixture(t)
	f.doLock(t, 1000, 10)

	// A different initializer with its own account cannot lock tokens for
	// the same receiver while the first timelock exists.
	other := weavetest.NewCondition()
	otherAccount, err := f.ctrl.CreateAccount(f.db, other.Address(), "IOV")
	require.NoError(t, err)
	require.NoError(t, f.ctrl.Issue(f.db, otherAccount, coin.NewCoin(5, 0, "IOV")))

	msg := f.lockMsg(t, 10)
	msg.Initializer = other.Address()
	msg.Account = otherAccount
	tx := &weavetest.Tx{Msg: msg}
	_, err = f.lock.Deliver(f.ctx(1001, other), f.db, tx)
	assert.True(t, errors.ErrDuplicate.Is(err), "%+v", err)
	assert.Equal(t, other.Address(), f.owner(t, otherAccount))

	// Once released the receiver can get a new timelock.
	require.NoError(t, f.unlock(1010, f.unlockMsg(t)))
	_, err = f.lock.Deliver(f.ctx(1011, other), f.db, tx)
	require.NoError(t, err)
	assert.Equal(t, f.escrow(t), f.owner(t, otherAccount))

	// The drained account of the first timelock is still owned by the
	// escrow but cannot be used to release the second one.
	err = f.unlock(1021, f.unlockMsg(t))
	assert.True(t, errors.ErrInput.Is(err), "%+v", err)
	assert.True(t, f.hasTimelock(t))
	assert.Equal(t, coin.NewCoin(5, 0, "IOV"), f.balance(t, otherAccount))

	second := f.unlockMsg(t)
	second.Account = otherAccount
	require.NoError(t, f.unlock(1021, second))
	assert.Equal(t, coin.NewCoin(105, 0, "IOV"), f.balance(t, f.recvAccount))
	assert.False(t, f.hasTimelock(t))
}

func TestCustodyCannotBeMoved(t *testing.T) {
	f := newFixture(t)
	f.doLock(t, 1000, 3600)

	thirdParty, err := f.ctrl.CreateAccount(f.db, f.initializer.Address(), "IOV")
	require.NoError(t, err)

	everybody := []anchortl.Condition{f.initializer, f.receiver, weavetest.NewCondition()}
	for _, now := range []int64{1000, 4600, 9999} {
		ctx := f.ctx(now, everybody...)
		err := f.ctrl.Transfer(ctx, f.auth, f.db, f.account, thirdParty, coin.NewCoin(1, 0, "IOV"))
		assert.True(t, errors.ErrUnauthorized.Is(err), "%+v", err)
		err = f.ctrl.Transfer(ctx, f.auth, f.db, f.account, f.recvAccount, coin.NewCoin(1, 0, "IOV"))
		assert.True(t, errors.ErrUnauthorized.Is(err), "%+v", err)
		err = f.ctrl.SetOwner(ctx, f.auth, f.db, f.account, f.initializer.Address())
		assert.True(t, errors.ErrUnauthorized.Is(err), "%+v", err)
	}

	// Neither can a second lock of the same account by its former owner.
	_, err = f.lock.Deliver(f.ctx(1000, f.initializer), f.db, &weavetest.Tx{Msg: f.lockMsg(t, 1)})
	assert.True(t, ErrNotOwner.Is(err), "%+v", err)

	assert.Equal(t, coin.NewCoin(100, 0, "IOV"), f.balance(t, f.account))
	assert.Equal(t, f.escrow(t), f.owner(t, f.account))
}

func TestTimelockExistsIffTokensHeld(t *testing.T) {
	f := newFixture(t)

	locked := coin.NewCoin(100, 0, "IOV")
	consistent := func(step string) {
		t.Helper()
		held := f.balance(t, f.account).Equals(locked) && f.balance(t, f.recvAccount).IsZero()
		released := f.balance(t, f.account).IsZero() && f.balance(t, f.recvAccount).Equals(locked)
		if f.hasTimelock(t) {
			assert.True(t, held, step)
		} else {
			assert.True(t, held || released, step)
		}
	}

	consistent("before lock")
	f.doLock(t, 1000, 100)
	consistent("after lock")

	wrongReceiver := f.unlockMsg(t)
	wrongReceiver.Receiver = weavetest.NewCondition().Address()
	wrongAccount := f.unlockMsg(t)
	wrongAccount.ReceiverAccount = f.account
	notCustody := f.unlockMsg(t)
	notCustody.Account = f.recvAccount
	// Anybody can create an empty account owned by the escrow address.
	decoyAccount, err := f.ctrl.CreateAccount(f.db, f.escrow(t), "IOV")
	require.NoError(t, err)
	decoy := f.unlockMsg(t)
	decoy.Account = decoyAccount

	attempts := []struct {
		name string
		now  int64
		msg  *UnlockMsg
		want *errors.Error
	}{
		{"early", 1099, f.unlockMsg(t), ErrHasntUnlockedYet},
		{"wrong receiver", 1100, wrongReceiver, ErrReceiverMismatch},
		{"wrong receiver account", 1100, wrongAccount, ErrReceiverMismatch},
		{"not the custody account", 1100, notCustody, errors.ErrInput},
		{"empty account owned by the escrow", 1100, decoy, errors.ErrInput},
		{"release", 1100, f.unlockMsg(t), nil},
		{"replay", 1100, f.unlockMsg(t), ErrNoSuchEscrow},
	}
	for _, a := range attempts {
		err := f.unlock(a.now, a.msg)
		assert.True(t, a.want.Is(err), "%s: %+v", a.name, err)
		consistent(a.name)
	}
	assert.False(t, f.hasTimelock(t))
}

func TestUnlockTimeGate(t *testing.T) {
	cases := map[string]struct {
		duration int64
		now      int64
		wantErr  *errors.Error
	}{
		"one second early": {
			duration: 60,
			now:      1059,
			wantErr:  ErrHasntUnlockedYet,
		},
		"same block as the lock": {
			duration: 60,
			now:      1000,
			wantErr:  ErrHasntUnlockedYet,
		},
		"exactly at unlock time": {
			duration: 60,
			now:      1060,
		},
		"long after": {
			duration: 60,
			now:      1000000,
		},
		"zero duration": {
			duration: 0,
			now:      1000,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			f := newFixture(t)
			f.doLock(t, 1000, tc.duration)

			tx := &weavetest.Tx{Msg: f.unlockMsg(t)}
			_, err := f.free.Check(f.ctx(tc.now), f.db, tx)
			if !tc.wantErr.Is(err) {
				t.Fatalf("check: %+v", err)
			}
			if err := f.unlock(tc.now, f.unlockMsg(t)); !tc.wantErr.Is(err) {
				t.Fatalf("deliver: %+v", err)
			}
			assert.Equal(t, tc.wantErr != nil, f.hasTimelock(t))
		})
	}
}

func TestFailedUnlockLeavesState(t *testing.T) {
	f := newFixture(t)
	f.doLock(t, 1000, 50)

	before := snapshot(t, f.db)
	err := f.unlock(1049, f.unlockMsg(t))
	assert.True(t, ErrHasntUnlockedYet.Is(err), "%+v", err)
	assert.Equal(t, before, snapshot(t, f.db))

	require.NoError(t, f.unlock(1050, f.unlockMsg(t)))
	assert.NotEqual(t, before, snapshot(t, f.db))

	after := snapshot(t, f.db)
	err = f.unlock(1051, f.unlockMsg(t))
	assert.True(t, ErrNoSuchEscrow.Is(err), "%+v", err)
	assert.Equal(t, after, snapshot(t, f.db))
}

// snapshot returns all key value pairs of the store.
func snapshot(t testing.TB, db anchortl.ReadOnlyKVStore) map[string]string {
	t.Helper()
	it, err := db.Iterator(nil, nil)
	require.NoError(t, err)
	defer it.Close()

	all := make(map[string]string)
	for ; it.Valid(); require.NoError(t, it.Next()) {
		all[string(it.Key())] = string(it.Value())
	}
	return all
}

func TestLockErrors(t *testing.T) {
	cases := map[string]struct {
		mutate  func(f *fixture, msg *LockMsg)
		signers func(f *fixture) []anchortl.Condition
		wantErr *errors.Error
	}{
		"initializer did not sign": {
			mutate:  func(f *fixture, msg *LockMsg) {},
			signers: func(f *fixture) []anchortl.Condition { return []anchortl.Condition{f.receiver} },
			wantErr: errors.ErrUnauthorized,
		},
		"bump is not canonical": {
			mutate:  func(f *fixture, msg *LockMsg) { msg.Bump = (msg.Bump + 255) % 256 },
			wantErr: errors.ErrInput,
		},
		"bump out of range": {
			mutate:  func(f *fixture, msg *LockMsg) { msg.Bump = 256 },
			wantErr: errors.ErrInput,
		},
		"negative duration": {
			mutate:  func(f *fixture, msg *LockMsg) { msg.Duration = -1 },
			wantErr: errors.ErrInput,
		},
		"unknown account": {
			mutate:  func(f *fixture, msg *LockMsg) { msg.Account = weavetest.NewCondition().Address() },
			wantErr: errors.ErrNotFound,
		},
		"unknown receiver account": {
			mutate:  func(f *fixture, msg *LockMsg) { msg.ReceiverAccount = weavetest.NewCondition().Address() },
			wantErr: errors.ErrNotFound,
		},
		"receiver account in another currency": {
			mutate: func(f *fixture, msg *LockMsg) {
				eth, err := f.ctrl.CreateAccount(f.db, f.receiver.Address(), "ETH")
				if err != nil {
					panic(err)
				}
				msg.ReceiverAccount = eth
			},
			wantErr: errors.ErrCurrency,
		},
		"missing metadata": {
			mutate:  func(f *fixture, msg *LockMsg) { msg.Metadata = nil },
			wantErr: errors.ErrSchema,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			f := newFixture(t)
			msg := f.lockMsg(t, 10)
			tc.mutate(f, msg)
			signers := []anchortl.Condition{f.initializer}
			if tc.signers != nil {
				signers = tc.signers(f)
			}
			ctx := f.ctx(1000, signers...)
			tx := &weavetest.Tx{Msg: msg}

			if _, err := f.lock.Check(ctx, f.db, tx); !tc.wantErr.Is(err) {
				t.Fatalf("check: %+v", err)
			}
			if _, err := f.lock.Deliver(ctx, f.db, tx); !tc.wantErr.Is(err) {
				t.Fatalf("deliver: %+v", err)
			}
			assert.False(t, f.hasTimelock(t))
			assert.Equal(t, f.initializer.Address(), f.owner(t, f.account))
		})
	}
}

func TestReleaseEmptyAccount(t *testing.T) {
	f := newFixture(t)

	empty, err := f.ctrl.CreateAccount(f.db, f.initializer.Address(), "IOV")
	require.NoError(t, err)
	msg := f.lockMsg(t, 0)
	msg.Account = empty
	_, err = f.lock.Deliver(f.ctx(1000, f.initializer), f.db, &weavetest.Tx{Msg: msg})
	require.NoError(t, err)

	unlock := f.unlockMsg(t)
	unlock.Account = empty
	require.NoError(t, f.unlock(1000, unlock))
	assert.False(t, f.hasTimelock(t))
	assert.True(t, f.balance(t, f.recvAccount).IsZero())
}
