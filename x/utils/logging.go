package utils

import (
	"time"

	anchortl "github.com/cqfd/anchor-tl"
	"github.com/tendermint/tendermint/libs/log"
)

// Logging writes one log line per transaction with its path and how long
// the rest of the stack took in microseconds. Failures are logged at
// error level, CheckTx at debug and DeliverTx at info.
type Logging struct{}

var _ anchortl.Decorator = Logging{}

func NewLogging() Logging {
	return Logging{}
}

func (Logging) Check(ctx anchortl.Context, db anchortl.KVStore, tx anchortl.Tx, next anchortl.Checker) (*anchortl.CheckResult, error) {
	start := time.Now()
	res, err := next.Check(ctx, db, tx)
	logger := txLogger(ctx, tx, start)
	if err != nil {
		logger.Error("check failed", "err", err)
	} else {
		logger.Debug(res.Log)
	}
	return res, err
}

func (Logging) Deliver(ctx anchortl.Context, db anchortl.KVStore, tx anchortl.Tx, next anchortl.Deliverer) (*anchortl.DeliverResult, error) {
	start := time.Now()
	res, err := next.Deliver(ctx, db, tx)
	logger := txLogger(ctx, tx, start)
	if err != nil {
		logger.Error("deliver failed", "err", err)
	} else {
		logger.Info(res.Log)
	}
	return res, err
}

func txLogger(ctx anchortl.Context, tx anchortl.Tx, start time.Time) log.Logger {
	return anchortl.GetLogger(ctx).With(
		"path", anchortl.GetPath(tx),
		"duration", time.Since(start).Nanoseconds()/int64(time.Microsecond))
}
