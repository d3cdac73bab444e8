package app

import (
	anchortl "github.com/cqfd/anchor-tl"
	"github.com/cqfd/anchor-tl/errors"
)

// states tracks the committed store together with the two caches used
// between commits. DeliverTx writes into deliver, CheckTx into check. On
// commit deliver is flushed and check is dropped.
type states struct {
	committed anchortl.CommitKVStore
	deliver   anchortl.KVCacheWrap
	check     anchortl.KVCacheWrap
}

func loadStates(db anchortl.CommitKVStore) (*states, error) {
	if err := db.LoadLatestVersion(); err != nil {
		return nil, errors.Wrap(err, "load latest version")
	}
	s := &states{committed: db}
	s.reset()
	return s, nil
}

func (s *states) reset() {
	s.deliver = s.committed.CacheWrap()
	s.check = s.committed.CacheWrap()
}

func (s *states) latest() (anchortl.CommitID, error) {
	return s.committed.LatestVersion()
}

func (s *states) commit() (anchortl.CommitID, error) {
	if err := s.deliver.Write(); err != nil {
		return anchortl.CommitID{}, errors.Wrap(err, "flush deliver state")
	}
	s.check.Discard()
	id, err := s.committed.Commit()
	if err != nil {
		return id, errors.Wrap(err, "commit")
	}
	s.reset()
	return id, nil
}

// chainIDKey is outside of every bucket, as the ":" separator shows.
var chainIDKey = []byte("_tl:chainID")

func readChainID(db anchortl.ReadOnlyKVStore) (string, error) {
	raw, err := db.Get(chainIDKey)
	return string(raw), err
}

// writeChainID stores the chain id once. A second call fails.
func writeChainID(db anchortl.KVStore, chainID string) error {
	if !anchortl.IsValidChainID(chainID) {
		return errors.Wrapf(errors.ErrInput, "chain id %q", chainID)
	}
	switch exists, err := db.Has(chainIDKey); {
	case err != nil:
		return errors.Wrap(err, "read chain id")
	case exists:
		return errors.Wrap(errors.ErrUnauthorized, "chain id is set at genesis only")
	}
	return db.Set(chainIDKey, []byte(chainID))
}
