package utils

import (
	"encoding/hex"
	"strings"

	anchortl "github.com/cqfd/anchor-tl"
	"github.com/cqfd/anchor-tl/store"
	"github.com/tendermint/tendermint/libs/common"
)

// ActionKey is the tag ActionTagger sets to the message path.
const ActionKey = "action"

// ActionTagger tags each delivered transaction with the path of its
// message, so clients can search for every unlock.
type ActionTagger struct{}

var _ anchortl.Decorator = ActionTagger{}

func NewActionTagger() ActionTagger {
	return ActionTagger{}
}

func (ActionTagger) Check(ctx anchortl.Context, db anchortl.KVStore, tx anchortl.Tx, next anchortl.Checker) (*anchortl.CheckResult, error) {
	return next.Check(ctx, db, tx)
}

func (ActionTagger) Deliver(ctx anchortl.Context, db anchortl.KVStore, tx anchortl.Tx, next anchortl.Deliverer) (*anchortl.DeliverResult, error) {
	msg, err := tx.GetMsg()
	if err != nil {
		return nil, err
	}
	res, err := next.Deliver(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	res.Tags = append(res.Tags, common.KVPair{Key: []byte(ActionKey), Value: []byte(msg.Path())})
	return res, nil
}

// KeyTagger tags each delivered transaction with the store keys it
// changed. The tag key is the key in upper case hex and the value is "s"
// for a write or "d" for a delete.
type KeyTagger struct{}

var _ anchortl.Decorator = KeyTagger{}

func NewKeyTagger() KeyTagger {
	return KeyTagger{}
}

func (KeyTagger) Check(ctx anchortl.Context, db anchortl.KVStore, tx anchortl.Tx, next anchortl.Checker) (*anchortl.CheckResult, error) {
	return next.Check(ctx, db, tx)
}

func (KeyTagger) Deliver(ctx anchortl.Context, db anchortl.KVStore, tx anchortl.Tx, next anchortl.Deliverer) (*anchortl.DeliverResult, error) {
	rec := store.NewRecordingStore(db)
	res, err := next.Deliver(ctx, rec, tx)
	if err != nil {
		return nil, err
	}
	if r, ok := rec.(store.Recorder); ok {
		res.Tags = append(res.Tags, keyTags(r.KVPairs())...)
	}
	return res, nil
}

// keyTags is sorted by key, map order is not deterministic.
func keyTags(changes map[string][]byte) common.KVPairs {
	if len(changes) == 0 {
		return nil
	}
	tags := make(common.KVPairs, 0, len(changes))
	for key, value := range changes {
		op := "s"
		if value == nil {
			op = "d"
		}
		tags = append(tags, common.KVPair{
			Key:   []byte(strings.ToUpper(hex.EncodeToString([]byte(key)))),
			Value: []byte(op),
		})
	}
	tags.Sort()
	return tags
}
