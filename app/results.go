package app

import (
	anchortl "github.com/cqfd/anchor-tl"
	"github.com/cqfd/anchor-tl/codec"
	"github.com/cqfd/anchor-tl/errors"
)

// ResultSet is a list of byte slices. A query response carries the keys
// and the values of its matches as two ResultSets of equal length.
type ResultSet struct {
	Results [][]byte
}

func (r *ResultSet) Marshal() ([]byte, error) {
	b := codec.NewBuffer()
	b.EncodeRepeatedBytes(1, r.Results)
	return b.Bytes(), b.Err()
}

// Unmarshal keeps empty results as empty slices so that positions in
// the key and value sets stay aligned.
func (r *ResultSet) Unmarshal(raw []byte) error {
	r.Results = nil
	rd := codec.NewReader(raw)
	for rd.Next() {
		if rd.Field() != 1 {
			rd.Skip()
			continue
		}
		val := rd.Bytes()
		if val == nil {
			val = []byte{}
		}
		r.Results = append(r.Results, val)
	}
	return rd.Err()
}

func ResultsFromKeys(models []anchortl.Model) *ResultSet {
	return collectResults(models, func(m anchortl.Model) []byte { return m.Key })
}

func ResultsFromValues(models []anchortl.Model) *ResultSet {
	return collectResults(models, func(m anchortl.Model) []byte { return m.Value })
}

func collectResults(models []anchortl.Model, field func(anchortl.Model) []byte) *ResultSet {
	res := &ResultSet{Results: make([][]byte, len(models))}
	for i, m := range models {
		res.Results[i] = field(m)
	}
	return res
}

// JoinResults pairs keys and values back into models.
func JoinResults(keys, values *ResultSet) ([]anchortl.Model, error) {
	if len(keys.Results) != len(values.Results) {
		return nil, errors.Wrapf(errors.ErrState, "%d keys and %d values", len(keys.Results), len(values.Results))
	}
	models := make([]anchortl.Model, len(keys.Results))
	for i, k := range keys.Results {
		models[i] = anchortl.Pair(k, values.Results[i])
	}
	return models, nil
}

func toModels(rawKeys, rawValues []byte) ([]anchortl.Model, error) {
	var keys, values ResultSet
	if err := keys.Unmarshal(rawKeys); err != nil {
		return nil, errors.Wrap(err, "keys")
	}
	if err := values.Unmarshal(rawValues); err != nil {
		return nil, errors.Wrap(err, "values")
	}
	return JoinResults(&keys, &values)
}

// UnmarshalOneResult loads the first entry of a ResultSet into dest. An
// empty set leaves dest untouched.
func UnmarshalOneResult(raw []byte, dest anchortl.Persistent) error {
	var res ResultSet
	if err := res.Unmarshal(raw); err != nil {
		return err
	}
	if len(res.Results) == 0 {
		return nil
	}
	return dest.Unmarshal(res.Results[0])
}
