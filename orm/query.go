package orm

import (
	anchortl "github.com/cqfd/anchor-tl"
)

// ConsumeIterator collects the remaining pairs of it and closes it.
func ConsumeIterator(it anchortl.Iterator) ([]anchortl.Model, error) {
	defer it.Close()

	var models []anchortl.Model
	for it.Valid() {
		models = append(models, anchortl.Pair(it.Key(), it.Value()))
		if err := it.Next(); err != nil {
			return nil, err
		}
	}
	return models, nil
}

// prefixRange returns the iterator bounds covering every key that starts
// with prefix. An empty prefix or one made of 0xFF bytes only has no
// upper bound.
func prefixRange(prefix []byte) (start, end []byte) {
	if len(prefix) == 0 {
		return nil, nil
	}
	end = append([]byte(nil), prefix...)
	for i := len(end) - 1; i >= 0; i-- {
		end[i]++
		if end[i] != 0 {
			return prefix, end[:i+1]
		}
	}
	return prefix, nil
}

// RegisterQuery serves the whole store, without any bucket prefix, under
// "/".
func RegisterQuery(qr anchortl.QueryRouter) {
	qr.Register("/", rawQuery{})
}

type rawQuery struct{}

func (rawQuery) Query(db anchortl.ReadOnlyKVStore, mod string, data []byte) ([]anchortl.Model, error) {
	return query(db, mod, data)
}
