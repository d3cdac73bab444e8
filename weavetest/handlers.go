package weavetest

import anchortl "github.com/cqfd/anchor-tl"

// Handler counts its calls and returns the configured result, or the
// configured error if set.
type Handler struct {
	CheckResult   anchortl.CheckResult
	CheckErr      error
	DeliverResult anchortl.DeliverResult
	DeliverErr    error

	calls counter
}

var _ anchortl.Handler = (*Handler)(nil)

func (h *Handler) Check(anchortl.Context, anchortl.KVStore, anchortl.Tx) (*anchortl.CheckResult, error) {
	h.calls.check++
	if h.CheckErr != nil {
		return nil, h.CheckErr
	}
	res := h.CheckResult
	return &res, nil
}

func (h *Handler) Deliver(anchortl.Context, anchortl.KVStore, anchortl.Tx) (*anchortl.DeliverResult, error) {
	h.calls.deliver++
	if h.DeliverErr != nil {
		return nil, h.DeliverErr
	}
	res := h.DeliverResult
	return &res, nil
}

func (h *Handler) CheckCallCount() int   { return h.calls.check }
func (h *Handler) DeliverCallCount() int { return h.calls.deliver }
func (h *Handler) CallCount() int        { return h.calls.total() }

// WriteHandler stores Key=Value on every call and then fails with Err if
// set. Tests use it to see whether writes of a failed transaction are
// rolled back.
type WriteHandler struct {
	Key   []byte
	Value []byte
	Err   error
}

var _ anchortl.Handler = (*WriteHandler)(nil)

func (h *WriteHandler) write(db anchortl.KVStore) error {
	if err := db.Set(h.Key, h.Value); err != nil {
		return err
	}
	return h.Err
}

func (h *WriteHandler) Check(_ anchortl.Context, db anchortl.KVStore, _ anchortl.Tx) (*anchortl.CheckResult, error) {
	if err := h.write(db); err != nil {
		return nil, err
	}
	return &anchortl.CheckResult{}, nil
}

func (h *WriteHandler) Deliver(_ anchortl.Context, db anchortl.KVStore, _ anchortl.Tx) (*anchortl.DeliverResult, error) {
	if err := h.write(db); err != nil {
		return nil, err
	}
	return &anchortl.DeliverResult{}, nil
}
