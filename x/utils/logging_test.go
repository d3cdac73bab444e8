package utils

import (
	"bytes"
	"context"
	"testing"

	anchortl "github.com/cqfd/anchor-tl"
	"github.com/cqfd/anchor-tl/errors"
	"github.com/cqfd/anchor-tl/store"
	"github.com/cqfd/anchor-tl/weavetest"
	"github.com/stretchr/testify/assert"
	"github.com/tendermint/tendermint/libs/log"
)

func TestLogging(t *testing.T) {
	cases := map[string]struct {
		handler  *weavetest.Handler
		check    bool
		contains []string
	}{
		"check is logged at debug": {
			handler:  &weavetest.Handler{CheckResult: anchortl.CheckResult{Log: "checked"}},
			check:    true,
			contains: []string{"D[", "checked", "path=timelock/unlock", "duration="},
		},
		"deliver is logged at info": {
			handler:  &weavetest.Handler{DeliverResult: anchortl.DeliverResult{Log: "delivered"}},
			contains: []string{"I[", "delivered", "path=timelock/unlock"},
		},
		"failure is logged at error": {
			handler:  &weavetest.Handler{DeliverErr: errors.ErrNotFound.New("gone")},
			contains: []string{"E[", "err=", "gone"},
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			var buf bytes.Buffer
			ctx := anchortl.WithLogger(context.Background(), log.NewTMLogger(&buf))
			tx := &weavetest.Tx{Msg: &weavetest.Msg{RoutePath: "timelock/unlock"}}

			if tc.check {
				_, _ = NewLogging().Check(ctx, store.MemStore(), tx, tc.handler)
			} else {
				_, _ = NewLogging().Deliver(ctx, store.MemStore(), tx, tc.handler)
			}
			for _, want := range tc.contains {
				assert.Contains(t, buf.String(), want)
			}
		})
	}
}
