package app

import (
	"testing"

	anchortl "github.com/cqfd/anchor-tl"
	"github.com/cqfd/anchor-tl/codec"
	"github.com/cqfd/anchor-tl/coin"
	"github.com/cqfd/anchor-tl/errors"
	"github.com/cqfd/anchor-tl/weavetest"
	"github.com/cqfd/anchor-tl/x/sigs"
	"github.com/cqfd/anchor-tl/x/timelock"
	"github.com/cqfd/anchor-tl/x/token"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTxBinary(t *testing.T) {
	key := weavetest.NewKey()
	cases := map[string]anchortl.Msg{
		"lock": &timelock.LockMsg{
			Metadata:        anchortl.NewMetadata(),
			Initializer:     weavetest.NewCondition().Address(),
			Account:         weavetest.NewCondition().Address(),
			Receiver:        weavetest.NewCondition().Address(),
			ReceiverAccount: weavetest.NewCondition().Address(),
			Bump:            254,
			Duration:        3600,
		},
		"transfer": &token.TransferMsg{
			Metadata:    anchortl.NewMetadata(),
			Source:      weavetest.NewCondition().Address(),
			Destination: weavetest.NewCondition().Address(),
			Amount:      coin.NewCoinp(3, 0, "IOV"),
			Memo:        "rent",
		},
	}

	for name, msg := range cases {
		t.Run(name, func(t *testing.T) {
			tx := &Tx{Msg: msg}
			sig, err := sigs.SignTx(key, tx, "test-chain", 4)
			require.NoError(t, err)
			tx.Signatures = []*sigs.StdSignature{sig}

			raw, err := tx.Marshal()
			require.NoError(t, err)

			decoded, err := TxDecoder(raw)
			require.NoError(t, err)
			assert.Equal(t, tx, decoded)
			assert.Equal(t, msg.Path(), anchortl.GetPath(decoded))
		})
	}
}

func TestTxSignBytes(t *testing.T) {
	msg := &token.SetOwnerMsg{
		Metadata: anchortl.NewMetadata(),
		Account:  weavetest.NewCondition().Address(),
		NewOwner: weavetest.NewCondition().Address(),
	}
	tx := &Tx{Msg: msg}
	unsigned, err := tx.GetSignBytes()
	require.NoError(t, err)

	sig, err := sigs.SignTx(weavetest.NewKey(), tx, "test-chain", 0)
	require.NoError(t, err)
	tx.Signatures = []*sigs.StdSignature{sig}

	signed, err := tx.GetSignBytes()
	require.NoError(t, err)
	assert.Equal(t, unsigned, signed)
	assert.Len(t, tx.GetSignatures(), 1)
}

func TestTxErrors(t *testing.T) {
	empty := &Tx{}
	_, err := empty.GetMsg()
	assert.True(t, errors.ErrMsg.Is(err))

	unknown := &Tx{Msg: &weavetest.Msg{RoutePath: "test/unknown"}}
	_, err = unknown.Marshal()
	assert.True(t, errors.ErrMsg.Is(err))

	// two messages in one envelope
	b := codec.NewBuffer()
	b.EncodeMessage(fieldUnlockMsg, &timelock.UnlockMsg{Metadata: anchortl.NewMetadata()})
	b.EncodeMessage(fieldSetOwnerMsg, &token.SetOwnerMsg{Metadata: anchortl.NewMetadata()})
	require.NoError(t, b.Err())
	_, err = TxDecoder(b.Bytes())
	assert.True(t, errors.ErrMsg.Is(err))

	_, err = TxDecoder([]byte{0xff, 0xff})
	assert.Error(t, err)
}
