package app

import (
	"encoding/hex"
	"encoding/json"
	"fmt"

	anchortl "github.com/cqfd/anchor-tl"
	"github.com/cqfd/anchor-tl/coin"
	"github.com/cqfd/anchor-tl/crypto"
	"github.com/cqfd/anchor-tl/errors"
	"github.com/cqfd/anchor-tl/x/token"
)

// DefaultTicker is the currency of the dev account when none is given.
const DefaultTicker = "IOV"

// GenInitOptions will produce some basic options for one rich
// account, to use for dev mode.
//
// Arguments are an optional ticker and an optional owner address. When no
// owner is given a key is generated and printed out.
func GenInitOptions(args []string) (json.RawMessage, error) {
	ticker := DefaultTicker
	if len(args) > 0 {
		ticker = args[0]
		if !coin.IsCC(ticker) {
			return nil, errors.Wrapf(errors.ErrCurrency, "invalid ticker %s", ticker)
		}
	}

	var owner anchortl.Address
	if len(args) > 1 {
		addr, err := anchortl.ParseAddress(args[1])
		if err != nil {
			return nil, errors.Wrap(err, "owner")
		}
		if addr == nil {
			return nil, errors.Wrap(errors.ErrEmpty, "owner")
		}
		owner = addr
	} else {
		// if no address provided, auto-generate one
		// and print out the keys
		addr, keys, err := GenerateCoinKey()
		if err != nil {
			return nil, err
		}
		owner = addr
		fmt.Println(keys)
	}

	state := map[string]interface{}{
		"token": []token.GenesisAccount{
			{Owner: owner, Coin: coin.NewCoin(123456789, 0, ticker)},
		},
	}
	return json.MarshalIndent(state, "", "  ")
}

type output struct {
	Address anchortl.Address `json:"address"`
	Pubkey  string           `json:"pub_key"`
	Secret  string           `json:"secret"`
}

// GenerateCoinKey returns the address of a public key,
// along with a json representation of the keys.
// You can give coins to this address and
// import the keys in a client to use them
func GenerateCoinKey() (anchortl.Address, string, error) {
	privKey := crypto.GenPrivKeyEd25519()
	pubKey := privKey.PublicKey()
	addr := pubKey.Address()

	out := output{
		Address: addr,
		Pubkey:  hex.EncodeToString(pubKey.Ed25519),
		Secret:  hex.EncodeToString(privKey.Ed25519),
	}
	keys, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return nil, "", errors.Wrap(err, "cannot serialize keys")
	}
	return addr, string(keys), nil
}
