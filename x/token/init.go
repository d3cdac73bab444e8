package token

import (
	anchortl "github.com/cqfd/anchor-tl"
	"github.com/cqfd/anchor-tl/coin"
	"github.com/cqfd/anchor-tl/errors"
)

const optKey = "token"

// GenesisAccount is used to parse the json from genesis file. Address is
// optional; when missing the account gets the next sequence address.
type GenesisAccount struct {
	Address anchortl.Address `json:"address"`
	Owner   anchortl.Address `json:"owner"`
	Coin    coin.Coin        `json:"coin"`
}

// Initializer fulfils the Initializer interface to load data from
// the genesis file
type Initializer struct{}

var _ anchortl.Initializer = Initializer{}

// FromGenesis will parse initial account info from genesis
// and save it to the database
func (Initializer) FromGenesis(opts anchortl.Options, db anchortl.KVStore) error {
	var accounts []GenesisAccount
	if err := opts.ReadOptions(optKey, &accounts); err != nil {
		return errors.Wrap(errors.ErrInput, err.Error())
	}

	ctrl := NewController()
	for i, a := range accounts {
		addr := a.Address
		if len(addr) == 0 {
			created, err := ctrl.CreateAccount(db, a.Owner, a.Coin.Ticker)
			if err != nil {
				return errors.Wrapf(err, "account %d", i)
			}
			addr = created
		} else {
			if err := addr.Validate(); err != nil {
				return errors.Wrapf(err, "account %d address", i)
			}
			acc := Account{
				Metadata: anchortl.NewMetadata(),
				Owner:    a.Owner,
				Coin:     coin.NewCoinp(0, 0, a.Coin.Ticker),
			}
			if err := ctrl.bucket.Create(db, addr, &acc); err != nil {
				return errors.Wrapf(err, "account %d", i)
			}
		}
		if a.Coin.IsZero() {
			continue
		}
		if err := ctrl.Issue(db, addr, a.Coin); err != nil {
			return errors.Wrapf(err, "account %d issue", i)
		}
	}
	return nil
}
