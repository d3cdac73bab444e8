package main

import (
	"encoding/hex"
	"flag"
	"fmt"
	"io"

	"github.com/cqfd/anchor-tl/crypto"
	"github.com/cqfd/anchor-tl/errors"
)

// bech32Prefix is the human readable part of printed addresses.
const bech32Prefix = "tl"

func cmdKeys(output io.Writer, args []string) error {
	fl := flag.NewFlagSet("keys", flag.ContinueOnError)
	fl.SetOutput(output)
	fl.Usage = func() {
		fmt.Fprint(output, `
Derive an ed25519 key from a hex encoded seed and print its address.

Without -path the first 32 bytes of the seed are used as the private key.
`)
		fl.PrintDefaults()
	}
	var (
		seedFl = fl.String("seed", "", "Hex encoded seed, at least 32 bytes when no path is given.")
		pathFl = fl.String("path", "", "SLIP-0010 derivation path, for example m/44'/234'/0'.")
	)
	if err := fl.Parse(args); err != nil {
		return errors.Wrap(errors.ErrInput, err.Error())
	}

	if *seedFl == "" {
		return errors.Wrap(errors.ErrEmpty, "seed")
	}
	seed, err := hex.DecodeString(*seedFl)
	if err != nil {
		return errors.Wrap(errors.ErrInput, "seed is not hex encoded")
	}

	key, err := crypto.DeriveKey(seed, *pathFl)
	if err != nil {
		return err
	}
	addr := key.PublicKey().Address()
	bech, err := addr.Bech32(bech32Prefix)
	if err != nil {
		return err
	}

	_, err = fmt.Fprintf(output, "address: %s\nbech32:  %s\npubkey:  %s\n",
		addr, bech, hex.EncodeToString(key.PublicKey().Ed25519))
	return err
}
