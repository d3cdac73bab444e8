package sigs

import (
	"crypto/sha512"
	"encoding/binary"

	anchortl "github.com/cqfd/anchor-tl"
	"github.com/cqfd/anchor-tl/crypto"
	"github.com/cqfd/anchor-tl/errors"
)

// signPrefix versions the layout produced by SignBytes.
var signPrefix = []byte{0, 0xCA, 0xFE, 0}

// SignBytes returns the digest a signer signs for payload on chainID
// with the given nonce. The digest is the sha512 of
//
//	prefix (4 bytes) | len(chainID) (1 byte) | chainID | nonce (8 bytes, big endian) | payload
//
// so a signature is bound to one chain and one nonce.
func SignBytes(payload []byte, chainID string, nonce int64) ([]byte, error) {
	switch {
	case nonce < 0:
		return nil, errors.Wrapf(ErrInvalidSequence, "nonce %d", nonce)
	case !anchortl.IsValidChainID(chainID):
		return nil, errors.Wrapf(errors.ErrInput, "chain id %q", chainID)
	}

	h := sha512.New()
	h.Write(signPrefix)
	h.Write([]byte{byte(len(chainID))})
	h.Write([]byte(chainID))
	var n [8]byte
	binary.BigEndian.PutUint64(n[:], uint64(nonce))
	h.Write(n[:])
	h.Write(payload)
	return h.Sum(nil), nil
}

// SignTx signs tx for chainID with the next nonce of the signer.
func SignTx(signer crypto.Signer, tx SignedTx, chainID string, nonce int64) (*StdSignature, error) {
	payload, err := tx.GetSignBytes()
	if err != nil {
		return nil, errors.Wrap(err, "sign bytes")
	}
	digest, err := SignBytes(payload, chainID, nonce)
	if err != nil {
		return nil, err
	}
	sig, err := signer.Sign(digest)
	if err != nil {
		return nil, errors.Wrap(err, "sign")
	}
	return &StdSignature{Pubkey: signer.PublicKey(), Signature: sig, Sequence: nonce}, nil
}

// verifyTx checks every signature of tx and returns the signer conditions
// in signature order. The nonce of each signer is advanced in db. One bad
// signature fails the whole transaction.
func verifyTx(db anchortl.KVStore, tx SignedTx, chainID string) ([]anchortl.Condition, error) {
	payload, err := tx.GetSignBytes()
	if err != nil {
		return nil, errors.Wrap(err, "sign bytes")
	}
	bucket := NewBucket()
	var signers []anchortl.Condition
	for i, sig := range tx.GetSignatures() {
		cond, err := verify(db, bucket, sig, payload, chainID)
		if err != nil {
			return nil, errors.Wrapf(err, "signature %d", i)
		}
		signers = append(signers, cond)
	}
	return signers, nil
}

func verify(db anchortl.KVStore, bucket Bucket, sig *StdSignature, payload []byte, chainID string) (anchortl.Condition, error) {
	if err := sig.Validate(); err != nil {
		return nil, err
	}
	digest, err := SignBytes(payload, chainID, sig.Sequence)
	if err != nil {
		return nil, err
	}
	user, err := bucket.GetOrCreate(db, sig.Pubkey)
	if err != nil {
		return nil, err
	}
	if !user.Pubkey.Verify(digest, sig.Signature) {
		return nil, errors.Wrap(errors.ErrUnauthorized, "invalid signature")
	}
	if err := user.CheckAndIncrementSequence(sig.Sequence); err != nil {
		return nil, err
	}
	if err := bucket.Save(db, user); err != nil {
		return nil, errors.Wrap(err, "save nonce")
	}
	return user.Pubkey.Condition(), nil
}
