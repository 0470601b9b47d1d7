package crypto

import (
	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/pkg/errors"
)

// KeyPair is a secp256k1 key pair derived for a single sign/verify cycle.
// It is never persisted; call Zero once the cycle is over.
type KeyPair struct {
	PrivateKey [btcec.PrivKeyBytesLen]byte
	PublicKey  []byte // 33 byte compressed encoding
}

// NewKeyPair builds a key pair from a raw 32 byte private scalar
func NewKeyPair(priv []byte) (*KeyPair, error) {
	if len(priv) != btcec.PrivKeyBytesLen {
		return nil, errors.Wrapf(ErrInvalidDerivation, "private key must be %d bytes, got %d", btcec.PrivKeyBytesLen, len(priv))
	}

	var scalar btcec.ModNScalar
	if overflow := scalar.SetByteSlice(priv); overflow || scalar.IsZero() {
		return nil, errors.Wrap(ErrInvalidDerivation, "private key is not a valid secp256k1 scalar")
	}

	privKey := btcec.PrivKeyFromScalar(&scalar)
	kp := &KeyPair{
		PublicKey: privKey.PubKey().SerializeCompressed(),
	}
	copy(kp.PrivateKey[:], priv)
	scalar.Zero()
	return kp, nil
}

// privKey returns the private key as a btcec key
func (kp *KeyPair) privKey() *btcec.PrivateKey {
	priv, _ := btcec.PrivKeyFromBytes(kp.PrivateKey[:])
	return priv
}

// Zero wipes the private scalar
func (kp *KeyPair) Zero() {
	for i := range kp.PrivateKey {
		kp.PrivateKey[i] = 0
	}
}
