package crypto

import (
	"encoding/hex"
	"encoding/json"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func evmosKeys(t *testing.T, account uint32) (*EthereumChain, *KeyPair) {
	t.Helper()
	chain := NewEthereumChain(Evmos, "evmos", EvmosHubPath)
	kp, err := DeriveKeyPair(testSeed(t), chain.Path(account))
	require.NoError(t, err)
	return chain, kp
}

func TestEthereumChainDeriveAddress(t *testing.T) {
	chain, kp := evmosKeys(t, 0)
	assert.Equal(t, "m/44'/60'/0'/0/0", chain.Path(0).String())

	addr, err := chain.DeriveAddress(kp.PublicKey)
	require.NoError(t, err)
	assert.Equal(t, goldenEvmosAddr, addr)

	_, other := evmosKeys(t, 1)
	addr, err = chain.DeriveAddress(other.PublicKey)
	require.NoError(t, err)
	assert.Equal(t, "evmos1wzvhjux9rqfdcwspp37srdgwp5tac7wgfhwr9w", addr)
}

func TestEthereumChainDigest(t *testing.T) {
	chain := NewEthereumChain(Evmos, "evmos", EvmosHubPath)
	assert.Equal(t,
		"c5d2460186f7233c927e7db2dcc703c0e500b653ca82273b7bfad8045d85a470",
		hex.EncodeToString(chain.Digest(nil)))

	cosmos := NewCosmosChain(Aura, "aura", CosmosHubPath)
	assert.NotEqual(t, cosmos.Digest(testDoc), chain.Digest(testDoc))
}

func TestEthereumChainSignVerify(t *testing.T) {
	chain, kp := evmosKeys(t, 0)
	digest := chain.Digest(testDoc)

	sig, err := chain.Sign(kp, digest)
	require.NoError(t, err)
	assert.Equal(t, SchemeRecoverable, sig.Scheme())

	rs := sig.(*RecoverableSignature)
	assert.Contains(t, []byte{27, 28}, rs.V)
	assert.Len(t, rs.Bytes(), 65)

	require.NoError(t, chain.Verify(sig, digest, goldenEvmosAddr))

	t.Run("deterministic", func(t *testing.T) {
		again, err := chain.Sign(kp, digest)
		require.NoError(t, err)
		assert.Equal(t, sig, again)
	})

	t.Run("other key is a mismatch", func(t *testing.T) {
		_, other := evmosKeys(t, 1)
		otherSig, err := chain.Sign(other, digest)
		require.NoError(t, err)

		err = chain.Verify(otherSig, digest, goldenEvmosAddr)
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrAddressMismatch))

		var mismatch *MismatchError
		require.True(t, errors.As(err, &mismatch))
		assert.Equal(t, goldenEvmosAddr, mismatch.Expected)
		assert.Equal(t, "evmos1wzvhjux9rqfdcwspp37srdgwp5tac7wgfhwr9w", mismatch.Actual)
	})

	t.Run("corrupted r", func(t *testing.T) {
		bad := *rs
		bad.R[5] ^= 0x01

		err := chain.Verify(&bad, digest, goldenEvmosAddr)
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrSignatureVerificationFailed) || errors.Is(err, ErrAddressMismatch), "%v", err)
	})

	t.Run("modified document", func(t *testing.T) {
		doc := append([]byte(nil), testDoc...)
		doc[len(doc)-3] ^= 0x01

		err := chain.Verify(sig, chain.Digest(doc), goldenEvmosAddr)
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrSignatureVerificationFailed) || errors.Is(err, ErrAddressMismatch), "%v", err)
	})

	t.Run("bad v", func(t *testing.T) {
		for _, v := range []byte{0, 1, 26, 29, 37} {
			bad := *rs
			bad.V = v
			err := chain.Verify(&bad, digest, goldenEvmosAddr)
			assert.True(t, errors.Is(err, ErrSignatureVerificationFailed), "v=%d: %v", v, err)
		}
	})

	t.Run("zero s", func(t *testing.T) {
		bad := *rs
		bad.S = [32]byte{}
		err := chain.Verify(&bad, digest, goldenEvmosAddr)
		assert.True(t, errors.Is(err, ErrSignatureVerificationFailed))
	})

	t.Run("amino signature", func(t *testing.T) {
		err := chain.Verify(NewStdSignature(kp.PublicKey, make([]byte, 64)), digest, goldenEvmosAddr)
		assert.True(t, errors.Is(err, ErrInvalidSignature))
	})

	t.Run("nil signature", func(t *testing.T) {
		for _, sig := range []Signature{nil, (*RecoverableSignature)(nil), (*StdSignature)(nil)} {
			err := chain.Verify(sig, digest, goldenEvmosAddr)
			assert.True(t, errors.Is(err, ErrInvalidSignature), "%T: %v", sig, err)
		}
	})
}

func TestRecoverableSignatureJSON(t *testing.T) {
	chain, kp := evmosKeys(t, 0)
	sig, err := chain.Sign(kp, chain.Digest(testDoc))
	require.NoError(t, err)

	out, err := json.Marshal(sig)
	require.NoError(t, err)

	var fields map[string]string
	require.NoError(t, json.Unmarshal(out, &fields))
	assert.Len(t, fields["r"], 66)
	assert.Len(t, fields["s"], 66)
	assert.Contains(t, []string{"0x1b", "0x1c"}, fields["v"])

	var decoded RecoverableSignature
	require.NoError(t, json.Unmarshal(out, &decoded))
	assert.Equal(t, sig, &decoded)

	err = json.Unmarshal([]byte(`{"r":"0x01","s":"0x02","v":"0x1b"}`), &decoded)
	assert.True(t, errors.Is(err, ErrInvalidSignature))
}

func TestNewRecoverableSignature(t *testing.T) {
	_, err := NewRecoverableSignature(make([]byte, 64))
	assert.True(t, errors.Is(err, ErrInvalidSignature))

	raw := make([]byte, 65)
	raw[0], raw[32], raw[64] = 0xaa, 0xbb, 28
	rs, err := NewRecoverableSignature(raw)
	require.NoError(t, err)
	assert.Equal(t, byte(0xaa), rs.R[0])
	assert.Equal(t, byte(0xbb), rs.S[0])
	assert.Equal(t, byte(28), rs.V)
	assert.Equal(t, raw, rs.Bytes())
	assert.Equal(t, "0x", rs.Hex()[:2])
}
