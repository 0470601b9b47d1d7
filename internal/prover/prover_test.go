package prover

import (
	"context"
	"testing"
	"time"

	"github.com/grendel/keyproof/internal/config"
	"github.com/grendel/keyproof/pkg/crypto"
	"github.com/grendel/keyproof/pkg/signdoc"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testMnemonic = "test test test test test test test test test test test junk"
	auraAddr     = "aura15yk64u7zc9g9k2yr2wmzeva5qgwxps6yaycdm8"
	evmosAddr    = "evmos17w0adeg64ky0daxwd2ugyuneellmjgnxpu2u3g"
)

var fixedTime = time.UnixMilli(1700000000000)

func newTestProver() *Prover {
	return New(crypto.NewChainRegistry(), zerolog.Nop(), WithClock(func() time.Time { return fixedTime }))
}

func testConfig() *config.Config {
	return &config.Config{
		Mnemonic: testMnemonic,
		Chains:   []string{"aura", "evmos"},
		Expected: map[crypto.ChainType]string{
			crypto.Aura:  auraAddr,
			crypto.Evmos: evmosAddr,
		},
	}
}

func TestRun(t *testing.T) {
	report, err := newTestProver().Run(context.Background(), testConfig())
	require.NoError(t, err)

	assert.True(t, report.OK())
	assert.Equal(t, 2, report.Passed)
	assert.Equal(t, 0, report.Unchecked)
	assert.Equal(t, 0, report.Failed)
	require.Len(t, report.Results, 2)

	aura := report.Results[0]
	assert.Equal(t, crypto.Aura, aura.Chain)
	assert.Equal(t, "m/44'/118'/0'/0/0", aura.Path)
	assert.Equal(t, auraAddr, aura.Address)
	assert.True(t, aura.Checked())
	assert.True(t, aura.Verified)
	assert.NoError(t, aura.Err)
	assert.Equal(t, crypto.SchemeAmino, aura.Signature.Scheme())
	assert.Empty(t, aura.Hex)

	evmos := report.Results[1]
	assert.Equal(t, crypto.Evmos, evmos.Chain)
	assert.Equal(t, "m/44'/60'/0'/0/0", evmos.Path)
	assert.Equal(t, evmosAddr, evmos.Address)
	assert.Equal(t, "0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266", evmos.Hex)
	assert.True(t, evmos.Verified)
	assert.Equal(t, crypto.SchemeRecoverable, evmos.Signature.Scheme())

	t.Run("sign document", func(t *testing.T) {
		want, err := signdoc.Canonical(signdoc.Build(auraAddr, signdoc.TimestampPayload(fixedTime)))
		require.NoError(t, err)
		assert.Equal(t, want, aura.SignDoc)
		assert.Contains(t, string(evmos.SignDoc), evmosAddr)
	})

	t.Run("signatures verify independently", func(t *testing.T) {
		registry := crypto.NewChainRegistry()
		for _, r := range report.Results {
			chain, ok := registry.GetChain(r.Chain)
			require.True(t, ok)
			assert.NoError(t, chain.Verify(r.Signature, chain.Digest(r.SignDoc), r.Address))
		}
	})

	t.Run("deterministic for a fixed payload", func(t *testing.T) {
		again, err := newTestProver().Run(context.Background(), testConfig())
		require.NoError(t, err)
		assert.Equal(t, report.Results[0].Signature, again.Results[0].Signature)
		assert.Equal(t, report.Results[1].Signature, again.Results[1].Signature)
	})
}

func TestRunMismatchDoesNotStopOtherChain(t *testing.T) {
	cfg := testConfig()
	cfg.Expected[crypto.Aura] = "aura1erxf3sa9q2j4vgseu7jq4a258ckmk7cy5gdf9m"

	report, err := newTestProver().Run(context.Background(), cfg)
	require.NoError(t, err)

	assert.False(t, report.OK())
	assert.Equal(t, 1, report.Passed)
	assert.Equal(t, 1, report.Failed)

	aura := report.Results[0]
	assert.False(t, aura.Verified)
	assert.ErrorIs(t, aura.Err, crypto.ErrAddressMismatch)
	assert.Contains(t, aura.Err.Error(), "aura1erxf3sa9q2j4vgseu7jq4a258ckmk7cy5gdf9m")
	assert.Contains(t, aura.Err.Error(), auraAddr)
	assert.Nil(t, aura.Signature)

	assert.True(t, report.Results[1].Verified)
}

func TestRunUnchecked(t *testing.T) {
	cfg := testConfig()
	cfg.Expected = map[crypto.ChainType]string{}

	report, err := newTestProver().Run(context.Background(), cfg)
	require.NoError(t, err)
	assert.True(t, report.OK())
	assert.Equal(t, 0, report.Passed)
	assert.Equal(t, 2, report.Unchecked)
	assert.Equal(t, 0, report.Failed)
	for _, r := range report.Results {
		assert.False(t, r.Checked())
		assert.True(t, r.Verified)
	}

	t.Run("mixed", func(t *testing.T) {
		cfg := testConfig()
		delete(cfg.Expected, crypto.Evmos)

		report, err := newTestProver().Run(context.Background(), cfg)
		require.NoError(t, err)
		assert.True(t, report.OK())
		assert.Equal(t, 1, report.Passed)
		assert.Equal(t, 1, report.Unchecked)
	})
}

func TestVerifyRejectsForeignSigner(t *testing.T) {
	m, err := crypto.ValidateMnemonic(testMnemonic)
	require.NoError(t, err)
	seed := crypto.SeedFromMnemonic(m, "")

	chain, ok := crypto.NewChainRegistry().GetChain(crypto.Aura)
	require.True(t, ok)
	kp, err := crypto.DeriveKeyPair(seed, chain.Path(0))
	require.NoError(t, err)

	other := "aura1erxf3sa9q2j4vgseu7jq4a258ckmk7cy5gdf9m"
	doc := signdoc.Build(other, []byte("hello"))
	canonical, err := signdoc.Canonical(doc)
	require.NoError(t, err)
	sig, err := chain.Sign(kp, chain.Digest(canonical))
	require.NoError(t, err)

	err = verify(chain, doc, sig, auraAddr)
	assert.ErrorIs(t, err, crypto.ErrAddressMismatch)

	var mismatch *crypto.MismatchError
	require.ErrorAs(t, err, &mismatch)
	assert.Equal(t, other, mismatch.Actual)
}
