package prover

import (
	"context"
	"time"

	"github.com/grendel/keyproof/internal/config"
	"github.com/grendel/keyproof/internal/logger"
	"github.com/grendel/keyproof/internal/wallet"
	"github.com/grendel/keyproof/pkg/crypto"
	"github.com/grendel/keyproof/pkg/signdoc"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// ChainResult is the outcome of one chain pipeline
type ChainResult struct {
	Chain     crypto.ChainType
	Path      string
	Address   string // derived from the mnemonic
	Hex       string // 0x form of Address on Ethereum style chains
	Expected  string // empty when no expected address was configured
	SignDoc   []byte // canonical bytes that were signed
	Signature crypto.Signature
	Verified  bool
	Err       error
}

// Checked reports whether the derived address was compared against a configured one
func (r ChainResult) Checked() bool {
	return r.Expected != ""
}

// Report collects the results of every chain in the order they were configured.
// Passed counts chains verified against a configured address, Unchecked those only
// verified against their own derived address.
type Report struct {
	Results   []ChainResult
	Passed    int
	Unchecked int
	Failed    int
}

// OK is true when no chain failed
func (r *Report) OK() bool {
	return r.Failed == 0 && r.Passed+r.Unchecked == len(r.Results)
}

// Option configures a Prover
type Option func(*Prover)

// WithClock replaces the clock used for timestamp payloads
func WithClock(now func() time.Time) Option {
	return func(p *Prover) {
		p.now = now
	}
}

// Prover runs the derive, sign and verify pipeline for each configured chain
type Prover struct {
	registry *crypto.ChainRegistry
	logger   zerolog.Logger
	now      func() time.Time
}

// New creates a prover over the chains in registry
func New(registry *crypto.ChainRegistry, log zerolog.Logger, opts ...Option) *Prover {
	p := &Prover{
		registry: registry,
		logger:   log,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Run validates the mnemonic, expands it into a seed and runs every configured chain
// pipeline. The pipelines share only the seed, run in parallel and never stop each
// other: a failing chain is recorded in its ChainResult and the rest still run.
//
// The returned error is non-nil only when no pipeline could start, i.e. the mnemonic
// was rejected.
func (p *Prover) Run(ctx context.Context, cfg *config.Config) (*Report, error) {
	mnemonic, err := crypto.ValidateMnemonic(cfg.Mnemonic)
	if err != nil {
		return nil, err
	}
	seed := crypto.SeedFromMnemonic(mnemonic, cfg.Passphrase)
	defer zeroSeed(seed)

	p.logger.Debug().
		Int("words", mnemonic.Words()).
		Strs("chains", cfg.Chains).
		Uint32("account", cfg.Account).
		Msg("mnemonic accepted")

	results := make([]ChainResult, len(cfg.Chains))

	var g errgroup.Group
	for i, name := range cfg.Chains {
		g.Go(func() error {
			results[i] = p.prove(ctx, seed, name, cfg)
			return nil
		})
	}
	_ = g.Wait()

	report := &Report{Results: results}
	for _, r := range results {
		switch {
		case !r.Verified:
			report.Failed++
		case r.Checked():
			report.Passed++
		default:
			report.Unchecked++
		}
	}
	return report, nil
}

// prove runs a single chain pipeline. Errors end the pipeline and are returned in the result.
func (p *Prover) prove(ctx context.Context, seed crypto.Seed, name string, cfg *config.Config) ChainResult {
	result := ChainResult{Chain: crypto.ChainType(name)}
	log := logger.ForChain(p.logger, name)

	if err := ctx.Err(); err != nil {
		result.Err = err
		return result
	}

	chain, err := p.registry.Lookup(name)
	if err != nil {
		result.Err = err
		return result
	}
	result.Chain = chain.Name()
	result.Expected = cfg.Expected[chain.Name()]

	acct, err := wallet.DeriveAccount(seed, chain, cfg.Account)
	if err != nil {
		result.Path = chain.Path(cfg.Account).String()
		result.Err = err
		log.Error().Err(err).Msg("key derivation failed")
		return result
	}
	defer acct.Zero()

	result.Path = acct.Path.String()
	result.Address = acct.Address
	if _, ok := chain.(*crypto.EthereumChain); ok {
		if hex, err := crypto.Bech32ToEth(acct.Address); err == nil {
			result.Hex = hex
		}
	}
	log.Debug().Str("path", result.Path).Str("address", acct.Address).Msg("derived account")

	target := result.Expected
	if target == "" {
		log.Warn().
			Str("variable", config.ExpectedEnvKey(chain.Name())).
			Msg("no expected address configured, verifying against the derived address")
		target = acct.Address
	} else if acct.Address != target {
		result.Err = crypto.NewAddressMismatch(chain.Name(), target, acct.Address)
		log.Error().Err(result.Err).Msg("derived address does not match")
		return result
	}

	payload := []byte(cfg.Payload)
	if cfg.Payload == "" {
		payload = signdoc.TimestampPayload(p.now())
	}
	doc := signdoc.Build(acct.Address, payload)

	canonical, err := signdoc.Canonical(doc)
	if err != nil {
		result.Err = errors.Wrap(err, "canonicalize sign document")
		return result
	}
	result.SignDoc = canonical

	sig, err := chain.Sign(acct.Keys, chain.Digest(canonical))
	if err != nil {
		result.Err = err
		log.Error().Err(err).Msg("signing failed")
		return result
	}
	result.Signature = sig
	log.Debug().Str("scheme", string(sig.Scheme())).Msg("signed sign document")

	if err := verify(chain, doc, sig, target); err != nil {
		result.Err = err
		log.Error().Err(err).Msg("verification failed")
		return result
	}

	result.Verified = true
	log.Info().Str("address", acct.Address).Msg("signature verification success")
	return result
}

// verify checks sig the way a third party would: it canonicalizes doc itself and trusts
// nothing but the signature and the expected address.
func verify(chain crypto.Chain, doc signdoc.StdSignDoc, sig crypto.Signature, expected string) error {
	if signer := doc.Signer(); signer != expected {
		return crypto.NewAddressMismatch(chain.Name(), expected, signer)
	}
	canonical, err := signdoc.Canonical(doc)
	if err != nil {
		return errors.Wrap(err, "canonicalize sign document")
	}
	return chain.Verify(sig, chain.Digest(canonical), expected)
}

func zeroSeed(seed crypto.Seed) {
	for i := range seed {
		seed[i] = 0
	}
}
