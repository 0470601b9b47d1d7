package config

import (
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/grendel/keyproof/pkg/crypto"
	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

// DefaultEnvFile is read before the process environment when no other file is given
const DefaultEnvFile = ".env"

// ErrInvalidConfig marks configuration problems; the process exits with status 2 on them
var ErrInvalidConfig = errors.New("invalid configuration")

// Config is everything a proving run needs. It is read once at startup and not modified
// afterwards.
type Config struct {
	Mnemonic   string   `env:"MNEMONIC" validate:"required"`
	Passphrase string   `env:"MNEMONIC_PASSPHRASE"`
	Chains     []string `env:"KEYPROOF_CHAINS" env-default:"aura,evmos" validate:"required,min=1,unique,dive,chain"`
	Account    uint32   `env:"KEYPROOF_ACCOUNT" env-default:"0" validate:"lt=2147483648"`

	// Payload replaces the timestamp payload when set
	Payload string

	// Expected holds the EXPECT_<CHAIN>_ADDR address of each configured chain that has one
	Expected map[crypto.ChainType]string
}

// Options are the command line overrides applied on top of the environment
type Options struct {
	EnvFile string
	Chains  string // comma separated, empty keeps the environment value
	Account int64  // negative keeps the environment value
	Payload string
}

// ExpectedEnvKey returns the variable holding the expected address of chain
func ExpectedEnvKey(chain crypto.ChainType) string {
	return fmt.Sprintf("EXPECT_%s_ADDR", strings.ToUpper(string(chain)))
}

// Load reads the .env file, then the process environment, applies opts and validates the
// result. Variables already present in the environment are not overridden by the file.
func Load(opts Options, registry *crypto.ChainRegistry, logger zerolog.Logger) (*Config, error) {
	envFile := opts.EnvFile
	if envFile == "" {
		envFile = DefaultEnvFile
	}
	if err := godotenv.Load(envFile); err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, errors.Wrapf(ErrInvalidConfig, "load %s: %v", envFile, err)
		}
		logger.Debug().Str("path", envFile).Msg("env file not found, using process environment")
	} else {
		logger.Debug().Str("path", envFile).Msg("loaded env file")
	}

	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, errors.Wrapf(ErrInvalidConfig, "read environment: %v", err)
	}

	if opts.Chains != "" {
		cfg.Chains = strings.Split(opts.Chains, ",")
	}
	if opts.Account >= 0 {
		if opts.Account >= 1<<31 {
			return nil, errors.Wrapf(ErrInvalidConfig, "account %d does not fit a non-hardened index", opts.Account)
		}
		cfg.Account = uint32(opts.Account)
	}
	cfg.Payload = opts.Payload
	cfg.Mnemonic = strings.TrimSpace(cfg.Mnemonic)
	cfg.Chains = normalizeChains(cfg.Chains)

	if err := cfg.Validate(registry); err != nil {
		return nil, err
	}

	cfg.Expected = make(map[crypto.ChainType]string, len(cfg.Chains))
	for _, name := range cfg.Chains {
		chain, err := registry.Lookup(name)
		if err != nil {
			return nil, errors.Wrap(ErrInvalidConfig, err.Error())
		}

		key := ExpectedEnvKey(chain.Name())
		addr := strings.TrimSpace(os.Getenv(key))
		if addr == "" {
			continue
		}
		if err := crypto.ValidateAddress(chain.Prefix(), addr); err != nil {
			return nil, errors.Wrapf(ErrInvalidConfig, "%s: %v", key, err)
		}
		cfg.Expected[chain.Name()] = addr
	}

	return &cfg, nil
}

// Validate checks the struct constraints of cfg against the chains in registry
func (c *Config) Validate(registry *crypto.ChainRegistry) error {
	validate := validator.New(validator.WithRequiredStructEnabled())
	if err := validate.RegisterValidation("chain", func(fl validator.FieldLevel) bool {
		_, err := registry.Lookup(fl.Field().String())
		return err == nil
	}); err != nil {
		return errors.Wrap(err, "register chain validation")
	}

	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			return errors.Wrap(ErrInvalidConfig, describe(verrs, registry))
		}
		return errors.Wrap(ErrInvalidConfig, err.Error())
	}
	return nil
}

// describe turns validation errors into a message that names the variables involved.
// Field values are left out so the mnemonic never ends up in an error.
func describe(verrs validator.ValidationErrors, registry *crypto.ChainRegistry) string {
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		field, _, _ := strings.Cut(fe.StructField(), "[")
		name := envNames[field]
		if name == "" {
			name = field
		}

		switch fe.Tag() {
		case "required":
			msgs = append(msgs, name+" is required")
		case "chain":
			msgs = append(msgs, fmt.Sprintf("%s: unsupported chain %q, supported: %s", name, fe.Value(), joinChains(registry.Names())))
		case "unique":
			msgs = append(msgs, name+" lists a chain more than once")
		default:
			msgs = append(msgs, fmt.Sprintf("%s failed %s validation", name, fe.Tag()))
		}
	}
	return strings.Join(msgs, "; ")
}

var envNames = map[string]string{
	"Mnemonic": "MNEMONIC",
	"Chains":   "KEYPROOF_CHAINS",
	"Account":  "KEYPROOF_ACCOUNT",
}

func normalizeChains(chains []string) []string {
	out := make([]string, 0, len(chains))
	for _, c := range chains {
		c = strings.ToLower(strings.TrimSpace(c))
		if c != "" {
			out = append(out, c)
		}
	}
	return out
}

func joinChains(chains []crypto.ChainType) string {
	names := make([]string, len(chains))
	for i, c := range chains {
		names[i] = string(c)
	}
	return strings.Join(names, ", ")
}
