package crypto

import (
	"encoding/hex"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testMnemonic = "test test test test test test test test test test test junk"

func testSeed(t *testing.T) Seed {
	t.Helper()
	m, err := ValidateMnemonic(testMnemonic)
	require.NoError(t, err)
	return SeedFromMnemonic(m, "")
}

func TestValidateMnemonic(t *testing.T) {
	tests := []struct {
		name    string
		phrase  string
		want    string
		wantErr bool
	}{
		{
			name:   "valid 12 words",
			phrase: testMnemonic,
			want:   testMnemonic,
		},
		{
			name:   "normalizes case and whitespace",
			phrase: "  TEST test\ttest test test test test test test  test test Junk\n",
			want:   testMnemonic,
		},
		{
			name:   "valid 24 words",
			phrase: "abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon art",
			want:   "abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon art",
		},
		{
			name:    "empty",
			phrase:  "",
			wantErr: true,
		},
		{
			name:    "wrong word count",
			phrase:  "test test test test test test test test test test junk",
			wantErr: true,
		},
		{
			name:    "word outside the list",
			phrase:  "test test test test test test test test test test test junkk",
			wantErr: true,
		},
		{
			name:    "bad checksum",
			phrase:  "abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := ValidateMnemonic(tt.phrase)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, ErrInvalidMnemonic))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, m.String())
		})
	}
}

func TestValidateMnemonicDoesNotLeakWords(t *testing.T) {
	_, err := ValidateMnemonic("test test test test test test test test test test test zzzsecret")
	require.Error(t, err)
	assert.NotContains(t, err.Error(), "zzzsecret")
	assert.Contains(t, err.Error(), "word 12")
}

func TestSeedFromMnemonic(t *testing.T) {
	t.Run("golden seed", func(t *testing.T) {
		seed := testSeed(t)
		assert.Len(t, seed, SeedSize)
		assert.Equal(t,
			"9dfc3c64c2f8bede1533b6a79f8570e5943e0b8fd1cf77107adf7b72cef42185d564a3aee24cab43f80e3c4538087d70fc824eabbad596a23c97b6ee8322ccc0",
			hex.EncodeToString(seed))
	})

	t.Run("passphrase vector", func(t *testing.T) {
		m, err := ValidateMnemonic("abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon about")
		require.NoError(t, err)
		seed := SeedFromMnemonic(m, "TREZOR")
		assert.Equal(t,
			"c55257c360c07c72029aebc1b53c05ed0362ada38ead3e3e9efa3708e53495531f09a6987599d18264c1e1c92f2cf141630c7a3c4ab7c81b2f001698e7463b04",
			hex.EncodeToString(seed))
	})

	t.Run("deterministic", func(t *testing.T) {
		assert.Equal(t, testSeed(t), testSeed(t))
	})

	t.Run("passphrase changes the seed", func(t *testing.T) {
		m, err := ValidateMnemonic(testMnemonic)
		require.NoError(t, err)
		assert.NotEqual(t, SeedFromMnemonic(m, ""), SeedFromMnemonic(m, "extra"))
	})
}
