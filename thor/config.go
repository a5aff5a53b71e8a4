// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package thor

import (
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Config is the configurable parameters of the ledger. All parameters have default values,
// a config file only needs to carry the ones it overrides.
type Config struct {
	BaseAssetSymbol    string `yaml:"baseAssetSymbol" json:"baseAssetSymbol"`
	BaseAssetPrecision uint64 `yaml:"baseAssetPrecision" json:"baseAssetPrecision"`
	MaxShareSupply     uint64 `yaml:"maxShareSupply" json:"maxShareSupply"` // cap of every asset's maximum supply

	// fees are charged in base asset shares.
	TransactionFee          uint64 `yaml:"transactionFee" json:"transactionFee"`
	AccountRegistrationFee  uint64 `yaml:"accountRegistrationFee" json:"accountRegistrationFee"`
	DelegateRegistrationFee uint64 `yaml:"delegateRegistrationFee" json:"delegateRegistrationFee"` // scaled by pay rate
	AssetRegistrationFee    uint64 `yaml:"assetRegistrationFee" json:"assetRegistrationFee"`

	BlockInterval            uint64 `yaml:"blockInterval" json:"blockInterval"`                       // seconds between two slots
	NumDelegates             int    `yaml:"numDelegates" json:"numDelegates"`                         // size of the active delegate list
	MaxSlateSize             int    `yaml:"maxSlateSize" json:"maxSlateSize"`                         // max delegates one slate may name
	MaxTransactionExpiration uint64 `yaml:"maxTransactionExpiration" json:"maxTransactionExpiration"` // seconds
	MaxDelegatePayPerBlock   uint64 `yaml:"maxDelegatePayPerBlock" json:"maxDelegatePayPerBlock"`
	MaxUndoHistory           int    `yaml:"maxUndoHistory" json:"maxUndoHistory"` // blocks that can be popped

	EntryCacheSize int `yaml:"entryCacheSize" json:"entryCacheSize"` // decoded entries cached by the committed store
	TrxCacheSize   int `yaml:"trxCacheSize" json:"trxCacheSize"`     // bytes of encoded transactions cached by the committed store
}

// DefaultConfig returns the default config.
func DefaultConfig() Config {
	return Config{
		BaseAssetSymbol:    "XTS",
		BaseAssetPrecision: 100000,
		MaxShareSupply:     1000000000000000,

		TransactionFee:          10000,
		AccountRegistrationFee:  0,
		DelegateRegistrationFee: 100000000,
		AssetRegistrationFee:    50000000,

		BlockInterval:            10,
		NumDelegates:             101,
		MaxSlateSize:             101,
		MaxTransactionExpiration: 60 * 60 * 24,
		MaxDelegatePayPerBlock:   500000,
		MaxUndoHistory:           1000,

		EntryCacheSize: 4096,
		TrxCacheSize:   16 * 1024 * 1024,
	}
}

// LoadConfig reads a yaml config file over the default config.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, errors.Wrap(err, "read config")
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, errors.Wrap(err, "decode config")
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the config values.
func (c *Config) Validate() error {
	if c.BaseAssetSymbol == "" {
		return errors.New("config: empty base asset symbol")
	}
	if !IsPowerOfTen(c.BaseAssetPrecision) {
		return errors.New("config: base asset precision must be a power of ten")
	}
	if c.MaxShareSupply == 0 {
		return errors.New("config: zero max share supply")
	}
	if c.BlockInterval == 0 {
		return errors.New("config: zero block interval")
	}
	if c.NumDelegates <= 0 || c.MaxSlateSize <= 0 {
		return errors.New("config: delegate counts must be positive")
	}
	if c.MaxTransactionExpiration == 0 {
		return errors.New("config: zero max transaction expiration")
	}
	if c.MaxUndoHistory < 0 {
		return errors.New("config: negative undo history")
	}
	return nil
}

// IsPowerOfTen returns whether v is 10^n for some n >= 0.
func IsPowerOfTen(v uint64) bool {
	if v == 0 {
		return false
	}
	for v%10 == 0 {
		v /= 10
	}
	return v == 1
}
