//
// Copyright (c) 2025-2026 Markku Rossi
//
// All rights reserved.
//

// Package env implements global environment for the MPC system.
package env

import (
	"crypto/rand"
	"io"
	"os"
	"runtime"

	"github.com/markkurossi/beaver/field"
	"golang.org/x/xerrors"
	"gopkg.in/yaml.v3"
)

// Config defines the global system configuration for the MPC
// system. It is loaded once at process start and it must not be
// modified after being passed to any MPC module. It is safe for
// concurrent use by multiple modules as they do not modify it.
type Config struct {
	Rand io.Reader `yaml:"-"`

	// TI selects the trusted initializer mode. Otherwise the process
	// runs as a computing party.
	TI bool `yaml:"ti"`

	// AsymmetricBit is the role of the party: 0 or 1.
	AsymmetricBit int `yaml:"asymmetric_bit"`

	// Address is the listen address of the party with role 0.
	Address string `yaml:"address"`
	// Peer is the address of the party with role 0, used by the party
	// with role 1.
	Peer string `yaml:"peer"`
	// TIAddress is the trusted initializer address for this party.
	TIAddress string `yaml:"ti_address"`
	// TIListen are the trusted initializer's listen addresses for
	// parties 0 and 1.
	TIListen []string `yaml:"ti_listen"`

	Threads   int `yaml:"threads"`
	BatchSize int `yaml:"batch_size"`
	Trees     int `yaml:"trees"`

	DecimalPrecision uint   `yaml:"decimal_precision"`
	IntegerPrecision uint   `yaml:"integer_precision"`
	Prime            string `yaml:"prime"`

	AddSharesPerTree      int `yaml:"add_shares_per_tree"`
	BinarySharesPerTree   int `yaml:"binary_shares_per_tree"`
	BigIntSharesPerTree   int `yaml:"add_shares_bigint_per_tree"`
	EqualitySharesPerTree int `yaml:"equality_shares_per_tree"`

	Dataset string `yaml:"dataset"`
	Buckets int    `yaml:"buckets"`

	Verbose bool `yaml:"verbose"`
}

// Load loads the configuration from the YAML file path and validates
// it.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, xerrors.Errorf("read config: %w", err)
	}
	config := new(Config)
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, xerrors.Errorf("parse config %s: %w", path, err)
	}
	if err := config.Validate(); err != nil {
		return nil, xerrors.Errorf("config %s: %w", path, err)
	}
	return config, nil
}

// Validate checks that all settings required by the configured mode
// are present and sets defaults for optional settings.
func (config *Config) Validate() error {
	if config.Threads <= 0 {
		config.Threads = runtime.NumCPU()
	}
	if config.BatchSize <= 0 {
		return xerrors.Errorf("batch_size must be positive")
	}
	if config.Trees <= 0 {
		return xerrors.Errorf("trees must be positive")
	}
	if config.Prime == "" {
		return xerrors.Errorf("prime not set")
	}
	if _, err := field.NewPrime(config.Prime); err != nil {
		return err
	}
	if config.DecimalPrecision == 0 || config.IntegerPrecision == 0 {
		return xerrors.Errorf("decimal_precision and integer_precision " +
			"must be positive")
	}
	// Products of two fixed-point values carry 2*DecimalPrecision
	// fraction bits before truncation.
	if config.IntegerPrecision+2*config.DecimalPrecision > 62 {
		return xerrors.Errorf("fixed-point precision %d+2*%d exceeds 62 bits",
			config.IntegerPrecision, config.DecimalPrecision)
	}
	for _, count := range []int{
		config.AddSharesPerTree, config.BinarySharesPerTree,
		config.BigIntSharesPerTree, config.EqualitySharesPerTree,
	} {
		if count < 0 {
			return xerrors.Errorf("negative triple count %d", count)
		}
	}

	if config.TI {
		if len(config.TIListen) != 2 {
			return xerrors.Errorf("ti_listen must have 2 addresses, got %d",
				len(config.TIListen))
		}
		return nil
	}

	switch config.AsymmetricBit {
	case 0:
		if config.Address == "" {
			return xerrors.Errorf("address not set")
		}
	case 1:
		if config.Peer == "" {
			return xerrors.Errorf("peer not set")
		}
	default:
		return xerrors.Errorf("invalid asymmetric_bit %d",
			config.AsymmetricBit)
	}
	if config.TIAddress == "" {
		return xerrors.Errorf("ti_address not set")
	}
	if config.Buckets < 0 {
		return xerrors.Errorf("negative bucket count %d", config.Buckets)
	}
	if config.Buckets == 0 {
		config.Buckets = 2
	}
	return nil
}

// GetRandom returns the source of entropy for triple generation,
// input masking, and other cryptography operations.
func (config *Config) GetRandom() io.Reader {
	if config.Rand != nil {
		return config.Rand
	}
	return rand.Reader
}

// GetPrime returns the prime field of the configuration.
func (config *Config) GetPrime() *field.Prime {
	p, err := field.NewPrime(config.Prime)
	if err != nil {
		panic(err)
	}
	return p
}

// GetFixed returns the fixed-point representation of the
// configuration.
func (config *Config) GetFixed() field.Fixed {
	return field.Fixed{
		Decimal: config.DecimalPrecision,
		Integer: config.IntegerPrecision,
	}
}
