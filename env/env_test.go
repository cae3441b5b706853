//
// Copyright (c) 2026 Markku Rossi
//
// All rights reserved.
//

package env

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

const partyConfig = `
asymmetric_bit: 1
peer: localhost:9000
ti_address: localhost:9101
batch_size: 128
trees: 2
decimal_precision: 16
integer_precision: 20
prime: "1000000007"
add_shares_per_tree: 100
binary_shares_per_tree: 50
add_shares_bigint_per_tree: 10
equality_shares_per_tree: 10
buckets: 4
`

func writeConfig(t *testing.T, data string) string {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(data), 0644))
	return path
}

func TestLoadParty(t *testing.T) {
	config, err := Load(writeConfig(t, partyConfig))
	require.NoError(t, err)

	require.False(t, config.TI)
	require.Equal(t, 1, config.AsymmetricBit)
	require.Equal(t, "localhost:9000", config.Peer)
	require.Equal(t, 128, config.BatchSize)
	require.Equal(t, 10, config.BigIntSharesPerTree)
	require.Positive(t, config.Threads)
	require.Equal(t, uint(16), config.GetFixed().Decimal)
	require.Equal(t, int64(1000000007), config.GetPrime().P.Int64())
	require.NotNil(t, config.GetRandom())
}

func TestLoadTI(t *testing.T) {
	config, err := Load(writeConfig(t, `
ti: true
ti_listen: [":9100", ":9101"]
threads: 4
batch_size: 64
trees: 1
decimal_precision: 10
integer_precision: 10
prime: "2147483647"
`))
	require.NoError(t, err)
	require.True(t, config.TI)
	require.Equal(t, 4, config.Threads)
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)

	_, err = Load(writeConfig(t, "batch_size: [1"))
	require.Error(t, err)

	for _, config := range []string{
		"trees: 1\nprime: \"7\"\ndecimal_precision: 1\ninteger_precision: 1\n",
		strings.Replace(partyConfig, "asymmetric_bit: 1", "asymmetric_bit: 2", 1),
		strings.Replace(partyConfig, "1000000007", "1000000008", 1),
		strings.Replace(partyConfig, "integer_precision: 20",
			"integer_precision: 50", 1),
		strings.Replace(partyConfig, "batch_size: 128", "ti: true", 1),
		strings.Replace(partyConfig, "ti_address: localhost:9101", "", 1),
		strings.Replace(partyConfig, "peer: localhost:9000", "", 1),
	} {
		_, err := Load(writeConfig(t, config))
		require.Error(t, err, "config: %s", config)
	}
}
