//
// Copyright (c) 2026 Markku Rossi
//
// All rights reserved.
//

package party

import (
	"bytes"
	"strings"
	"sync"
	"testing"

	"github.com/markkurossi/beaver/env"
	"github.com/stretchr/testify/require"
)

func testConfig() *env.Config {
	return &env.Config{
		Threads:               2,
		BatchSize:             4,
		Trees:                 2,
		DecimalPrecision:      16,
		IntegerPrecision:      20,
		Prime:                 "1000000007",
		AddSharesPerTree:      200,
		BinarySharesPerTree:   2000,
		BigIntSharesPerTree:   8,
		EqualitySharesPerTree: 8,
		Buckets:               4,
	}
}

const data0 = `age, income
30, 1200.5
45, 800
22, 3000
`

const data1 = `age,income
61,400
18,2100.25
39,950
50,1800
`

func TestReadDataset(t *testing.T) {
	d, err := ReadDataset(strings.NewReader(data0))
	require.NoError(t, err)
	require.Equal(t, []string{"age", "income"}, d.Names)
	require.Equal(t, 3, d.Rows())
	require.Equal(t, []float64{1200.5, 800, 3000}, d.Columns[1])

	_, err = ReadDataset(strings.NewReader("a,b\n1,x\n"))
	require.Error(t, err)

	_, err = ReadDataset(strings.NewReader("a,b\n1\n"))
	require.Error(t, err)

	_, err = ReadDataset(strings.NewReader(""))
	require.Error(t, err)
}

func TestString(t *testing.T) {
	parties, server := Pipe(testConfig())
	defer server.Close()

	require.Equal(t, "P⁰", parties[0].String())
	require.Equal(t, "P¹", parties[1].String())
	require.Equal(t, 1, parties[1].Engine.Role())
}

func TestTrain(t *testing.T) {
	config := testConfig()
	parties, server := Pipe(config)

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- server.Serve(config.Trees)
	}()

	var datasets [2]*Dataset
	for i, data := range []string{data0, data1} {
		d, err := ReadDataset(strings.NewReader(data))
		require.NoError(t, err)
		datasets[i] = d
	}

	var wg sync.WaitGroup
	var results [2][][]Split
	var errs [2]error
	for i, p := range parties {
		wg.Add(1)
		go func(i int, p *Party) {
			defer wg.Done()
			results[i], errs[i] = p.Train(datasets[i])
		}(i, p)
	}
	wg.Wait()
	require.NoError(t, errs[0])
	require.NoError(t, errs[1])
	require.NoError(t, <-serverErr)

	require.Len(t, results[0], config.Trees)
	require.Equal(t, results[0], results[1])

	delta := 4 / parties[0].Engine.Fixed().Scale()
	for _, splits := range results[0] {
		require.Len(t, splits, 2)

		age := splits[0]
		require.Equal(t, "age", age.Name)
		require.Equal(t, 18.0, age.Min)
		require.Equal(t, 61.0, age.Max)
		require.Len(t, age.Points, 3)
		for i, expected := range []float64{28.75, 39.5, 50.25} {
			require.InDelta(t, expected, age.Points[i], delta)
		}

		income := splits[1]
		require.Equal(t, 400.0, income.Min)
		require.Equal(t, 3000.0, income.Max)
		require.InDelta(t, 1700.0, income.Points[1], delta)
	}

	var buf bytes.Buffer
	parties[0].Timing.Print(&buf, parties[0].Peer.Stats())
	require.Contains(t, buf.String(), "Tree 1")

	for _, p := range parties {
		require.NoError(t, p.Close())
	}
	require.NoError(t, server.Close())
}

func TestTrainColumnMismatch(t *testing.T) {
	config := testConfig()
	config.Trees = 1

	d0, err := ReadDataset(strings.NewReader(data0))
	require.NoError(t, err)
	d1, err := ReadDataset(strings.NewReader("age\n1\n2\n"))
	require.NoError(t, err)

	parties, server := Pipe(config)
	serverErr := make(chan error, 1)
	go func() {
		serverErr <- server.Serve(config.Trees)
	}()

	var wg sync.WaitGroup
	var errs [2]error
	for i, d := range []*Dataset{d0, d1} {
		wg.Add(1)
		go func(i int, d *Dataset) {
			defer wg.Done()
			_, errs[i] = parties[i].Train(d)
		}(i, d)
	}
	wg.Wait()
	require.Error(t, errs[0])
	require.Error(t, errs[1])

	// Both parties fetched their triples before the shapes were
	// compared.
	require.NoError(t, <-serverErr)
	require.NoError(t, server.Close())
}

func TestShape(t *testing.T) {
	parties, server := Pipe(testConfig())
	defer server.Close()

	var datasets [2]*Dataset
	for i, data := range []string{data0, data1} {
		d, err := ReadDataset(strings.NewReader(data))
		require.NoError(t, err)
		datasets[i] = d
	}

	var wg sync.WaitGroup
	var rows [2]int
	var errs [2]error
	for i, p := range parties {
		wg.Add(1)
		go func(i int, p *Party) {
			defer wg.Done()
			rows[i], errs[i] = p.shape(datasets[i])
		}(i, p)
	}
	wg.Wait()
	require.NoError(t, errs[0])
	require.NoError(t, errs[1])
	require.Equal(t, 4, rows[0])
	require.Equal(t, 3, rows[1])
}
