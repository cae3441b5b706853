//
// Copyright (c) 2026 Markku Rossi
//
// All rights reserved.
//

package timing

import (
	"bytes"
	"testing"
	"time"

	"github.com/markkurossi/beaver/p2p"
	"github.com/stretchr/testify/require"
)

func TestFileSize(t *testing.T) {
	require.Equal(t, "999B", FileSize(999).String())
	require.Equal(t, "1kB", FileSize(1001).String())
	require.Equal(t, "2MB", FileSize(2500000).String())
	require.Equal(t, "3GB", FileSize(3000000001).String())
}

func TestPrint(t *testing.T) {
	timing := New()
	sample := timing.Sample("Triples", []string{FileSize(4096).String()})
	sample.SubSample("Fetch", sample.End)
	timing.Sample("Tree 0", nil)
	require.GreaterOrEqual(t, timing.Total(), time.Duration(0))

	stats := p2p.NewIOStats()
	stats.Sent.Store(2000)
	stats.Recvd.Store(3000)

	var buf bytes.Buffer
	timing.Print(&buf, stats)
	out := buf.String()
	require.Contains(t, out, "Triples")
	require.Contains(t, out, "Fetch")
	require.Contains(t, out, "Total")
	require.Contains(t, out, "5kB")
}

func TestPrintEmpty(t *testing.T) {
	var buf bytes.Buffer
	New().Print(&buf, p2p.NewIOStats())
	require.Zero(t, buf.Len())
}
