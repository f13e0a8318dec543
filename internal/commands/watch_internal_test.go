package commands

import (
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cleared-dev/pocket/internal/derive"
)

func recvRange(t *testing.T, ranges <-chan derive.Range) (derive.Range, bool) {
	t.Helper()
	select {
	case r, ok := <-ranges:
		return r, ok
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting on range channel")
		return "", false
	}
}

func TestReadRanges(t *testing.T) {
	a := &app{log: zerolog.Nop()}
	in := strings.NewReader("6m\n\nbogus\n  12m  \nall\n")

	ranges := readRanges(context.Background(), in, a)

	var got []derive.Range
	for {
		r, ok := recvRange(t, ranges)
		if !ok {
			break
		}
		got = append(got, r)
	}
	assert.Equal(t, []derive.Range{derive.Range6M, derive.Range12M, derive.RangeAll}, got)
}

func TestReadRanges_StopsAfterCancel(t *testing.T) {
	a := &app{log: zerolog.Nop()}
	pr, pw := io.Pipe()
	defer pr.Close()
	ctx, cancel := context.WithCancel(context.Background())

	ranges := readRanges(ctx, pr, a)

	go func() { _, _ = io.WriteString(pw, "6m\n") }()
	r, ok := recvRange(t, ranges)
	require.True(t, ok)
	assert.Equal(t, derive.Range6M, r)

	cancel()
	go func() {
		_, _ = io.WriteString(pw, "3m\n")
		_ = pw.Close()
	}()

	_, ok = recvRange(t, ranges)
	assert.False(t, ok, "no range is sent once the context is done")
}
