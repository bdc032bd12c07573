package backoff

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestExponentialSchedule(t *testing.T) {
	req := require.New(t)

	b := NewExponential(time.Millisecond, 4*time.Millisecond)
	req.Equal(time.Millisecond, b.NextDuration)

	ctx := context.Background()
	req.NoError(b.Backoff(ctx))
	req.Equal(2*time.Millisecond, b.NextDuration)
	req.NoError(b.Backoff(ctx))
	req.Equal(4*time.Millisecond, b.NextDuration)
	req.NoError(b.Backoff(ctx))
	// capped by limit
	req.Equal(4*time.Millisecond, b.NextDuration)

	b.Reset()
	req.Equal(time.Millisecond, b.NextDuration)
}

func TestBackoffCancel(t *testing.T) {
	req := require.New(t)

	b := NewLinear(time.Second, 0)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	req.Equal(context.Canceled, b.Backoff(ctx))
}
