package events

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

// The api binary cancels the Start context on SIGTERM and then calls Close
// before waiting for the flush loop. Both paths close the inbox, so they
// must tolerate each other.
func TestProducerCloseAfterCancel(t *testing.T) {
	p := NewProducer([]string{"127.0.0.1:9092"}, "shop.order.committed", 8)
	ctx, cancel := context.WithCancel(context.Background())
	p.Start(ctx)

	cancel()
	p.WaitClosed()

	require.NotPanics(t, func() { p.Close() })
}

func TestProducerCloseTwice(t *testing.T) {
	p := NewProducer([]string{"127.0.0.1:9092"}, "shop.order.committed", 8)
	p.Start(context.Background())

	require.NotPanics(t, func() {
		p.Close()
		p.Close()
	})
	p.WaitClosed()
}
