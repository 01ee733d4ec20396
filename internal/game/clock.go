package game

import (
	"context"
	"fmt"
	"time"
)

// FormatElapsed renders d as HH:MM:SS, dropping fractions of a second.
func FormatElapsed(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	s := int64(d / time.Second)
	return fmt.Sprintf("%02d:%02d:%02d", s/3600, s/60%60, s%60)
}

// ticker calls fn every interval until stopped. A call already in flight
// when stop is called may still complete.
type ticker struct {
	cancel context.CancelFunc
}

func startTicker(interval time.Duration, fn func()) *ticker {
	ctx, cancel := context.WithCancel(context.Background())
	t := &ticker{cancel: cancel}
	go func() {
		tick := time.NewTicker(interval)
		defer tick.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-tick.C:
				fn()
			}
		}
	}()
	return t
}

func (t *ticker) stop() {
	if t == nil {
		return
	}
	t.cancel()
}
