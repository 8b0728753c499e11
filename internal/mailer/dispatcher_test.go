package mailer

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingSender struct {
	mu      sync.Mutex
	sent    []Verification
	err     error
	release chan struct{}
}

func (r *recordingSender) Send(ctx context.Context, v Verification) error {
	if r.release != nil {
		select {
		case <-r.release:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	r.sent = append(r.sent, v)
	return nil
}

func (r *recordingSender) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sent)
}

func TestDispatcher_DeliversInBackground(t *testing.T) {
	logger, _ := test.NewNullLogger()
	sender := &recordingSender{release: make(chan struct{})}
	d := NewDispatcher(context.Background(), sender, DispatcherConfig{MaxConcurrent: 2, Logger: logger})

	start := time.Now()
	for i := 0; i < 5; i++ {
		d.Dispatch(Verification{To: "a@x.com", Token: "t"})
	}
	assert.Less(t, time.Since(start), time.Second, "dispatch must not block on delivery")
	assert.Equal(t, 0, sender.count())

	close(sender.release)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	d.Shutdown(ctx)

	assert.Equal(t, 5, sender.count())
}

func TestDispatcher_LogsFailures(t *testing.T) {
	logger, hook := test.NewNullLogger()
	d := NewDispatcher(context.Background(), &recordingSender{err: errors.New("smtp down")}, DispatcherConfig{Logger: logger})

	d.Dispatch(Verification{To: "a@x.com"})
	d.Shutdown(context.Background())

	var found bool
	for _, e := range hook.AllEntries() {
		if e.Level == logrus.ErrorLevel {
			found = true
			assert.Contains(t, e.Message, "smtp down")
		}
	}
	assert.True(t, found)
}

func TestDispatcher_ShutdownTimeoutCancels(t *testing.T) {
	logger, _ := test.NewNullLogger()
	sender := &recordingSender{release: make(chan struct{})}
	d := NewDispatcher(context.Background(), sender, DispatcherConfig{Logger: logger})
	d.Dispatch(Verification{To: "a@x.com"})

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	d.Shutdown(ctx)

	assert.Equal(t, 0, sender.count())
}

func TestDispatcher_DropsAfterShutdown(t *testing.T) {
	logger, hook := test.NewNullLogger()
	sender := &recordingSender{}
	d := NewDispatcher(context.Background(), sender, DispatcherConfig{Logger: logger})
	d.Shutdown(context.Background())

	d.Dispatch(Verification{To: "a@x.com"})
	require.NotNil(t, hook.LastEntry())
	assert.Equal(t, logrus.WarnLevel, hook.LastEntry().Level)
	assert.Equal(t, 0, sender.count())
}

func TestDispatcher_DeliversRightAfterConstruction(t *testing.T) {
	logger, _ := test.NewNullLogger()
	sender := &recordingSender{}
	d := NewDispatcher(context.Background(), sender, DispatcherConfig{Logger: logger})

	d.Dispatch(Verification{To: "a@x.com"})
	d.Dispatch(Verification{To: "b@x.com"})
	d.Shutdown(context.Background())

	assert.Equal(t, 2, sender.count())
}

func TestDispatcher_ParentCancelAbortsDeliveries(t *testing.T) {
	logger, _ := test.NewNullLogger()
	sender := &recordingSender{release: make(chan struct{})}
	parent, cancel := context.WithCancel(context.Background())
	d := NewDispatcher(parent, sender, DispatcherConfig{Logger: logger})

	d.Dispatch(Verification{To: "a@x.com"})
	cancel()
	d.Shutdown(context.Background())

	assert.Equal(t, 0, sender.count())
}
