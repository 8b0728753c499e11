package mailer

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// DispatcherConfig tunes background delivery.
type DispatcherConfig struct {
	MaxConcurrent int
	SendTimeout   time.Duration
	Logger        *logrus.Logger
}

// Dispatcher delivers verification emails on background goroutines.
// Dispatch never blocks the caller; delivery failures are logged only.
type Dispatcher struct {
	cfg    DispatcherConfig
	sender Sender

	sem    chan struct{}
	wg     sync.WaitGroup
	mu     sync.Mutex
	ctx    context.Context
	cancel context.CancelFunc
	closed bool
}

// NewDispatcher ties the lifetime of every delivery to parent. Cancelling parent
// aborts queued and in-flight sends; Shutdown drains them first.
func NewDispatcher(parent context.Context, sender Sender, cfg DispatcherConfig) *Dispatcher {
	if cfg.MaxConcurrent <= 0 {
		cfg.MaxConcurrent = 4
	}
	if cfg.SendTimeout == 0 {
		cfg.SendTimeout = 30 * time.Second
	}
	if cfg.Logger == nil {
		cfg.Logger = logrus.New()
	}
	ctx, cancel := context.WithCancel(parent)
	cfg.Logger.Infof("mail dispatcher started, max concurrent: %d", cfg.MaxConcurrent)
	return &Dispatcher{
		cfg:    cfg,
		sender: sender,
		sem:    make(chan struct{}, cfg.MaxConcurrent),
		ctx:    ctx,
		cancel: cancel,
	}
}

func (d *Dispatcher) Dispatch(msg Verification) {
	logger := d.cfg.Logger.WithField("to", msg.To)

	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		logger.Warn("mail dispatcher closed, dropping verification email")
		return
	}
	ctx := d.ctx
	d.wg.Add(1)
	d.mu.Unlock()

	go func() {
		defer d.wg.Done()
		select {
		case <-ctx.Done():
			logger.Warn("verification email cancelled before sending")
			return
		case d.sem <- struct{}{}:
			defer func() { <-d.sem }()
		}

		sendCtx, cancel := context.WithTimeout(ctx, d.cfg.SendTimeout)
		defer cancel()
		if err := d.sender.Send(sendCtx, msg); err != nil {
			logger.Errorf("send verification email: %v", err)
			return
		}
		logger.Info("verification email sent")
	}()
}

// Shutdown stops accepting messages and waits for in-flight deliveries.
// When ctx expires first, outstanding deliveries are cancelled.
func (d *Dispatcher) Shutdown(ctx context.Context) {
	d.mu.Lock()
	d.closed = true
	d.mu.Unlock()

	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-ctx.Done():
		d.cfg.Logger.Warn("mail dispatcher shutdown timed out, cancelling deliveries")
		d.cancel()
		<-done
	}
	d.cancel()
	d.cfg.Logger.Info("mail dispatcher stopped")
}
