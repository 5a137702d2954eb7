// Package notify sends readiness and status messages to the service manager.
//
// All messages are fire-and-forget. A disabled Notifier sends nothing.
package notify

import (
	"context"
	"fmt"
	"time"

	"github.com/coreos/go-systemd/v22/daemon"
)

// Notifier speaks the sd_notify protocol when enabled.
type Notifier struct {
	enabled bool
	send    func(unsetEnv bool, state string) (bool, error)
}

func New(enabled bool) *Notifier {
	return &Notifier{enabled: enabled, send: daemon.SdNotify}
}

// Enabled reports whether messages are sent at all.
func (n *Notifier) Enabled() bool {
	return n != nil && n.enabled
}

// Ready sends READY=1.
func (n *Notifier) Ready() error {
	return n.notify(daemon.SdNotifyReady)
}

// Status sends STATUS=<text>.
func (n *Notifier) Status(text string) error {
	return n.notify("STATUS=" + text)
}

// Statusf formats and sends a STATUS message.
func (n *Notifier) Statusf(format string, args ...any) error {
	return n.Status(fmt.Sprintf(format, args...))
}

// Stopping sends STOPPING=1.
func (n *Notifier) Stopping() error {
	return n.notify(daemon.SdNotifyStopping)
}

// WatchdogInterval returns the supervisor watchdog timeout, or zero when the
// watchdog is not armed for this process or notifications are disabled.
func (n *Notifier) WatchdogInterval() time.Duration {
	if !n.Enabled() {
		return 0
	}
	interval, err := daemon.SdWatchdogEnabled(false)
	if err != nil {
		return 0
	}
	return interval
}

// RunWatchdog sends WATCHDOG=1 every period until ctx is done.
func (n *Notifier) RunWatchdog(ctx context.Context, period time.Duration) error {
	if !n.Enabled() || period <= 0 {
		return nil
	}
	ticker := time.NewTicker(period)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if err := n.notify(daemon.SdNotifyWatchdog); err != nil {
				return err
			}
		}
	}
}

func (n *Notifier) notify(state string) error {
	if !n.Enabled() {
		return nil
	}
	if _, err := n.send(false, state); err != nil {
		return fmt.Errorf("notify: send %q: %w", state, err)
	}
	return nil
}
