// Package notify wraps desktop notifications and completion sounds. All
// calls are fire-and-forget: failures are logged, never propagated.
package notify

import (
	"fmt"
	"os"
	"sync"

	"github.com/gen2brain/beeep"
)

// Service gates sound and notification side effects on the configured
// switches. It is a process-wide singleton initialized lazily on first
// acquire; there is nothing to tear down.
type Service struct {
	sound         bool
	notifications bool
}

var (
	mu     sync.Mutex
	shared *Service
)

// Acquire returns the shared service, creating it on first use with the
// given switches. Later calls update the switches in place so a config
// reload takes effect everywhere.
func Acquire(sound, notifications bool) *Service {
	mu.Lock()
	defer mu.Unlock()
	if shared == nil {
		shared = &Service{}
	}
	shared.sound = sound
	shared.notifications = notifications
	return shared
}

// TimerComplete plays the work-interval completion sound.
func (s *Service) TimerComplete() {
	if !s.sound {
		return
	}
	if err := beeep.Beep(880, 400); err != nil {
		logErr("beep", err)
	}
}

// BreakComplete plays the break completion sound, pitched lower so the two
// are distinguishable without looking.
func (s *Service) BreakComplete() {
	if !s.sound {
		return
	}
	if err := beeep.Beep(440, 400); err != nil {
		logErr("beep", err)
	}
}

// Notify shows a system notification.
func (s *Service) Notify(title, message string) {
	if !s.notifications {
		return
	}
	if err := beeep.Notify(title, message, ""); err != nil {
		logErr("notify", err)
	}
}

// Info shows a notification outside the service gates, for callers that
// checked the configuration themselves.
func Info(title, message string) error {
	return beeep.Notify(title, message, "")
}

// FormatReminder builds the daily "log your time" prompt.
func FormatReminder(minutesTracked int) (string, string) {
	title := "Time log reminder"
	if minutesTracked == 0 {
		return title, "Nothing tracked today. Fill in your timesheet?"
	}
	msg := fmt.Sprintf("%dh %dm tracked today. Anything missing?", minutesTracked/60, minutesTracked%60)
	return title, msg
}

func logErr(op string, err error) {
	fmt.Fprintf(os.Stderr, "tempo: %s: %v\n", op, err)
}
