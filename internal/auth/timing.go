package auth

import (
	"crypto/rand"
	"math/big"
	"time"
)

// TimingConfig sets how long a failed login takes at minimum
type TimingConfig struct {
	BaseDelay      time.Duration
	Jitter         time.Duration // Upper bound of the random extra delay
	DelayOnSuccess bool
}

// TimingDelay pads login responses so an unknown email and a wrong password
// take roughly the same time
type TimingDelay struct {
	config TimingConfig
	sleep  func(time.Duration)
	since  func(time.Time) time.Duration
}

func NewTimingDelay(config TimingConfig) *TimingDelay {
	return &TimingDelay{
		config: config,
		sleep:  time.Sleep,
		since:  time.Since,
	}
}

// target returns the base delay plus crypto-random jitter
func (td *TimingDelay) target() time.Duration {
	if td.config.Jitter <= 0 {
		return td.config.BaseDelay
	}
	n, err := rand.Int(rand.Reader, big.NewInt(int64(td.config.Jitter)))
	if err != nil {
		return td.config.BaseDelay
	}
	return td.config.BaseDelay + time.Duration(n.Int64())
}

// WaitFrom sleeps until at least the target delay has passed since start.
// Successful attempts return immediately unless DelayOnSuccess is set.
func (td *TimingDelay) WaitFrom(start time.Time, success bool) {
	if td == nil || (success && !td.config.DelayOnSuccess) {
		return
	}

	if remaining := td.target() - td.since(start); remaining > 0 {
		td.sleep(remaining)
	}
}
