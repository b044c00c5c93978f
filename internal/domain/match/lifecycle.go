package match

import (
	"errors"
	"fmt"
	"strings"
)

// Lifecycle is the coarse match state consumers render: upcoming, live or finished.
type Lifecycle string

const (
	LifecycleUpcoming Lifecycle = "upcoming"
	LifecycleLive     Lifecycle = "live"
	LifecycleFinished Lifecycle = "finished"
)

var ErrInvalidLifecycle = errors.New("invalid match lifecycle")

// NormalizeStatus maps a provider short status code to a lifecycle.
// Unknown, empty and future codes all read as upcoming.
func NormalizeStatus(short string) Lifecycle {
	switch strings.ToUpper(strings.TrimSpace(short)) {
	case "1H", "2H", "HT", "ET", "BT", "P", "LIVE":
		return LifecycleLive
	case "FT", "AET", "PEN":
		return LifecycleFinished
	default:
		return LifecycleUpcoming
	}
}

// ParseLifecycle accepts admin input, including the legacy "Scheduled" label.
func ParseLifecycle(v string) (Lifecycle, error) {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "upcoming", "scheduled":
		return LifecycleUpcoming, nil
	case "live":
		return LifecycleLive, nil
	case "finished":
		return LifecycleFinished, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidLifecycle, v)
	}
}

// ReadLifecycle is the lenient variant used on stored documents.
func ReadLifecycle(v string) Lifecycle {
	lc, err := ParseLifecycle(v)
	if err != nil {
		return NormalizeStatus(v)
	}
	return lc
}

func (l Lifecycle) IsLive() bool {
	return l == LifecycleLive
}

func (l Lifecycle) String() string {
	return string(l)
}
