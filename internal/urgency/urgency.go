package urgency

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Tier is a discrete urgency level derived from time remaining.
type Tier int

const (
	TierGreen    Tier = iota // more than 2h left
	TierYellow               // 1h to 2h
	TierRed                  // 30m to 1h
	TierBlink                // 30m or less
	TierOvertime             // deadline reached or passed
)

// String returns the tier name.
func (t Tier) String() string {
	switch t {
	case TierGreen:
		return "GREEN"
	case TierYellow:
		return "YELLOW"
	case TierRed:
		return "RED"
	case TierBlink:
		return "BLINK"
	case TierOvertime:
		return "OVERTIME"
	default:
		return fmt.Sprintf("Tier(%d)", int(t))
	}
}

// ANSI codes per tier.
const (
	codeGreen    = "\033[32m"
	codeYellow   = "\033[33m"
	codeRed      = "\033[31m"
	codeBlinkRed = "\033[31;5m"
	Reset        = "\033[0m"
)

// Code returns the ANSI escape that introduces this tier's segment.
func (t Tier) Code() string {
	switch t {
	case TierGreen:
		return codeGreen
	case TierYellow:
		return codeYellow
	case TierRed:
		return codeRed
	default:
		return codeBlinkRed
	}
}

// Deadline is a same-day wall-clock time.
type Deadline struct {
	Hour   int
	Minute int
}

// DefaultDeadline is used whenever the configured value is unusable.
var DefaultDeadline = Deadline{Hour: 15, Minute: 30}

// String formats the deadline as HH:MM.
func (d Deadline) String() string {
	return fmt.Sprintf("%02d:%02d", d.Hour, d.Minute)
}

// ParseDeadline parses "HH:MM" (24-hour). It reports false for anything
// that is not two colon-separated integers naming a valid time of day.
func ParseDeadline(s string) (Deadline, bool) {
	parts := strings.Split(s, ":")
	if len(parts) != 2 {
		return Deadline{}, false
	}
	hour, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return Deadline{}, false
	}
	minute, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return Deadline{}, false
	}
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return Deadline{}, false
	}
	return Deadline{Hour: hour, Minute: minute}, true
}

// Resolve parses s, then fallback, then gives up and returns DefaultDeadline.
// It never fails.
func Resolve(s, fallback string) Deadline {
	if d, ok := ParseDeadline(s); ok {
		return d
	}
	if d, ok := ParseDeadline(fallback); ok {
		return d
	}
	return DefaultDeadline
}

// Sample is the urgency state at one instant.
type Sample struct {
	// SecondsRemaining is negative once the deadline has passed.
	SecondsRemaining int
	Tier             Tier
}

// At computes the sample for d on now's calendar day, in now's location.
// There is no rollover: after the deadline the sample stays OVERTIME and the
// overtime keeps growing until the day changes.
func At(now time.Time, d Deadline) Sample {
	deadline := time.Date(now.Year(), now.Month(), now.Day(), d.Hour, d.Minute, 0, 0, now.Location())
	secs := int(deadline.Sub(now) / time.Second)
	return Sample{SecondsRemaining: secs, Tier: tierFor(secs)}
}

// tierFor maps seconds remaining onto a tier.
func tierFor(secs int) Tier {
	if secs <= 0 {
		return TierOvertime
	}
	minutes := secs / 60
	switch {
	case minutes > 120:
		return TierGreen
	case minutes > 60:
		return TierYellow
	case minutes > 30:
		return TierRed
	default:
		return TierBlink
	}
}

// MinutesRemaining is floor(SecondsRemaining/60) for a pending deadline.
func (s Sample) MinutesRemaining() int {
	if s.SecondsRemaining <= 0 {
		return 0
	}
	return s.SecondsRemaining / 60
}

// OvertimeMinutes is floor(|SecondsRemaining|/60) once the deadline passed.
func (s Sample) OvertimeMinutes() int {
	if s.SecondsRemaining > 0 {
		return 0
	}
	return -s.SecondsRemaining / 60
}

// Text is the uncolored display string: "2h 5m", "45m" or "OVERTIME +5m".
func (s Sample) Text() string {
	if s.Tier == TierOvertime {
		return fmt.Sprintf("OVERTIME +%dm", s.OvertimeMinutes())
	}
	total := s.MinutesRemaining()
	hours, minutes := total/60, total%60
	if hours > 0 {
		return fmt.Sprintf("%dh %dm", hours, minutes)
	}
	return fmt.Sprintf("%dm", minutes)
}

// Render wraps Text in the tier's color and a reset.
func (s Sample) Render() string {
	return s.Tier.Code() + " " + s.Text() + Reset
}
