package types

import (
	"strings"
	"time"
)

type Timing struct {
	Operation      string        `json:"operation"`
	Start          time.Time     `json:"start"`
	End            time.Time     `json:"end"`
	ActiveDuration time.Duration `json:"active_duration,omitempty"`
}

// TryStart sets the operation and start time, unless already started
func (t *Timing) TryStart(operation string) {
	if t.Start.IsZero() {
		t.Operation = operation
		t.Start = time.Now()
	}
}

func (t *Timing) UpdateActiveDuration(d time.Duration) {
	t.ActiveDuration += d
}

func (t *Timing) Duration() time.Duration {
	if t.Start.IsZero() || t.End.IsZero() {
		return 0
	}
	return t.End.Sub(t.Start)
}

type TimingCollection []Timing

func (c TimingCollection) String() string {
	var sb strings.Builder
	sb.WriteString("Timing:\n")
	// get max label length
	maxLabelLen := 0
	for _, t := range c {
		if len(t.Operation) > maxLabelLen {
			maxLabelLen = len(t.Operation)
		}
	}

	for _, t := range c {
		if t.Operation == "" {
			continue
		}
		sb.WriteString(t.Operation)
		sb.WriteString(":")
		// pad label to max length
		for i := len(t.Operation); i < maxLabelLen; i++ {
			sb.WriteString(" ")
		}
		sb.WriteString(" ")
		sb.WriteString(t.Duration().String())
		if t.ActiveDuration > 0 {
			sb.WriteString(" (active ")
			sb.WriteString(t.ActiveDuration.String())
			sb.WriteString(")")
		}
		sb.WriteString("\n")
	}
	return sb.String()
}
