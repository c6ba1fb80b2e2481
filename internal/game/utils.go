package game

import (
	"fmt"
	"time"
)

// meanDuration averages a set of frame times.
func meanDuration(ds []time.Duration) time.Duration {
	if len(ds) == 0 {
		return 0
	}
	var sum time.Duration
	for _, d := range ds {
		sum += d
	}
	return sum / time.Duration(len(ds))
}

// formatFrameTime formats a duration as milliseconds with two decimals
func formatFrameTime(d time.Duration) string {
	return fmt.Sprintf("%.2fms", float64(d)/float64(time.Millisecond))
}
