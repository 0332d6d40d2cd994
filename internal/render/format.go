package render

import (
	"fmt"
	"math"
	"time"

	"github.com/dustin/go-humanize"
)

// Price formats a course or plan price in whole dollars.
func Price(p float64) string {
	if p <= 0 {
		return "Free"
	}
	if p == math.Trunc(p) {
		return fmt.Sprintf("$%.0f", p)
	}
	return fmt.Sprintf("$%.2f", p)
}

// TimeAgo formats t relative to now.
func TimeAgo(t time.Time) string {
	return timeAgo(t, time.Now())
}

func timeAgo(t, now time.Time) string {
	if now.Sub(t) < time.Minute {
		return "just now"
	}
	return humanize.RelTime(t, now, "ago", "from now")
}

// Progress draws a fixed-width bar for a 0-100 percentage.
func Progress(pct, width int) string {
	pct = max(0, min(100, pct))
	if width <= 0 {
		return fmt.Sprintf("%d%%", pct)
	}
	filled := pct * width / 100
	bar := make([]rune, width)
	for i := range bar {
		if i < filled {
			bar[i] = '█'
		} else {
			bar[i] = '░'
		}
	}
	return fmt.Sprintf("%s %3d%%", string(bar), pct)
}
