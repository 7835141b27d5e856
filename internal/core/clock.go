package core

import (
	"time"

	"github.com/benbjohnson/clock"
)

// TimestampLayout renders day/month/year followed by the 24h time.
const TimestampLayout = "02/01/2006 15:04:05"

// FormatTimestamp renders t in UTC using TimestampLayout.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}

func now(c clock.Clock) string {
	return FormatTimestamp(c.Now())
}
