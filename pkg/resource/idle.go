package resource

import "time"

const day = 24 * time.Hour

// IdleDays returns the whole days elapsed between ref and now.
// Fractional days are truncated toward zero, so a timestamp in the future yields
// zero or a negative count.
func IdleDays(now, ref time.Time) int {
	return int(now.Sub(ref) / day)
}

// Qualifies reports whether an idle duration meets the threshold. The boundary is inclusive.
func Qualifies(idleDays, thresholdDays int) bool {
	return idleDays >= thresholdDays
}
