package shipment

import (
	"fmt"
	"math/rand/v2"
	"strings"
	"time"
)

// Tracking number layout: prefix, 8 timestamp digits, 3 random characters.
const (
	TrackingPrefix       = "M10"
	TrackingLength       = len(TrackingPrefix) + trackingStampDigits + trackingSuffixLength
	trackingStampDigits  = 8
	trackingSuffixLength = 3
	trackingAlphabet     = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"
)

// TrackingNumberGenerator produces human-typeable tracking numbers.
// Collisions are not checked.
type TrackingNumberGenerator struct {
	now  func() time.Time
	intN func(n int) int
}

// NewTrackingNumberGenerator returns a generator on the wall clock.
func NewTrackingNumberGenerator() *TrackingNumberGenerator {
	return NewTrackingNumberGeneratorWith(time.Now, rand.IntN)
}

// NewTrackingNumberGeneratorWith returns a generator with an injected clock
// and random source. intN must return a value in [0, n).
func NewTrackingNumberGeneratorWith(now func() time.Time, intN func(n int) int) *TrackingNumberGenerator {
	return &TrackingNumberGenerator{now: now, intN: intN}
}

// Next returns a fresh tracking number, e.g. M1012345678X7Q.
func (g *TrackingNumberGenerator) Next() string {
	stamp := g.now().UnixMilli() % 100_000_000

	var b strings.Builder
	b.Grow(TrackingLength)
	b.WriteString(TrackingPrefix)
	fmt.Fprintf(&b, "%08d", stamp)
	for range trackingSuffixLength {
		b.WriteByte(trackingAlphabet[g.intN(len(trackingAlphabet))])
	}
	return b.String()
}

// LooksLikeTrackingNumber reports whether s has the tracking number shape,
// ignoring case.
func LooksLikeTrackingNumber(s string) bool {
	s = strings.ToUpper(strings.TrimSpace(s))
	if len(s) != TrackingLength || !strings.HasPrefix(s, TrackingPrefix) {
		return false
	}
	for i := len(TrackingPrefix); i < len(TrackingPrefix)+trackingStampDigits; i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	for i := len(TrackingPrefix) + trackingStampDigits; i < len(s); i++ {
		if !strings.ContainsRune(trackingAlphabet, rune(s[i])) {
			return false
		}
	}
	return true
}
