package cli

import (
	"fmt"
	"regexp"
	"strings"

	coreshipment "github.com/example/resi/internal/core/shipment"
)

var partialTrackingPattern = regexp.MustCompile(`(?i)^M10[0-9A-Z]*$`)

// validateShipmentRef catches tracking numbers typed with missing or extra
// characters, which would otherwise be looked up as an id and reported as
// not found.
func validateShipmentRef(ref string) error {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return fmt.Errorf("shipment id or tracking number is required")
	}
	if coreshipment.LooksLikeTrackingNumber(ref) {
		return nil
	}
	if partialTrackingPattern.MatchString(ref) {
		return fmt.Errorf("invalid tracking number '%s': expected %d characters like %s12345678ABC",
			ref, coreshipment.TrackingLength, coreshipment.TrackingPrefix)
	}
	return nil
}
