// Package bootstrap decides which onboarding stage is currently
// authoritative. The stage is never persisted: it is recomputed from
// artifact presence on every call, which makes onboarding crash-safe -
// after an unclean shutdown the next evaluation lands on the correct
// stage from whatever artifacts survived.
package bootstrap

import "github.com/inkwell-app/inkwell/internal/appdata"

// Stage is one of the mutually exclusive onboarding stages.
type Stage int

const (
	// StageConsent - the terms-of-service warning has not been confirmed.
	StageConsent Stage = iota
	// StageDeviceLink - no tablet account is linked.
	StageDeviceLink
	// StageSiteSetup - no site configuration exists.
	StageSiteSetup
	// StageDesigner - all preconditions met; the designer is active.
	StageDesigner
)

// String returns the screen name for the stage.
func (s Stage) String() string {
	switch s {
	case StageConsent:
		return "consent"
	case StageDeviceLink:
		return "device-link"
	case StageSiteSetup:
		return "site-setup"
	case StageDesigner:
		return "designer"
	default:
		return "unknown"
	}
}

// Evaluate runs the ordered precondition checklist and returns the
// first unmet stage. The order is fixed: consent, device link, site
// config, designer. Checks short-circuit - a later artifact being
// present never skips an earlier missing one.
func Evaluate(paths *appdata.Paths) Stage {
	if !appdata.Exists(paths.ConsentMarker()) {
		return StageConsent
	}
	if !appdata.Exists(paths.DeviceToken()) {
		return StageDeviceLink
	}
	if !appdata.Exists(paths.SiteConfig()) {
		return StageSiteSetup
	}
	return StageDesigner
}
