package bootstrap

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inkwell-app/inkwell/internal/appdata"
)

func newPaths(t *testing.T) *appdata.Paths {
	t.Helper()
	paths, err := appdata.NewPaths(t.TempDir())
	require.NoError(t, err)
	return paths
}

func touch(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, appdata.Save(path, []byte("x")))
}

func TestEvaluate_OrderedChecklist(t *testing.T) {
	tests := []struct {
		name    string
		consent bool
		device  bool
		site    bool
		want    Stage
	}{
		{"nothing present", false, false, false, StageConsent},
		{"consent only", true, false, false, StageDeviceLink},
		{"consent and device", true, true, false, StageSiteSetup},
		{"everything present", true, true, true, StageDesigner},
		{"device without consent", false, true, false, StageConsent},
		{"site config without device", true, false, true, StageDeviceLink},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			paths := newPaths(t)
			if tt.consent {
				touch(t, paths.ConsentMarker())
			}
			if tt.device {
				touch(t, paths.DeviceToken())
			}
			if tt.site {
				touch(t, paths.SiteConfig())
			}
			assert.Equal(t, tt.want, Evaluate(paths))
		})
	}
}

// Order is fixed, not "most specific unmet precondition": with consent
// absent but everything later present, consent still wins.
func TestEvaluate_ConsentAlwaysFirst(t *testing.T) {
	paths := newPaths(t)
	touch(t, paths.DeviceToken())
	touch(t, paths.SiteConfig())

	assert.Equal(t, StageConsent, Evaluate(paths))
}

func TestEvaluate_RecomputedAfterArtifactRemoval(t *testing.T) {
	paths := newPaths(t)
	touch(t, paths.ConsentMarker())
	touch(t, paths.DeviceToken())
	touch(t, paths.SiteConfig())
	require.Equal(t, StageDesigner, Evaluate(paths))

	// Unlinking the device drops the user back to device-link even
	// though the site config is still on disk.
	appdata.Remove(paths.DeviceToken())
	assert.Equal(t, StageDeviceLink, Evaluate(paths))
}

func TestStage_String(t *testing.T) {
	assert.Equal(t, "consent", StageConsent.String())
	assert.Equal(t, "device-link", StageDeviceLink.String())
	assert.Equal(t, "site-setup", StageSiteSetup.String())
	assert.Equal(t, "designer", StageDesigner.String())
}
