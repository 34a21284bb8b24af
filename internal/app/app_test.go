package app

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inkwell-app/inkwell/internal/appdata"
	"github.com/inkwell-app/inkwell/internal/bootstrap"
	"github.com/inkwell-app/inkwell/internal/config"
	"github.com/inkwell-app/inkwell/internal/site"
)

// fakeHosting is an httptest hosting service that links any device
// code and counts alias reservations.
type fakeHosting struct {
	server       *httptest.Server
	reservations int
}

func newFakeHosting(t *testing.T) *fakeHosting {
	t.Helper()
	f := &fakeHosting{}
	mux := http.NewServeMux()
	mux.HandleFunc("/device/link", func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, "device-token-1")
	})
	mux.HandleFunc("/reserve/", func(w http.ResponseWriter, r *http.Request) {
		f.reservations++
		w.WriteHeader(http.StatusCreated)
	})
	f.server = httptest.NewServer(mux)
	t.Cleanup(f.server.Close)
	return f
}

// writeFakeGenerator writes a stand-in generator binary that records
// its argv and succeeds.
func writeFakeGenerator(t *testing.T) (path, argvFile string) {
	t.Helper()
	dir := t.TempDir()
	argvFile = filepath.Join(dir, "argv")
	path = filepath.Join(dir, "inkwell-sitegen")
	script := "#!/bin/sh\necho \"$@\" > " + argvFile + "\n"
	require.NoError(t, os.WriteFile(path, []byte(script), 0o755))
	return path, argvFile
}

func newApp(t *testing.T, hostingURL, generatorPath string) *App {
	t.Helper()
	cfg, err := config.Load(filepath.Join(t.TempDir(), "inkwell.yml"))
	require.NoError(t, err)
	cfg.DataRoot = filepath.Join(t.TempDir(), "data")
	if hostingURL != "" {
		cfg.HostingURL = hostingURL
	}
	cfg.GeneratorPath = generatorPath

	a, err := New(cfg)
	require.NoError(t, err)
	return a
}

func TestOnboardingFlow_StageAdvancesWithEachArtifact(t *testing.T) {
	hostingSrv := newFakeHosting(t)
	generator, _ := writeFakeGenerator(t)
	a := newApp(t, hostingSrv.server.URL, generator)
	ctx := context.Background()

	require.Equal(t, bootstrap.StageConsent, a.Stage())

	require.True(t, a.ConfirmConsent().Success)
	require.Equal(t, bootstrap.StageDeviceLink, a.Stage())

	require.True(t, a.LinkDevice(ctx, "otc-1234").Success)
	require.Equal(t, bootstrap.StageSiteSetup, a.Stage())

	require.True(t, a.InitSite(ctx, "My Folder").Success)
	require.Equal(t, bootstrap.StageDesigner, a.Stage())
}

func TestConfirmConsent_Idempotent(t *testing.T) {
	a := newApp(t, "", "")

	require.True(t, a.ConfirmConsent().Success)
	first, err := appdata.Load(a.Paths.ConsentMarker())
	require.NoError(t, err)

	require.True(t, a.ConfirmConsent().Success)
	second, err := appdata.Load(a.Paths.ConsentMarker())
	require.NoError(t, err)
	assert.Equal(t, string(first), string(second), "marker is created once, never mutated")
}

func TestDeclineConsent_LeavesStateUnchanged(t *testing.T) {
	a := newApp(t, "", "")

	require.True(t, a.DeclineConsent().Success)
	assert.Equal(t, bootstrap.StageConsent, a.Stage())
}

func TestInitSite_NormalizesFolderNameBeforeToolRuns(t *testing.T) {
	hostingSrv := newFakeHosting(t)
	generator, argvFile := writeFakeGenerator(t)
	a := newApp(t, hostingSrv.server.URL, generator)
	ctx := context.Background()

	require.True(t, a.ConfirmConsent().Success)
	require.True(t, a.LinkDevice(ctx, "otc").Success)

	result := a.InitSite(ctx, "  My   Folder  ")
	require.True(t, result.Success, "msg: %s", result.Msg)

	argv, err := os.ReadFile(argvFile)
	require.NoError(t, err)
	assert.Contains(t, string(argv), "init device-token-1 My Folder")

	loaded, err := a.LoadSiteConfig()
	require.NoError(t, err)
	assert.Equal(t, "My Folder", loaded.SiteRoot)
}

func TestInitSite_EmptyNameIsValidationFailure(t *testing.T) {
	a := newApp(t, "", "")

	result := a.InitSite(context.Background(), "   ")
	assert.False(t, result.Success)
	assert.Contains(t, result.Msg, "empty")
}

func TestSaveSiteAlias_ReservesOnceAndPersists(t *testing.T) {
	hostingSrv := newFakeHosting(t)
	a := newApp(t, hostingSrv.server.URL, "")
	ctx := context.Background()

	require.True(t, a.SaveSiteAlias(ctx, " my-notes ").Success)
	assert.Equal(t, 1, hostingSrv.reservations)

	// Saving the same alias again does not re-reserve.
	require.True(t, a.SaveSiteAlias(ctx, "my-notes").Success)
	assert.Equal(t, 1, hostingSrv.reservations)

	// A later site-config load includes the alias.
	require.NoError(t, a.SaveSiteConfig(site.Config{SiteRoot: "Notes"}))
	loaded, err := a.LoadSiteConfig()
	require.NoError(t, err)
	assert.Equal(t, "my-notes", loaded.Alias)
}

func TestSaveSiteAlias_ServerRejectionSurfacesMessage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		io.WriteString(w, "alias already taken")
	}))
	defer server.Close()
	a := newApp(t, server.URL, "")

	result := a.SaveSiteAlias(context.Background(), "taken")
	assert.False(t, result.Success)
	assert.Equal(t, "alias already taken", result.Msg)
	assert.False(t, appdata.Exists(a.Paths.Alias()), "rejected alias is not persisted")
}

func TestUnlinkOperations_RouteStateMachineBackwards(t *testing.T) {
	hostingSrv := newFakeHosting(t)
	generator, _ := writeFakeGenerator(t)
	a := newApp(t, hostingSrv.server.URL, generator)
	ctx := context.Background()

	require.True(t, a.ConfirmConsent().Success)
	require.True(t, a.LinkDevice(ctx, "otc").Success)
	require.True(t, a.InitSite(ctx, "Notes").Success)
	require.Equal(t, bootstrap.StageDesigner, a.Stage())

	a.UnlinkFolder()
	assert.Equal(t, bootstrap.StageSiteSetup, a.Stage())

	a.UnlinkDevice()
	assert.Equal(t, bootstrap.StageDeviceLink, a.Stage())
}

func TestStartOver_RemovesEveryArtifact(t *testing.T) {
	hostingSrv := newFakeHosting(t)
	generator, _ := writeFakeGenerator(t)
	a := newApp(t, hostingSrv.server.URL, generator)
	ctx := context.Background()

	require.True(t, a.ConfirmConsent().Success)
	require.True(t, a.LinkDevice(ctx, "otc").Success)
	require.True(t, a.InitSite(ctx, "Notes").Success)
	require.True(t, a.SaveSiteAlias(ctx, "my-notes").Success)
	require.NoError(t, os.MkdirAll(a.Paths.NotebookZipDir(), 0o755))

	a.StartOver()

	assert.Equal(t, bootstrap.StageConsent, a.Stage())
	assert.False(t, appdata.Exists(a.Paths.ConsentMarker()))
	assert.False(t, appdata.Exists(a.Paths.DeviceToken()))
	assert.False(t, appdata.Exists(a.Paths.Alias()))
	assert.False(t, appdata.Exists(a.Paths.Session()))
	assert.False(t, appdata.Exists(a.Paths.MaterialDir()))
}

func TestClearCache_RemovesTreesOnly(t *testing.T) {
	a := newApp(t, "", "")
	require.True(t, a.ConfirmConsent().Success)
	require.NoError(t, os.MkdirAll(a.Paths.NotebookZipDir(), 0o755))
	require.NoError(t, os.MkdirAll(a.Paths.BuildDir(), 0o755))

	a.ClearCache()

	assert.False(t, appdata.Exists(a.Paths.MaterialDir()))
	assert.False(t, appdata.Exists(a.Paths.BuildDir()))
	assert.True(t, appdata.Exists(a.Paths.ConsentMarker()), "cache clearing never touches onboarding artifacts")
}

func TestSiteURL(t *testing.T) {
	a := newApp(t, "", "")
	assert.Empty(t, a.SiteURL())

	require.NoError(t, appdata.Save(a.Paths.Alias(), []byte("my-notes")))
	assert.Equal(t, a.Config.HostingURL+"/@my-notes", a.SiteURL())
}

func TestLoadPreview_EndToEndWithFakeGenerator(t *testing.T) {
	hostingSrv := newFakeHosting(t)

	// A generator whose fetch and gen modes write real output.
	dir := t.TempDir()
	generator := filepath.Join(dir, "inkwell-sitegen")
	script := `#!/bin/sh
mode="$2"
if [ "$mode" = "fetch" ]; then
  mkdir -p "$4/zip"
  echo '{"notebooks":[]}' > "$4/manifest.json"
elif [ "$mode" = "gen" ]; then
  echo '<h1>site</h1>' > "$4/index.html"
fi
`
	require.NoError(t, os.WriteFile(generator, []byte(script), 0o755))

	a := newApp(t, hostingSrv.server.URL, generator)
	ctx := context.Background()
	require.True(t, a.ConfirmConsent().Success)
	require.True(t, a.LinkDevice(ctx, "otc").Success)
	require.True(t, a.InitSite(ctx, "Notes").Success)

	result := a.LoadPreview(ctx)
	require.True(t, result.Success, "msg: %s", result.Msg)
	require.NotEmpty(t, result.URL)

	resp, err := http.Get(result.URL)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "<h1>site</h1>")
}
