// Package app wires the pipelines together behind the command surface.
// An App is the explicitly constructed session object: every dependency
// (store paths, tool runner, hosting client, auth manager, preview
// server) is built once and passed in, never reached through globals.
package app

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/inkwell-app/inkwell/internal/appdata"
	"github.com/inkwell-app/inkwell/internal/auth"
	"github.com/inkwell-app/inkwell/internal/bootstrap"
	"github.com/inkwell-app/inkwell/internal/config"
	"github.com/inkwell-app/inkwell/internal/hosting"
	"github.com/inkwell-app/inkwell/internal/pipeline"
	"github.com/inkwell-app/inkwell/internal/preview"
	"github.com/inkwell-app/inkwell/internal/publish"
	"github.com/inkwell-app/inkwell/internal/site"
	"github.com/inkwell-app/inkwell/internal/toolrunner"
)

// Result is the uniform outcome shape for state-mutating operations.
// The boundary always resolves: failures are values with a message,
// never panics.
type Result struct {
	Success bool   `json:"success"`
	Msg     string `json:"msg"`
}

func ok() Result               { return Result{Success: true} }
func fail(msg string) Result   { return Result{Success: false, Msg: msg} }
func failErr(err error) Result { return fail(err.Error()) }

// App is the composed application session.
type App struct {
	Config  *config.Config
	Paths   *appdata.Paths
	Hosting *hosting.Client
	Auth    *auth.Manager

	previewServer *preview.Server
}

// New builds an App from configuration. The data root is created if
// missing; nothing else is touched until an operation runs.
func New(cfg *config.Config) (*App, error) {
	root := cfg.DataRoot
	if root == "" {
		var err error
		root, err = appdata.DefaultRoot()
		if err != nil {
			return nil, err
		}
	}

	paths, err := appdata.NewPaths(root)
	if err != nil {
		return nil, err
	}

	return &App{
		Config:  cfg,
		Paths:   paths,
		Hosting: hosting.New(cfg.HostingURL),
		Auth:    auth.NewManager(paths, cfg.TokenURL),
	}, nil
}

// Stage re-evaluates the bootstrap state machine. Called after every
// state-mutating operation so the caller always knows which screen is
// authoritative.
func (a *App) Stage() bootstrap.Stage {
	return bootstrap.Evaluate(a.Paths)
}

// runner resolves the site-generator binary on first use so that
// operations which never touch it (consent, status, settings) work
// without the binary installed.
func (a *App) runner() (*toolrunner.Runner, error) {
	return toolrunner.New(a.Config.GeneratorPath, a.Paths.SiteConfig())
}

// PreviewServer starts the local preview server on first use and
// returns it. The server stays up for the process lifetime and always
// serves the current build tree.
func (a *App) PreviewServer() (*preview.Server, error) {
	if a.previewServer == nil {
		server, err := preview.New(a.Paths.BuildDir())
		if err != nil {
			return nil, err
		}
		server.Start()
		a.previewServer = server
	}
	return a.previewServer, nil
}

// ConfirmConsent records terms-of-service consent. The marker's content
// is the confirmation timestamp; only its presence matters.
func (a *App) ConfirmConsent() Result {
	if appdata.Exists(a.Paths.ConsentMarker()) {
		return ok()
	}
	stamp := time.Now().UTC().Format(time.RFC3339)
	if err := appdata.Save(a.Paths.ConsentMarker(), []byte(stamp+"\n")); err != nil {
		return failErr(err)
	}
	log.Printf("[INFO] Consent confirmed: at=%s", stamp)
	return ok()
}

// DeclineConsent leaves every artifact untouched; the state machine
// keeps routing to the consent screen.
func (a *App) DeclineConsent() Result {
	log.Printf("[INFO] Consent declined")
	return ok()
}

// LinkDevice exchanges a one-time code for the device credential and
// persists it.
func (a *App) LinkDevice(ctx context.Context, code string) Result {
	token, err := a.Hosting.LinkDevice(ctx, code)
	if err != nil {
		return failErr(err)
	}
	if err := appdata.Save(a.Paths.DeviceToken(), []byte(token)); err != nil {
		return failErr(err)
	}
	log.Printf("[INFO] Device linked")
	return ok()
}

// UnlinkDevice removes the device credential; the state machine routes
// back to device-link on the next evaluation.
func (a *App) UnlinkDevice() {
	log.Printf("[INFO] Unlinking device")
	appdata.Remove(a.Paths.DeviceToken())
}

// InitSite binds a tablet folder as the site's source and persists the
// initial site configuration. The folder name is normalized before the
// tool runs; an empty result is a validation failure with no subprocess
// call.
func (a *App) InitSite(ctx context.Context, folderName string) Result {
	name, err := site.NormalizeFolderName(folderName)
	if err != nil {
		return fail("folder name can't be empty")
	}

	token, err := appdata.Load(a.Paths.DeviceToken())
	if err != nil {
		if errors.Is(err, appdata.ErrNotFound) {
			return fail("no device is linked")
		}
		return failErr(err)
	}

	runner, err := a.runner()
	if err != nil {
		return failErr(err)
	}
	result, err := runner.Init(ctx, string(token), name)
	if err != nil {
		return failErr(err)
	}
	if !result.Ok() {
		return fail(result.Message())
	}

	if err := site.Save(a.Paths, site.Config{SiteRoot: name}); err != nil {
		return failErr(err)
	}
	log.Printf("[INFO] Site initialized: folder=%q", name)
	return ok()
}

// LoadSiteConfig returns the stored site configuration joined with the
// persisted alias.
func (a *App) LoadSiteConfig() (site.Loaded, error) {
	return site.Load(a.Paths)
}

// SaveSiteConfig atomically persists the site configuration.
func (a *App) SaveSiteConfig(cfg site.Config) error {
	return site.Save(a.Paths, cfg)
}

// SaveSiteAlias reserves the alias server-side and persists it locally
// only once the reservation succeeded. Already holding the same alias
// is a no-op - reservation is not repeated.
func (a *App) SaveSiteAlias(ctx context.Context, alias string) Result {
	alias, err := site.NormalizeAlias(alias)
	if err != nil {
		return fail("alias name can't be empty")
	}

	if existing, err := appdata.Load(a.Paths.Alias()); err == nil && string(existing) == alias {
		return ok()
	}

	if err := a.Hosting.ReserveAlias(ctx, alias); err != nil {
		return failErr(err)
	}
	if err := appdata.Save(a.Paths.Alias(), []byte(alias)); err != nil {
		return failErr(err)
	}
	log.Printf("[INFO] Alias saved: alias=%s", alias)
	return ok()
}

// LoadPreview runs the build pipeline (fetch, then generate) and
// returns the preview URL on success.
func (a *App) LoadPreview(ctx context.Context) pipeline.Result {
	runner, err := a.runner()
	if err != nil {
		return pipeline.Result{Success: false, Msg: err.Error()}
	}
	server, err := a.PreviewServer()
	if err != nil {
		return pipeline.Result{Success: false, Msg: err.Error()}
	}

	builder := pipeline.New(a.Paths, runner, server.CurrentURL)
	return builder.LoadPreview(ctx)
}

// Publish archives the current material and uploads it, returning the
// raw HTTP status.
func (a *App) Publish(ctx context.Context) (int, error) {
	publisher := publish.New(a.Paths, a.Hosting, a.Auth)
	return publisher.Publish(ctx)
}

// SiteURL returns the public URL for the reserved alias, or "" when no
// alias is reserved yet.
func (a *App) SiteURL() string {
	alias, err := appdata.Load(a.Paths.Alias())
	if err != nil {
		return ""
	}
	return fmt.Sprintf("%s/@%s", a.Config.HostingURL, string(alias))
}

// ClearCache deletes the material and build trees. The next preview
// rebuilds both from scratch.
func (a *App) ClearCache() {
	log.Printf("[INFO] Clearing cache")
	appdata.RemoveTree(a.Paths.MaterialDir())
	appdata.RemoveTree(a.Paths.BuildDir())
}

// Logout deletes the persisted auth session.
func (a *App) Logout() {
	a.Auth.Logout()
}

// UnlinkFolder removes the site configuration; the state machine routes
// back to site-setup.
func (a *App) UnlinkFolder() {
	log.Printf("[INFO] Unlinking folder")
	appdata.Remove(a.Paths.SiteConfig())
}

// StartOver deletes every artifact, returning the user to the very
// first onboarding stage. This is the only operation that removes the
// consent marker.
func (a *App) StartOver() {
	log.Printf("[INFO] Starting over")
	appdata.Remove(a.Paths.ConsentMarker())
	appdata.Remove(a.Paths.DeviceToken())
	appdata.Remove(a.Paths.Alias())
	appdata.Remove(a.Paths.Subscription())
	appdata.Remove(a.Paths.Session())
	appdata.RemoveTree(a.Paths.MaterialDir())
	appdata.RemoveTree(a.Paths.BuildDir())
}
