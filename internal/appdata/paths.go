package appdata

import (
	"fmt"
	"os"
	"path/filepath"
)

// Paths holds the location of every persisted artifact under a single
// application-data root. Presence or absence of these files is the
// authoritative onboarding state - there is no separate state database.
type Paths struct {
	Root string
}

// DefaultRoot returns the per-user application-data root for inkwell.
func DefaultRoot() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to locate user config dir: %w", err)
	}
	return filepath.Join(base, "inkwell"), nil
}

// NewPaths creates a Paths rooted at root and ensures the root and the
// scratch directory exist.
func NewPaths(root string) (*Paths, error) {
	p := &Paths{Root: root}
	for _, dir := range []string{p.Root, p.TmpDir()} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create data directory %s: %w", dir, err)
		}
	}
	return p, nil
}

// ConsentMarker is the terms-of-service consent marker file. Its content
// is the confirmation timestamp; only its presence gates onboarding.
func (p *Paths) ConsentMarker() string { return filepath.Join(p.Root, "confirmed_tos") }

// DeviceToken is the opaque credential for the linked tablet account.
func (p *Paths) DeviceToken() string { return filepath.Join(p.Root, "device_token") }

// SiteConfig is the JSON site configuration.
func (p *Paths) SiteConfig() string { return filepath.Join(p.Root, "site_config.json") }

// Alias is the reserved public URL slug.
func (p *Paths) Alias() string { return filepath.Join(p.Root, "site_alias") }

// Subscription is the subscription marker file.
func (p *Paths) Subscription() string { return filepath.Join(p.Root, "subscription") }

// Session is the persisted auth session (refresh + id tokens).
func (p *Paths) Session() string { return filepath.Join(p.Root, "session.json") }

// MaterialDir is the on-disk mirror of fetched notebook content:
// a manifest plus one archive per notebook under zip/.
func (p *Paths) MaterialDir() string { return filepath.Join(p.Root, "material") }

// Manifest is the material tree's manifest file.
func (p *Paths) Manifest() string { return filepath.Join(p.MaterialDir(), "manifest.json") }

// NotebookZipDir holds the per-notebook archives inside the material tree.
func (p *Paths) NotebookZipDir() string { return filepath.Join(p.MaterialDir(), "zip") }

// BuildDir is the generated static site output.
func (p *Paths) BuildDir() string { return filepath.Join(p.Root, "build") }

// TmpDir holds staging directories and upload archives. Everything in
// here is disposable.
func (p *Paths) TmpDir() string { return filepath.Join(p.Root, "tmp") }
