// Package site holds the persisted site configuration and the
// validation rules for user-entered site identifiers.
package site

import (
	"errors"
	"strings"

	"github.com/inkwell-app/inkwell/internal/appdata"
)

// ErrEmptyName reports that a folder name or alias was empty after
// normalization. Caught before any subprocess or network call.
var ErrEmptyName = errors.New("name cannot be empty")

// Config is the site configuration persisted as site_config.json.
// SiteRoot identifies the source folder on the tablet; Title and Theme
// drive site generation.
type Config struct {
	SiteRoot string `json:"site_root"`
	Title    string `json:"title"`
	Theme    string `json:"theme"`
}

// Loaded is the view handed to the designer layer: the stored config
// plus the separately persisted alias ("" when no alias is reserved
// yet - that blocks publish, not the designer).
type Loaded struct {
	Config
	Alias string `json:"alias"`
}

// Load reads the site config and joins in the persisted alias.
// Returns appdata.ErrNotFound when no site config exists yet.
func Load(paths *appdata.Paths) (Loaded, error) {
	var loaded Loaded
	if err := appdata.LoadJSON(paths.SiteConfig(), &loaded.Config); err != nil {
		return Loaded{}, err
	}

	alias, err := appdata.Load(paths.Alias())
	if err == nil {
		loaded.Alias = strings.TrimSpace(string(alias))
	} else if !errors.Is(err, appdata.ErrNotFound) {
		return Loaded{}, err
	}

	return loaded, nil
}

// Save atomically persists the site config.
func Save(paths *appdata.Paths, config Config) error {
	return appdata.SaveJSON(paths.SiteConfig(), config)
}

// NormalizeFolderName canonicalizes a user-entered tablet folder name:
// surrounding whitespace is trimmed and internal runs of spaces are
// collapsed to a single space. Collapsing repeats until the value is
// stable, so any run length reduces to one space.
func NormalizeFolderName(name string) (string, error) {
	name = strings.TrimSpace(name)
	for {
		collapsed := strings.ReplaceAll(name, "  ", " ")
		if collapsed == name {
			break
		}
		name = collapsed
	}
	if name == "" {
		return "", ErrEmptyName
	}
	return name, nil
}

// NormalizeAlias trims a user-entered alias. Reservation rules beyond
// non-emptiness belong to the hosting service.
func NormalizeAlias(alias string) (string, error) {
	alias = strings.TrimSpace(alias)
	if alias == "" {
		return "", ErrEmptyName
	}
	return alias, nil
}
