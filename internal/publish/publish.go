// Package publish packages the fetched notebook material into a single
// archive and uploads it to the hosting service.
package publish

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/inkwell-app/inkwell/internal/appdata"
	"github.com/inkwell-app/inkwell/internal/auth"
	"github.com/inkwell-app/inkwell/internal/site"
)

// ErrAliasRequired reports that publish was attempted before an alias
// was reserved. The caller routes the user to alias selection.
var ErrAliasRequired = errors.New("no alias is reserved for this site")

// Uploader is the slice of the hosting client the publisher needs.
type Uploader interface {
	Upload(ctx context.Context, alias, idToken, archivePath string) (int, error)
}

// Identity supplies an authenticated session for the upload.
type Identity interface {
	Login(ctx context.Context) (auth.Session, error)
}

// Publisher runs the publish pipeline: preconditions, archive
// assembly, authenticated upload. There is no automatic retry at this
// layer - a retry is a fresh user-initiated Publish call.
type Publisher struct {
	paths    *appdata.Paths
	uploader Uploader
	identity Identity
}

// New creates a Publisher.
func New(paths *appdata.Paths, uploader Uploader, identity Identity) *Publisher {
	return &Publisher{paths: paths, uploader: uploader, identity: identity}
}

// Publish assembles the upload archive and posts it to the hosting
// service, returning the raw HTTP status code uninterpreted - the
// caller decides success by range-checking (200-399).
//
// Ordering: the archive is fully assembled, synced and closed on disk
// before any network I/O (including the login refresh) begins. A
// missing manifest or notebook archive therefore fails the operation
// with a file error and zero network calls.
func (p *Publisher) Publish(ctx context.Context) (int, error) {
	loaded, err := site.Load(p.paths)
	if err != nil {
		if errors.Is(err, appdata.ErrNotFound) {
			return 0, fmt.Errorf("no site is configured")
		}
		return 0, err
	}
	if loaded.Alias == "" {
		return 0, ErrAliasRequired
	}

	archivePath, err := assembleArchive(p.paths, loaded)
	if err != nil {
		return 0, err
	}
	// One transient archive per attempt; overwritten-or-deleted each time.
	defer os.Remove(archivePath)

	session, err := p.identity.Login(ctx)
	if err != nil {
		return 0, err
	}

	log.Printf("[INFO] Publishing site: alias=%s archive=%s", loaded.Alias, archivePath)
	status, err := p.uploader.Upload(ctx, loaded.Alias, session.IDToken, archivePath)
	if err != nil {
		return 0, err
	}
	return status, nil
}
