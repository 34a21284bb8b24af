package publish

import (
	"archive/zip"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/inkwell-app/inkwell/internal/appdata"
	"github.com/inkwell-app/inkwell/internal/site"
)

// assembleArchive builds the upload archive on disk and returns its
// path. The archive contains:
//
//	config.json  - the current site configuration, serialized
//	manifest.json - verbatim copy of the material tree's manifest
//	zip/<name>   - verbatim copy of every per-notebook archive
//
// The file is fully written, synced and closed before this returns, so
// the upload that follows never races archive construction. The caller
// owns deletion of the returned file.
func assembleArchive(paths *appdata.Paths, loaded site.Loaded) (string, error) {
	manifest, err := os.Open(paths.Manifest())
	if err != nil {
		return "", fmt.Errorf("failed to open manifest: %w", err)
	}
	defer manifest.Close()

	notebooks, err := os.ReadDir(paths.NotebookZipDir())
	if err != nil {
		return "", fmt.Errorf("failed to read notebook archives: %w", err)
	}

	archivePath := filepath.Join(paths.TmpDir(), "publish-"+uuid.NewString()+".zip")
	out, err := os.Create(archivePath)
	if err != nil {
		return "", fmt.Errorf("failed to create archive: %w", err)
	}

	if err := writeArchive(out, loaded, manifest, paths.NotebookZipDir(), notebooks); err != nil {
		out.Close()
		os.Remove(archivePath)
		return "", err
	}

	if err := out.Sync(); err != nil {
		out.Close()
		os.Remove(archivePath)
		return "", fmt.Errorf("failed to flush archive: %w", err)
	}
	if err := out.Close(); err != nil {
		os.Remove(archivePath)
		return "", fmt.Errorf("failed to close archive: %w", err)
	}

	return archivePath, nil
}

func writeArchive(out io.Writer, loaded site.Loaded, manifest io.Reader, zipDir string, notebooks []os.DirEntry) error {
	w := zip.NewWriter(out)

	configJSON, err := json.MarshalIndent(loaded, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize site config: %w", err)
	}
	entry, err := w.Create("config.json")
	if err != nil {
		return fmt.Errorf("failed to add config.json: %w", err)
	}
	if _, err := entry.Write(configJSON); err != nil {
		return fmt.Errorf("failed to write config.json: %w", err)
	}

	entry, err = w.Create("manifest.json")
	if err != nil {
		return fmt.Errorf("failed to add manifest.json: %w", err)
	}
	if _, err := io.Copy(entry, manifest); err != nil {
		return fmt.Errorf("failed to write manifest.json: %w", err)
	}

	for _, notebook := range notebooks {
		if !notebook.Type().IsRegular() {
			continue
		}
		file, err := os.Open(filepath.Join(zipDir, notebook.Name()))
		if err != nil {
			return fmt.Errorf("failed to open notebook archive %s: %w", notebook.Name(), err)
		}
		entry, err := w.Create("zip/" + notebook.Name())
		if err != nil {
			file.Close()
			return fmt.Errorf("failed to add notebook archive %s: %w", notebook.Name(), err)
		}
		if _, err := io.Copy(entry, file); err != nil {
			file.Close()
			return fmt.Errorf("failed to write notebook archive %s: %w", notebook.Name(), err)
		}
		file.Close()
	}

	if err := w.Close(); err != nil {
		return fmt.Errorf("failed to finalize archive: %w", err)
	}
	return nil
}
