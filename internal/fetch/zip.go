package fetch

import (
	"archive/zip"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
)

// ExtractSnapshot pulls the single snapshot file (.json or .xlsx) out of a
// downloaded ZIP archive into destDir and returns its path. Insurers that
// publish compressed reference workbooks ship one payload per archive.
func ExtractSnapshot(zipPath, destDir string) (string, error) {
	r, err := zip.OpenReader(zipPath)
	if err != nil {
		return "", eris.Wrap(err, "fetch: open archive")
	}
	defer r.Close()

	var candidates []*zip.File
	for _, f := range r.File {
		if f.FileInfo().IsDir() {
			continue
		}
		switch strings.ToLower(filepath.Ext(f.Name)) {
		case ".json", ".xlsx":
			candidates = append(candidates, f)
		}
	}

	if len(candidates) == 0 {
		return "", eris.Errorf("fetch: archive %s holds no snapshot file", zipPath)
	}
	if len(candidates) > 1 {
		return "", eris.Errorf("fetch: archive %s holds %d snapshot files, expected one", zipPath, len(candidates))
	}
	return extractEntry(candidates[0], destDir)
}

func extractEntry(f *zip.File, destDir string) (string, error) {
	// Flatten the entry name; archive-internal directories are irrelevant
	// and guarding the base name alone closes the zip-slip hole.
	destPath := filepath.Join(destDir, filepath.Base(f.Name))
	if !strings.HasPrefix(filepath.Clean(destPath), filepath.Clean(destDir)+string(os.PathSeparator)) {
		return "", eris.Errorf("fetch: illegal archive path %q", f.Name)
	}

	rc, err := f.Open()
	if err != nil {
		return "", eris.Wrap(err, "fetch: open archive entry")
	}
	defer rc.Close()

	out, err := os.Create(destPath)
	if err != nil {
		return "", eris.Wrap(err, "fetch: create file")
	}
	defer out.Close()

	if _, err := io.Copy(out, rc); err != nil {
		return "", eris.Wrap(err, "fetch: write file")
	}
	return destPath, nil
}
