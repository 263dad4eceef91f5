// loader.go - Load .qcbundle (ZIP) bundles and batch.json files.
package card

import (
	"archive/zip"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// BundleConfigName is the config file expected at the root of a bundle.
const BundleConfigName = "config.json"

// LoadBundle opens a .qcbundle ZIP (config.json plus fonts), extracts it to a
// temp directory, parses config.json and resolves font paths against it.
// The returned cleanup function removes the temp directory.
func LoadBundle(path string) (*Config, func(), error) {
	noop := func() {}

	r, err := zip.OpenReader(path)
	if err != nil {
		return nil, noop, fmt.Errorf("open %s: %w", path, err)
	}
	defer r.Close()

	// Extract to temp dir.
	tmpDir, err := os.MkdirTemp("", "qcbundle-*")
	if err != nil {
		return nil, noop, fmt.Errorf("create temp dir: %w", err)
	}
	cleanup := func() { os.RemoveAll(tmpDir) }

	if err := extractZip(r, tmpDir); err != nil {
		cleanup()
		return nil, noop, fmt.Errorf("extract %s: %w", path, err)
	}

	cfg, err := ParseConfigFile(filepath.Join(tmpDir, BundleConfigName))
	if err != nil {
		cleanup()
		return nil, noop, err
	}

	resolveFontPaths(cfg, tmpDir)
	return cfg, cleanup, nil
}

// LoadConfig loads a .qcbundle or a standalone JSON config, chosen by extension.
// An empty path yields DefaultConfig.
func LoadConfig(path string) (*Config, func(), error) {
	noop := func() {}
	switch {
	case path == "":
		return DefaultConfig(), noop, nil
	case strings.EqualFold(filepath.Ext(path), ".qcbundle"):
		return LoadBundle(path)
	default:
		cfg, err := ParseConfigFile(path)
		if err != nil {
			return nil, noop, err
		}
		resolveFontPaths(cfg, filepath.Dir(path))
		return cfg, noop, nil
	}
}

// LoadBatch reads a batch.json file, merges each card onto the defaults and
// resolves relative paths against the file's directory. Returns warnings for
// suspicious entries.
func LoadBatch(path string) ([]CardData, []string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("read batch: %w", err)
	}

	var batch Batch
	if err := json.Unmarshal(data, &batch); err != nil {
		return nil, nil, fmt.Errorf("parse batch JSON: %w", err)
	}
	if len(batch.Cards) == 0 {
		return nil, []string{"batch has no cards"}, nil
	}

	cards := MergeCards(&batch)
	baseDir := filepath.Dir(path)
	for i := range cards {
		resolveCardPaths(&cards[i], baseDir)
	}

	return cards, ValidateBatch(cards), nil
}

// resolveFontPaths makes relative font paths absolute using baseDir.
func resolveFontPaths(cfg *Config, baseDir string) {
	resolve := func(p string) string {
		if p == "" || filepath.IsAbs(p) {
			return p
		}
		return filepath.Join(baseDir, p)
	}

	cfg.Font.Path = resolve(cfg.Font.Path)
	for i, p := range cfg.Font.SearchPaths {
		cfg.Font.SearchPaths[i] = resolve(p)
	}
}

// extractZip extracts all files from a zip reader into destDir.
func extractZip(r *zip.ReadCloser, destDir string) error {
	for _, f := range r.File {
		target := filepath.Join(destDir, f.Name)

		// Guard against zip slip.
		if !strings.HasPrefix(filepath.Clean(target), filepath.Clean(destDir)+string(os.PathSeparator)) {
			return fmt.Errorf("illegal path in zip: %s", f.Name)
		}

		if f.FileInfo().IsDir() {
			if err := os.MkdirAll(target, 0755); err != nil {
				return err
			}
			continue
		}

		// Ensure parent directory exists.
		if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
			return err
		}

		if err := extractFile(f, target); err != nil {
			return err
		}
	}
	return nil
}

// extractFile writes a single zip entry to disk.
func extractFile(f *zip.File, target string) error {
	rc, err := f.Open()
	if err != nil {
		return err
	}
	defer rc.Close()

	out, err := os.Create(target)
	if err != nil {
		return err
	}
	defer out.Close()

	_, err = io.Copy(out, rc)
	return err
}
