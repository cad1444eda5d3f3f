package papertrade

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// LoadLedger loads the ledger persisted in path.
//
// A missing file is the only case where a fresh ledger with initialCash is returned.
// A file that exists but cannot be read or decoded is an error.
func LoadLedger(path string, initialCash Money) (*Ledger, error) {
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return NewLedger(initialCash), nil
	}
	if err != nil {
		return nil, fmt.Errorf("could not open ledger file %q: %w", path, err)
	}
	defer f.Close()

	ledger, err := DecodeLedger(f)
	if err != nil {
		return nil, fmt.Errorf("could not decode ledger file %q: %w", path, err)
	}
	return ledger, nil
}

// SaveLedger persists the ledger into path.
//
// The document is written to a temporary file in the same directory and renamed
// over path, so a failed save never leaves a truncated ledger behind. When path is
// a symlink, the file it points to is replaced and the link is kept.
func SaveLedger(path string, ledger *Ledger) (err error) {
	if target, err := filepath.EvalSymlinks(path); err == nil {
		path = target
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("could not create directory for ledger %q: %w", path, err)
	}

	f, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("error opening ledger file %q for writing: %w", path, err)
	}
	defer func() {
		if err != nil {
			f.Close()
			os.Remove(f.Name())
		}
	}()

	if err := EncodeLedger(f, ledger); err != nil {
		return fmt.Errorf("error writing ledger file %q: %w", path, err)
	}
	if err := f.Sync(); err != nil {
		return fmt.Errorf("error syncing ledger file %q: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("error closing ledger file %q: %w", path, err)
	}
	if err := os.Chmod(f.Name(), 0644); err != nil {
		return fmt.Errorf("error setting ledger file %q mode: %w", path, err)
	}
	if err := os.Rename(f.Name(), path); err != nil {
		return fmt.Errorf("error replacing ledger file %q: %w", path, err)
	}
	return nil
}
