package archive

import (
	"archive/tar"
	"compress/gzip"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// readFilePattern selects the files packed into an archive.
const readFilePattern = "*.fastq.gz"

// Pack creates <name>.tar.gz inside dir from the read files directly under
// it. An existing archive is reused, matching the behavior of repeated
// dispatches for the same run. The archive path is returned.
func Pack(ctx context.Context, dir, name string) (string, error) {
	archivePath := filepath.Join(dir, name+".tar.gz")
	if _, err := os.Stat(archivePath); err == nil {
		return archivePath, nil
	} else if !os.IsNotExist(err) {
		return "", fmt.Errorf("stat archive: %w", err)
	}

	matches, err := filepath.Glob(filepath.Join(dir, readFilePattern))
	if err != nil {
		return "", fmt.Errorf("glob read files: %w", err)
	}
	if len(matches) == 0 {
		return "", fmt.Errorf("no %s files in %s", readFilePattern, dir)
	}

	// Write to a temp name first so a failed pack never leaves a
	// plausible-looking archive behind.
	tmpPath := archivePath + ".partial"
	out, err := os.OpenFile(tmpPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return "", fmt.Errorf("create archive: %w", err)
	}

	if err := writeTarGz(ctx, out, matches); err != nil {
		_ = out.Close()
		_ = os.Remove(tmpPath)
		return "", err
	}
	if err := out.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return "", fmt.Errorf("close archive: %w", err)
	}
	if err := os.Rename(tmpPath, archivePath); err != nil {
		_ = os.Remove(tmpPath)
		return "", fmt.Errorf("finalize archive: %w", err)
	}
	return archivePath, nil
}

func writeTarGz(ctx context.Context, out io.Writer, files []string) error {
	gz := gzip.NewWriter(out)
	tw := tar.NewWriter(gz)

	for _, path := range files {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := addFile(tw, path); err != nil {
			return err
		}
	}

	if err := tw.Close(); err != nil {
		return fmt.Errorf("close tar writer: %w", err)
	}
	if err := gz.Close(); err != nil {
		return fmt.Errorf("close gzip writer: %w", err)
	}
	return nil
}

func addFile(tw *tar.Writer, path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("stat %s: %w", path, err)
	}
	if !info.Mode().IsRegular() {
		return nil
	}

	header, err := tar.FileInfoHeader(info, "")
	if err != nil {
		return fmt.Errorf("tar header for %s: %w", path, err)
	}
	header.Name = filepath.Base(path)
	if err := tw.WriteHeader(header); err != nil {
		return fmt.Errorf("write tar header for %s: %w", path, err)
	}

	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer file.Close()

	if _, err := io.Copy(tw, file); err != nil {
		return fmt.Errorf("copy %s into archive: %w", path, err)
	}
	return nil
}
