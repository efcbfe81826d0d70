package archive

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"syscall"

	"rundispatch/internal/fileutil"
	"rundispatch/internal/logging"
)

// Publisher moves finished archives into the public download directory.
type Publisher struct {
	publicDir string
	logger    *slog.Logger
}

// NewPublisher constructs a publisher for the given public directory.
func NewPublisher(publicDir string, logger *slog.Logger) *Publisher {
	return &Publisher{
		publicDir: publicDir,
		logger:    logging.NewComponentLogger(logger, "publisher"),
	}
}

// Publish places archivePath into the public directory under its base name.
// A stale copy (checksum mismatch) is deleted first; a matching copy is kept
// and the new archive left in place. Returns the public path and whether the
// archive was moved.
func (p *Publisher) Publish(archivePath, checksum string) (string, bool, error) {
	target := filepath.Join(p.publicDir, filepath.Base(archivePath))

	if _, err := os.Stat(target); err == nil {
		existing, err := MD5File(target)
		if err != nil {
			return "", false, fmt.Errorf("checksum existing archive: %w", err)
		}
		if existing == checksum {
			p.logger.Info("archive already published", logging.String("path", target))
			return target, false, nil
		}
		p.logger.Warn("removing stale archive", logging.String("path", target))
		if err := os.Remove(target); err != nil {
			return "", false, fmt.Errorf("remove stale archive: %w", err)
		}
	} else if !os.IsNotExist(err) {
		return "", false, fmt.Errorf("stat public archive: %w", err)
	}

	if err := moveFile(p.logger, archivePath, target); err != nil {
		return "", false, err
	}
	return target, true, nil
}

// moveFile renames source to target, falling back to copy+delete for
// cross-device moves (the public webroot usually lives on another mount).
func moveFile(logger *slog.Logger, source, target string) error {
	renameErr := os.Rename(source, target)
	if renameErr == nil {
		return nil
	}

	var linkErr *os.LinkError
	if errors.As(renameErr, &linkErr) && errors.Is(linkErr.Err, syscall.EXDEV) {
		if err := fileutil.CopyFileVerified(source, target); err != nil {
			return fmt.Errorf("copy archive to public dir: %w", err)
		}
		if err := os.Remove(source); err != nil {
			logger.Warn("failed to remove source archive after copy; duplicate remains",
				logging.String("path", source),
				logging.Error(err),
			)
		}
		return nil
	}

	return fmt.Errorf("move archive to public dir: %w", renameErr)
}
