package dispatch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/gofrs/flock"

	"rundispatch/internal/archive"
	"rundispatch/internal/config"
	"rundispatch/internal/history"
	"rundispatch/internal/inventory"
	"rundispatch/internal/logging"
	"rundispatch/internal/mailer"
	"rundispatch/internal/runfolder"
)

// Dispatcher drives the archive-and-notify sequence for completed runs.
// One run at a time, blocking calls, no retries.
type Dispatcher struct {
	cfg       *config.Config
	inv       *inventory.Inventory
	publisher *archive.Publisher
	mail      mailer.Service
	store     *history.Store
	logger    *slog.Logger
	lock      *flock.Flock
}

// Result describes one published run.
type Result struct {
	RunID      string
	Archive    string
	PublicPath string
	Checksum   string
	Recipients []string
}

// New constructs a dispatcher with default collaborators.
func New(cfg *config.Config, inv *inventory.Inventory, store *history.Store, logger *slog.Logger) *Dispatcher {
	return NewWithDependencies(cfg, inv, store, logger, archive.NewPublisher(cfg.Paths.PublicDir, logger), mailer.NewService(cfg))
}

// NewWithDependencies allows injecting collaborators (used in tests).
func NewWithDependencies(cfg *config.Config, inv *inventory.Inventory, store *history.Store, logger *slog.Logger, publisher *archive.Publisher, mail mailer.Service) *Dispatcher {
	return &Dispatcher{
		cfg:       cfg,
		inv:       inv,
		publisher: publisher,
		mail:      mail,
		store:     store,
		logger:    logging.NewComponentLogger(logger, "dispatch"),
		lock:      flock.New(filepath.Join(cfg.Paths.StateDir, "dispatch.lock")),
	}
}

// Dispatch archives, publishes, and mails every requested run. Recipients
// are validated up front; the default recipients are appended unless
// disabled in config. The first failing run aborts the remainder.
func (d *Dispatcher) Dispatch(ctx context.Context, runIDs []string, group string, recipients []string) ([]Result, error) {
	if len(runIDs) == 0 {
		return nil, wrap(ErrValidation, "dispatch", "no run ids given", nil)
	}
	group = strings.TrimSpace(group)
	if group == "" {
		return nil, wrap(ErrValidation, "dispatch", "no group label given", nil)
	}
	if err := mailer.ValidateRecipients(recipients); err != nil {
		return nil, wrap(ErrValidation, "dispatch", "recipients", err)
	}
	if d.cfg.Mail.AppendDefaultRecipients {
		recipients = append(recipients, d.cfg.Mail.DefaultRecipients...)
	}
	if len(recipients) == 0 {
		return nil, wrap(ErrValidation, "dispatch", "no recipients resolved", nil)
	}

	locked, err := d.lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire dispatch lock: %w", err)
	}
	if !locked {
		return nil, errors.New("another dispatch is already running")
	}
	defer func() { _ = d.lock.Unlock() }()

	var results []Result
	for _, runID := range runIDs {
		result, err := d.dispatchOne(ctx, runID, group, recipients)
		if err != nil {
			return results, err
		}
		results = append(results, result)
	}
	return results, nil
}

func (d *Dispatcher) dispatchOne(ctx context.Context, runID, group string, recipients []string) (Result, error) {
	logger := d.logger.With(logging.String("run_id", runID))

	folder, ok := d.inv.Lookup(runID)
	if !ok {
		return Result{}, fmt.Errorf("%w: %s", ErrUnknownRun, runID)
	}
	if _, err := os.Stat(folder); err != nil {
		return Result{}, fmt.Errorf("%w: %s: %v", ErrMissingFolder, folder, err)
	}

	readDir, err := runfolder.Resolve(folder, runID)
	if err != nil {
		return Result{}, fmt.Errorf("resolve run %s: %w", runID, err)
	}
	logger.Info("collecting data", logging.String("read_dir", readDir))

	name := fmt.Sprintf("%s_AG_%s", runID, sanitizeGroup(group))
	logger.Info("creating archive", logging.String("name", name))
	archivePath, err := archive.Pack(ctx, readDir, name)
	if err != nil {
		return Result{}, fmt.Errorf("pack run %s: %w", runID, err)
	}

	logger.Info("calculating md5sum")
	checksum, err := archive.MD5File(archivePath)
	if err != nil {
		return Result{}, fmt.Errorf("checksum run %s: %w", runID, err)
	}

	publicPath, moved, err := d.publisher.Publish(archivePath, checksum)
	if err != nil {
		return Result{}, fmt.Errorf("publish run %s: %w", runID, err)
	}
	if moved {
		logger.Info("archive published", logging.String("path", publicPath))
	}

	filename := filepath.Base(publicPath)
	logger.Info("dispatching notification", logging.Int("recipients", len(recipients)))
	if err := d.mail.NotifyRunReady(ctx, mailer.Notice{
		Filename:   filename,
		Checksum:   checksum,
		Group:      group,
		Recipients: recipients,
	}); err != nil {
		return Result{}, fmt.Errorf("notify run %s: %w", runID, err)
	}

	if d.store != nil {
		if _, err := d.store.Record(ctx, history.Entry{
			RunID:      runID,
			Group:      group,
			Archive:    filename,
			Checksum:   checksum,
			Recipients: recipients,
		}); err != nil {
			logger.Warn("failed to record dispatch history", logging.Error(err))
		}
	}

	return Result{
		RunID:      runID,
		Archive:    filename,
		PublicPath: publicPath,
		Checksum:   checksum,
		Recipients: recipients,
	}, nil
}

// Cleanup prunes published archives past the retention window.
func (d *Dispatcher) Cleanup() archive.PruneResult {
	return archive.Prune(d.logger, d.cfg.Paths.PublicDir, d.cfg.Mail.RetentionDays)
}

// sanitizeGroup makes a group label safe for use in an archive filename.
func sanitizeGroup(group string) string {
	fields := strings.Fields(group)
	joined := strings.Join(fields, "_")
	return strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':':
			return '-'
		}
		return r
	}, joined)
}
