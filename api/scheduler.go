/*
scheduler.go - Automated backup scheduler

PURPOSE:
  Periodically writes the exported state document into a blob store under
  a dated key, so an operator who forgot to download a backup can still
  recover yesterday's data.

DESIGN:
  - Runs a background goroutine with configurable interval
  - One backup per calendar day: the key is the backup filename
    (backups/btels_backup_YYYY-MM-DD.json); a later run on the same day
    overwrites it
  - Failures are logged and retried on the next tick

CONFIGURATION:
  - Interval: How often to back up (default: 24 hours)
  - Enabled: Whether scheduler is active (default: true)

USAGE:
  scheduler := NewBackupScheduler(engine, kv, logger)
  scheduler.Start()
  // ... later
  scheduler.Stop()

SEE ALSO:
  - handlers.go: ExportState endpoint (manual backup)
  - report/csv.go: BackupFilename
*/
package api

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/btels/scheme-ledger/ledger"
	"github.com/btels/scheme-ledger/report"
)

// BackupKeyPrefix namespaces backup documents in the blob store.
const BackupKeyPrefix = "backups/"

// BackupStore is where scheduled backups are written.
type BackupStore interface {
	ledger.BlobStore
	Keys(ctx context.Context) ([]string, error)
}

// BackupScheduler handles automated state backups.
type BackupScheduler struct {
	Engine   *ledger.Engine
	Store    BackupStore
	Logger   logrus.FieldLogger
	Interval time.Duration
	Enabled  bool

	now    func() time.Time
	ticker *time.Ticker
	stop   chan struct{}
	wg     sync.WaitGroup
	mu     sync.Mutex
	last   time.Time
}

// NewBackupScheduler creates a new scheduler.
func NewBackupScheduler(eng *ledger.Engine, store BackupStore, logger logrus.FieldLogger) *BackupScheduler {
	return &BackupScheduler{
		Engine:   eng,
		Store:    store,
		Logger:   logger,
		Interval: 24 * time.Hour,
		Enabled:  true,
		now:      time.Now,
	}
}

// Start begins the scheduler.
func (bs *BackupScheduler) Start() {
	bs.mu.Lock()
	defer bs.mu.Unlock()

	if !bs.Enabled || bs.Interval <= 0 {
		bs.Logger.Info("backup scheduler disabled")
		return
	}
	if bs.ticker != nil {
		return
	}

	bs.ticker = time.NewTicker(bs.Interval)
	bs.stop = make(chan struct{})
	bs.wg.Add(1)

	go bs.run()

	bs.Logger.WithField("interval", bs.Interval.String()).Info("backup scheduler started")
}

// Stop stops the scheduler and waits for an in-flight backup.
func (bs *BackupScheduler) Stop() {
	bs.mu.Lock()
	if bs.ticker == nil {
		bs.mu.Unlock()
		return
	}
	bs.ticker.Stop()
	close(bs.stop)
	bs.ticker = nil
	bs.mu.Unlock()

	bs.wg.Wait()
	bs.Logger.Info("backup scheduler stopped")
}

func (bs *BackupScheduler) run() {
	defer bs.wg.Done()

	// Run immediately on start
	bs.backupAndLog()

	for {
		select {
		case <-bs.tickerC():
			bs.backupAndLog()
		case <-bs.stop:
			return
		}
	}
}

func (bs *BackupScheduler) tickerC() <-chan time.Time {
	bs.mu.Lock()
	defer bs.mu.Unlock()
	if bs.ticker == nil {
		return nil
	}
	return bs.ticker.C
}

func (bs *BackupScheduler) backupAndLog() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	key, err := bs.RunNow(ctx)
	if err != nil {
		bs.Logger.WithError(err).Error("scheduled backup failed")
		return
	}
	bs.Logger.WithField("key", key).Info("scheduled backup written")
}

// RunNow writes a backup immediately and returns its key.
func (bs *BackupScheduler) RunNow(ctx context.Context) (string, error) {
	data, err := ledger.EncodeState(bs.Engine.Snapshot())
	if err != nil {
		return "", fmt.Errorf("failed to encode backup: %w", err)
	}
	now := bs.now()
	key := BackupKeyPrefix + report.BackupFilename(now)
	if err := bs.Store.Put(ctx, key, data); err != nil {
		return "", err
	}

	bs.mu.Lock()
	bs.last = now
	bs.mu.Unlock()
	return key, nil
}

// LastRun returns when the last successful backup was written.
func (bs *BackupScheduler) LastRun() (time.Time, bool) {
	bs.mu.Lock()
	defer bs.mu.Unlock()
	return bs.last, !bs.last.IsZero()
}

// ListBackups returns the keys of stored backups, oldest first.
func ListBackups(ctx context.Context, store BackupStore) ([]string, error) {
	keys, err := store.Keys(ctx)
	if err != nil {
		return nil, err
	}
	out := []string{}
	for _, k := range keys {
		if strings.HasPrefix(k, BackupKeyPrefix) {
			out = append(out, k)
		}
	}
	return out, nil
}
