package hardware

import (
	"context"
	"fmt"
	"sync"
	"time"

	"hwcatalog/internal/core/apperror"
	"hwcatalog/internal/core/tx"
	"hwcatalog/pkg/logger"
)

// DefaultNotifyTimeout bounds a single notification attempt.
const DefaultNotifyTimeout = 10 * time.Second

// WriteServiceConfig configures the write service.
type WriteServiceConfig struct {
	Repo      Repository
	TxManager tx.Manager
	Reader    *ReadService
	Notifier  Notifier // Optional
	Logger    *logger.Logger

	// NotifyTimeout defaults to DefaultNotifyTimeout
	NotifyTimeout time.Duration
}

// WriteService is the only mutation path for records.
// It owns name uniqueness, optimistic locking and the cascading delete.
type WriteService struct {
	repo          Repository
	txManager     tx.Manager
	reader        *ReadService
	notifier      Notifier
	notifyTimeout time.Duration
	log           *logger.Logger

	inflight sync.WaitGroup
}

// NewWriteService creates a new write service.
func NewWriteService(cfg WriteServiceConfig) *WriteService {
	timeout := cfg.NotifyTimeout
	if timeout <= 0 {
		timeout = DefaultNotifyTimeout
	}
	return &WriteService{
		repo:          cfg.Repo,
		txManager:     cfg.TxManager,
		reader:        cfg.Reader,
		notifier:      cfg.Notifier,
		notifyTimeout: timeout,
		log:           cfg.Logger.WithComponent("hardware.write"),
	}
}

// Create stores rec together with its images and returns the new identity.
func (s *WriteService) Create(ctx context.Context, rec *Record) (int64, error) {
	log := s.log.WithContext(ctx)
	log.Debugw("create", "name", rec.Name, "images", len(rec.Images))

	exists, err := s.repo.ExistsByName(ctx, rec.Name)
	if err != nil {
		return 0, fmt.Errorf("check name: %w", err)
	}
	if exists {
		log.Debugw("create: name exists", "name", rec.Name)
		return 0, apperror.NewNameExists(rec.Name)
	}

	err = s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := s.repo.Insert(ctx, rec); err != nil {
			return err
		}
		for i := range rec.Images {
			if err := s.repo.InsertImage(ctx, rec.ID, &rec.Images[i]); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		if apperror.IsAppError(err) {
			return 0, err
		}
		return 0, fmt.Errorf("create %s: %w", entityName, err)
	}

	log.WithHardware(rec.ID).Infow("created", "name", rec.Name)
	s.dispatch(ctx, Notification{
		Subject: fmt.Sprintf("new record %d", rec.ID),
		Body:    fmt.Sprintf("%s has been created", rec.Name),
	})

	return rec.ID, nil
}

// Update merges the mutable fields of rec onto the stored record and returns
// the new version. token is the wire version, e.g. `"2"`.
func (s *WriteService) Update(ctx context.Context, id int64, rec *Record, token string) (int, error) {
	log := s.log.WithContext(ctx).WithHardware(id)
	log.Debugw("update", "version", token)

	vt, err := ParseVersionToken(token)
	if err != nil {
		log.Debugw("update: invalid version", "version", token)
		return 0, err
	}

	current, err := s.reader.FindByID(ctx, id, false)
	if err != nil {
		return 0, err
	}

	// A token equal to the stored version is accepted.
	if vt.Version() < current.Version {
		log.Debugw("update: outdated version", "version", vt.Version(), "stored", current.Version)
		return 0, apperror.NewVersionOutdated(vt.Version())
	}

	current.merge(rec)

	version, err := s.repo.Update(ctx, current)
	if err != nil {
		if apperror.IsAppError(err) {
			return 0, err
		}
		return 0, fmt.Errorf("update %s %d: %w", entityName, id, err)
	}

	log.Debugw("updated", "version", version)
	return version, nil
}

// Delete removes the record and all of its images in one transaction.
// It reports whether the record row was removed; deleting an unknown
// identity is not an error.
func (s *WriteService) Delete(ctx context.Context, id int64) (bool, error) {
	log := s.log.WithContext(ctx).WithHardware(id)
	log.Debugw("delete")

	var removed bool
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		var images []Image
		rec, err := s.reader.FindByID(ctx, id, true)
		switch {
		case err == nil:
			images = rec.Images
		case apperror.IsNotFound(err):
		default:
			return err
		}

		for _, img := range images {
			if err := s.repo.DeleteImage(ctx, img.ID); err != nil {
				return err
			}
		}

		removed, err = s.repo.Delete(ctx, id)
		return err
	})
	if err != nil {
		return false, fmt.Errorf("delete %s %d: %w", entityName, id, err)
	}

	log.Debugw("delete: done", "removed", removed)
	return removed, nil
}

// Wait blocks until all dispatched notifications have finished.
func (s *WriteService) Wait() {
	s.inflight.Wait()
}

// dispatch sends n in the background. The outcome is only logged.
func (s *WriteService) dispatch(ctx context.Context, n Notification) {
	if s.notifier == nil {
		return
	}

	ctx = context.WithoutCancel(ctx)
	s.inflight.Add(1)
	go func() {
		defer s.inflight.Done()
		defer func() {
			if r := recover(); r != nil {
				s.log.WithContext(ctx).Errorw("notification panicked", "subject", n.Subject, "panic", r)
			}
		}()

		ctx, cancel := context.WithTimeout(ctx, s.notifyTimeout)
		defer cancel()

		if err := s.notifier.Notify(ctx, n); err != nil {
			s.log.WithContext(ctx).Warnw("notification failed", "subject", n.Subject, "error", err)
		}
	}()
}
