package usecase

import (
	"context"
	"fmt"
	"time"

	"notion-sync/internal/shared/logger"
	"notion-sync/internal/shared/utils"
	"notion-sync/internal/sync/config"
	"notion-sync/internal/sync/domain/model"
	"notion-sync/internal/sync/domain/repository"

	"github.com/google/uuid"
)

// ReconcilerUsecaseInterface defines the reconciliation operations
type ReconcilerUsecaseInterface interface {
	// Run executes one full reconciliation pass and returns its
	// report. The returned error is non-nil only for fatal failures
	// outside the per-item loops; per-item failures are counted in
	// the report instead.
	Run(ctx context.Context) (*model.RunReport, error)
}

// ReconcilerUsecase drives the one-way reconciliation of the source
// notes collection into the target database: fetch, upsert each note,
// scan the target, archive stale rows.
type ReconcilerUsecase struct {
	notes  repository.NoteRepository
	pages  repository.PageRepository
	config *config.Config
	logger logger.Logger
}

// NewReconcilerUsecase creates a new reconciler usecase instance
func NewReconcilerUsecase(
	notes repository.NoteRepository,
	pages repository.PageRepository,
	cfg *config.Config,
	log logger.Logger,
) *ReconcilerUsecase {
	return &ReconcilerUsecase{
		notes:  notes,
		pages:  pages,
		config: cfg,
		logger: log.WithComponent("reconciler"),
	}
}

// Run walks the state machine INIT → FETCH_SOURCE → UPSERT_LOOP →
// SCAN_TARGET → ARCHIVE_LOOP → DONE. Any fatal failure moves the run
// to FAILED and returns the partial report.
func (uc *ReconcilerUsecase) Run(ctx context.Context) (*model.RunReport, error) {
	report := &model.RunReport{
		RunID:     uuid.NewString(),
		State:     model.RunStateInit,
		StartedAt: time.Now().UTC(),
	}

	ctx = utils.WithRunID(ctx, report.RunID)
	log := uc.logger.WithFields(map[string]interface{}{"run_id": report.RunID})
	log.Info("Starting reconciliation run")

	report.State = model.RunStateFetchSource
	notes, err := uc.notes.ListNotes(ctx, uc.config.OwnerUID)
	if err != nil {
		return uc.fail(report, log, fmt.Errorf("failed to fetch source notes: %w", err))
	}
	log.WithFields(map[string]interface{}{"count": len(notes)}).Info("Fetched source snapshot")

	// Snapshot of source identifiers; drives the archival sweep.
	sourceIDs := make(map[string]struct{}, len(notes))
	for _, note := range notes {
		sourceIDs[note.ID] = struct{}{}
	}

	report.State = model.RunStateUpsertLoop
	for _, note := range notes {
		outcome, err := uc.Upsert(ctx, note)
		if err != nil {
			report.Failed++
			log.WithFields(map[string]interface{}{
				"firebase_id": note.ID,
				"error":       err.Error(),
			}).Error("Upsert failed")
		} else {
			switch outcome {
			case model.OutcomeCreated:
				report.Created++
			case model.OutcomeUpdated:
				report.Updated++
			}
			log.WithFields(map[string]interface{}{
				"firebase_id": note.ID,
				"outcome":     string(outcome),
			}).Info("Upserted note")
		}

		if err := utils.Pace(ctx, uc.config.RequestDelay); err != nil {
			return uc.fail(report, log, fmt.Errorf("run cancelled during upsert loop: %w", err))
		}
	}

	report.State = model.RunStateScanTarget
	pages, err := uc.pages.ListAllPages(ctx)
	if err != nil {
		return uc.fail(report, log, fmt.Errorf("failed to scan target database: %w", err))
	}
	log.WithFields(map[string]interface{}{"count": len(pages)}).Info("Scanned target database")

	report.State = model.RunStateArchiveLoop
	for _, page := range pages {
		// Rows without a firebase_id are not managed by this process.
		if page.FirebaseID == "" {
			report.Skipped++
			continue
		}
		if _, live := sourceIDs[page.FirebaseID]; live {
			continue
		}
		if page.Archived {
			continue
		}

		if err := uc.pages.ArchivePage(ctx, page.ID); err != nil {
			report.Failed++
			log.WithFields(map[string]interface{}{
				"page_id":     page.ID,
				"firebase_id": page.FirebaseID,
				"error":       err.Error(),
			}).Error("Archive failed")
		} else {
			report.Archived++
			log.WithFields(map[string]interface{}{
				"page_id":     page.ID,
				"firebase_id": page.FirebaseID,
			}).Info("Archived stale page")
		}

		if err := utils.Pace(ctx, uc.config.RequestDelay); err != nil {
			return uc.fail(report, log, fmt.Errorf("run cancelled during archive loop: %w", err))
		}
	}

	report.State = model.RunStateDone
	report.FinishedAt = time.Now().UTC()
	log.WithFields(map[string]interface{}{
		"created":  report.Created,
		"updated":  report.Updated,
		"archived": report.Archived,
		"skipped":  report.Skipped,
		"failed":   report.Failed,
		"duration": report.FinishedAt.Sub(report.StartedAt).String(),
	}).Info("Reconciliation run complete")

	return report, nil
}

// Upsert maps one note and creates or updates its target row, keyed by
// the firebase_id property. Updating always clears the archived flag,
// so a row whose identifier reappears in the source is restored.
//
// The lookup-then-write sequence is not atomic: overlapping runs can
// create duplicate rows for the same identifier. The run lock closes
// that gap where configured.
func (uc *ReconcilerUsecase) Upsert(ctx context.Context, note model.Note) (model.UpsertOutcome, error) {
	props := MapNote(note)

	existing, err := uc.pages.FindByFirebaseID(ctx, note.ID)
	if err != nil {
		return "", fmt.Errorf("lookup failed for %q: %w", note.ID, err)
	}

	if existing != nil {
		if err := uc.pages.UpdatePage(ctx, existing.ID, props, false); err != nil {
			return "", fmt.Errorf("update failed for %q: %w", note.ID, err)
		}
		return model.OutcomeUpdated, nil
	}

	if _, err := uc.pages.CreatePage(ctx, props); err != nil {
		return "", fmt.Errorf("create failed for %q: %w", note.ID, err)
	}
	return model.OutcomeCreated, nil
}

// fail marks the report terminal-failed and returns it with the error.
func (uc *ReconcilerUsecase) fail(report *model.RunReport, log logger.Logger, err error) (*model.RunReport, error) {
	report.State = model.RunStateFailed
	report.FinishedAt = time.Now().UTC()
	log.WithFields(map[string]interface{}{"error": err.Error()}).Error("Reconciliation run failed")
	return report, err
}
