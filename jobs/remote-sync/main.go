package main

import (
	"context"
	"log/slog"
	"time"

	"github.com/censo-resguardo/censo-backend/pkg/catalog"
	"github.com/censo-resguardo/censo-backend/pkg/geolocation"
	"github.com/censo-resguardo/censo-backend/pkg/records"
	"github.com/censo-resguardo/censo-backend/pkg/survey/types"
	syncpkg "github.com/censo-resguardo/censo-backend/pkg/sync"
)

func main() {
	slog.Info("Starting remote sync job")
	start := time.Now()
	defer localStore.Close()

	totalQuestions := loadCatalogSize()
	recordManager := records.NewManager(localStore, totalQuestions)

	if remoteDBService == nil {
		slog.Info("No remote connection, nothing to sync this cycle")
		return
	}

	reconciler := syncpkg.NewReconciler(remoteDBService, recordManager)
	ctx := context.Background()

	surveyor := resolveSurveyor(ctx, reconciler)
	if surveyor.IsOffline() {
		slog.Warn("Surveyor identity is offline-only, skipping push", slog.String("surveyorId", surveyor.ID))
		return
	}

	backfillLocations(ctx, recordManager)

	collection, err := recordManager.All()
	if err != nil {
		slog.Error("Failed to load local survey collection", slog.String("error", err.Error()))
		return
	}

	pushed := reconciler.PushCompleted(ctx, collection, surveyor.ID)
	slog.Info("Pushed local records", slog.Int("count", pushed), slog.Int("local", len(collection)))

	stats, err := reconciler.Stats(ctx)
	if err != nil {
		slog.Warn("Could not fetch remote stats", slog.String("error", err.Error()))
	} else {
		slog.Info("Remote survey stats",
			slog.Int64("total", stats.Total),
			slog.Int64("completed", stats.Completed),
			slog.Int64("draft", stats.Draft),
			slog.Int64("submitted", stats.Submitted),
		)
	}

	slog.Info("Remote sync job completed", slog.String("duration", time.Since(start).String()))
}

// resolveSurveyor reconciles the locally stored identity, or the
// configured surveyor name on a fresh device, and persists the result.
func resolveSurveyor(ctx context.Context, reconciler *syncpkg.Reconciler) types.Surveyor {
	name := conf.SurveyorName
	stored, found, err := localStore.LoadSurveyor()
	if err != nil {
		slog.Error("Failed to read stored surveyor identity", slog.String("error", err.Error()))
	}
	if found && stored.Name != "" {
		name = stored.Name
	}

	surveyor := reconciler.ReconcileSurveyor(ctx, name)
	if surveyor.IsOffline() && found && !stored.IsOffline() && stored.ID != "" {
		// keep the remote-assigned identity over a fresh offline placeholder
		return stored
	}
	if err := localStore.SaveSurveyor(surveyor); err != nil {
		slog.Error("Failed to persist surveyor identity", slog.String("error", err.Error()))
	}
	return surveyor
}

// backfillLocations stamps finished records that miss a location with the
// device's current fix, when a geolocation bridge is configured. Records
// already pushed are left alone.
func backfillLocations(ctx context.Context, recordManager *records.Manager) {
	if conf.Geolocation.RootURL == "" {
		return
	}

	collection, err := recordManager.All()
	if err != nil {
		slog.Error("Failed to load local survey collection", slog.String("error", err.Error()))
		return
	}
	missing := 0
	for _, record := range collection {
		if record.Status == types.SURVEY_STATUS_COMPLETED && !record.Synced && record.Location == nil {
			missing++
		}
	}
	if missing == 0 {
		return
	}

	provider := geolocation.NewBridgeClient(geolocation.ClientConfigFromYamlObj(conf.Geolocation))
	coords, err := provider.Current(ctx)
	if err != nil {
		slog.Warn("Could not acquire location fix, records stay unlocated", slog.String("error", err.Error()))
		return
	}

	for _, record := range collection {
		if record.Status != types.SURVEY_STATUS_COMPLETED || record.Synced || record.Location != nil {
			continue
		}
		record.Location = &coords
		if err := recordManager.Upsert(record); err != nil {
			slog.Error("Failed to backfill record location", slog.String("surveyId", record.ID), slog.String("error", err.Error()))
		}
	}
	slog.Info("Backfilled record locations", slog.Int("count", missing))
}

// loadCatalogSize reads the questionnaire to know the total question count
// for progress figures. The sync cycle works without it.
func loadCatalogSize() int {
	if conf.CatalogPath == "" {
		return 0
	}
	loader := catalog.NewLoader(catalog.FileSource{Path: conf.CatalogPath})
	questions, err := loader.Load()
	if err != nil {
		slog.Warn("Catalog unavailable, progress totals disabled", slog.String("error", err.Error()))
		return 0
	}
	return len(questions)
}
