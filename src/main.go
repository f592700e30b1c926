package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/robfig/cron"

	"melodymetrics/src/config"
	"melodymetrics/src/dataset"
	"melodymetrics/src/datasource/file"
	"melodymetrics/src/processor"
	"melodymetrics/src/storage"
)

func main() {
	jsonFolder := "./config"
	jsonFile := "config.json"
	datasetJSONFile := "datasetconfig.json"
	cfg, dcfg, err := config.LoadConfig(jsonFolder, jsonFile, datasetJSONFile)
	if err != nil {
		log.Fatal("Failed to load configuration:", err)
	}

	logger, err := storage.NewLogger(cfg.LogName)
	if err != nil {
		log.Fatal("Failed to initialize logger:", err)
	}
	defer logger.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	file.SetupSignalHandler(cancel)

	store := dataset.NewStore()

	reload := func(path string) {
		loadCtx, done := context.WithTimeout(ctx, 30*time.Second)
		defer done()

		if _, err := store.Load(loadCtx, path); err != nil {
			logger.Error(fmt.Sprintf("Dataset load failed: %v", err))
			return
		}
		logger.Info("Loaded dataset from " + path)
		runAnalysis(store, cfg, dcfg, logger)
	}

	rescan := func() {
		path, err := dataset.Locate(cfg.DataDir, cfg.DatasetKeyword)
		if err != nil {
			logger.Warning(fmt.Sprintf("No dataset available yet: %v", err))
			return
		}
		if store.Loaded() && store.Path() == path {
			return
		}
		reload(path)
	}

	rescan()

	monitor, err := file.NewMonitor(cfg.DataDir, cfg.DatasetKeyword)
	if err != nil {
		logger.Error(fmt.Sprintf("Failed to watch dataset directory: %v", err))
	} else {
		defer monitor.Close()
		go func() {
			if err := monitor.Watch(ctx, reload); err != nil {
				logger.Error(fmt.Sprintf("Dataset directory watch stopped: %v", err))
			}
		}()
	}

	c := cron.New()
	interval := time.Duration(cfg.CheckInterval)
	cronSpec := fmt.Sprintf("@every %s", interval)
	err = c.AddFunc(cronSpec, func() {
		logger.CheckRotate(cfg.LogMaxSize)
		rescan()
	})
	if err != nil {
		logger.Error("Failed to schedule dataset rescan: " + err.Error())
		return
	}
	c.Start()
	defer c.Stop()

	logger.Info(fmt.Sprintf("Dataset watch started (rescan interval: %v), press Ctrl+C to exit", interval))
	<-ctx.Done()
}

// runAnalysis executes the standard cleaning and aggregation sequence on
// the stored dataset and logs a textual report. It stands in for the
// graphical presentation layer.
func runAnalysis(store *dataset.Store, cfg *config.Config, dcfg *config.DatasetConfig, logger *storage.Logger) {
	df, err := store.Get()
	if err != nil {
		logger.Error(err.Error())
		return
	}

	shape := processor.ShapeInfo(df)
	logger.Info(fmt.Sprintf("Dataset shape: %d rows x %d columns", shape.Rows, shape.Cols))

	if processor.HasAnyNulls(df) {
		for name, n := range processor.CountNullsPerColumn(df) {
			if n > 0 {
				logger.Warning(fmt.Sprintf("Column %q has %d missing values", name, n))
			}
		}
	}

	cleaned, report := processor.CleanOutliersAndDuplicates(df, dcfg.OutlierColumns, dcfg.Fence())
	if report.OutlierRows > 0 || report.DuplicateRows > 0 {
		logger.Info(fmt.Sprintf("Removed %d outlier rows and %d duplicate rows",
			report.OutlierRows, report.DuplicateRows))
	}

	cleaned, err = processor.SplitGenreColumn(cleaned, dcfg.GenreColumn, dcfg.GenreDelimiter)
	if err != nil {
		logger.Warning(fmt.Sprintf("Genre split skipped: %v", err))
	}
	cleaned, err = processor.AddYearsSinceColumn(cleaned, dcfg.TimeColumn, processor.YearsAgoColumn)
	if err != nil {
		logger.Warning(fmt.Sprintf("Years-ago column skipped: %v", err))
	}
	if converted, err := processor.ConvertDurationToMinutes(cleaned); err == nil {
		cleaned = converted
	}

	if err := store.Set(cleaned); err != nil {
		logger.Error(fmt.Sprintf("Failed to install cleaned dataset: %v", err))
		return
	}

	if span, err := processor.DatasetDuration(cleaned, dcfg.TimeColumn); err == nil && span.Latest > 0 {
		logger.Info(fmt.Sprintf("Dataset covers %d-%d (%d years)", span.Earliest, span.Latest, span.Span))
	}

	if buckets, err := processor.TopCategoriesOverTime(cleaned, processor.PrimaryGenreColumn, dcfg.TimeColumn, 3); err == nil && len(buckets) > 0 {
		last := buckets[len(buckets)-1]
		logger.Info(fmt.Sprintf("Top genres in %d: %v", last.Year, last.Top))
	}

	if shares, err := processor.ExplicitContentEvolution(cleaned, dcfg.ExplicitColumn, dcfg.TimeColumn); err == nil && len(shares) > 0 {
		last := shares[len(shares)-1]
		logger.Info(fmt.Sprintf("Explicit share in %d: %.1f%%", last.Year, last.Fraction*100))
	}

	if cfg.ExportDir != "" {
		if err := os.MkdirAll(cfg.ExportDir, 0755); err != nil {
			logger.Error(fmt.Sprintf("Failed to create export directory: %v", err))
			return
		}
		out := filepath.Join(cfg.ExportDir, "cleaned_dataset.xlsx")
		if err := file.ExportXLSX(cleaned, out); err != nil {
			logger.Error(fmt.Sprintf("Export failed: %v", err))
			return
		}
		logger.Info("Exported cleaned dataset to " + out)
	}
}
