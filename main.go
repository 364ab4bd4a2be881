package main

import (
	"fmt"
	"os"

	"airbnb-classifier/config"
	"airbnb-classifier/ingest"
	"airbnb-classifier/ml"
	"airbnb-classifier/models"
	"airbnb-classifier/services"
	"airbnb-classifier/stats"
	"airbnb-classifier/storage"
	"airbnb-classifier/utils"
)

func main() {
	cfg := config.Load()
	cfg.ApplyArgs(os.Args[1:])
	logger := utils.NewLoggerAt(utils.ParseLevel(cfg.LogLevel))

	logger.Info("=== Airbnb Listings Classifier starting ===")
	logger.Info("Config — input: %s | output: %s | price policy: %s | concurrency: %d",
		cfg.InputCSVPath, cfg.OutputCSVPath, cfg.PricePolicy, cfg.MaxConcurrency)

	reader := ingest.NewReader(cfg, logger)
	dataset, err := reader.Read(cfg.InputCSVPath)
	if err != nil {
		logger.Error("Failed to read input CSV: %v", err)
		os.Exit(1)
	}
	if len(dataset.Records) == 0 {
		logger.Error("Input contains no data rows. Exiting.")
		os.Exit(1)
	}

	cleaner, err := services.NewCleaner(cfg, logger)
	if err != nil {
		logger.Error("Invalid cleaning configuration: %v", err)
		os.Exit(1)
	}

	cleaned, summary, err := cleaner.Clean(dataset.Records, dataset.HasNeighbourhood)
	if err != nil {
		logger.Error("Cleaning failed: %v", err)
		os.Exit(1)
	}
	if len(cleaned) == 0 {
		logger.Error("All listings were dropped during cleaning. Exiting.")
		os.Exit(1)
	}

	csvWriter, err := storage.NewCSVWriter(cfg.OutputCSVPath, dataset.HasNeighbourhood)
	if err != nil {
		logger.Error("Failed to create CSV writer: %v", err)
		os.Exit(1)
	}
	defer csvWriter.Close()

	if err := csvWriter.WriteCleaned(cleaned); err != nil {
		logger.Error("CSV write failed: %v", err)
	} else {
		logger.Info("Encoded listings saved to %s", cfg.OutputCSVPath)
	}

	stored := cleaned
	if cfg.PostgresEnabled {
		pgWriter, err := storage.NewPostgresWriter(cfg.DSN(), utils.NewRetryConfig(cfg.MaxRetries, logger))
		if err != nil {
			logger.Error("Failed to connect to PostgreSQL: %v", err)
			logger.Error("Check the POSTGRES_* settings or disable the sink with POSTGRES_ENABLED=false")
			os.Exit(1)
		}
		defer pgWriter.Close()

		runID, err := pgWriter.Write(cleaned)
		if err != nil {
			logger.Error("PostgreSQL write failed: %v", err)
		} else {
			logger.Info("Run %s stored in PostgreSQL (table: cleaned_listings)", runID)
			if fetched, err := pgWriter.FetchRun(runID); err != nil {
				logger.Error("Failed to fetch run %s for insights: %v", runID, err)
			} else {
				stored = fetched
			}
		}
	} else {
		logger.Debug("PostgreSQL sink disabled (POSTGRES_ENABLED=false)")
	}

	model := trainModel(cfg, logger, cleaned)

	insightSvc := services.NewInsightService(logger)
	report := insightSvc.Generate(stored, summary, model)
	insightSvc.Print(report)

	if cfg.PostgresEnabled {
		fmt.Printf("  Done. Encoded CSV → %s | PostgreSQL (cleaned_listings table)\n\n", cfg.OutputCSVPath)
	} else {
		fmt.Printf("  Done. Encoded CSV → %s\n\n", cfg.OutputCSVPath)
	}
}

// trainModel fits a decision tree on the cleaned listings and reports its
// accuracy. It returns nil when the dataset is too small to hold out a
// test set, so the pipeline still produces its CSV output.
func trainModel(cfg *config.Config, logger *utils.Logger, cleaned []*models.CleanedListing) *models.ModelReport {
	X, y := ml.Features(cleaned)
	if cfg.NormalizeFeatures {
		X = stats.Standardize(X)
		logger.Debug("Standardized %d feature columns", len(ml.FeatureNames()))
	}

	XTrain, XTest, yTrain, yTest, err := ml.TrainTestSplit(X, y, cfg.TestRatio, int64(cfg.RandomSeed))
	if err != nil {
		logger.Warn("Skipping model training: %v", err)
		return nil
	}
	if len(XTrain) == 0 || len(XTest) == 0 {
		logger.Warn("Skipping model training: %d listings are too few for a %.0f%% test split",
			len(cleaned), cfg.TestRatio*100)
		return nil
	}

	tree := ml.NewDecisionTree(
		ml.WithMaxDepth(cfg.TreeMaxDepth),
		ml.WithMinImpurityDecrease(cfg.TreeMinImpurityDecrease),
	)
	if err := tree.Fit(XTrain, yTrain); err != nil {
		logger.Warn("Skipping model training: %v", err)
		return nil
	}

	report := &models.ModelReport{
		TrainSize:     len(XTrain),
		TestSize:      len(XTest),
		TrainAccuracy: ml.Accuracy(yTrain, tree.Predict(XTrain)),
		TestAccuracy:  ml.Accuracy(yTest, tree.Predict(XTest)),
		Importances:   ml.RankedImportances(tree.FeatureImportance()),
	}
	logger.Info("Decision tree trained (depth %d) — train accuracy %.2f%%, test accuracy %.2f%%",
		tree.Depth(), report.TrainAccuracy*100, report.TestAccuracy*100)
	return report
}
