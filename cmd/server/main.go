// Command server runs the diagnosis HTTP backend.
package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/leaflens-ai/go-diagnose/assets"
	"github.com/leaflens-ai/go-diagnose/config"
	"github.com/leaflens-ai/go-diagnose/diagnosis"
	"github.com/leaflens-ai/go-diagnose/history"
	"github.com/leaflens-ai/go-diagnose/inference"
	"github.com/leaflens-ai/go-diagnose/models"
	"github.com/leaflens-ai/go-diagnose/server"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	log := cfg.Logger()

	if cfg.ClassifierPath == "" {
		log.Error("a classifier model is required: set LEAFLENS_CLASSIFIER_PATH")
		os.Exit(2)
	}

	registry, err := initRegistry(cfg, log)
	if err != nil {
		log.Error("loading models", "error", err)
		os.Exit(1)
	}
	defer registry.Dispose()

	opts := diagnosis.DefaultOptions()
	opts.ConfidenceThreshold = cfg.ConfidenceThreshold
	opts.MaxPredictions = cfg.MaxPredictions
	opts.InputSize = cfg.InputSize
	opts.ApplySigmoid = cfg.ApplySigmoid
	pipeline := diagnosis.NewPipeline(registry, opts, log)

	store, err := history.NewMemoryStore(cfg.HistorySize)
	if err != nil {
		log.Error("creating history store", "error", err)
		os.Exit(1)
	}

	srv := server.New(registry, pipeline, store, log)
	addr := fmt.Sprintf(":%d", cfg.Port)
	log.Info("listening", "addr", addr)
	if err := http.ListenAndServe(addr, srv.Handler()); err != nil {
		log.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func initRegistry(cfg *config.Config, log *slog.Logger) (*models.Registry, error) {
	labels, err := loadLabels(cfg.LabelsPath)
	if err != nil {
		return nil, err
	}

	size := int64(cfg.InputSize)
	init := models.InitConfig{
		Classifier: models.ONNXFileAsset("classifier", cfg.ClassifierPath, inference.SessionConfig{
			InputShape:  []int64{1, 3, size, size},
			OutputShape: []int64{1, int64(labels.Len())},
		}, cfg.InputSize, labels.Len()),
		Labels: labels,
	}
	if cfg.SegmentationPath != "" {
		seg := models.ONNXFileAsset("segmentation", cfg.SegmentationPath, inference.SessionConfig{
			InputShape:  []int64{1, 3, size, size},
			OutputShape: []int64{1, 1, size, size},
		}, cfg.InputSize, 0)
		init.Segmentation = &seg
	}

	registry := models.NewRegistry(log)
	if err := registry.Initialize(init); err != nil {
		return nil, err
	}
	return registry, nil
}

func loadLabels(path string) (*models.LabelTable, error) {
	if path == "" {
		return assets.DefaultLabels()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return models.ParseLabelTable(data)
}
