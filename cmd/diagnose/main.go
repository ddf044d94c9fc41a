// Command diagnose runs the plant-health pipeline against local image files
// and prints JSON results.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/leaflens-ai/go-diagnose/assets"
	"github.com/leaflens-ai/go-diagnose/config"
	"github.com/leaflens-ai/go-diagnose/diagnosis"
	"github.com/leaflens-ai/go-diagnose/inference"
	"github.com/leaflens-ai/go-diagnose/models"
	"github.com/leaflens-ai/go-diagnose/util"
)

func main() {
	var (
		inputPath  = flag.String("input", "", "image file or directory of images to diagnose")
		classifier = flag.String("classifier", "", "classifier model path (overrides LEAFLENS_CLASSIFIER_PATH)")
		segmenter  = flag.String("segmentation", "", "segmentation model path (overrides LEAFLENS_SEGMENTATION_PATH)")
		labelsPath = flag.String("labels", "", "labels JSON path (overrides LEAFLENS_LABELS_PATH)")
		crop       = flag.String("crop", "", "optional crop hint recorded on the result")
	)
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if *classifier != "" {
		cfg.ClassifierPath = *classifier
	}
	if *segmenter != "" {
		cfg.SegmentationPath = *segmenter
	}
	if *labelsPath != "" {
		cfg.LabelsPath = *labelsPath
	}
	log := cfg.Logger()

	if *inputPath == "" {
		fmt.Fprintln(os.Stderr, "usage: diagnose -input <image-or-directory>")
		os.Exit(2)
	}
	if cfg.ClassifierPath == "" {
		fmt.Fprintln(os.Stderr, "a classifier model is required: set -classifier or LEAFLENS_CLASSIFIER_PATH")
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

	inputs, err := util.LoadImageInputs(*inputPath)
	if err != nil {
		log.Error("reading input", "error", err)
		os.Exit(1)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	exitCode := 0
	for _, input := range inputs {
		result, err := pipeline.Diagnose(context.Background(), diagnosis.DiagnoseRequest{
			ImageBytes: input.Data,
			CropHint:   *crop,
		})
		if err != nil {
			log.Error("diagnosis failed", "path", input.Path, "error", err)
			exitCode = 1
			continue
		}
		if err := enc.Encode(struct {
			Path string `json:"path"`
			*diagnosis.Result
		}{Path: input.Path, Result: result}); err != nil {
			log.Error("encoding result", "path", input.Path, "error", err)
			exitCode = 1
		}
	}
	os.Exit(exitCode)
}

// initRegistry loads the label table and model assets described by cfg and
// initializes a registry with them.
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

// loadLabels reads the label table from path, falling back to the embedded
// default table.
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
