// Package assets - embedded default configuration shipped with the module.
package assets

import (
	_ "embed"

	"github.com/leaflens-ai/go-diagnose/models"
)

// DefaultLabelsJSON is the 45-class label table the published classifier was
// trained against. Deployments with a retrained model override it with an
// external labels file.
//
//go:embed labels.json
var DefaultLabelsJSON []byte

// DefaultLabels parses the embedded label table.
func DefaultLabels() (*models.LabelTable, error) {
	return models.ParseLabelTable(DefaultLabelsJSON)
}
