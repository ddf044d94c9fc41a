package diagnosis

import (
	"sort"

	"github.com/leaflens-ai/go-diagnose/models"
)

// Rank filters, orders, and truncates a raw score vector into findings.
// Scores at or below threshold are dropped; survivors are mapped through the
// label table, sorted by descending confidence with ties broken by ascending
// class index, and truncated to topK. Pure and deterministic; zero qualifying
// scores yields an empty result, never an error.
//
// Arguments:
//   - scores: The per-class confidence vector, len == table.Len().
//   - table: The validated index -> label/category table.
//   - threshold: The strict minimum confidence.
//   - topK: The maximum number of findings returned; <= 0 returns none.
//
// Returns:
//   - []Prediction: The ranked findings, possibly empty.
func Rank(scores []float32, table *models.LabelTable, threshold float32, topK int) []Prediction {
	if topK <= 0 {
		return []Prediction{}
	}

	preds := make([]Prediction, 0, topK)
	for i, confidence := range scores {
		if confidence <= threshold {
			continue
		}
		preds = append(preds, Prediction{
			Label:      table.Label(i),
			Confidence: confidence,
			Category:   table.Category(i),
			ClassIndex: i,
		})
	}

	// Candidates were appended in ascending class index order, so a stable
	// sort keeps that order among equal confidences.
	sort.SliceStable(preds, func(i, j int) bool {
		return preds[i].Confidence > preds[j].Confidence
	})

	if len(preds) > topK {
		preds = preds[:topK]
	}
	return preds
}
