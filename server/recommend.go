package server

import (
	"fmt"
	"sort"

	"github.com/leaflens-ai/go-diagnose/diagnosis"
	"github.com/leaflens-ai/go-diagnose/models"
)

const maxRecommendations = 3

// Recommend derives care recommendations from ranked predictions. One
// recommendation per prediction keyed by category, sorted by priority
// descending and truncated to the top three.
//
// Arguments:
//   - predictions: ranked pipeline output, any length.
//
// Returns:
//   - The recommendation list, never nil.
func Recommend(predictions []diagnosis.Prediction) []Recommendation {
	recs := make([]Recommendation, 0, len(predictions))
	for _, p := range predictions {
		recs = append(recs, recommendationFor(p))
	}
	sort.SliceStable(recs, func(i, j int) bool {
		return recs[i].Priority > recs[j].Priority
	})
	if len(recs) > maxRecommendations {
		recs = recs[:maxRecommendations]
	}
	return recs
}

func recommendationFor(p diagnosis.Prediction) Recommendation {
	switch p.Category {
	case models.CategoryDisease:
		return Recommendation{
			Title:       fmt.Sprintf("Treat %s", p.Label),
			Description: fmt.Sprintf("Immediate treatment required for %s", p.Label),
			Priority:    PriorityHigh,
			Steps: []string{
				"Isolate affected plants",
				"Remove infected leaves",
				"Apply appropriate fungicide",
				"Improve air circulation",
			},
			SafetyNotes: "Wear protective gear when applying treatments",
			OrganicOptions: []string{
				"Neem oil spray",
				"Copper fungicide",
				"Baking soda solution",
			},
		}
	case models.CategoryPest:
		return Recommendation{
			Title:       fmt.Sprintf("Control %s", p.Label),
			Description: fmt.Sprintf("Pest management for %s", p.Label),
			Priority:    PriorityMedium,
			Steps: []string{
				"Identify pest damage",
				"Remove heavily infested areas",
				"Apply appropriate pesticide",
				"Monitor for reinfestation",
			},
			SafetyNotes: "Follow pesticide label instructions carefully",
			OrganicOptions: []string{
				"Insecticidal soap",
				"Diatomaceous earth",
				"Beneficial insects",
			},
		}
	case models.CategoryDeficiency:
		return Recommendation{
			Title:       fmt.Sprintf("Address %s", p.Label),
			Description: fmt.Sprintf("Nutrient deficiency correction for %s", p.Label),
			Priority:    PriorityMedium,
			Steps: []string{
				"Test soil pH",
				"Apply appropriate fertilizer",
				"Adjust watering schedule",
				"Monitor plant response",
			},
			SafetyNotes: "Avoid over-fertilization",
			OrganicOptions: []string{
				"Compost tea",
				"Fish emulsion",
				"Bone meal",
			},
		}
	default:
		return Recommendation{
			Title:       "General Plant Care",
			Description: "Maintain optimal growing conditions",
			Priority:    PriorityLow,
			Steps: []string{
				"Ensure proper watering",
				"Provide adequate sunlight",
				"Maintain good soil health",
				"Regular monitoring",
			},
		}
	}
}
