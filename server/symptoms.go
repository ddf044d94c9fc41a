package server

import (
	"fmt"
	"sort"
	"strings"
)

// SymptomsRequest is the POST /v1/symptoms body: a crop name and the
// gardener's own description of what they see.
type SymptomsRequest struct {
	Crop           string   `json:"crop"`
	Symptoms       []string `json:"symptoms"`
	AdditionalInfo string   `json:"additional_info,omitempty"`
}

// SymptomsResponse lists the likely causes with prevention recommendations.
type SymptomsResponse struct {
	PossibleCauses  []PossibleCause  `json:"possible_causes"`
	Recommendations []Recommendation `json:"recommendations"`
	Confidence      float64          `json:"confidence"`
}

// PossibleCause is one rule-matched explanation for reported symptoms.
type PossibleCause struct {
	Name        string   `json:"name"`
	Confidence  float64  `json:"confidence"`
	Category    string   `json:"category"`
	Description string   `json:"description"`
	Symptoms    []string `json:"symptoms"`
}

const maxPossibleCauses = 5

// AnalyzeSymptoms matches reported symptoms against keyword rules. Causes
// are sorted by descending confidence, deduplicated by name keeping the
// strongest match, and truncated to the top five.
//
// Arguments:
//   - symptoms: free-text symptom descriptions, at least one.
//
// Returns:
//   - The matched causes, never empty for non-empty input: an unrecognized
//     symptom still yields a low-confidence general-stress cause.
func AnalyzeSymptoms(symptoms []string) []PossibleCause {
	causes := make([]PossibleCause, 0, len(symptoms))
	for _, symptom := range symptoms {
		causes = append(causes, causeFor(symptom, symptoms))
	}

	sort.SliceStable(causes, func(i, j int) bool {
		return causes[i].Confidence > causes[j].Confidence
	})

	seen := make(map[string]bool, len(causes))
	deduped := causes[:0]
	for _, cause := range causes {
		if seen[cause.Name] {
			continue
		}
		seen[cause.Name] = true
		deduped = append(deduped, cause)
	}

	if len(deduped) > maxPossibleCauses {
		deduped = deduped[:maxPossibleCauses]
	}
	return deduped
}

func causeFor(symptom string, all []string) PossibleCause {
	s := strings.ToLower(symptom)
	switch {
	case strings.Contains(s, "yellow") && strings.Contains(s, "leaf"):
		return PossibleCause{
			Name:        "Nitrogen Deficiency",
			Confidence:  0.8,
			Category:    "Deficiency",
			Description: "Yellowing leaves often indicate nitrogen deficiency",
			Symptoms:    []string{"Yellowing leaves", "Stunted growth"},
		}
	case strings.Contains(s, "brown") && strings.Contains(s, "spot"):
		return PossibleCause{
			Name:        "Bacterial Spot",
			Confidence:  0.9,
			Category:    "Disease",
			Description: "Brown spots on leaves are characteristic of bacterial spot",
			Symptoms:    []string{"Brown spots", "Leaf damage"},
		}
	case strings.Contains(s, "white") && strings.Contains(s, "powder"):
		return PossibleCause{
			Name:        "Powdery Mildew",
			Confidence:  0.95,
			Category:    "Disease",
			Description: "White powdery coating indicates powdery mildew infection",
			Symptoms:    []string{"White powdery coating", "Leaf distortion"},
		}
	case strings.Contains(s, "hole") && strings.Contains(s, "leaf"):
		return PossibleCause{
			Name:        "Insect Damage",
			Confidence:  0.7,
			Category:    "Pest",
			Description: "Holes in leaves are typically caused by chewing insects",
			Symptoms:    []string{"Holes in leaves", "Visible insects"},
		}
	case strings.Contains(s, "wilting") || strings.Contains(s, "drooping"):
		return PossibleCause{
			Name:        "Water Stress",
			Confidence:  0.6,
			Category:    "Environmental",
			Description: "Wilting can indicate overwatering or underwatering",
			Symptoms:    []string{"Wilting", "Drooping leaves"},
		}
	default:
		return PossibleCause{
			Name:        "General Plant Stress",
			Confidence:  0.4,
			Category:    "Environmental",
			Description: "Multiple factors may be affecting plant health",
			Symptoms:    all,
		}
	}
}

// RecommendForCauses derives prevention recommendations from matched causes.
// Unlike the post-diagnosis recommendations these lean preventive, since no
// image confirmed the finding yet. Sorted by priority, truncated to three.
func RecommendForCauses(causes []PossibleCause) []Recommendation {
	recs := make([]Recommendation, 0, len(causes))
	for _, cause := range causes {
		recs = append(recs, causeRecommendation(cause))
	}
	sort.SliceStable(recs, func(i, j int) bool {
		return recs[i].Priority > recs[j].Priority
	})
	if len(recs) > maxRecommendations {
		recs = recs[:maxRecommendations]
	}
	return recs
}

func causeRecommendation(cause PossibleCause) Recommendation {
	switch cause.Category {
	case "Disease":
		return Recommendation{
			Title:       fmt.Sprintf("Prevent %s", cause.Name),
			Description: fmt.Sprintf("Disease prevention for %s", cause.Name),
			Priority:    PriorityHigh,
			Steps: []string{
				"Improve air circulation",
				"Avoid overhead watering",
				"Remove infected plant material",
				"Apply preventive fungicide",
			},
			SafetyNotes: "Disinfect tools between plants",
			OrganicOptions: []string{
				"Copper fungicide",
				"Baking soda spray",
				"Milk spray",
			},
		}
	case "Pest":
		return Recommendation{
			Title:       fmt.Sprintf("Control %s", cause.Name),
			Description: fmt.Sprintf("Pest control for %s", cause.Name),
			Priority:    PriorityMedium,
			Steps: []string{
				"Inspect plants regularly",
				"Remove affected areas",
				"Apply appropriate treatment",
				"Encourage beneficial insects",
			},
			SafetyNotes: "Use integrated pest management",
			OrganicOptions: []string{
				"Neem oil",
				"Insecticidal soap",
				"Diatomaceous earth",
			},
		}
	case "Deficiency":
		return Recommendation{
			Title:       fmt.Sprintf("Correct %s", cause.Name),
			Description: fmt.Sprintf("Nutrient correction for %s", cause.Name),
			Priority:    PriorityMedium,
			Steps: []string{
				"Test soil composition",
				"Adjust pH if needed",
				"Apply appropriate fertilizer",
				"Monitor plant response",
			},
			SafetyNotes: "Follow fertilizer application rates",
			OrganicOptions: []string{
				"Compost",
				"Fish emulsion",
				"Seaweed extract",
			},
		}
	case "Environmental":
		return Recommendation{
			Title:       "Improve Growing Conditions",
			Description: "Optimize environmental factors",
			Priority:    PriorityLow,
			Steps: []string{
				"Check light levels",
				"Adjust watering schedule",
				"Improve drainage",
				"Monitor temperature",
			},
		}
	default:
		return Recommendation{
			Title:       "General Plant Care",
			Description: "Maintain healthy growing conditions",
			Priority:    PriorityLow,
			Steps: []string{
				"Regular monitoring",
				"Proper watering",
				"Adequate nutrition",
				"Good hygiene practices",
			},
		}
	}
}
