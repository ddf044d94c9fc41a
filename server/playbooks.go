package server

import "time"

// Playbooks returns the seeded treatment playbooks keyed by code.
func Playbooks() map[string]Playbook {
	updated := time.Date(2025, time.March, 10, 0, 0, 0, 0, time.UTC)
	return map[string]Playbook{
		"bacterial_spot": {
			Code:        "bacterial_spot",
			Title:       "Bacterial Spot Treatment",
			Description: "Comprehensive treatment plan for bacterial spot disease in tomatoes and peppers.",
			Steps: []PlaybookStep{
				{
					StepNumber:  1,
					Title:       "Immediate Isolation",
					Description: "Remove and isolate affected plants immediately to prevent spread.",
					Duration:    "Immediate",
					Materials:   []string{"Gloves", "Trash bags"},
					Warnings:    []string{"Dispose of infected material away from garden"},
				},
				{
					StepNumber:  2,
					Title:       "Remove Infected Tissue",
					Description: "Carefully remove all infected leaves and stems using sterilized tools.",
					Duration:    "30 minutes",
					Materials:   []string{"Pruning shears", "Rubbing alcohol"},
					Warnings:    []string{"Sterilize tools between cuts"},
				},
				{
					StepNumber:  3,
					Title:       "Apply Copper Fungicide",
					Description: "Spray affected plants with copper-based fungicide according to label instructions.",
					Duration:    "1 hour",
					Materials:   []string{"Copper fungicide", "Sprayer", "Protective gear"},
					Warnings:    []string{"Wear protective clothing and mask"},
				},
				{
					StepNumber:  4,
					Title:       "Improve Air Circulation",
					Description: "Prune surrounding plants to improve air flow and reduce humidity.",
					Duration:    "45 minutes",
					Materials:   []string{"Pruning shears"},
				},
			},
			SafetyNotes: []string{
				"Always wear protective gear when handling chemicals",
				"Dispose of infected plant material properly",
				"Wash hands thoroughly after treatment",
			},
			OrganicAlternatives: []string{
				"Baking soda spray (1 tsp per quart of water)",
				"Milk spray (1 part milk to 9 parts water)",
				"Copper soap fungicide",
			},
			PreventionTips: []string{
				"Water at the base of plants, not overhead",
				"Space plants adequately for air circulation",
				"Avoid working with wet plants",
				"Rotate crops annually",
			},
			LastUpdated: updated,
		},
		"early_blight": {
			Code:        "early_blight",
			Title:       "Early Blight Treatment",
			Description: "Treatment protocol for early blight fungal disease.",
			Steps: []PlaybookStep{
				{
					StepNumber:  1,
					Title:       "Remove Infected Leaves",
					Description: "Remove all infected leaves and dispose of them properly.",
					Duration:    "20 minutes",
					Materials:   []string{"Pruning shears", "Trash bags"},
					Warnings:    []string{"Don't compost infected material"},
				},
				{
					StepNumber:  2,
					Title:       "Apply Fungicide",
					Description: "Apply chlorothalonil or mancozeb fungicide to affected plants.",
					Duration:    "45 minutes",
					Materials:   []string{"Fungicide", "Sprayer"},
					Warnings:    []string{"Follow label instructions carefully"},
				},
			},
			SafetyNotes: []string{
				"Read and follow all label instructions",
				"Apply during calm weather conditions",
			},
			OrganicAlternatives: []string{
				"Baking soda spray",
				"Neem oil",
				"Copper fungicide",
			},
			PreventionTips: []string{
				"Mulch around plants",
				"Water early in the day",
				"Remove lower leaves that touch soil",
			},
			LastUpdated: updated,
		},
		"aphid_control": {
			Code:        "aphid_control",
			Title:       "Aphid Control Treatment",
			Description: "Integrated pest management approach for aphid control.",
			Steps: []PlaybookStep{
				{
					StepNumber:  1,
					Title:       "Physical Removal",
					Description: "Spray plants with strong water stream to dislodge aphids.",
					Duration:    "15 minutes",
					Materials:   []string{"Hose with spray nozzle"},
					Warnings:    []string{"Avoid damaging tender plant parts"},
				},
				{
					StepNumber:  2,
					Title:       "Apply Insecticidal Soap",
					Description: "Spray affected areas with insecticidal soap solution.",
					Duration:    "30 minutes",
					Materials:   []string{"Insecticidal soap", "Sprayer"},
					Warnings:    []string{"Test on small area first"},
				},
				{
					StepNumber:  3,
					Title:       "Introduce Beneficial Insects",
					Description: "Release ladybugs or lacewings to control aphid population.",
					Duration:    "20 minutes",
					Materials:   []string{"Beneficial insects"},
					Warnings:    []string{"Release in evening for best results"},
				},
			},
			SafetyNotes: []string{
				"Avoid spraying during hot, sunny conditions",
				"Don't use harsh chemicals that harm beneficial insects",
			},
			OrganicAlternatives: []string{
				"Neem oil spray",
				"Diatomaceous earth",
				"Garlic spray",
			},
			PreventionTips: []string{
				"Encourage beneficial insects with flowering plants",
				"Avoid over-fertilizing with nitrogen",
				"Keep plants healthy and stress-free",
			},
			LastUpdated: updated,
		},
	}
}
