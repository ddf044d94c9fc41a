package server

import "time"

// Plugin describes an installable crop expertise pack.
type Plugin struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Version     string    `json:"version"`
	Description string    `json:"description"`
	CropTypes   []string  `json:"crop_types"`
	IsActive    bool      `json:"is_active"`
	Features    []string  `json:"features"`
	DownloadURL string    `json:"download_url,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// PluginsResponse is the GET /v1/plugins body.
type PluginsResponse struct {
	Plugins    []Plugin `json:"plugins"`
	TotalCount int      `json:"total_count"`
}

var pluginFeatures = []string{
	"Expert diagnosis rules",
	"Crop-specific treatments",
	"Regional recommendations",
}

// Plugins returns the seeded plugin catalog in listing order. IDs are fixed
// so lookups stay stable across restarts.
func Plugins() []Plugin {
	created := time.Date(2025, time.February, 18, 0, 0, 0, 0, time.UTC)
	updated := time.Date(2025, time.March, 10, 0, 0, 0, 0, time.UTC)
	return []Plugin{
		{
			ID:          "7b0c9c4e-30a1-4d38-9f0e-6a1df2f6b0aa",
			Name:        "Solanaceae Expert Pack",
			Version:     "1.2.0",
			Description: "Diagnosis rules and treatments for tomato, pepper, and eggplant.",
			CropTypes:   []string{"tomato", "pepper", "eggplant"},
			IsActive:    true,
			Features:    pluginFeatures,
			DownloadURL: "/v1/plugins/7b0c9c4e-30a1-4d38-9f0e-6a1df2f6b0aa/download",
			CreatedAt:   created,
			UpdatedAt:   updated,
		},
		{
			ID:          "3f6d2a91-85cb-4c57-b0d4-92c4a4f4d21b",
			Name:        "Leafy Greens Pack",
			Version:     "1.0.3",
			Description: "Diagnosis rules and treatments for lettuce, spinach, and kale.",
			CropTypes:   []string{"lettuce", "spinach", "kale"},
			IsActive:    true,
			Features:    pluginFeatures,
			DownloadURL: "/v1/plugins/3f6d2a91-85cb-4c57-b0d4-92c4a4f4d21b/download",
			CreatedAt:   created,
			UpdatedAt:   updated,
		},
	}
}
