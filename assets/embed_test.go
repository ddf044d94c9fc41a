package assets

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leaflens-ai/go-diagnose/models"
)

func TestDefaultLabelsParse(t *testing.T) {
	table, err := DefaultLabels()
	require.NoError(t, err)
	assert.Equal(t, 45, table.Len())
}

func TestDefaultLabelsCategoryBands(t *testing.T) {
	table, err := DefaultLabels()
	require.NoError(t, err)

	assert.Equal(t, "Healthy", table.Label(0))
	assert.Equal(t, models.CategoryDisease, table.Category(9))
	assert.Equal(t, models.CategoryDeficiency, table.Category(10))
	assert.Equal(t, models.CategoryPest, table.Category(20))
	assert.Equal(t, models.CategoryEnvironmental, table.Category(30))
	assert.Equal(t, models.CategoryOther, table.Category(40))
	assert.Equal(t, "Rabbits", table.Label(44))
}
