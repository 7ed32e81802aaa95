package train

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BishnuMukherjee123/credit-card-default-prediction/pkg/dataprep"
	"github.com/BishnuMukherjee123/credit-card-default-prediction/pkg/model"
	"github.com/BishnuMukherjee123/credit-card-default-prediction/pkg/pipeline"
)

func TestParseGrid(t *testing.T) {
	g, err := ParseGrid(" n_estimators=100, 200 ; max_depth=8,12;")
	require.NoError(t, err)
	assert.Equal(t, DefaultGrid(), g)
	assert.Equal(t, "max_depth=8,12;n_estimators=100,200", g.String())
}

func TestParseGridErrors(t *testing.T) {
	for _, in := range []string{
		"n_estimators",
		"=1,2",
		"max_depth=a",
		"max_depth=",
		"max_depth=1;max_depth=2",
	} {
		_, err := ParseGrid(in)
		assert.ErrorIs(t, err, ErrInvalidConfig, in)
	}
}

func TestCombinationsOrder(t *testing.T) {
	combos := DefaultGrid().Combinations()

	assert.Equal(t, []map[string]int{
		{"max_depth": 8, "n_estimators": 100},
		{"max_depth": 8, "n_estimators": 200},
		{"max_depth": 12, "n_estimators": 100},
		{"max_depth": 12, "n_estimators": 200},
	}, combos)

	assert.Equal(t, []map[string]int{{}}, Grid{}.Combinations())
}

func TestGridValidate(t *testing.T) {
	base := pipeline.Build(dataprep.NewFeatureCreator(true))

	require.NoError(t, DefaultGrid().Validate(base))

	err := Grid{"max_depth": {8, 0}}.Validate(base)
	assert.ErrorIs(t, err, ErrInvalidConfig)
	assert.ErrorIs(t, err, model.ErrInvalidParam)

	assert.ErrorIs(t, Grid{"gamma": {1}}.Validate(base), ErrInvalidConfig)
	assert.ErrorIs(t, Grid{"max_depth": {}}.Validate(base), ErrInvalidConfig)

	// base is untouched
	assert.Equal(t, 0, base.Classifier.MaxDepth)
}
