package routing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/target/runner-webhook-router/internal/domain/model"
	apperrors "github.com/target/runner-webhook-router/internal/errors"
)

func TestBuildTable(t *testing.T) {
	table, err := BuildTable(TableOptions{
		Mapping: model.FlavorLabelsMapping{
			{Flavor: "large", Labels: []string{"Large", "X64"}},
			{Flavor: "arm", Labels: []string{"arm64"}},
		},
		IgnoreLabels:  []string{"self-hosted", "linux"},
		DefaultFlavor: "large",
	})
	require.NoError(t, err)

	flavor, ok := table.lookup("large")
	assert.True(t, ok)
	assert.Equal(t, "large", flavor)

	flavor, ok = table.lookup("arm64")
	assert.True(t, ok)
	assert.Equal(t, "arm", flavor)

	assert.True(t, table.ignored("self-hosted"))
	assert.Equal(t, "large", table.DefaultFlavor())
}

func TestBuildTableOverlappingLabels(t *testing.T) {
	_, err := BuildTable(TableOptions{
		Mapping: model.FlavorLabelsMapping{
			{Flavor: "a", Labels: []string{"x", "y"}},
			{Flavor: "b", Labels: []string{"x", "z"}},
		},
		DefaultFlavor: "a",
	})
	require.Error(t, err)
	assert.True(t, apperrors.IsConfiguration(err))
	assert.Contains(t, err.Error(), `label "x"`)
}

func TestBuildTableOverlapIsCaseInsensitive(t *testing.T) {
	_, err := BuildTable(TableOptions{
		Mapping: model.FlavorLabelsMapping{
			{Flavor: "a", Labels: []string{"GPU"}},
			{Flavor: "b", Labels: []string{"gpu"}},
		},
		DefaultFlavor: "a",
	})
	require.Error(t, err)
	assert.True(t, apperrors.IsConfiguration(err))
}

func TestBuildTableIgnoredOverlapIsAllowed(t *testing.T) {
	// Labels shared only through the ignore set are never matched, so they
	// cannot make the table ambiguous.
	table, err := BuildTable(TableOptions{
		Mapping: model.FlavorLabelsMapping{
			{Flavor: "a", Labels: []string{"self-hosted", "x"}},
			{Flavor: "b", Labels: []string{"self-hosted", "y"}},
		},
		IgnoreLabels:  []string{"self-hosted"},
		DefaultFlavor: "a",
	})
	require.NoError(t, err)
	assert.NotNil(t, table)
}

func TestBuildTableRepeatedLabelSameFlavor(t *testing.T) {
	table, err := BuildTable(TableOptions{
		Mapping: model.FlavorLabelsMapping{
			{Flavor: "a", Labels: []string{"x", "X"}},
		},
		DefaultFlavor: "a",
	})
	require.NoError(t, err)

	flavor, ok := table.lookup("x")
	assert.True(t, ok)
	assert.Equal(t, "a", flavor)
}

func TestBuildTableMissingDefaultFlavor(t *testing.T) {
	_, err := BuildTable(TableOptions{
		Mapping: model.FlavorLabelsMapping{{Flavor: "a", Labels: []string{"x"}}},
	})
	require.Error(t, err)
	assert.True(t, apperrors.IsConfiguration(err))
}

func TestBuildTableEmptyMapping(t *testing.T) {
	_, err := BuildTable(TableOptions{DefaultFlavor: "a"})
	require.Error(t, err)
	assert.True(t, apperrors.IsConfiguration(err))
}

func TestTableFlavorsPreservesOrder(t *testing.T) {
	table, err := BuildTable(TableOptions{
		Mapping: model.FlavorLabelsMapping{
			{Flavor: "b", Labels: []string{"y"}},
			{Flavor: "a", Labels: []string{"x"}},
		},
		DefaultFlavor: "fallback",
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "a", "fallback"}, table.Flavors())
}
