package errors

import (
	"fmt"
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuilderExplicitFields(t *testing.T) {
	t.Parallel()

	ee := Newf("couldn't open file %s", "a.csv").
		Component("perfreport").
		Category(CategoryFileIO).
		Context("family", "histograms").
		Build()

	assert.Equal(t, "couldn't open file a.csv", ee.Error())
	assert.Equal(t, "perfreport", ee.GetComponent())
	assert.Equal(t, CategoryFileIO, ee.Category)
	assert.Equal(t, "histograms", ee.GetContext()["family"])
	assert.False(t, ee.Timestamp.IsZero())
}

func TestBuilderDetectsComponent(t *testing.T) {
	t.Parallel()

	ee := New(fmt.Errorf("boom")).Build()

	// Called from this package's test binary, so the detected package is errors
	assert.NotEmpty(t, ee.GetComponent())
	assert.Equal(t, CategoryGeneric, ee.Category)
}

func TestDetectCategory(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want ErrorCategory
	}{
		{"parse", fmt.Errorf("failed to parse dump"), CategoryFileParsing},
		{"open", fmt.Errorf("open /x: permission denied"), CategoryFileIO},
		{"invalid", fmt.Errorf("invalid interval"), CategoryValidation},
		{"timeout", fmt.Errorf("context deadline exceeded"), CategoryTimeout},
		{"categorized", Newf("x").Category(CategoryValidation).Build(), CategoryValidation},
		{"fallback", fmt.Errorf("something else"), CategoryGeneric},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, New(tt.err).Build().Category)
		})
	}
}

func TestUnwrapAndIs(t *testing.T) {
	t.Parallel()

	ee := New(fs.ErrPermission).
		Category(CategoryFileIO).
		FileContext("/tmp/peaks_1_2_x.csv", 0).
		Build()

	require.ErrorIs(t, ee, fs.ErrPermission)
	assert.True(t, IsCategory(ee, CategoryFileIO))
	assert.False(t, IsCategory(ee, CategoryValidation))
	assert.Equal(t, "csv", ee.GetContext()["file_extension"])

	wrapped := fmt.Errorf("export: %w", ee)
	assert.True(t, IsCategory(wrapped, CategoryFileIO))
	assert.True(t, Is(wrapped, &EnhancedError{Category: CategoryFileIO}))
}

func TestGetContextReturnsCopy(t *testing.T) {
	t.Parallel()

	ee := Newf("x").Context("k", 1).Build()
	ctx := ee.GetContext()
	ctx["k"] = 2

	assert.Equal(t, 1, ee.GetContext()["k"])
}
