package pipeline

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppErrorUnwrapAndCode(t *testing.T) {
	inner := errors.New("disk full")
	err := NewIOError("appending playlist entry", inner)

	assert.Equal(t, ExitError, err.Code)
	assert.Equal(t, KindIO, err.Kind)
	assert.ErrorIs(t, err, inner)
	assert.Contains(t, err.Error(), "disk full")

	var appErr *AppError
	assert.True(t, errors.As(err, &appErr))
	assert.Equal(t, err, appErr)
}

func TestMismatchError(t *testing.T) {
	err := NewMismatchError("movie.mp4", "other.mp4")
	assert.Equal(t, KindMismatch, err.Kind)
	assert.Contains(t, err.Error(), "movie.mp4")
	assert.Contains(t, err.Error(), "other.mp4")
}

func TestVerdictString(t *testing.T) {
	assert.Equal(t, "positive", Positive.String())
	assert.Equal(t, "negative", Negative.String())
	assert.Equal(t, "skipped", Skipped.String())
}

func TestEntryDir(t *testing.T) {
	e := &Entry{AbsPath: "/movies/staging/clip.mp4"}
	assert.Equal(t, "/movies/staging", e.Dir())
}
