package pathutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCleanRelative(t *testing.T) {
	assert.Equal(t, "/movies/a/b.mp4", CleanRelative("/movies", "a/b.mp4"))
	assert.Equal(t, "/movies/b.mp4", CleanRelative("/movies", "a/../b.mp4"))
	assert.Equal(t, "/movies/b.mp4", CleanRelative("/movies", "./b.mp4"))
}

func TestToSlashRelative(t *testing.T) {
	assert.Equal(t, "a/b.mp4", ToSlashRelative("/movies", "/movies/a/b.mp4"))
	assert.Equal(t, "/other/c.mp4", ToSlashRelative("/movies", "/other/c.mp4"))
}

func TestDisplayContext(t *testing.T) {
	ctx := NewDisplayContext("/movies")
	assert.Equal(t, "a/b.mp4", ctx.Display("/movies/a/b.mp4"))
	assert.Equal(t, "/other/c.mp4", ctx.Display("/other/c.mp4"))
}
