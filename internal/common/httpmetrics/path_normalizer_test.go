package httpmetrics

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizePath(t *testing.T) {
	cases := map[string]string{
		"":              "/",
		"/":             "/",
		"/api/notes":    "/api/notes",
		"/api/note/42":  "/api/note/{id}",
		"/api/note/":    "/api/note/",
		"/api/note/abc": "/api/note/abc",
	}

	for in, want := range cases {
		assert.Equal(t, want, NormalizePath(in), in)
	}
}
