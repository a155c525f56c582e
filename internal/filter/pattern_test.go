package filter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPatternMatching(t *testing.T) {
	tests := []struct {
		pattern string
		path    string
		isDir   bool
		want    bool
	}{
		{"*.log", "app.log", false, true},
		{"*.log", "dir/app.log", false, true},
		{"*.log", "app.log.bak", false, false},
		{"**/*.go", "main.go", false, true},
		{"**/*.go", "cmd/sieve/main.go", false, true},
		{"**/*.go", "main.txt", false, false},
		{"docs/**", "docs/a/b.md", false, true},
		{"/root.txt", "root.txt", false, true},
		{"/root.txt", "sub/root.txt", false, false},
		{"sub/dir/*.txt", "sub/dir/f.txt", false, true},
		{"sub/dir/*.txt", "x/sub/dir/f.txt", false, false},
		{"build/", "build", true, true},
		{"build/", "build", false, false},
		{"file?.txt", "file1.txt", false, true},
		{"file?.txt", "file12.txt", false, false},
		{"file?.txt", "file/.txt", false, false},
		{"[abc].txt", "b.txt", false, true},
		{"[!abc].txt", "b.txt", false, false},
		{"[!abc].txt", "z.txt", false, true},
		{"a+b(1).txt", "a+b(1).txt", false, true},
		{"broken[", "broken[", false, true},
	}
	for _, tt := range tests {
		t.Run(tt.pattern+"~"+tt.path, func(t *testing.T) {
			p, err := compilePattern(tt.pattern)
			require.NoError(t, err)
			assert.Equal(t, tt.want, p.match(tt.path, tt.isDir))
		})
	}
}
