package hierarchy

import (
	"testing"

	"github.com/codenest/codenest/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDigest(t *testing.T) {
	// Known md5 vectors.
	assert.Equal(t, "d41d8cd98f00b204e9800998ecf8427e", Digest(nil))
	assert.Equal(t, "d41d8cd98f00b204e9800998ecf8427e", Digest([]byte{}))
	assert.Equal(t, "5d41402abc4b2a76b9719d911017c592", Digest([]byte("hello")))
}

func TestDigest_ContentSensitivity(t *testing.T) {
	a := Digest([]byte("0123456789"))
	b := Digest([]byte("0123456780"))

	assert.NotEqual(t, a, b)
}

func TestVerifyChecksum(t *testing.T) {
	content := []byte("console.log('hi');\n")

	file := &domain.File{
		ID:       "file-1",
		Checksum: Digest(content),
	}

	require.NoError(t, VerifyChecksum(file, content))

	err := VerifyChecksum(file, []byte("tampered"))
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrIntegrity)
}

func TestCountLines(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		expected int64
	}{
		{
			name:     "empty",
			content:  "",
			expected: 1,
		},
		{
			name:     "single line no newline",
			content:  "hello",
			expected: 1,
		},
		{
			name:     "trailing newline",
			content:  "hello\n",
			expected: 2,
		},
		{
			name:     "three lines",
			content:  "a\nb\nc",
			expected: 3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, CountLines([]byte(tt.content)))
		})
	}
}
