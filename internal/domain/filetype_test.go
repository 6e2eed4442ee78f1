package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCategoryForExtension(t *testing.T) {
	testCases := []struct {
		extension string
		expected  FileCategory
	}{
		{extension: "js", expected: FileCategoryJavaScript},
		{extension: "tsx", expected: FileCategoryTypeScript},
		{extension: "PY", expected: FileCategoryPython},
		{extension: "yml", expected: FileCategoryYAML},
		{extension: "go", expected: FileCategoryGo},
		{extension: "exe", expected: FileCategoryOther},
		{extension: "", expected: FileCategoryOther},
	}

	for _, tc := range testCases {
		t.Run(tc.extension, func(t *testing.T) {
			assert.Equal(t, tc.expected, CategoryForExtension(tc.extension))
		})
	}
}

func TestMimeTypeForExtension(t *testing.T) {
	assert.Equal(t, "application/javascript", MimeTypeForExtension("js"))
	assert.Equal(t, "application/json", MimeTypeForExtension("JSON"))
	assert.Equal(t, "text/plain", MimeTypeForExtension("bin"))
}

func TestIsTextCategory(t *testing.T) {
	assert.True(t, IsTextCategory(FileCategoryMarkdown, "text/markdown"))
	assert.True(t, IsTextCategory(FileCategoryJavaScript, "application/javascript"))
	assert.False(t, IsTextCategory(FileCategoryOther, "application/octet-stream"))
}
