package domain

import "strings"

// FileCategory groups files by language family for the editor. Derived from
// the extension through a static table, never inferred from content.
type FileCategory string

const (
	FileCategoryJavaScript FileCategory = "javascript"
	FileCategoryTypeScript FileCategory = "typescript"
	FileCategoryPython     FileCategory = "python"
	FileCategoryHTML       FileCategory = "html"
	FileCategoryCSS        FileCategory = "css"
	FileCategorySCSS       FileCategory = "scss"
	FileCategorySass       FileCategory = "sass"
	FileCategoryJSON       FileCategory = "json"
	FileCategoryXML        FileCategory = "xml"
	FileCategoryYAML       FileCategory = "yaml"
	FileCategoryMarkdown   FileCategory = "markdown"
	FileCategoryText       FileCategory = "text"
	FileCategoryShell      FileCategory = "shell"
	FileCategoryDockerfile FileCategory = "dockerfile"
	FileCategorySQL        FileCategory = "sql"
	FileCategoryPHP        FileCategory = "php"
	FileCategoryJava       FileCategory = "java"
	FileCategoryCPP        FileCategory = "cpp"
	FileCategoryC          FileCategory = "c"
	FileCategoryGo         FileCategory = "go"
	FileCategoryRust       FileCategory = "rust"
	FileCategoryRuby       FileCategory = "ruby"
	FileCategoryOther      FileCategory = "other"
)

var categoryByExtension = map[string]FileCategory{
	"js":         FileCategoryJavaScript,
	"jsx":        FileCategoryJavaScript,
	"ts":         FileCategoryTypeScript,
	"tsx":        FileCategoryTypeScript,
	"py":         FileCategoryPython,
	"html":       FileCategoryHTML,
	"css":        FileCategoryCSS,
	"scss":       FileCategorySCSS,
	"sass":       FileCategorySass,
	"json":       FileCategoryJSON,
	"xml":        FileCategoryXML,
	"yaml":       FileCategoryYAML,
	"yml":        FileCategoryYAML,
	"md":         FileCategoryMarkdown,
	"txt":        FileCategoryText,
	"sh":         FileCategoryShell,
	"dockerfile": FileCategoryDockerfile,
	"sql":        FileCategorySQL,
	"php":        FileCategoryPHP,
	"java":       FileCategoryJava,
	"cpp":        FileCategoryCPP,
	"c":          FileCategoryC,
	"go":         FileCategoryGo,
	"rs":         FileCategoryRust,
	"rb":         FileCategoryRuby,
}

var mimeTypeByExtension = map[string]string{
	"js":   "application/javascript",
	"jsx":  "application/javascript",
	"ts":   "application/typescript",
	"tsx":  "application/typescript",
	"py":   "text/x-python",
	"html": "text/html",
	"css":  "text/css",
	"scss": "text/x-scss",
	"sass": "text/x-sass",
	"json": "application/json",
	"xml":  "application/xml",
	"yaml": "application/x-yaml",
	"yml":  "application/x-yaml",
	"md":   "text/markdown",
	"txt":  "text/plain",
}

// CategoryForExtension maps a file extension to its category, defaulting to
// FileCategoryOther for anything unknown.
func CategoryForExtension(extension string) FileCategory {
	if category, ok := categoryByExtension[strings.ToLower(extension)]; ok {
		return category
	}

	return FileCategoryOther
}

// MimeTypeForExtension maps a file extension to a MIME type, defaulting to
// text/plain.
func MimeTypeForExtension(extension string) string {
	if mimeType, ok := mimeTypeByExtension[strings.ToLower(extension)]; ok {
		return mimeType
	}

	return "text/plain"
}

// IsTextCategory reports whether line counts are meaningful for the category.
func IsTextCategory(category FileCategory, mimeType string) bool {
	if strings.HasPrefix(mimeType, "text/") {
		return true
	}

	switch category {
	case FileCategoryJavaScript, FileCategoryTypeScript, FileCategoryPython, FileCategoryHTML, FileCategoryCSS:
		return true
	}

	return false
}
