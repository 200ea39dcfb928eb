package config

import (
	"path/filepath"
	"strings"

	"github.com/repodigest/repodigest/internal/utils"
)

// builtinExclusionPatterns lists the paths and globs excluded on every run,
// before .gitignore entries are merged in. Names without wildcards prune the
// matching root-relative path and its subtree; wildcard entries match file
// names anywhere in the tree.
var builtinExclusionPatterns = []string{
	// version control metadata
	utils.GitDirectoryName,
	".hg",
	".svn",
	// caches and bytecode
	"__pycache__",
	"*.pyc",
	"*.pyo",
	".pytest_cache",
	".mypy_cache",
	// dependency and build directories
	"node_modules",
	"vendor",
	"dist",
	"build",
	"target",
	".next",
	// environments and secrets
	".venv",
	"venv",
	"env",
	".env",
	// editor and IDE artifacts
	".idea",
	".vscode",
	"*.swp",
	"*.swo",
	// data and log files that drown out source
	"*.csv",
	"*.xlsx",
	"*.json",
	"*.log",
}

// sourceFileExtensions is the fixed allow-list gating content inspection.
// A file whose lower-cased name does not end in one of these never has its
// content read.
var sourceFileExtensions = []string{
	// scripting
	".py", ".rb", ".php", ".pl", ".pm", ".lua", ".sh", ".bash", ".zsh", ".r",
	// compiled
	".go", ".java", ".c", ".h", ".cpp", ".hpp", ".cc", ".cs", ".rs",
	".swift", ".kt", ".kts", ".scala", ".m", ".mm", ".dart", ".ex", ".exs",
	".erl", ".hs", ".clj",
	// web and markup
	".js", ".jsx", ".ts", ".tsx", ".vue", ".svelte", ".html", ".htm",
	".css", ".scss", ".less", ".xml", ".md", ".rst", ".txt",
	// configuration and interface definitions
	".yaml", ".yml", ".toml", ".ini", ".cfg", ".conf", ".sql", ".proto",
	".graphql", ".gradle", ".tf",
}

// BuiltinExclusionPatterns returns a copy of the fixed exclusion list.
func BuiltinExclusionPatterns() []string {
	return append([]string(nil), builtinExclusionPatterns...)
}

// IsSourceFileName reports whether the file name carries a recognized
// source-code extension. The comparison is case-insensitive.
func IsSourceFileName(fileName string) bool {
	lowerName := strings.ToLower(filepath.Base(fileName))
	for _, recognizedExtension := range sourceFileExtensions {
		if strings.HasSuffix(lowerName, recognizedExtension) {
			return true
		}
	}
	return false
}
