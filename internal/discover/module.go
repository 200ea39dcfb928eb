// Package discover inspects the digest root for project metadata.
package discover

import (
	"os"
	"path/filepath"

	"golang.org/x/mod/modfile"

	"github.com/repodigest/repodigest/internal/utils"
)

// DetectGoModulePath returns the module path declared in the go.mod file
// directly under rootPath. A missing or unparseable go.mod yields an empty
// string; the digest header simply omits the module line in that case.
func DetectGoModulePath(rootPath string) string {
	goModulePath := filepath.Join(rootPath, utils.GoModuleFileName)
	moduleFileBytes, readError := os.ReadFile(goModulePath)
	if readError != nil {
		return ""
	}
	parsedModuleFile, parseError := modfile.Parse(utils.GoModuleFileName, moduleFileBytes, nil)
	if parseError != nil || parsedModuleFile == nil || parsedModuleFile.Module == nil {
		return ""
	}
	return parsedModuleFile.Module.Mod.Path
}
