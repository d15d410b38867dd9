package importer

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/multierr"
)

// Source is one loaded file with its module directives removed.
type Source struct {
	Module  string
	Path    string
	Content string
	Imports []string
}

type Importer struct {
	processed   map[string]*Source
	order       []*Source
	moduleStack []string // For circular dependency detection
}

func New() *Importer {
	return &Importer{
		processed:   make(map[string]*Source),
		moduleStack: make([]string, 0),
	}
}

// Load reads the file at path and every module it imports, directly or
// transitively. Sources come back in dependency order with the root file
// last. Files that cannot be read do not stop the walk; their errors are
// combined into the returned error.
func (i *Importer) Load(path string) ([]Source, error) {
	absolutePath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolving %s: %w", path, err)
	}

	err = i.processModule(absolutePath)

	sources := make([]Source, 0, len(i.order))
	for _, src := range i.order {
		sources = append(sources, *src)
	}
	return sources, err
}

func (i *Importer) processModule(filePath string) error {
	if _, exists := i.processed[filePath]; exists {
		return nil
	}

	content, err := os.ReadFile(filePath)
	if err != nil {
		return fmt.Errorf("reading module: %w", err)
	}

	moduleName, imports, processedContent := parseFileContent(string(content))

	// If no module name found, use filename without extension
	if moduleName == "" {
		base := filepath.Base(filePath)
		moduleName = strings.TrimSuffix(base, filepath.Ext(base))
	}

	if i.isInStack(moduleName) {
		return fmt.Errorf("circular import of module %s (%s)", moduleName, strings.Join(append(i.moduleStack, moduleName), " -> "))
	}

	src := &Source{
		Module:  moduleName,
		Path:    filePath,
		Content: processedContent,
		Imports: imports,
	}

	i.moduleStack = append(i.moduleStack, moduleName)

	var errs error
	dir := filepath.Dir(filePath)
	for _, imp := range imports {
		importPath := filepath.Join(dir, imp+".cl")
		if err := i.processModule(importPath); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("%s imports %s: %w", moduleName, imp, err))
		}
	}

	i.moduleStack = i.moduleStack[:len(i.moduleStack)-1]

	i.processed[filePath] = src
	i.order = append(i.order, src)
	return errs
}

// parseFileContent blanks out module and import directives so that line
// numbers in the remaining text still match the file on disk.
func parseFileContent(content string) (string, []string, string) {
	var moduleName string
	imports := make([]string, 0)
	lines := strings.Split(content, "\n")

	for n, line := range lines {
		trimmed := strings.TrimSpace(line)

		if strings.HasPrefix(trimmed, "module ") {
			moduleName = strings.TrimSpace(strings.TrimPrefix(trimmed, "module"))
			moduleName = strings.TrimSuffix(moduleName, ";")
			lines[n] = ""
			continue
		}

		if strings.HasPrefix(trimmed, "import ") {
			imp := strings.TrimSpace(strings.TrimPrefix(trimmed, "import"))
			imp = strings.TrimSuffix(imp, ";")
			imports = append(imports, imp)
			lines[n] = ""
		}
	}

	return moduleName, imports, strings.Join(lines, "\n")
}

func (i *Importer) isInStack(moduleName string) bool {
	for _, m := range i.moduleStack {
		if m == moduleName {
			return true
		}
	}
	return false
}
