// Package csharp extracts analysis units from C# mapping profiles
// using tree-sitter. It implements the shape-extractor and
// declaration-collector boundaries; the core never sees a syntax tree.
package csharp

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"
	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/csharp"

	"maplint/internal/analysis"
	"maplint/internal/logging"
	"maplint/internal/mapping"
	"maplint/internal/shape"
)

const parseCacheSize = 256

// fileResult caches one parsed file's extraction output, keyed by path
// and invalidated by modification time.
type fileResult struct {
	modTime int64
	shapes  []*shape.TypeShape
	decls   []*mapping.Declaration
}

// Frontend loads one analysis unit from a directory of C# sources.
// The directory is the unit boundary: declarations found under one
// root never satisfy reachability queries for another root.
type Frontend struct {
	root   string
	parser *sitter.Parser
	cache  *lru.Cache[string, fileResult]
	logger *logging.Logger
}

// New creates a frontend rooted at dir.
func New(root string, logger *logging.Logger) (*Frontend, error) {
	cache, err := lru.New[string, fileResult](parseCacheSize)
	if err != nil {
		return nil, err
	}
	parser := sitter.NewParser()
	parser.SetLanguage(csharp.GetLanguage())
	return &Frontend{
		root:   root,
		parser: parser,
		cache:  cache,
		logger: logger,
	}, nil
}

// Load implements analysis.Loader: every .cs file under the root is
// parsed and merged into a single unit named after the root.
func (f *Frontend) Load(ctx context.Context) ([]*analysis.Unit, error) {
	files, err := f.listSources()
	if err != nil {
		return nil, err
	}

	unit := &analysis.Unit{
		ID:     filepath.ToSlash(f.root),
		Root:   f.root,
		Shapes: make(map[string]*shape.TypeShape),
	}

	for _, path := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		result, err := f.parseFile(ctx, path)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
		for _, s := range result.shapes {
			if _, dup := unit.Shapes[s.Name]; dup {
				f.logger.Warn("duplicate type shape, keeping first", map[string]interface{}{
					"type": s.Name,
					"file": path,
				})
				continue
			}
			unit.Shapes[s.Name] = s
		}
		unit.Declarations = append(unit.Declarations, result.decls...)
	}

	f.logger.Debug("unit loaded", map[string]interface{}{
		"unit":         unit.ID,
		"files":        len(files),
		"shapes":       len(unit.Shapes),
		"declarations": len(unit.Declarations),
	})

	return []*analysis.Unit{unit}, nil
}

func (f *Frontend) listSources() ([]string, error) {
	info, err := os.Stat(f.root)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return []string{f.root}, nil
	}

	var files []string
	err = filepath.WalkDir(f.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			name := d.Name()
			if name == "bin" || name == "obj" || strings.HasPrefix(name, ".") && path != f.root {
				return filepath.SkipDir
			}
			return nil
		}
		if strings.HasSuffix(path, ".cs") {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(files)
	return files, nil
}

// parseFile parses one source file, consulting the modtime-keyed cache
// first. Parsing is sequential; the parser is not shared across
// goroutines.
func (f *Frontend) parseFile(ctx context.Context, path string) (fileResult, error) {
	info, err := os.Stat(path)
	if err != nil {
		return fileResult{}, err
	}
	if cached, ok := f.cache.Get(path); ok && cached.modTime == info.ModTime().UnixNano() {
		return cached, nil
	}

	src, err := os.ReadFile(path)
	if err != nil {
		return fileResult{}, err
	}

	tree, err := f.parser.ParseCtx(ctx, nil, src)
	if err != nil {
		return fileResult{}, err
	}
	defer tree.Close()

	root := tree.RootNode()
	rel := path
	if r, relErr := filepath.Rel(f.root, path); relErr == nil {
		rel = filepath.ToSlash(r)
	}

	result := fileResult{
		modTime: info.ModTime().UnixNano(),
		shapes:  extractShapes(root, src),
		decls:   extractDeclarations(root, src, rel),
	}
	f.cache.Add(path, result)
	return result, nil
}
