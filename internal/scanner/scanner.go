// Package scanner walks source roots and parses candidate Go files.
// Parsing is parallel; results are re-sorted by path so downstream
// output is byte-identical regardless of scheduling.
package scanner

import (
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"
)

// ignoreMarker excludes a whole file when present in the package doc
// comment, or a single handler when present in its doc comment.
const ignoreMarker = "api:ignore"

// File is one parsed source file.
type File struct {
	Path string // path as discovered, slash-separated
	Fset *token.FileSet
	AST  *ast.File
}

// Position resolves a token position within this file.
func (f *File) Position(pos token.Pos) token.Position {
	return f.Fset.Position(pos)
}

// Result is the outcome of scanning one or more roots.
type Result struct {
	Files []*File
	// IgnoredFiles lists files excluded by an ignore glob or a
	// file-level marker. They leave coverage denominators but stay
	// queryable for --show-ignored.
	IgnoredFiles []IgnoredFile
}

// IgnoredFile records an excluded file and why.
type IgnoredFile struct {
	Path   string
	Reason string
}

// ParseError is a fatal syntax error in a scanned file.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error in %s: %v", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// Scanner discovers and parses Go source files.
type Scanner struct {
	ignore  func(string) bool
	workers int
}

// New creates a Scanner. ignore receives slash-separated paths
// relative to the scanned root; nil means nothing is ignored.
func New(ignore func(string) bool) *Scanner {
	return &Scanner{
		ignore:  ignore,
		workers: runtime.NumCPU(),
	}
}

// Scan walks the given roots and parses every non-ignored .go file.
// A syntax error in any file aborts the scan: a broken tree cannot be
// trusted to produce a correct document.
func (s *Scanner) Scan(roots []string, progress func()) (*Result, error) {
	paths, ignored, err := s.discover(roots)
	if err != nil {
		return nil, err
	}

	files := make([]*File, len(paths))

	var g errgroup.Group
	g.SetLimit(s.workers)

	for i, path := range paths {
		g.Go(func() error {
			fset := token.NewFileSet()
			astFile, err := parser.ParseFile(fset, path, nil, parser.ParseComments)
			if err != nil {
				return &ParseError{Path: path, Err: err}
			}
			files[i] = &File{Path: path, Fset: fset, AST: astFile}
			if progress != nil {
				progress()
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	// Drop files excluded by a file-level marker
	kept := files[:0]
	for _, f := range files {
		if hasFileIgnoreMarker(f.AST) {
			ignored = append(ignored, IgnoredFile{Path: f.Path, Reason: "file-level " + ignoreMarker + " marker"})
			continue
		}
		kept = append(kept, f)
	}

	result := &Result{Files: kept, IgnoredFiles: ignored}
	sort.Slice(result.Files, func(i, j int) bool { return result.Files[i].Path < result.Files[j].Path })
	sort.Slice(result.IgnoredFiles, func(i, j int) bool { return result.IgnoredFiles[i].Path < result.IgnoredFiles[j].Path })
	return result, nil
}

// discover collects candidate file paths under the roots, applying
// ignore globs and deduplicating overlapping roots.
func (s *Scanner) discover(roots []string) ([]string, []IgnoredFile, error) {
	seen := make(map[string]bool)
	var paths []string
	var ignored []IgnoredFile

	for _, root := range roots {
		info, err := os.Stat(root)
		if err != nil {
			return nil, nil, fmt.Errorf("source root %s: %w", root, err)
		}
		if !info.IsDir() {
			return nil, nil, fmt.Errorf("source root %s is not a directory", root)
		}

		err = filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
			if err != nil {
				return err
			}
			name := d.Name()
			if d.IsDir() {
				// Toolchain convention: hidden and underscore
				// directories are invisible to builds
				if path != root && (strings.HasPrefix(name, ".") || strings.HasPrefix(name, "_")) {
					return filepath.SkipDir
				}
				return nil
			}
			if !strings.HasSuffix(name, ".go") {
				return nil
			}

			slashPath := filepath.ToSlash(path)
			if seen[slashPath] {
				return nil
			}
			seen[slashPath] = true

			rel, relErr := filepath.Rel(root, path)
			if relErr != nil {
				rel = path
			}
			if s.ignore != nil && s.ignore(filepath.ToSlash(rel)) {
				ignored = append(ignored, IgnoredFile{Path: slashPath, Reason: "ignore glob"})
				return nil
			}

			paths = append(paths, slashPath)
			return nil
		})
		if err != nil {
			return nil, nil, fmt.Errorf("walking %s: %w", root, err)
		}
	}

	sort.Strings(paths)
	return paths, ignored, nil
}

// hasFileIgnoreMarker reports whether the package doc comment carries
// the ignore marker.
func hasFileIgnoreMarker(f *ast.File) bool {
	if f.Doc == nil {
		return false
	}
	return strings.Contains(f.Doc.Text(), ignoreMarker)
}

// HasIgnoreMarker reports whether a doc comment carries the ignore
// marker. Used for per-handler exclusion.
func HasIgnoreMarker(doc *ast.CommentGroup) bool {
	if doc == nil {
		return false
	}
	return strings.Contains(doc.Text(), ignoreMarker)
}
