package pyscan

import (
	"bytes"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// skipDirs are directory names that never contain project source worth
// scanning (virtualenvs, caches, build output).
var skipDirs = map[string]bool{
	"__pycache__":  true,
	".git":         true,
	".venv":        true,
	"venv":         true,
	"env":          true,
	"node_modules": true,
	".tox":         true,
	"build":        true,
	"dist":         true,
	".eggs":        true,
}

// FindSourceFiles walks root and returns every .py file beneath it in
// lexical order. If root itself is a file it is returned as-is.
func FindSourceFiles(root string) ([]string, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return []string{root}, nil
	}

	var files []string
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != root && skipDirs[d.Name()] {
				return filepath.SkipDir
			}
			return nil
		}
		if strings.HasSuffix(d.Name(), ".py") {
			files = append(files, path)
		}
		return nil
	})
	return files, err
}

const scanWorkers = 8

// ScanAll extracts imports from every file, fanning the per-file work out
// to a small worker pool. Files are independent so the scan is a pure map;
// results come back in input order regardless of completion order, keeping
// downstream matching deterministic.
//
// A file that cannot be read yields a warning and no imports. Files with
// NUL bytes are treated as binary and skipped silently.
func ScanAll(files []string) ([]FileImports, []Warning) {
	results := make([]FileImports, len(files))
	warnings := make([][]Warning, len(files))

	jobs := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < scanWorkers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				results[i], warnings[i] = scanFile(files[i])
			}
		}()
	}
	for i := range files {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	var flat []Warning
	for _, ws := range warnings {
		flat = append(flat, ws...)
	}
	return results, flat
}

func scanFile(path string) (FileImports, []Warning) {
	fi := FileImports{Path: path}

	data, err := os.ReadFile(path)
	if err != nil {
		return fi, []Warning{{File: path, Msg: "read failed: " + err.Error()}}
	}
	if bytes.IndexByte(data, 0) >= 0 {
		return fi, nil // binary, not source
	}

	roots, ws := Extract(path, string(data))
	fi.Roots = roots
	return fi, ws
}
