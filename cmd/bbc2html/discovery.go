package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/elkarte/go-bbc/internal/fileutil"
)

// MaxWorkers bounds --workers.
const MaxWorkers = 32

// messageExtensions are the file types treated as forum messages.
var messageExtensions = []string{".bbc", ".txt"}

// stdinArg selects standard input as the message source.
const stdinArg = "-"

// Sentinel errors for file discovery.
var (
	ErrInvalidExtension   = errors.New("file must have .bbc or .txt extension")
	ErrInvalidWorkerCount = errors.New("invalid worker count")
	ErrInvalidMaxSize     = errors.New("invalid maximum message size")
)

// FileToRender represents a single message file to process.
type FileToRender struct {
	InputPath  string
	OutputPath string
}

// discoverFiles finds all message files to render.
func discoverFiles(inputPath, outputDir string) ([]FileToRender, error) {
	info, err := os.Stat(inputPath)
	if err != nil {
		return nil, err
	}

	if !info.IsDir() {
		if err := validateMessageExtension(inputPath); err != nil {
			return nil, err
		}
		outPath, err := resolveOutputPath(inputPath, outputDir, "")
		if err != nil {
			return nil, err
		}
		return []FileToRender{{InputPath: inputPath, OutputPath: outPath}}, nil
	}

	var files []FileToRender
	err = filepath.WalkDir(inputPath, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return fmt.Errorf("scanning %s: %w", path, err)
		}
		if d.IsDir() || !fileutil.HasExtension(path, messageExtensions...) {
			return nil
		}
		outPath, err := resolveOutputPath(path, outputDir, inputPath)
		if err != nil {
			return err
		}
		files = append(files, FileToRender{InputPath: path, OutputPath: outPath})
		return nil
	})

	return files, err
}

// resolveOutputPath determines the HTML output path for a message file.
// Directory inputs keep their layout below outputDir.
func resolveOutputPath(inputPath, outputDir, baseInputDir string) (string, error) {
	if outputDir != "" && fileutil.HasExtension(outputDir, ".html", ".htm") {
		return outputDir, nil
	}

	htmlPath, err := fileutil.ReplaceExtension(inputPath, "html")
	if err != nil {
		return "", err
	}
	if outputDir == "" {
		return htmlPath, nil
	}

	base := filepath.Base(htmlPath)
	if baseInputDir != "" {
		relPath, err := filepath.Rel(baseInputDir, inputPath)
		if err == nil && !strings.HasPrefix(relPath, "..") {
			return filepath.Join(outputDir, filepath.Dir(relPath), base), nil
		}
	}

	return filepath.Join(outputDir, base), nil
}

// validateMessageExtension checks that the file has a .bbc or .txt extension.
func validateMessageExtension(path string) error {
	if !fileutil.HasExtension(path, messageExtensions...) {
		return fmt.Errorf("%w: got %q", ErrInvalidExtension, filepath.Ext(path))
	}
	return nil
}

// validateWorkers checks that the worker count is within valid bounds.
func validateWorkers(n int) error {
	if n < 0 {
		return fmt.Errorf("%w: %d (must be >= 0, 0 means auto)", ErrInvalidWorkerCount, n)
	}
	if n > MaxWorkers {
		return fmt.Errorf("%w: %d (maximum is %d)", ErrInvalidWorkerCount, n, MaxWorkers)
	}
	return nil
}

// validateMaxSize checks the --max-size value.
func validateMaxSize(n int) error {
	if n < 0 {
		return fmt.Errorf("%w: %d (must be >= 0, 0 means default)", ErrInvalidMaxSize, n)
	}
	return nil
}
