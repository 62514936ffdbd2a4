package ingest

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/ledongthuc/pdf"
)

// Document is one page of a PDF or a whole text file. Page is 1-based for
// PDFs and 0 for plain text.
type Document struct {
	Source  string
	Page    int
	Content string
}

// LoadDirectory reads every .pdf, .txt and .md file under dir. A missing dir
// is created and yields no documents. Unreadable files are logged and
// skipped.
func LoadDirectory(dir string, logger *log.Logger) ([]Document, error) {
	if _, err := os.Stat(dir); errors.Is(err, fs.ErrNotExist) {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create guides dir: %w", err)
		}
		logger.Info("created guides directory, add wellness guides here", "dir", dir)
		return nil, nil
	}

	var paths []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		switch strings.ToLower(filepath.Ext(path)) {
		case ".pdf", ".txt", ".md":
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk guides dir: %w", err)
	}
	sort.Strings(paths)

	var docs []Document
	for _, path := range paths {
		source, err := filepath.Rel(dir, path)
		if err != nil {
			source = filepath.Base(path)
		}
		var loaded []Document
		if strings.EqualFold(filepath.Ext(path), ".pdf") {
			loaded, err = loadPDF(path, source)
		} else {
			loaded, err = loadText(path, source)
		}
		if err != nil {
			logger.Warn("skipping guide", "source", source, "error", err)
			continue
		}
		docs = append(docs, loaded...)
	}
	logger.Info("loaded guide pages", "files", len(paths), "pages", len(docs))
	return docs, nil
}

func loadPDF(path, source string) (docs []Document, err error) {
	// the pdf reader panics on some malformed files
	defer func() {
		if r := recover(); r != nil {
			docs, err = nil, fmt.Errorf("read pdf: %v", r)
		}
	}()

	f, r, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open pdf: %w", err)
	}
	defer f.Close()

	for i := 1; i <= r.NumPage(); i++ {
		p := r.Page(i)
		if p.V.IsNull() {
			continue
		}
		text, err := p.GetPlainText(nil)
		if err != nil {
			return nil, fmt.Errorf("page %d: %w", i, err)
		}
		if strings.TrimSpace(text) == "" {
			continue
		}
		docs = append(docs, Document{Source: source, Page: i, Content: text})
	}
	return docs, nil
}

func loadText(path, source string) ([]Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}
	if strings.TrimSpace(string(data)) == "" {
		return nil, nil
	}
	return []Document{{Source: source, Content: string(data)}}, nil
}
