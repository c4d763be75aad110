// Package report writes the per-utterance outputs of the interpreter to four
// human-readable report streams.
package report

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/HienLe2004/menuq/internal/pipeline"
)

// Empty is written in place of a stage that produced no output.
const Empty = "()"

// File names used by Create.
const (
	StructureFile = "qhnn.txt"
	QueriesFile   = "qhvp.txt"
	LogicFile     = "ll.txt"
	AnswersFile   = "answer.txt"
)

const (
	headerStructure = "=== QUAN HỆ NGỮ NGHĨA (qhnn.txt) ===\n\n"
	headerQueries   = "=== QUAN HỆ VĂN PHẠM - DB (qhvp.txt) ===\n\n"
	headerLogic     = "=== DẠNG LUẬN LÝ (ll.txt) ===\n\n"
	headerAnswers   = "=== TRẢ LỜI NGƯỜI DÙNG (answer.txt) ===\n\n"
)

// Writer writes Results to the four report streams. Any stream may be nil, in
// which case nothing is written to it.
type Writer struct {
	// Structure receives the syntactic structure and semantic reading.
	Structure io.Writer

	// Queries receives the database operation.
	Queries io.Writer

	// Logic receives the logical form and its procedure calls.
	Logic io.Writer

	// Answers receives the question and the answer given.
	Answers io.Writer

	closers []io.Closer
}

// Create opens the four report files in dir, creating dir if needed and
// truncating any existing reports. The returned Writer must be closed.
func Create(dir string) (*Writer, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create report directory: %w", err)
	}

	w := &Writer{}
	targets := []struct {
		name string
		dest *io.Writer
	}{
		{StructureFile, &w.Structure},
		{QueriesFile, &w.Queries},
		{LogicFile, &w.Logic},
		{AnswersFile, &w.Answers},
	}

	for _, t := range targets {
		f, err := os.Create(filepath.Join(dir, t.name))
		if err != nil {
			w.Close()
			return nil, fmt.Errorf("create report %s: %w", t.name, err)
		}
		*t.dest = f
		w.closers = append(w.closers, f)
	}

	return w, nil
}

// Close closes every file opened by Create. It returns the first error
// encountered.
func (w *Writer) Close() error {
	var firstErr error
	for _, c := range w.closers {
		if err := c.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	w.closers = nil
	return firstErr
}

// WriteHeaders writes the title line of each report.
func (w *Writer) WriteHeaders() error {
	if err := write(w.Structure, headerStructure); err != nil {
		return err
	}
	if err := write(w.Queries, headerQueries); err != nil {
		return err
	}
	if err := write(w.Logic, headerLogic); err != nil {
		return err
	}
	return write(w.Answers, headerAnswers)
}

// Write appends the block for r to each report.
func (w *Writer) Write(r pipeline.Result) error {
	structure := fmt.Sprintf("Câu: %s\n→ %s\n→ %s\n\n", r.Input, orEmpty(r.Structure), orEmpty(r.Semantics))
	if err := write(w.Structure, structure); err != nil {
		return err
	}

	queries := fmt.Sprintf("Câu: %s\n→ %s\n\n", r.Input, orEmpty(r.DBOperation))
	if err := write(w.Queries, queries); err != nil {
		return err
	}

	logic := fmt.Sprintf("Câu: %s\n→ %s\n\n", r.Input, orEmpty(r.LogicalForm))
	if err := write(w.Logic, logic); err != nil {
		return err
	}

	answers := fmt.Sprintf("Q: %s\nA: %s\n\n", r.Input, orEmpty(r.Answer))
	return write(w.Answers, answers)
}

func orEmpty(s string) string {
	if s == "" {
		return Empty
	}
	return s
}

func write(w io.Writer, s string) error {
	if w == nil {
		return nil
	}
	if _, err := io.WriteString(w, s); err != nil {
		return fmt.Errorf("could not write report: %w", err)
	}
	return nil
}
