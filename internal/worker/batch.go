package worker

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/juliosaraiva/a3data-sub001/internal/model"
)

// Extractor defines the interface for extracting one description
type Extractor interface {
	Extract(ctx context.Context, description string) (*model.IncidentRecord, error)
}

// ExtractJob represents a single-description extraction job
type ExtractJob struct {
	Line        int
	Description string
	Extractor   Extractor
}

// Execute runs the extraction for this job
func (j *ExtractJob) Execute(ctx context.Context) Result {
	record, err := j.Extractor.Extract(ctx, j.Description)
	return &ExtractResult{
		Line:        j.Line,
		Description: j.Description,
		Record:      record,
		Error:       err,
	}
}

// ExtractResult is the outcome of one batch line
type ExtractResult struct {
	Line        int
	Description string
	Record      *model.IncidentRecord
	Error       error
}

// GetError returns the error from the extraction result
func (r *ExtractResult) GetError() error {
	return r.Error
}

// BatchProcessor extracts multiple descriptions concurrently. Each
// description is an independent unit of work; only the pool bounds the
// parallelism.
type BatchProcessor struct {
	extractor   Extractor
	concurrency int
}

// NewBatchProcessor creates a new batch processor
func NewBatchProcessor(extractor Extractor, concurrency int) *BatchProcessor {
	if concurrency <= 0 {
		concurrency = 4
	}
	return &BatchProcessor{
		extractor:   extractor,
		concurrency: concurrency,
	}
}

// ProcessFile reads one description per line (blank lines and
// #-comments skipped) and extracts them all, returning results in
// input order.
func (b *BatchProcessor) ProcessFile(ctx context.Context, path string) ([]*ExtractResult, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open batch file: %w", err)
	}
	defer func() { _ = file.Close() }()

	var jobs []*ExtractJob
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		jobs = append(jobs, &ExtractJob{
			Line:        lineNo,
			Description: line,
			Extractor:   b.extractor,
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read batch file: %w", err)
	}

	pool := NewPool(b.concurrency)
	pool.Start()

	go func() {
		<-ctx.Done()
		pool.Shutdown()
	}()

	for _, job := range jobs {
		pool.Submit(job)
	}

	raw := pool.Wait()

	results := make([]*ExtractResult, 0, len(raw))
	for _, r := range raw {
		if er, ok := r.(*ExtractResult); ok {
			results = append(results, er)
		}
	}
	sort.Slice(results, func(i, j int) bool { return results[i].Line < results[j].Line })

	return results, nil
}
