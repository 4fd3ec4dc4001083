package ingest

import (
	"context"
	"sync"

	"github.com/rs/zerolog/log"
)

// BatchResult summarizes a multi-file ingest run.
type BatchResult struct {
	Files   int       `json:"files"`
	Failed  int       `json:"failed"`
	Results []*Result `json:"results"`
}

// IngestBatch ingests files concurrently with a bounded worker pool. One bad
// file does not stop the batch; failures are counted and logged.
func (i *Ingester) IngestBatch(ctx context.Context, files []string, workers int) (*BatchResult, error) {
	if workers < 1 {
		workers = 1
	}
	if workers > len(files) {
		workers = len(files)
	}

	jobChan := make(chan string, len(files))
	resultChan := make(chan *Result, len(files))
	errCount := make(chan struct{}, len(files))
	var wg sync.WaitGroup

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for file := range jobChan {
				result, err := i.IngestFile(ctx, file)
				if err != nil {
					log.Error().Err(err).Str("file", file).Msg("batch ingest: file failed")
					errCount <- struct{}{}
					continue
				}
				resultChan <- result
			}
		}()
	}

	for _, file := range files {
		select {
		case <-ctx.Done():
			close(jobChan)
			wg.Wait()
			return nil, ctx.Err()
		case jobChan <- file:
		}
	}
	close(jobChan)

	wg.Wait()
	close(resultChan)
	close(errCount)

	batch := &BatchResult{Files: len(files)}
	for result := range resultChan {
		batch.Results = append(batch.Results, result)
	}
	for range errCount {
		batch.Failed++
	}

	return batch, nil
}
