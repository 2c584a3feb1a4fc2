package llm

import (
	"context"
	"errors"
	"sync"

	"github.com/crimson-sun/scrub/internal/model"
)

// DetectBatch runs Detect over texts concurrently, bounded by the
// configured concurrency limit. Results come back in input order; a failed
// text yields a nil slice and its error is joined into the returned error.
func (d *Detector) DetectBatch(ctx context.Context, texts []string) ([][]model.Match, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	results := make([][]model.Match, len(texts))
	errs := make([]error, len(texts))
	sem := make(chan struct{}, d.maxConcurrent)
	var wg sync.WaitGroup

	for i, text := range texts {
		// Skippable texts never need a slot or an API call.
		if skippable.MatchString(text) {
			continue
		}
		wg.Add(1)
		go func(i int, text string) {
			defer wg.Done()
			select {
			case sem <- struct{}{}:
				defer func() { <-sem }()
			case <-ctx.Done():
				errs[i] = ctx.Err()
				return
			}
			results[i], errs[i] = d.Detect(ctx, text)
		}(i, text)
	}
	wg.Wait()

	return results, errors.Join(errs...)
}
