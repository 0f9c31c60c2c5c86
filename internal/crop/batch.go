// Copyright 2024 Nick White.
// Use of this source code is governed by the GPLv3
// license that can be found in the LICENSE file.

package crop

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"
)

// Summary counts the outcomes of a batch
type Summary struct {
	Cropped, Failed, Errored int
}

func (s Summary) String() string {
	return fmt.Sprintf("%d cropped, %d failed, %d errors", s.Cropped, s.Failed, s.Errored)
}

// Summarise counts the outcomes of a batch
func Summarise(outcomes []Outcome) Summary {
	var s Summary
	for _, o := range outcomes {
		switch {
		case o.Err != nil:
			s.Errored++
		case o.Found:
			s.Cropped++
		default:
			s.Failed++
		}
	}
	return s
}

// Run processes files with up to cfg.Workers at once, returning the
// outcome of each in the same order as files. An error processing
// one file is recorded in its Outcome and does not stop the others;
// only cancellation of ctx stops the batch, in which case its error
// is returned.
func Run(ctx context.Context, files []string, cfg Config) ([]Outcome, error) {
	outcomes := make([]Outcome, len(files))
	for i, f := range files {
		outcomes[i].Path = f
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(cfg.Workers, 1))
	for i, f := range files {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			o, err := Process(gctx, f, cfg)
			if err != nil {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				o.Err = err
			}
			outcomes[i] = o
			return nil
		})
	}

	err := g.Wait()
	if err == nil {
		err = ctx.Err()
	}
	return outcomes, err
}

// Traces collects the thresholds tried for each file, keyed by file
// path, for graphing
func Traces(outcomes []Outcome) map[string][]int {
	traces := make(map[string][]int)
	for _, o := range outcomes {
		if len(o.Trace) > 0 {
			traces[o.Path] = o.Trace
		}
	}
	return traces
}
