package driver

import (
	"context"
	"errors"

	"go.uber.org/atomic"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Stats counts the outcomes of a batch.
type Stats struct {
	Parsed   atomic.Int64
	Fallback atomic.Int64
	Unparsed atomic.Int64
	TooLong  atomic.Int64
}

// DecodeAll parses the lines on up to `workers` goroutines. The i-th result belongs to the i-th line
// and is nil when the line has no derivation or exceeds the maximum length. Lines are independent,
// so every goroutine works on its own chart and shares only the read-only grammars.
func DecodeAll(ctx context.Context, p *Parser, lines []string, workers int) ([]*Result, *Stats, error) {
	if workers < 1 {
		workers = 1
	}

	results := make([]*Result, len(lines))
	stats := &Stats{}

	eg, ectx := errgroup.WithContext(ctx)
	eg.SetLimit(workers)
	for i, line := range lines {
		if ectx.Err() != nil {
			break
		}
		i, line := i, line
		eg.Go(func() error {
			if err := ectx.Err(); err != nil {
				return err
			}
			res, err := p.ParseLine(line)
			if err != nil {
				if errors.Is(err, ErrInputTooLong) {
					p.logger.Warn("skipped a line exceeding the maximum length", zap.Int("line", i+1), zap.Error(err))
					stats.TooLong.Inc()
					return nil
				}
				return err
			}
			switch {
			case res == nil:
				stats.Unparsed.Inc()
			case res.Fallback:
				stats.Fallback.Inc()
				stats.Parsed.Inc()
			default:
				stats.Parsed.Inc()
			}
			results[i] = res
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, stats, err
	}
	if err := ctx.Err(); err != nil {
		return nil, stats, err
	}

	p.logger.Info("decoded a batch",
		zap.Int("lines", len(lines)),
		zap.Int64("parsed", stats.Parsed.Load()),
		zap.Int64("fallback", stats.Fallback.Load()),
		zap.Int64("unparsed", stats.Unparsed.Load()),
		zap.Int64("too_long", stats.TooLong.Load()))

	return results, stats, nil
}
