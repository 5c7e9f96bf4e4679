package chansey

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"hv1/chansey/defs"
	"hv1/chansey/pkg/mg"
	"hv1/chansey/pkg/oura"
)

// Samples this far back cover the reference window plus the current window.
const fetchLookbackDays = 37

type FetcherStore interface {
	mg.SampleStore
}

// Fetcher pulls one subject's collections from the vendor, runs them
// through the mapper, and replaces the stored day range with the result.
type Fetcher struct {
	Source oura.Source
	Store  FetcherStore
	Mapper *oura.Mapper

	Logger *zap.Logger
}

func (f *Fetcher) FetchAndLoad(ctx context.Context) error {
	now := time.Now()
	startDay := now.AddDate(0, 0, -fetchLookbackDays).Format(defs.DayFormat)
	endDay := now.Format(defs.DayFormat)

	cols, err := f.Source.Collections(ctx, startDay, endDay)
	if err != nil {
		return fmt.Errorf("unable to fetch collections: %w", err)
	}

	samples := f.Mapper.Map(cols)
	f.Logger.Debug("mapped collections",
		zap.String("start", startDay),
		zap.String("end", endDay),
		zap.Int("samples", len(samples)),
	)

	if err := f.Store.ReplaceSamples(ctx, f.Mapper.Email, startDay, endDay, samples); err != nil {
		return fmt.Errorf("unable to store samples: %w", err)
	}

	return nil
}
