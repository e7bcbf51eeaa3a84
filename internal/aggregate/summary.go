package aggregate

import (
	"context"

	"github.com/montanaflynn/stats"

	"chartsync/internal/chartdb"
)

// Summary describes one year's records at a glance.
type Summary struct {
	Year            chartdb.Year
	Records         int
	Artists         int
	MeanPerArtist   float64
	MedianPerArtist float64
	MaxPerArtist    int
	TopArtist       string
}

// Summary computes record and per-artist statistics for year. A year without
// records yields a zero summary.
func (a *Aggregator) Summary(ctx context.Context, year chartdb.Year) (Summary, error) {
	summary := Summary{Year: year}

	records, err := a.reader.RecordCount(ctx, year)
	if err != nil {
		return summary, err
	}
	summary.Records = records

	counts, err := a.CountsPerArtist(ctx, year)
	if err != nil {
		return summary, err
	}
	if len(counts) == 0 {
		return summary, nil
	}
	summary.Artists = len(counts)
	summary.TopArtist = counts[0].Name

	data := make(stats.Float64Data, 0, len(counts))
	for _, entry := range counts {
		data = append(data, float64(entry.Count))
	}
	if summary.MeanPerArtist, err = stats.Mean(data); err != nil {
		return summary, err
	}
	if summary.MedianPerArtist, err = stats.Median(data); err != nil {
		return summary, err
	}
	max, err := stats.Max(data)
	if err != nil {
		return summary, err
	}
	summary.MaxPerArtist = int(max)
	return summary, nil
}
