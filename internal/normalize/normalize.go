// Package normalize turns raw source entries into chart records, resolving
// artist identities through the registry.
package normalize

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"chartsync/internal/chartdb"
	"chartsync/internal/services"
	"chartsync/internal/source"
)

// Resolver maps an artist display name to its registry identity. Both
// *chartdb.Store and *chartdb.Tx satisfy it.
type Resolver interface {
	ResolveArtist(ctx context.Context, name string) (chartdb.Artist, error)
}

// SkipReason explains why an entry produced no record.
type SkipReason string

const (
	SkipNone            SkipReason = ""
	SkipMissingArtist   SkipReason = "missing_artist"
	SkipMissingRank     SkipReason = "missing_rank"
	SkipInvalidRank     SkipReason = "invalid_rank"
	SkipInvalidIdentity SkipReason = "invalid_identity"
)

// Outcome is either a record or a skip.
type Outcome struct {
	Record chartdb.ChartRecord
	Skip   SkipReason
}

// Skipped reports whether the entry produced no record.
func (o Outcome) Skipped() bool { return o.Skip != SkipNone }

// Normalizer converts entries one at a time. Its only side effect is the
// registry insert performed by the resolver for unseen names.
type Normalizer struct {
	resolver Resolver
}

// New returns a normalizer backed by resolver.
func New(resolver Resolver) *Normalizer {
	return &Normalizer{resolver: resolver}
}

// Normalize converts entry. Structurally absent artist or rank fields,
// unparseable ranks, and names the registry rejects are skips; any other
// resolver failure is returned as an error.
func (n *Normalizer) Normalize(ctx context.Context, entry source.Entry) (Outcome, error) {
	if !entry.Artist.Present {
		return Outcome{Skip: SkipMissingArtist}, nil
	}
	if !entry.Rank.Present {
		return Outcome{Skip: SkipMissingRank}, nil
	}
	rank, ok := ParseRank(entry.Rank.Value)
	if !ok {
		return Outcome{Skip: SkipInvalidRank}, nil
	}

	artist, err := n.resolver.ResolveArtist(ctx, entry.Artist.Value)
	if err != nil {
		if errors.Is(err, services.ErrInvalidIdentity) {
			return Outcome{Skip: SkipInvalidIdentity}, nil
		}
		return Outcome{}, err
	}

	return Outcome{Record: chartdb.ChartRecord{
		Rank:       rank,
		ArtistName: artist.Name,
		TrackName:  strings.TrimSpace(entry.Track),
		ArtistID:   artist.ID,
	}}, nil
}

// ParseRank reads a chart position such as "7" or "#7". Positions start at 1.
func ParseRank(value string) (int, bool) {
	value = strings.TrimPrefix(strings.TrimSpace(value), "#")
	rank, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil || rank < 1 {
		return 0, false
	}
	return rank, true
}
