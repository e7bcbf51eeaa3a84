package chartdb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"

	"chartsync/internal/services"
)

// missingNameSentinels are placeholder labels upstream sources emit in place of
// a real artist name. Compared after case folding.
var missingNameSentinels = []string{
	"no artist name",
	"unknown artist",
	"n/a",
}

var sentinelFolder = cases.Fold()

// CanonicalArtistName returns the registry key for a display name: NFC
// normalized, control characters removed, surrounding and repeated whitespace
// collapsed. It fails with services.ErrInvalidIdentity when nothing printable
// remains or the name is a missing-name sentinel.
func CanonicalArtistName(name string) (string, error) {
	cleaned := strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return ' '
		}
		if !unicode.IsPrint(r) {
			return -1
		}
		return r
	}, norm.NFC.String(name))
	canonical := strings.Join(strings.Fields(cleaned), " ")

	if canonical == "" {
		return "", services.Wrap(services.ErrInvalidIdentity, "registry", "canonicalize", "artist name is empty", nil)
	}
	if !strings.ContainsFunc(canonical, func(r rune) bool { return unicode.IsLetter(r) || unicode.IsNumber(r) }) {
		return "", services.Wrap(services.ErrInvalidIdentity, "registry", "canonicalize",
			fmt.Sprintf("artist name %q has no printable label", canonical), nil)
	}
	folded := sentinelFolder.String(canonical)
	for _, sentinel := range missingNameSentinels {
		if folded == sentinel {
			return "", services.Wrap(services.ErrInvalidIdentity, "registry", "canonicalize",
				fmt.Sprintf("artist name %q is a missing-name placeholder", canonical), nil)
		}
	}
	return canonical, nil
}

// resolveArtist returns the id for name, inserting a new identity when the
// canonical name is unseen. The UNIQUE constraint on artists.name backs the
// one-id-per-name invariant.
func resolveArtist(ctx context.Context, q queryer, name string) (Artist, error) {
	canonical, err := CanonicalArtistName(name)
	if err != nil {
		return Artist{}, err
	}

	var id int64
	err = q.GetContext(ctx, &id, `SELECT id FROM artists WHERE name = ?`, canonical)
	if err == nil {
		return Artist{ID: id, Name: canonical}, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return Artist{}, fmt.Errorf("lookup artist: %w", err)
	}

	res, err := q.ExecContext(ctx, `INSERT INTO artists (name) VALUES (?)`, canonical)
	if err != nil {
		return Artist{}, fmt.Errorf("insert artist: %w", err)
	}
	id, err = res.LastInsertId()
	if err != nil {
		return Artist{}, fmt.Errorf("last insert id: %w", err)
	}
	return Artist{ID: id, Name: canonical}, nil
}

func artistExists(ctx context.Context, q queryer, id int64) (bool, error) {
	var count int
	if err := q.GetContext(ctx, &count, `SELECT COUNT(1) FROM artists WHERE id = ?`, id); err != nil {
		return false, fmt.Errorf("check artist %d: %w", id, err)
	}
	return count > 0, nil
}

// ResolveArtist resolves name inside the transaction.
func (t *Tx) ResolveArtist(ctx context.Context, name string) (Artist, error) {
	return resolveArtist(ctx, t.tx, name)
}

// ResolveArtist resolves name in its own transaction.
func (s *Store) ResolveArtist(ctx context.Context, name string) (Artist, error) {
	tx, err := s.Begin(ctx)
	if err != nil {
		return Artist{}, err
	}
	defer func() { _ = tx.Rollback() }()

	artist, err := tx.ResolveArtist(ctx, name)
	if err != nil {
		return Artist{}, err
	}
	if err := tx.Commit(); err != nil {
		return Artist{}, err
	}
	return artist, nil
}

// Artists lists every registered identity ordered by id.
func (s *Store) Artists(ctx context.Context) ([]Artist, error) {
	var artists []Artist
	if err := s.db.SelectContext(ctx, &artists, `SELECT id, name FROM artists ORDER BY id`); err != nil {
		return nil, fmt.Errorf("list artists: %w", err)
	}
	return artists, nil
}

// ArtistByName looks up an identity without creating one. It returns nil when
// the name is not registered.
func (s *Store) ArtistByName(ctx context.Context, name string) (*Artist, error) {
	canonical, err := CanonicalArtistName(name)
	if err != nil {
		return nil, err
	}
	var artist Artist
	err = s.db.GetContext(ctx, &artist, `SELECT id, name FROM artists WHERE name = ?`, canonical)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get artist: %w", err)
	}
	return &artist, nil
}
