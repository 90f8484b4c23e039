package postgres

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/samirrijal/digipin/internal/core/domain"
	"github.com/samirrijal/digipin/pkg/digipin"
)

// PlaceRepo implements ports.PlaceRepository with pgx. Codes are stored in
// compact form so that cell queries are plain prefix matches.
type PlaceRepo struct {
	db *DB
}

// NewPlaceRepo creates a new PlaceRepo.
func NewPlaceRepo(db *DB) *PlaceRepo {
	return &PlaceRepo{db: db}
}

const placeColumns = `id, label, lat, lon, digipin, created_at`

const upsertPlace = `
	INSERT INTO places (label, lat, lon, digipin)
	VALUES ($1, $2, $3, $4)
	ON CONFLICT (label, digipin) DO UPDATE
	SET lat = EXCLUDED.lat, lon = EXCLUDED.lon
	RETURNING id, created_at, (xmax = 0) AS inserted
`

// Upsert inserts or updates a single place, fills in its ID and reports
// whether the row is new. An updated row keeps its original ID.
func (r *PlaceRepo) Upsert(ctx context.Context, p *domain.Place) (bool, error) {
	code, err := compact(p.DIGIPIN)
	if err != nil {
		return false, err
	}
	var inserted bool
	err = r.db.Pool.QueryRow(ctx, upsertPlace,
		p.Label, p.Location.Lat, p.Location.Lon, code,
	).Scan(&p.ID, &p.CreatedAt, &inserted)
	return inserted, err
}

// UpsertBatch inserts many places using pgx.Batch.
func (r *PlaceRepo) UpsertBatch(ctx context.Context, places []domain.Place) error {
	batch := &pgx.Batch{}
	for i := range places {
		code, err := compact(places[i].DIGIPIN)
		if err != nil {
			return fmt.Errorf("place %d: %w", i, err)
		}
		batch.Queue(upsertPlace, places[i].Label, places[i].Location.Lat, places[i].Location.Lon, code)
	}
	br := r.db.Pool.SendBatch(ctx, batch)
	defer br.Close()
	var inserted bool
	for i := range places {
		if err := br.QueryRow().Scan(&places[i].ID, &places[i].CreatedAt, &inserted); err != nil {
			return fmt.Errorf("batch exec: %w", err)
		}
	}
	return nil
}

// GetByID returns a place by UUID.
func (r *PlaceRepo) GetByID(ctx context.Context, id string) (*domain.Place, error) {
	if err := checkID(id); err != nil {
		return nil, err
	}
	row := r.db.Pool.QueryRow(ctx, `SELECT `+placeColumns+` FROM places WHERE id = $1`, id)
	p, err := scanPlace(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("place %s: %w", id, domain.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

// GetByCode returns every place registered under a compact code.
func (r *PlaceRepo) GetByCode(ctx context.Context, code string) ([]domain.Place, error) {
	return r.query(ctx, `
		SELECT `+placeColumns+` FROM places
		WHERE digipin = $1
		ORDER BY label
	`, code)
}

// ListByPrefix returns places inside the cell named by prefix.
func (r *PlaceRepo) ListByPrefix(ctx context.Context, prefix string, offset, limit int) ([]domain.Place, error) {
	return r.query(ctx, `
		SELECT `+placeColumns+` FROM places
		WHERE digipin LIKE $1::text || '%'
		ORDER BY digipin, label
		OFFSET $2 LIMIT $3
	`, prefix, offset, limit)
}

// CountByPrefix counts places inside the cell named by prefix.
func (r *PlaceRepo) CountByPrefix(ctx context.Context, prefix string) (int, error) {
	var n int
	err := r.db.Pool.QueryRow(ctx,
		`SELECT count(*) FROM places WHERE digipin LIKE $1::text || '%'`, prefix,
	).Scan(&n)
	return n, err
}

// ListInBounds returns places inside a bounding box, nearest to center first.
// Distance is ordered on the equirectangular projection, which ranks points
// like great-circle distance at the radii the box is built for.
func (r *PlaceRepo) ListInBounds(ctx context.Context, b domain.Bounds, center domain.GeoPoint, limit int) ([]domain.Place, error) {
	return r.query(ctx, `
		SELECT `+placeColumns+` FROM places
		WHERE lat BETWEEN $1 AND $2 AND lon BETWEEN $3 AND $4
		ORDER BY (lat - $5) * (lat - $5) + ((lon - $6) * $7) * ((lon - $6) * $7), id
		LIMIT $8
	`, b.MinLat, b.MaxLat, b.MinLon, b.MaxLon,
		center.Lat, center.Lon, math.Cos(center.Lat*math.Pi/180), limit)
}

// Delete removes a place.
func (r *PlaceRepo) Delete(ctx context.Context, id string) error {
	if err := checkID(id); err != nil {
		return err
	}
	tag, err := r.db.Pool.Exec(ctx, `DELETE FROM places WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("place %s: %w", id, domain.ErrNotFound)
	}
	return nil
}

func (r *PlaceRepo) query(ctx context.Context, sql string, args ...any) ([]domain.Place, error) {
	rows, err := r.db.Pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	places := []domain.Place{}
	for rows.Next() {
		p, err := scanPlace(rows)
		if err != nil {
			return nil, err
		}
		places = append(places, *p)
	}
	return places, rows.Err()
}

func scanPlace(row pgx.Row) (*domain.Place, error) {
	var (
		p    domain.Place
		code string
	)
	if err := row.Scan(&p.ID, &p.Label, &p.Location.Lat, &p.Location.Lon, &code, &p.CreatedAt); err != nil {
		return nil, err
	}
	c, err := digipin.Parse(code)
	if err != nil {
		return nil, fmt.Errorf("stored code %q: %w", code, err)
	}
	p.DIGIPIN = c.String()
	return &p, nil
}

// checkID rejects IDs that cannot name a row. Place IDs are UUIDs, so any
// other string is simply not found.
func checkID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return fmt.Errorf("place %s: %w", id, domain.ErrNotFound)
	}
	return nil
}

func compact(text string) (string, error) {
	c, err := digipin.Parse(text)
	if err != nil {
		return "", err
	}
	return c.Compact(), nil
}
