package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/cory-johannsen/minidnd/internal/game/character"
	"github.com/cory-johannsen/minidnd/internal/storage"
)

const actorsTable = "actors"

// RosterRepository keeps each actor as a JSONB record in the actors table,
// with the set of saved roster names in the rosters table.
type RosterRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

// NewRosterRepository creates a RosterRepository backed by the given pool.
//
// Precondition: db must be a valid, open connection pool with the schema migrated.
func NewRosterRepository(db *pgxpool.Pool, logger *zap.Logger) *RosterRepository {
	return &RosterRepository{db: db, logger: logger}
}

// Load implements storage.RosterStore.
//
// Postcondition: Returns storage.ErrRosterNotFound for a roster that was never saved,
// and storage.ErrMalformed when any actor record is null or undecodable.
func (r *RosterRepository) Load(ctx context.Context, name string) (character.Roster, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM rosters WHERE name = $1)`, name).Scan(&exists)
	if err != nil {
		return nil, storage.Wrap("load", actorsTable, fmt.Errorf("looking up roster %q: %w", name, err))
	}
	if !exists {
		return nil, storage.Wrap("load", actorsTable, fmt.Errorf("%w: %q", storage.ErrRosterNotFound, name))
	}

	rows, err := r.db.Query(ctx, `SELECT name, record FROM actors WHERE roster = $1 ORDER BY name`, name)
	if err != nil {
		return nil, storage.Wrap("load", actorsTable, fmt.Errorf("querying actors: %w", err))
	}
	defer rows.Close()

	roster := make(character.Roster)
	for rows.Next() {
		var (
			actorName string
			record    []byte
		)
		if err := rows.Scan(&actorName, &record); err != nil {
			return nil, storage.Wrap("load", actorsTable, fmt.Errorf("scanning actor: %w", err))
		}
		var actor *character.Actor
		if err := json.Unmarshal(record, &actor); err != nil {
			return nil, storage.Wrap("load", actorsTable, fmt.Errorf("%w: decoding actor %q: %w", storage.ErrMalformed, actorName, err))
		}
		if actor == nil {
			return nil, storage.Wrap("load", actorsTable, fmt.Errorf("%w: actor %q is null", storage.ErrMalformed, actorName))
		}
		roster[actorName] = actor
	}
	if err := rows.Err(); err != nil {
		return nil, storage.Wrap("load", actorsTable, fmt.Errorf("iterating actors: %w", err))
	}
	r.logger.Info("roster loaded", zap.String("roster", name), zap.Int("actors", len(roster)))
	return roster, nil
}

// Save implements storage.RosterStore.
//
// Postcondition: The stored roster is replaced in a single transaction; on error
// the previous roster is unchanged.
func (r *RosterRepository) Save(ctx context.Context, name string, roster character.Roster) error {
	records := make(map[string][]byte, len(roster))
	for actorName, actor := range roster {
		if actor == nil {
			return storage.Wrap("save", actorsTable, fmt.Errorf("actor %q is nil", actorName))
		}
		data, err := json.Marshal(actor)
		if err != nil {
			return storage.Wrap("save", actorsTable, fmt.Errorf("encoding actor %q: %w", actorName, err))
		}
		records[actorName] = data
	}

	err := pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `
			INSERT INTO rosters (name) VALUES ($1)
			ON CONFLICT (name) DO UPDATE SET saved_at = NOW()`, name); err != nil {
			return fmt.Errorf("upserting roster: %w", err)
		}
		if _, err := tx.Exec(ctx, `DELETE FROM actors WHERE roster = $1`, name); err != nil {
			return fmt.Errorf("clearing actors: %w", err)
		}
		batch := &pgx.Batch{}
		for actorName, record := range records {
			batch.Queue(`INSERT INTO actors (roster, name, record) VALUES ($1, $2, $3)`, name, actorName, record)
		}
		if err := tx.SendBatch(ctx, batch).Close(); err != nil {
			return fmt.Errorf("inserting actors: %w", err)
		}
		return nil
	})
	if err != nil {
		return storage.Wrap("save", actorsTable, err)
	}
	r.logger.Info("roster saved", zap.String("roster", name), zap.Int("actors", len(roster)))
	return nil
}

// Delete implements storage.RosterDeleter. Actors go with the roster through
// the cascading foreign key.
//
// Postcondition: Returns storage.ErrRosterNotFound when nothing was saved under name.
func (r *RosterRepository) Delete(ctx context.Context, name string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM rosters WHERE name = $1`, name)
	if err != nil {
		return storage.Wrap("delete", actorsTable, err)
	}
	if tag.RowsAffected() == 0 {
		return storage.Wrap("delete", actorsTable, fmt.Errorf("%w: %q", storage.ErrRosterNotFound, name))
	}
	r.logger.Info("roster deleted", zap.String("roster", name))
	return nil
}

// Names implements storage.RosterLister.
func (r *RosterRepository) Names(ctx context.Context) ([]string, error) {
	rows, err := r.db.Query(ctx, `SELECT name FROM rosters ORDER BY name`)
	if err != nil {
		return nil, storage.Wrap("list", "rosters", err)
	}
	names, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, storage.Wrap("list", "rosters", err)
	}
	return names, nil
}
