package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/evento-labs/server/internal/domain/events"
)

type EventRepository struct {
	pool *pgxpool.Pool
	tx   pgx.Tx
}

func (r *EventRepository) q() querier {
	if r.tx != nil {
		return r.tx
	}
	return r.pool
}

// WithTx runs fn against a transaction-scoped repository. Nested calls reuse
// the open transaction.
func (r *EventRepository) WithTx(ctx context.Context, fn func(context.Context, events.Repository) error) error {
	if r.tx != nil {
		return fn(ctx, r)
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}

	txRepo := &EventRepository{pool: r.pool, tx: tx}
	if err := fn(ctx, txRepo); err != nil {
		_ = tx.Rollback(ctx)
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

func (r *EventRepository) Create(ctx context.Context, params events.CreateParams) (*events.Event, error) {
	const query = `
INSERT INTO events (id, name, event_date, location, max_participants)
VALUES ($1, $2, $3, $4, $5)`

	if _, err := r.q().Exec(ctx, query, params.ID, params.Name, params.Date, params.Location, params.MaxParticipants); err != nil {
		return nil, fmt.Errorf("create event: %w", err)
	}
	return r.GetByID(ctx, params.ID)
}

func (r *EventRepository) GetByID(ctx context.Context, id string) (*events.Event, error) {
	const query = `
SELECT id, name, event_date, location, max_participants, created_at, updated_at
FROM events
WHERE id = $1`

	return r.getEvent(ctx, query, id)
}

// GetForUpdate locks the event row for the remainder of the surrounding
// transaction. Two concurrent registrations on the last open slot serialize
// here, which is what keeps the capacity invariant intact.
func (r *EventRepository) GetForUpdate(ctx context.Context, id string) (*events.Event, error) {
	const query = `
SELECT id, name, event_date, location, max_participants, created_at, updated_at
FROM events
WHERE id = $1
FOR UPDATE`

	return r.getEvent(ctx, query, id)
}

func (r *EventRepository) getEvent(ctx context.Context, query, id string) (*events.Event, error) {
	var event events.Event
	err := r.q().QueryRow(ctx, query, id).Scan(
		&event.ID, &event.Name, &event.Date, &event.Location,
		&event.MaxParticipants, &event.CreatedAt, &event.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, events.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}

	participants, err := r.loadParticipants(ctx, event.ID)
	if err != nil {
		return nil, err
	}
	event.Participants = participants
	return &event, nil
}

func (r *EventRepository) List(ctx context.Context) ([]events.Event, error) {
	const query = `
SELECT id, name, event_date, location, max_participants, created_at, updated_at
FROM events
ORDER BY event_date, id`

	rows, err := r.q().Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	defer rows.Close()

	var list []events.Event
	for rows.Next() {
		var event events.Event
		if err := rows.Scan(
			&event.ID, &event.Name, &event.Date, &event.Location,
			&event.MaxParticipants, &event.CreatedAt, &event.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		list = append(list, event)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range list {
		participants, err := r.loadParticipants(ctx, list[i].ID)
		if err != nil {
			return nil, err
		}
		list[i].Participants = participants
	}
	return list, nil
}

func (r *EventRepository) Update(ctx context.Context, id string, params events.UpdateParams) (*events.Event, error) {
	const query = `
UPDATE events
SET name = $2, event_date = $3, location = $4, max_participants = $5, updated_at = now()
WHERE id = $1`

	tag, err := r.q().Exec(ctx, query, id, params.Name, params.Date, params.Location, params.MaxParticipants)
	if err != nil {
		return nil, fmt.Errorf("update event: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return nil, events.ErrNotFound
	}
	return r.GetByID(ctx, id)
}

func (r *EventRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM events WHERE id = $1`

	tag, err := r.q().Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete event: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return events.ErrNotFound
	}
	return nil
}

func (r *EventRepository) AddParticipant(ctx context.Context, eventID, userID string) error {
	const query = `
INSERT INTO event_participants (event_id, user_id)
VALUES ($1, $2)
ON CONFLICT (event_id, user_id) DO NOTHING`

	if _, err := r.q().Exec(ctx, query, eventID, userID); err != nil {
		return fmt.Errorf("add participant: %w", err)
	}
	return nil
}

func (r *EventRepository) RemoveParticipant(ctx context.Context, eventID, userID string) error {
	const query = `DELETE FROM event_participants WHERE event_id = $1 AND user_id = $2`

	tag, err := r.q().Exec(ctx, query, eventID, userID)
	if err != nil {
		return fmt.Errorf("remove participant: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return events.ErrNotRegistered
	}
	return nil
}

func (r *EventRepository) loadParticipants(ctx context.Context, eventID string) ([]events.Participant, error) {
	const query = `
SELECT u.id, u.username
FROM event_participants ep
JOIN users u ON u.id = ep.user_id
WHERE ep.event_id = $1
ORDER BY ep.registered_at, u.id`

	rows, err := r.q().Query(ctx, query, eventID)
	if err != nil {
		return nil, fmt.Errorf("load participants: %w", err)
	}
	defer rows.Close()

	participants := make([]events.Participant, 0)
	for rows.Next() {
		var p events.Participant
		if err := rows.Scan(&p.ID, &p.Username); err != nil {
			return nil, fmt.Errorf("scan participant: %w", err)
		}
		participants = append(participants, p)
	}
	return participants, rows.Err()
}
