package syncx

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"
)

// Event types appended by the API after successful mutations.
const (
	QuestionCreated = "QuestionCreated"
	QuestionDeleted = "QuestionDeleted"
	PaperCreated    = "PaperCreated"
	PaperDeleted    = "PaperDeleted"
)

type Event struct {
	Seq       int64  `json:"seq"`
	Type      string `json:"type"`
	Key       string `json:"key"`
	Actor     string `json:"actor"`
	DataJSON  string `json:"data"`
	CreatedAt int64  `json:"createdAt"`
}

type EventRepo struct{ db *sql.DB }

func NewEventRepo(db *sql.DB) *EventRepo { return &EventRepo{db: db} }

func (r *EventRepo) Append(ctx context.Context, e Event) error {
	if e.DataJSON == "" {
		e.DataJSON = "{}"
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO event_log (typ, key, actor, data, created_at)
		 VALUES ($1,$2,$3,$4,$5)`,
		e.Type, e.Key, e.Actor, e.DataJSON, time.Now().Unix())
	return err
}

// Record marshals data and appends it under typ/key.
func (r *EventRepo) Record(ctx context.Context, typ, key, actor string, data any) error {
	b, err := json.Marshal(data)
	if err != nil {
		return err
	}
	return r.Append(ctx, Event{Type: typ, Key: key, Actor: actor, DataJSON: string(b)})
}

// Since lists events with seq > after, oldest first.
func (r *EventRepo) Since(ctx context.Context, after int64, limit int) ([]Event, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := r.db.QueryContext(ctx,
		`SELECT seq, typ, key, actor, data, created_at FROM event_log WHERE seq > $1 ORDER BY seq LIMIT $2`,
		after, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []Event{}
	for rows.Next() {
		var e Event
		if err := rows.Scan(&e.Seq, &e.Type, &e.Key, &e.Actor, &e.DataJSON, &e.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
