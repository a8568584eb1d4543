// Package record keeps the games that ended in a guess.
package record

import (
	"context"
	"time"

	"github.com/google/uuid"

	"GO-icg/internal/game"
)

// Record is one finished game. Field names match the games table.
type Record struct {
	ID        string      `json:"id"`
	Region    string      `json:"region"`
	Guess     string      `json:"guess"`
	Questions int         `json:"questions"`
	History   []game.Turn `json:"history"`
	CreatedAt time.Time   `json:"created_at"`
}

type Store interface {
	Save(ctx context.Context, rec Record) error
	Recent(ctx context.Context, limit int) ([]Record, error)
}

// Recorder adapts a Store to the game machine.
type Recorder struct {
	store  Store
	region string
	now    func() time.Time
	newID  func() string
}

func NewRecorder(store Store, region string) *Recorder {
	if region == "" {
		region = game.DefaultRegion
	}
	return &Recorder{
		store:  store,
		region: region,
		now:    time.Now,
		newID:  uuid.NewString,
	}
}

func (r *Recorder) RecordGuess(ctx context.Context, s game.Session) error {
	history := make([]game.Turn, len(s.History))
	copy(history, s.History)
	return r.store.Save(ctx, Record{
		ID:        r.newID(),
		Region:    r.region,
		Guess:     s.Guess,
		Questions: len(history),
		History:   history,
		CreatedAt: r.now().UTC(),
	})
}

func (r *Recorder) Recent(ctx context.Context, limit int) ([]Record, error) {
	return r.store.Recent(ctx, limit)
}
