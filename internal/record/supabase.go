package record

import (
	"context"
	"errors"
	"fmt"

	"github.com/supabase-community/postgrest-go"
	supa "github.com/supabase-community/supabase-go"
)

const gamesTable = "games"

// SupabaseStore writes records to the games table of a Supabase project.
type SupabaseStore struct {
	client *supa.Client
}

func NewSupabaseStore(url, key string) (*SupabaseStore, error) {
	client, err := supa.NewClient(url, key, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to Supabase: %w", err)
	}
	return &SupabaseStore{client: client}, nil
}

func (s *SupabaseStore) Save(_ context.Context, rec Record) error {
	var inserted []Record
	_, err := s.client.From(gamesTable).Insert(rec, false, "", "", "").ExecuteTo(&inserted)
	if err != nil {
		return fmt.Errorf("failed to insert game: %w", err)
	}
	if len(inserted) == 0 {
		return errors.New("game was not created in the database, but no error was returned")
	}
	return nil
}

func (s *SupabaseStore) Recent(_ context.Context, limit int) ([]Record, error) {
	var records []Record
	_, err := s.client.From(gamesTable).
		Select("*", "exact", false).
		Order("created_at", &postgrest.OrderOpts{Ascending: false}).
		Limit(limit, "").
		ExecuteTo(&records)
	if err != nil {
		return nil, fmt.Errorf("failed to list games: %w", err)
	}
	return records, nil
}
