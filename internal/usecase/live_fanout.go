package usecase

import (
	"context"
	"fmt"

	"github.com/riskibarqy/diskichat-admin/internal/domain/banter"
	"github.com/riskibarqy/diskichat-admin/internal/domain/match"
)

// FanOutResult describes what happened to the live copy and banter room of a match.
type FanOutResult struct {
	Live        bool `json:"live"`
	RoomCreated bool `json:"room_created"`
	Retracted   bool `json:"retracted"`
}

// liveFanOut keeps live_matches and banter_rooms in step with a match lifecycle.
// A live match is copied and gets a room; anything else loses its live copy.
// Rooms are never deleted.
type liveFanOut struct {
	matches match.Repository
	live    match.LiveRepository
	banter  banter.Repository
}

// applyWritten fans out a match that was just upserted. The live copy is built
// from the stored document, because an upsert keeps fields the written record
// does not own (createdAt, isMatchOfTheDay).
func (f liveFanOut) applyWritten(ctx context.Context, written match.Match) (FanOutResult, error) {
	if !written.Status.IsLive() {
		return f.retract(ctx, written.ID)
	}

	stored, found, err := f.matches.GetByID(ctx, written.ID)
	if err != nil {
		return FanOutResult{}, fmt.Errorf("reload match id=%s: %w", written.ID, err)
	}
	if !found {
		stored = written
	}
	return f.apply(ctx, stored)
}

func (f liveFanOut) apply(ctx context.Context, m match.Match) (FanOutResult, error) {
	if !m.Status.IsLive() {
		return f.retract(ctx, m.ID)
	}

	if err := f.live.Upsert(ctx, m); err != nil {
		return FanOutResult{}, fmt.Errorf("upsert live match id=%s: %w", m.ID, err)
	}
	created, err := f.banter.Ensure(ctx, m.ID, m.UpdatedAt)
	if err != nil {
		return FanOutResult{Live: true}, fmt.Errorf("ensure banter room match=%s: %w", m.ID, err)
	}

	return FanOutResult{Live: true, RoomCreated: created}, nil
}

func (f liveFanOut) retract(ctx context.Context, matchID string) (FanOutResult, error) {
	exists, err := f.live.Exists(ctx, matchID)
	if err != nil {
		return FanOutResult{}, fmt.Errorf("check live match id=%s: %w", matchID, err)
	}
	if !exists {
		return FanOutResult{}, nil
	}
	if err := f.live.Delete(ctx, matchID); err != nil {
		return FanOutResult{}, fmt.Errorf("retract live match id=%s: %w", matchID, err)
	}

	return FanOutResult{Retracted: true}, nil
}
