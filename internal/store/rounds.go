package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"reservation-coordinator/internal/game"
)

// RecordRound writes a round and its per-agent commissions in one transaction.
// Recording the same round twice is a no-op.
func (s *Store) RecordRound(ctx context.Context, r game.RoundResult) error {
	winners := r.Winners
	if winners == nil {
		winners = []int64{}
	}
	return pgx.BeginFunc(ctx, s.Pool, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, `
			INSERT INTO rounds (id, started_at, ended_at, reason, winners, commits)
			VALUES ($1, $2, $3, $4, $5, $6)
			ON CONFLICT (id) DO NOTHING`,
			r.ID, r.StartedAt, r.EndedAt, string(r.Reason), winners, r.Commits)
		if err != nil {
			return fmt.Errorf("insert round: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return nil
		}
		for agentID, c := range r.Commissions {
			if _, err := tx.Exec(ctx, `
				INSERT INTO round_commissions (round_id, agent_id, commission)
				VALUES ($1, $2, $3::numeric)`,
				r.ID, agentID, c.String()); err != nil {
				return fmt.Errorf("insert commission: %w", err)
			}
		}
		return nil
	})
}

// ListRounds returns archived rounds, newest first.
func (s *Store) ListRounds(ctx context.Context, limit, offset int) ([]game.RoundResult, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.Pool.Query(ctx, `
		SELECT id, started_at, ended_at, reason, winners, commits
		FROM rounds
		ORDER BY ended_at DESC, id DESC
		LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, err
	}
	out, err := pgx.CollectRows(rows, scanRound)
	if err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return out, nil
	}
	ids := make([]string, 0, len(out))
	byID := make(map[string]*game.RoundResult, len(out))
	for i := range out {
		ids = append(ids, out[i].ID)
		byID[out[i].ID] = &out[i]
	}
	if err := s.loadCommissions(ctx, ids, byID); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Store) GetRound(ctx context.Context, id string) (game.RoundResult, error) {
	rows, err := s.Pool.Query(ctx, `
		SELECT id, started_at, ended_at, reason, winners, commits
		FROM rounds WHERE id = $1`, id)
	if err != nil {
		return game.RoundResult{}, err
	}
	r, err := pgx.CollectExactlyOneRow(rows, scanRound)
	if errors.Is(err, pgx.ErrNoRows) {
		return game.RoundResult{}, ErrNotFound
	}
	if err != nil {
		return game.RoundResult{}, err
	}
	if err := s.loadCommissions(ctx, []string{id}, map[string]*game.RoundResult{id: &r}); err != nil {
		return game.RoundResult{}, err
	}
	return r, nil
}

func scanRound(row pgx.CollectableRow) (game.RoundResult, error) {
	var (
		r      game.RoundResult
		reason string
	)
	if err := row.Scan(&r.ID, &r.StartedAt, &r.EndedAt, &reason, &r.Winners, &r.Commits); err != nil {
		return game.RoundResult{}, err
	}
	r.Reason = game.EndReason(reason)
	r.Commissions = map[int64]decimal.Decimal{}
	return r, nil
}

func (s *Store) loadCommissions(ctx context.Context, ids []string, byID map[string]*game.RoundResult) error {
	rows, err := s.Pool.Query(ctx, `
		SELECT round_id, agent_id, commission::text
		FROM round_commissions
		WHERE round_id = ANY($1)`, ids)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var (
			roundID string
			agentID int64
			raw     string
		)
		if err := rows.Scan(&roundID, &agentID, &raw); err != nil {
			return err
		}
		c, err := decimal.NewFromString(raw)
		if err != nil {
			return fmt.Errorf("commission %q: %w", raw, err)
		}
		if r := byID[roundID]; r != nil {
			r.Commissions[agentID] = c
		}
	}
	return rows.Err()
}
