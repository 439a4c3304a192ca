package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jaminalder/tictactoe-timetravel/internal/app"
	"github.com/redis/go-redis/v9"
)

const gameKeyPrefix = "game:"

// GameRepository stores game sessions in redis as JSON under game:<id>.
type GameRepository struct {
	client *redis.Client
	ttl    time.Duration
}

// NewGameRepository returns a repository on client. A zero ttl keeps keys forever;
// otherwise every save refreshes the expiry.
func NewGameRepository(client *redis.Client, ttl time.Duration) *GameRepository {
	return &GameRepository{
		client: client,
		ttl:    ttl,
	}
}

var _ app.Store = (*GameRepository)(nil)

func (that *GameRepository) Save(ctx context.Context, gs *app.GameState) error {
	gameJSON, err := json.Marshal(gs)
	if err != nil {
		return fmt.Errorf("could not marshal game: %w", err)
	}

	if err = that.client.Set(ctx, gameKeyPrefix+gs.ID, gameJSON, that.ttl).Err(); err != nil {
		return fmt.Errorf("failed to set game: %w", err)
	}

	return nil
}

func (that *GameRepository) Load(ctx context.Context, id string) (*app.GameState, error) {
	response, err := that.client.Get(ctx, gameKeyPrefix+id).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, app.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get game %s: %w", id, err)
	}

	var gs app.GameState
	if err = json.Unmarshal(response, &gs); err != nil {
		return nil, fmt.Errorf("failed to unmarshal game %s: %w", id, err)
	}

	return &gs, nil
}

func (that *GameRepository) Delete(ctx context.Context, id string) error {
	n, err := that.client.Del(ctx, gameKeyPrefix+id).Result()
	if err != nil {
		return fmt.Errorf("failed to delete game %s: %w", id, err)
	}
	if n == 0 {
		return app.ErrNotFound
	}

	return nil
}
