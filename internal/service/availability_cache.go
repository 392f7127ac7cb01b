package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go-appointment-booking/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// AvailabilityCache holds a doctor's ordered slot templates. It is a read-through
// snapshot only: the database stays authoritative and every committed mutation
// invalidates the doctor's entry.
//
// Each doctor has a generation counter bumped by Invalidate. Readers take the
// generation before loading from the database and pass it to Set, which drops the
// snapshot if an invalidation happened in between.
type AvailabilityCache interface {
	Get(ctx context.Context, doctorID uuid.UUID) ([]entity.TimeSlot, bool, error)
	Generation(ctx context.Context, doctorID uuid.UUID) (int64, error)
	Set(ctx context.Context, doctorID uuid.UUID, generation int64, slots []entity.TimeSlot) error
	Invalidate(ctx context.Context, doctorID uuid.UUID) error
}

type redisAvailabilityCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisAvailabilityCache(client *redis.Client, ttl time.Duration) AvailabilityCache {
	return &redisAvailabilityCache{client: client, ttl: ttl}
}

func availabilityKey(doctorID uuid.UUID) string {
	return fmt.Sprintf("availability:doctor:%s", doctorID.String())
}

func availabilityGenerationKey(doctorID uuid.UUID) string {
	return fmt.Sprintf("availability:doctor:%s:generation", doctorID.String())
}

func (c *redisAvailabilityCache) Get(ctx context.Context, doctorID uuid.UUID) ([]entity.TimeSlot, bool, error) {
	raw, err := c.client.Get(ctx, availabilityKey(doctorID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, err
	}

	var slots []entity.TimeSlot
	if err := json.Unmarshal(raw, &slots); err != nil {
		return nil, false, err
	}
	return slots, true, nil
}

// Generation returns the doctor's current generation, 0 if never invalidated
func (c *redisAvailabilityCache) Generation(ctx context.Context, doctorID uuid.UUID) (int64, error) {
	return parseGeneration(c.client.Get(ctx, availabilityGenerationKey(doctorID)))
}

func parseGeneration(cmd *redis.StringCmd) (int64, error) {
	current, err := cmd.Int64()
	if err != nil && !errors.Is(err, redis.Nil) {
		return 0, err
	}
	return current, nil
}

// Set stores the snapshot only while the generation still matches. A stale
// snapshot is dropped silently.
func (c *redisAvailabilityCache) Set(ctx context.Context, doctorID uuid.UUID, generationSeen int64, slots []entity.TimeSlot) error {
	if slots == nil {
		slots = []entity.TimeSlot{}
	}
	raw, err := json.Marshal(slots)
	if err != nil {
		return err
	}

	err = c.client.Watch(ctx, func(tx *redis.Tx) error {
		current, err := parseGeneration(tx.Get(ctx, availabilityGenerationKey(doctorID)))
		if err != nil {
			return err
		}
		if current != generationSeen {
			return nil
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, availabilityKey(doctorID), raw, c.ttl)
			return nil
		})
		return err
	}, availabilityGenerationKey(doctorID))

	if errors.Is(err, redis.TxFailedErr) {
		return nil
	}
	return err
}

func (c *redisAvailabilityCache) Invalidate(ctx context.Context, doctorID uuid.UUID) error {
	_, err := c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, availabilityGenerationKey(doctorID))
		pipe.Del(ctx, availabilityKey(doctorID))
		return nil
	})
	return err
}
