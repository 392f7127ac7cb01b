package service

import (
	"context"
	"testing"
	"time"

	"go-appointment-booking/internal/domain/entity"
	"go-appointment-booking/pkg/jwt"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return mr, client
}

func TestRedisAvailabilityCache(t *testing.T) {
	mr, client := newRedis(t)
	cache := NewRedisAvailabilityCache(client, time.Minute)
	ctx := context.Background()
	doctorID := uuid.New()

	_, found, err := cache.Get(ctx, doctorID)
	require.NoError(t, err)
	assert.False(t, found)

	slots := []entity.TimeSlot{
		{ID: uuid.New(), DoctorID: doctorID, DayOfWeek: 1, StartTime: "09:00", EndTime: "09:30", IsAvailable: true},
	}
	require.NoError(t, cache.Set(ctx, doctorID, 0, slots))
	assert.Equal(t, time.Minute, mr.TTL("availability:doctor:"+doctorID.String()))

	cached, found, err := cache.Get(ctx, doctorID)
	require.NoError(t, err)
	require.True(t, found)
	require.Len(t, cached, 1)
	assert.Equal(t, slots[0].ID, cached[0].ID)
	assert.Equal(t, "09:00", cached[0].StartTime)

	require.NoError(t, cache.Set(ctx, doctorID, 0, nil))
	empty, found, err := cache.Get(ctx, doctorID)
	require.NoError(t, err)
	assert.True(t, found, "an empty template is still a cached answer")
	assert.Empty(t, empty)

	require.NoError(t, cache.Invalidate(ctx, doctorID))
	_, found, err = cache.Get(ctx, doctorID)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestRedisAvailabilityCache_Expires(t *testing.T) {
	mr, client := newRedis(t)
	cache := NewRedisAvailabilityCache(client, time.Minute)
	ctx := context.Background()
	doctorID := uuid.New()

	require.NoError(t, cache.Set(ctx, doctorID, 0, []entity.TimeSlot{{ID: uuid.New()}}))
	mr.FastForward(2 * time.Minute)

	_, found, err := cache.Get(ctx, doctorID)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestRedisAvailabilityCache_DropsSnapshotFromOlderGeneration(t *testing.T) {
	_, client := newRedis(t)
	cache := NewRedisAvailabilityCache(client, time.Minute)
	ctx := context.Background()
	doctorID := uuid.New()

	seen, err := cache.Generation(ctx, doctorID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), seen)

	require.NoError(t, cache.Invalidate(ctx, doctorID))

	stale := []entity.TimeSlot{{ID: uuid.New(), DoctorID: doctorID, IsAvailable: true}}
	require.NoError(t, cache.Set(ctx, doctorID, seen, stale))
	_, found, err := cache.Get(ctx, doctorID)
	require.NoError(t, err)
	assert.False(t, found)

	current, err := cache.Generation(ctx, doctorID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), current)

	require.NoError(t, cache.Set(ctx, doctorID, current, stale))
	_, found, err = cache.Get(ctx, doctorID)
	require.NoError(t, err)
	assert.True(t, found)
}

func TestRedisTokenStore(t *testing.T) {
	mr, client := newRedis(t)
	store := NewRedisTokenStore(client)
	ctx := context.Background()
	userID := uuid.New()

	require.NoError(t, store.Register(ctx, jwt.AccessToken, userID, "t1", time.Minute))
	assert.True(t, mr.Exists("access_token:"+userID.String()+":t1"))

	active, err := store.IsActive(ctx, jwt.AccessToken, userID, "t1")
	require.NoError(t, err)
	assert.True(t, active)

	active, err = store.IsActive(ctx, jwt.RefreshToken, userID, "t1")
	require.NoError(t, err)
	assert.False(t, active, "token types do not share keys")

	require.NoError(t, store.Revoke(ctx, jwt.AccessToken, userID, "t1"))
	active, err = store.IsActive(ctx, jwt.AccessToken, userID, "t1")
	require.NoError(t, err)
	assert.False(t, active)
}

func TestDoctorDirectory(t *testing.T) {
	directory := NewDoctorDirectory(time.Minute)

	_, found := directory.Get()
	assert.False(t, found)

	doctors := []entity.Doctor{{ID: uuid.New(), Specialization: "Cardiology"}}
	directory.Set(doctors)

	cached, found := directory.Get()
	require.True(t, found)
	assert.Equal(t, doctors, cached)

	directory.Invalidate()
	_, found = directory.Get()
	assert.False(t, found)
}
