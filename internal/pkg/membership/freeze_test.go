package membership

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFreezeSnapshotsBillDate(t *testing.T) {
	env := newTestEnv(day(2024, time.February, 10), Config{})
	env.addPlan(1, 10, 1, 49.90)
	member := env.mustMember(10, 1, "Dana", day(2024, time.January, 31))

	frozen, err := env.svc.Freeze(context.Background(), 10, member.UUID, "travel")
	require.NoError(t, err)

	assert.True(t, frozen.IsFrozen)
	assert.Equal(t, "travel", frozen.FreezeReason)
	require.NotNil(t, frozen.FreezeStartDate)
	assert.True(t, frozen.FreezeStartDate.Equal(day(2024, time.February, 10)))
	require.NotNil(t, frozen.OriginalNextBillDate)
	assert.True(t, frozen.OriginalNextBillDate.Equal(day(2024, time.February, 29)))
	// Frozen members stay Active; freeze and status are orthogonal.
	assert.True(t, frozen.IsActive())
}

func TestFreezeWhenAlreadyFrozen(t *testing.T) {
	env := newTestEnv(day(2024, time.February, 10), Config{})
	env.addPlan(1, 10, 1, 49.90)
	member := env.mustMember(10, 1, "Dana", day(2024, time.January, 31))

	_, err := env.svc.Freeze(context.Background(), 10, member.UUID, "travel")
	require.NoError(t, err)

	_, err = env.svc.Freeze(context.Background(), 10, member.UUID, "again")
	assert.ErrorIs(t, err, ErrAlreadyFrozen)
}

func TestUnfreezeAddsFrozenDaysBack(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(day(2024, time.February, 10), Config{})
	env.addPlan(1, 10, 1, 49.90)
	member := env.mustMember(10, 1, "Dana", day(2024, time.January, 31))

	_, err := env.svc.Freeze(ctx, 10, member.UUID, "travel")
	require.NoError(t, err)

	env.now = day(2024, time.February, 15)
	result, err := env.svc.Unfreeze(ctx, 10, member.UUID)
	require.NoError(t, err)

	assert.Equal(t, 5, result.FrozenDays)
	assert.False(t, result.WasSameDayUnfreeze)
	assert.True(t, result.NewExpirationDate.Equal(day(2024, time.March, 5)))
	assert.True(t, result.Member.NextBillDate.Equal(day(2024, time.March, 5)))

	assert.False(t, result.Member.IsFrozen)
	assert.Nil(t, result.Member.FreezeStartDate)
	assert.Nil(t, result.Member.OriginalNextBillDate)
	assert.Equal(t, "", result.Member.FreezeReason)
	require.NotNil(t, result.Member.LastUnfreezeDate)
	assert.True(t, result.Member.LastUnfreezeDate.Equal(day(2024, time.February, 15)))
}

func TestUnfreezePartialDayRoundsUp(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(time.Date(2024, time.February, 10, 9, 0, 0, 0, time.UTC), Config{})
	env.addPlan(1, 10, 1, 49.90)
	member := env.mustMember(10, 1, "Dana", day(2024, time.January, 31))

	_, err := env.svc.Freeze(ctx, 10, member.UUID, "travel")
	require.NoError(t, err)

	// 5 days and 6 hours later: a started day counts whole.
	env.now = time.Date(2024, time.February, 15, 15, 0, 0, 0, time.UTC)
	result, err := env.svc.Unfreeze(ctx, 10, member.UUID)
	require.NoError(t, err)
	assert.Equal(t, 6, result.FrozenDays)
	assert.True(t, result.NewExpirationDate.Equal(day(2024, time.March, 6)))
}

func TestSameDayUnfreezeIsFree(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(time.Date(2024, time.February, 10, 8, 0, 0, 0, time.UTC), Config{})
	env.addPlan(1, 10, 1, 49.90)
	member := env.mustMember(10, 1, "Dana", day(2024, time.January, 31))

	_, err := env.svc.Freeze(ctx, 10, member.UUID, "mixup")
	require.NoError(t, err)

	env.now = time.Date(2024, time.February, 10, 21, 30, 0, 0, time.UTC)
	result, err := env.svc.Unfreeze(ctx, 10, member.UUID)
	require.NoError(t, err)

	assert.True(t, result.WasSameDayUnfreeze)
	assert.Equal(t, 0, result.FrozenDays)
	assert.True(t, result.NewExpirationDate.Equal(day(2024, time.February, 29)), "same-day unfreeze must not move the bill date")
}

func TestUnfreezeWhenNotFrozen(t *testing.T) {
	env := newTestEnv(day(2024, time.February, 10), Config{})
	env.addPlan(1, 10, 1, 49.90)
	member := env.mustMember(10, 1, "Dana", day(2024, time.January, 31))

	_, err := env.svc.Unfreeze(context.Background(), 10, member.UUID)
	assert.ErrorIs(t, err, ErrNotFrozen)
}

func TestLastUnfreezeDateSurvivesNextFreeze(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(day(2024, time.February, 10), Config{})
	env.addPlan(1, 10, 1, 49.90)
	member := env.mustMember(10, 1, "Dana", day(2024, time.January, 31))

	_, err := env.svc.Freeze(ctx, 10, member.UUID, "one")
	require.NoError(t, err)
	env.now = day(2024, time.February, 12)
	_, err = env.svc.Unfreeze(ctx, 10, member.UUID)
	require.NoError(t, err)

	env.now = day(2024, time.March, 1)
	frozen, err := env.svc.Freeze(ctx, 10, member.UUID, "two")
	require.NoError(t, err)

	require.NotNil(t, frozen.LastUnfreezeDate)
	assert.True(t, frozen.LastUnfreezeDate.Equal(day(2024, time.February, 12)), "unfreeze history survives the next freeze")
}
