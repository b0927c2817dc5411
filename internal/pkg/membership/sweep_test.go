package membership

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/FitBaseHQ/FitBase/app/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSweepMarksUnattendedMembersAbsent(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(day(2024, time.March, 5), Config{})
	env.addPlan(1, 10, 1, 49.90)
	attended := env.mustMember(10, 1, "Ana", day(2024, time.March, 1))
	missed := env.mustMember(10, 1, "Ben", day(2024, time.March, 1))

	sweepDay := day(2024, time.March, 5)
	_, err := env.svc.MarkAttendance(ctx, 10, attended.UUID, &sweepDay, models.AttendanceStatusPresent)
	require.NoError(t, err)

	result, err := env.svc.SweepDay(ctx, sweepDay)
	require.NoError(t, err)

	assert.Equal(t, 2, result.Candidates)
	assert.Equal(t, 1, result.MarkedAbsent)
	assert.Equal(t, 1, result.AlreadyMarked)
	assert.Equal(t, 0, result.Failed)

	rec, _ := env.repo.GetAttendanceForDay(missed.ID, sweepDay)
	require.NotNil(t, rec)
	assert.Equal(t, models.AttendanceStatusAbsent, rec.Status)

	kept, _ := env.repo.GetAttendanceForDay(attended.ID, sweepDay)
	assert.Equal(t, models.AttendanceStatusPresent, kept.Status)
}

func TestSweepFinalizesUnmarkedRecords(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(day(2024, time.March, 5), Config{})
	env.addPlan(1, 10, 1, 49.90)
	member := env.mustMember(10, 1, "Dana", day(2024, time.March, 1))

	sweepDay := day(2024, time.March, 5)
	_, err := env.svc.MarkAttendance(ctx, 10, member.UUID, &sweepDay, models.AttendanceStatusUnmarked)
	require.NoError(t, err)

	result, err := env.svc.SweepDay(ctx, sweepDay)
	require.NoError(t, err)
	assert.Equal(t, 1, result.MarkedAbsent)

	rec, _ := env.repo.GetAttendanceForDay(member.ID, sweepDay)
	assert.Equal(t, models.AttendanceStatusAbsent, rec.Status)
	assert.Equal(t, 1, env.repo.countAttendance(member.ID), "finalizing must not duplicate the record")
}

func TestSweepSkipsFrozenAndInactiveMembers(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(day(2024, time.March, 5), Config{})
	env.addPlan(1, 10, 1, 49.90)
	frozen := env.mustMember(10, 1, "Fay", day(2024, time.March, 1))
	inactive := env.mustMember(10, 1, "Ira", day(2024, time.March, 1))

	_, err := env.svc.Freeze(ctx, 10, frozen.UUID, "travel")
	require.NoError(t, err)
	_, err = env.svc.SetMemberStatus(ctx, 10, inactive.UUID, models.MEMBER_STATUS_INACTIVE)
	require.NoError(t, err)

	sweepDay := day(2024, time.March, 5)
	result, err := env.svc.SweepDay(ctx, sweepDay)
	require.NoError(t, err)
	assert.Equal(t, 0, result.Candidates)

	rec, _ := env.repo.GetAttendanceForDay(frozen.ID, sweepDay)
	assert.Nil(t, rec, "frozen members never get swept records")
	rec, _ = env.repo.GetAttendanceForDay(inactive.ID, sweepDay)
	assert.Nil(t, rec)
}

func TestSweepIsIdempotent(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(day(2024, time.March, 5), Config{})
	env.addPlan(1, 10, 1, 49.90)
	attended := env.mustMember(10, 1, "Ana", day(2024, time.March, 1))
	env.mustMember(10, 1, "Ben", day(2024, time.March, 1))

	sweepDay := day(2024, time.March, 5)
	_, err := env.svc.MarkAttendance(ctx, 10, attended.UUID, &sweepDay, models.AttendanceStatusPresent)
	require.NoError(t, err)

	_, err = env.svc.SweepDay(ctx, sweepDay)
	require.NoError(t, err)
	second, err := env.svc.SweepDay(ctx, sweepDay)
	require.NoError(t, err)

	assert.Equal(t, 0, second.MarkedAbsent)
	assert.Equal(t, 2, second.AlreadyMarked)

	rec, _ := env.repo.GetAttendanceForDay(attended.ID, sweepDay)
	assert.Equal(t, models.AttendanceStatusPresent, rec.Status, "rerun must not overwrite present")
	assert.Equal(t, 1, env.repo.countAttendance(attended.ID))
}

func TestSweepContinuesPastMemberFailures(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(day(2024, time.March, 5), Config{})
	env.addPlan(1, 10, 1, 49.90)
	broken := env.mustMember(10, 1, "Bad", day(2024, time.March, 1))
	healthy := env.mustMember(10, 1, "Ok", day(2024, time.March, 1))

	env.repo.attendanceErr[broken.ID] = errors.New("row lock timeout")

	sweepDay := day(2024, time.March, 5)
	result, err := env.svc.SweepDay(ctx, sweepDay)
	require.NoError(t, err)

	assert.Equal(t, 1, result.Failed)
	assert.Equal(t, 1, result.MarkedAbsent)

	rec, _ := env.repo.GetAttendanceForDay(healthy.ID, sweepDay)
	require.NotNil(t, rec, "one member's failure must not abort the sweep")
	assert.Equal(t, models.AttendanceStatusAbsent, rec.Status)
}
