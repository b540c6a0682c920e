package timesheet

import (
	"context"
	"testing"
	"time"

	"github.com/cmlabs-hris/hris-timesheet-go/internal/domain/calendar"
	"github.com/cmlabs-hris/hris-timesheet-go/internal/domain/contract"
	"github.com/cmlabs-hris/hris-timesheet-go/internal/domain/schedule"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSnapshotService(cal *memoryCalendar, schedules *memorySchedules, contracts *memoryContracts) *SnapshotService {
	return NewSnapshotService(NewDayTypeResolver(cal), schedules, contracts, memoryExemptions{contracts})
}

func TestSnapshotService_Defaults(t *testing.T) {
	svc := newSnapshotService(&memoryCalendar{}, standardWeek(), &memoryContracts{})

	snap, err := svc.Snapshot(context.Background(), employeeA, monday)
	require.NoError(t, err)

	assert.Equal(t, calendar.DayTypeOfficial, snap.DayType)
	assert.Nil(t, snap.ContractID)
	assertDecimal(t, "100.00", snap.WageRate)
	assert.True(t, snap.IsFullSalary)
	assert.False(t, snap.IsExempt)
	require.NotNil(t, snap.Schedule)
	assert.Equal(t, time.Monday, snap.Schedule.Weekday)
	assertDecimal(t, "1.00", snap.ScheduleMax())
}

func TestSnapshotService_Contract(t *testing.T) {
	expired := day(2024, time.February, 29)
	contracts := &memoryContracts{contracts: []contract.Contract{
		{
			ID: "old", EmployeeID: employeeA, Status: contract.StatusExpired,
			EffectiveDate: day(2023, time.March, 1), ExpirationDate: &expired,
			WageRate: decimal.NewFromInt(90), NetPercentage: contract.NetPercentageFull,
		},
		{
			ID: "probation", EmployeeID: employeeA, Status: contract.StatusActive,
			EffectiveDate: day(2024, time.January, 1),
			WageRate:      decimal.NewFromInt(85), NetPercentage: contract.NetPercentageReduced,
		},
		{
			ID: "permanent", EmployeeID: employeeA, Status: contract.StatusAboutToExpire,
			EffectiveDate: day(2024, time.March, 1),
			WageRate:      decimal.NewFromInt(100), NetPercentage: contract.NetPercentageFull,
		},
		{
			ID: "other", EmployeeID: "someone-else", Status: contract.StatusActive,
			EffectiveDate: day(2024, time.March, 2),
			WageRate:      decimal.NewFromInt(70), NetPercentage: contract.NetPercentageReduced,
		},
	}}
	svc := newSnapshotService(&memoryCalendar{}, standardWeek(), contracts)

	t.Run("latest effective contract wins", func(t *testing.T) {
		snap, err := svc.Snapshot(context.Background(), employeeA, monday)
		require.NoError(t, err)

		require.NotNil(t, snap.ContractID)
		assert.Equal(t, "permanent", *snap.ContractID)
		assertDecimal(t, "100.00", snap.WageRate)
		assert.True(t, snap.IsFullSalary)
	})

	t.Run("reduced net percentage is not full salary", func(t *testing.T) {
		snap, err := svc.Snapshot(context.Background(), employeeA, day(2024, time.February, 5))
		require.NoError(t, err)

		require.NotNil(t, snap.ContractID)
		assert.Equal(t, "probation", *snap.ContractID)
		assertDecimal(t, "85.00", snap.WageRate)
		assert.False(t, snap.IsFullSalary)
	})
}

func TestSnapshotService_Exemption(t *testing.T) {
	effective := day(2024, time.March, 5)
	contracts := &memoryContracts{exemptions: []contract.AttendanceExemption{
		{ID: "ex-1", EmployeeID: employeeA, EffectiveDate: &effective},
		{ID: "ex-2", EmployeeID: "always-exempt"},
	}}
	svc := newSnapshotService(&memoryCalendar{}, standardWeek(), contracts)
	ctx := context.Background()

	before, err := svc.Snapshot(ctx, employeeA, monday)
	require.NoError(t, err)
	assert.False(t, before.IsExempt)

	onDate, err := svc.Snapshot(ctx, employeeA, effective)
	require.NoError(t, err)
	assert.True(t, onDate.IsExempt)

	always, err := svc.Snapshot(ctx, "always-exempt", day(2000, time.January, 3))
	require.NoError(t, err)
	assert.True(t, always.IsExempt)
}

func TestSnapshotService_CompensatorySchedule(t *testing.T) {
	cal := &memoryCalendar{compensatory: []calendar.CompensatoryWorkday{
		{ID: "c-sun", Date: sunday, Session: schedule.SessionFullDay},
		{ID: "c-sat", Date: saturday, Session: schedule.SessionAfternoon},
	}}
	svc := newSnapshotService(cal, standardWeek(), &memoryContracts{})
	ctx := context.Background()

	t.Run("rest day borrows weekday shifts", func(t *testing.T) {
		snap, err := svc.Snapshot(ctx, employeeA, sunday)
		require.NoError(t, err)

		assert.Equal(t, calendar.DayTypeCompensatory, snap.DayType)
		require.NotNil(t, snap.Compensatory)
		require.NotNil(t, snap.Schedule)
		assert.True(t, snap.Schedule.MorningRequired())
		assert.True(t, snap.Schedule.AfternoonRequired())
		assert.Equal(t, 8, snap.Schedule.MorningStart.Hour())
		assert.Equal(t, 15, snap.Schedule.AllowedLateMinutes)
		assertDecimal(t, "1.00", snap.ScheduleMax())
		assert.True(t, snap.HasRequirement())
	})

	t.Run("session limits the required shifts", func(t *testing.T) {
		snap, err := svc.Snapshot(ctx, employeeA, saturday)
		require.NoError(t, err)

		require.NotNil(t, snap.Schedule)
		assert.False(t, snap.Schedule.MorningRequired())
		assert.True(t, snap.Schedule.AfternoonRequired())
		assert.Equal(t, 13, snap.Schedule.AfternoonStart.Hour())
		assertDecimal(t, "0.50", snap.ScheduleMax())
	})

	t.Run("no schedule at all", func(t *testing.T) {
		empty := newSnapshotService(cal, newMemorySchedules(), &memoryContracts{})

		snap, err := empty.Snapshot(ctx, employeeA, sunday)
		require.NoError(t, err)

		require.NotNil(t, snap.Schedule)
		assert.False(t, snap.Schedule.MorningRequired())
		assertDecimal(t, "1.00", snap.ScheduleMax())
	})
}

func TestSnapshot_Requirement(t *testing.T) {
	regular := regularSchedule(time.Monday)
	rest := restSchedule(time.Sunday)

	assert.True(t, snapshotOn(monday, &regular, calendar.DayTypeOfficial).HasRequirement())
	assert.False(t, snapshotOn(monday, &regular, calendar.DayTypeHoliday).HasRequirement())
	assert.False(t, snapshotOn(sunday, &rest, calendar.DayTypeOfficial).HasRequirement())
	assert.False(t, snapshotOn(sunday, nil, calendar.DayTypeOfficial).HasRequirement())
	assertDecimal(t, "1.00", snapshotOn(sunday, nil, calendar.DayTypeOfficial).ScheduleMax())
}
