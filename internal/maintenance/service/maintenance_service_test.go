package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/mgeorge46/entebbe/internal/maintenance/entity"
	"github.com/mgeorge46/entebbe/internal/maintenance/repository"
	"github.com/mgeorge46/entebbe/internal/maintenance/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decPtr(v int64) *decimal.Decimal {
	d := decimal.NewFromInt(v)
	return &d
}

func TestNewBatchIDFormat(t *testing.T) {
	at := time.Date(2026, 8, 28, 14, 30, 5, 0, time.UTC)
	id := NewBatchID(at)

	parts := strings.Split(id, "-")
	require.Len(t, parts, 3)
	assert.Equal(t, "MAINT", parts[0])
	assert.Equal(t, "20260828143005", parts[1])
	assert.Len(t, parts[2], 6)
	assert.Equal(t, strings.ToUpper(parts[2]), parts[2])
}

func TestScheduleBatchSharesBatchID(t *testing.T) {
	svc, db := newTestServices(t)
	ctx := context.Background()

	aircraft := testutil.SeedAircraft(t, db, "5X-EGH", "5X-EGH-001")
	main := testutil.SeedComponent(t, db, 0, aircraft.ID, "Left Engine", "SN-ENG-10", 500)
	sub := testutil.SeedComponent(t, db, 1, main.ID, "Fuel Pump", "SN-PMP-10", 300)

	records, err := svc.Maintenance.ScheduleBatch(ctx, "tester", &ScheduleBatchRequest{
		Items: []ScheduleItem{
			{ComponentType: entity.ComponentTypeMain, ComponentID: main.ID},
			{ComponentType: entity.ComponentTypeSub, ComponentID: sub.ID},
		},
		MainTypeSchedule: entity.ScheduleTypeMaintenance,
		MaintenanceType:  entity.MaintenanceClassB,
		HoursToAdd:       decimal.NewFromInt(120),
		StartDate:        time.Now(),
		EndDate:          time.Now().AddDate(0, 0, 5),
	})
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, records[0].BatchID, records[1].BatchID)
	assert.Equal(t, entity.ScheduleSourceBatch, records[0].Source)
	assert.Equal(t, entity.RecordStatusScheduled, records[0].MaintenanceStatus)

	// Snapshot of the component's hours at scheduling time.
	assert.True(t, records[0].MaintenanceHours.Equal(decimal.NewFromInt(500)))

	// Maintenance-type schedules flip the component's serviceability.
	var c entity.Component
	require.NoError(t, db.First(&c, "id = ?", main.ID).Error)
	assert.Equal(t, entity.MaintStatusMaintenance, c.MaintenanceStatus)
}

func TestScheduleRejectsOpenDuplicate(t *testing.T) {
	svc, db := newTestServices(t)
	ctx := context.Background()

	aircraft := testutil.SeedAircraft(t, db, "5X-EGI", "5X-EGI-001")
	main := testutil.SeedComponent(t, db, 0, aircraft.ID, "APU", "SN-APU-10", 400)

	req := func() *ScheduleBatchRequest {
		return &ScheduleBatchRequest{
			Items:            []ScheduleItem{{ComponentType: entity.ComponentTypeMain, ComponentID: main.ID}},
			MainTypeSchedule: entity.ScheduleTypeOperational,
			MaintenanceType:  entity.MaintenanceClassA,
			StartDate:        time.Now(),
			EndDate:          time.Now().AddDate(0, 0, 3),
		}
	}

	_, err := svc.Maintenance.ScheduleBatch(ctx, "tester", req())
	require.NoError(t, err)

	_, err = svc.Maintenance.ScheduleBatch(ctx, "tester", req())
	assert.ErrorIs(t, err, ErrAlreadyScheduled)
}

func TestScheduleRejectsInvertedDates(t *testing.T) {
	svc, db := newTestServices(t)
	aircraft := testutil.SeedAircraft(t, db, "5X-EGJ", "5X-EGJ-001")
	main := testutil.SeedComponent(t, db, 0, aircraft.ID, "Gear", "SN-GER-10", 100)

	start := time.Now()
	req := func(end time.Time) *ScheduleBatchRequest {
		return &ScheduleBatchRequest{
			Items:            []ScheduleItem{{ComponentType: entity.ComponentTypeMain, ComponentID: main.ID}},
			MainTypeSchedule: entity.ScheduleTypeOperational,
			MaintenanceType:  entity.MaintenanceClassA,
			StartDate:        start,
			EndDate:          end,
		}
	}

	_, err := svc.Maintenance.ScheduleBatch(context.Background(), "tester", req(start.AddDate(0, 0, -1)))
	assert.ErrorIs(t, err, ErrInvalidDates)

	// A zero-length window would be born Expired; equal dates are rejected too.
	_, err = svc.Maintenance.ScheduleBatch(context.Background(), "tester", req(start))
	assert.ErrorIs(t, err, ErrInvalidDates)
}

func TestCompleteRestoresHoursOnce(t *testing.T) {
	svc, db := newTestServices(t)
	ctx := context.Background()

	aircraft := testutil.SeedAircraft(t, db, "5X-EGK", "5X-EGK-001")
	main := testutil.SeedComponent(t, db, 0, aircraft.ID, "Left Engine", "SN-ENG-20", 50)

	records, err := svc.Maintenance.ScheduleBatch(ctx, "tester", &ScheduleBatchRequest{
		Items:            []ScheduleItem{{ComponentType: entity.ComponentTypeMain, ComponentID: main.ID}},
		MainTypeSchedule: entity.ScheduleTypeMaintenance,
		MaintenanceType:  entity.MaintenanceClassC,
		HoursToAdd:       decimal.NewFromInt(200),
		StartDate:        time.Now(),
		EndDate:          time.Now().AddDate(0, 0, 10),
	})
	require.NoError(t, err)

	end := time.Now()
	done, err := svc.Maintenance.Complete(ctx, "inspector", records[0].ID, &CompleteRequest{
		ActualEndDate:     &end,
		ActualHoursAdded:  decPtr(180),
		CompletionRemarks: "C check done",
	})
	require.NoError(t, err)
	assert.Equal(t, entity.RecordStatusCompleted, done.MaintenanceStatus)
	assert.Equal(t, entity.ScheduleTypeOperational, done.MainTypeSchedule)
	assert.Equal(t, "inspector", done.CompletedBy)
	require.NotNil(t, done.CompletionDate)

	var c entity.Component
	require.NoError(t, db.First(&c, "id = ?", main.ID).Error)
	assert.True(t, c.MaintenanceHours.Equal(decimal.NewFromInt(230)), "got %s", c.MaintenanceHours)
	assert.Equal(t, entity.MaintStatusOperational, c.MaintenanceStatus)

	// Completing again is rejected, never a second restoration.
	_, err = svc.Maintenance.Complete(ctx, "inspector", records[0].ID, &CompleteRequest{
		ActualEndDate:     &end,
		ActualHoursAdded:  decPtr(180),
		CompletionRemarks: "retry",
	})
	assert.ErrorIs(t, err, ErrAlreadyClosed)

	require.NoError(t, db.First(&c, "id = ?", main.ID).Error)
	assert.True(t, c.MaintenanceHours.Equal(decimal.NewFromInt(230)))
}

func TestCompleteRequiresClosingFacts(t *testing.T) {
	svc, db := newTestServices(t)
	ctx := context.Background()

	aircraft := testutil.SeedAircraft(t, db, "5X-EGQ", "5X-EGQ-001")
	main := testutil.SeedComponent(t, db, 0, aircraft.ID, "Starter", "SN-STR-20", 25)

	records, err := svc.Maintenance.ScheduleBatch(ctx, "tester", &ScheduleBatchRequest{
		Items:            []ScheduleItem{{ComponentType: entity.ComponentTypeMain, ComponentID: main.ID}},
		MainTypeSchedule: entity.ScheduleTypeOperational,
		MaintenanceType:  entity.MaintenanceClassA,
		StartDate:        time.Now(),
		EndDate:          time.Now().AddDate(0, 0, 2),
	})
	require.NoError(t, err)

	end := time.Now()
	_, err = svc.Maintenance.Complete(ctx, "inspector", records[0].ID, &CompleteRequest{
		CompletionRemarks: "no end date",
	})
	assert.ErrorIs(t, err, ErrMissingFields)

	_, err = svc.Maintenance.Complete(ctx, "inspector", records[0].ID, &CompleteRequest{
		ActualEndDate: &end,
	})
	assert.ErrorIs(t, err, ErrMissingFields)

	// Nothing was restored by the rejected attempts.
	var c entity.Component
	require.NoError(t, db.First(&c, "id = ?", main.ID).Error)
	assert.True(t, c.MaintenanceHours.Equal(decimal.NewFromInt(25)))
}

func TestCompleteFallsBackToScheduledHours(t *testing.T) {
	svc, db := newTestServices(t)
	ctx := context.Background()

	aircraft := testutil.SeedAircraft(t, db, "5X-EGL", "5X-EGL-001")
	main := testutil.SeedComponent(t, db, 0, aircraft.ID, "APU", "SN-APU-20", 10)

	records, err := svc.Maintenance.ScheduleBatch(ctx, "tester", &ScheduleBatchRequest{
		Items:            []ScheduleItem{{ComponentType: entity.ComponentTypeMain, ComponentID: main.ID}},
		MainTypeSchedule: entity.ScheduleTypeOperational,
		MaintenanceType:  entity.MaintenanceClassA,
		HoursToAdd:       decimal.NewFromInt(40),
		StartDate:        time.Now(),
		EndDate:          time.Now().AddDate(0, 0, 2),
	})
	require.NoError(t, err)

	end := time.Now()
	_, err = svc.Maintenance.Complete(ctx, "inspector", records[0].ID, &CompleteRequest{
		ActualEndDate:     &end,
		CompletionRemarks: "done as planned",
	})
	require.NoError(t, err)

	var c entity.Component
	require.NoError(t, db.First(&c, "id = ?", main.ID).Error)
	assert.True(t, c.MaintenanceHours.Equal(decimal.NewFromInt(50)))
}

func TestCompleteWithExplicitZeroHours(t *testing.T) {
	svc, db := newTestServices(t)
	ctx := context.Background()

	aircraft := testutil.SeedAircraft(t, db, "5X-EGV", "5X-EGV-001")
	main := testutil.SeedComponent(t, db, 0, aircraft.ID, "Gear", "SN-GER-60", 35)

	records, err := svc.Maintenance.ScheduleBatch(ctx, "tester", &ScheduleBatchRequest{
		Items:            []ScheduleItem{{ComponentType: entity.ComponentTypeMain, ComponentID: main.ID}},
		MainTypeSchedule: entity.ScheduleTypeOperational,
		MaintenanceType:  entity.MaintenanceClassA,
		HoursToAdd:       decimal.NewFromInt(40),
		StartDate:        time.Now(),
		EndDate:          time.Now().AddDate(0, 0, 2),
	})
	require.NoError(t, err)

	// An explicit zero means the check restored nothing. Omitting the field
	// would have fallen back to the planned forty hours.
	end := time.Now()
	done, err := svc.Maintenance.Complete(ctx, "inspector", records[0].ID, &CompleteRequest{
		ActualEndDate:     &end,
		ActualHoursAdded:  decPtr(0),
		CompletionRemarks: "inspection only, no overhaul",
	})
	require.NoError(t, err)
	assert.True(t, done.ActualHoursAdded.IsZero())

	var c entity.Component
	require.NoError(t, db.First(&c, "id = ?", main.ID).Error)
	assert.True(t, c.MaintenanceHours.Equal(decimal.NewFromInt(35)), "got %s", c.MaintenanceHours)
}

func TestCancelClosesWithoutRestoring(t *testing.T) {
	svc, db := newTestServices(t)
	ctx := context.Background()

	aircraft := testutil.SeedAircraft(t, db, "5X-EGM", "5X-EGM-001")
	main := testutil.SeedComponent(t, db, 0, aircraft.ID, "Prop", "SN-PRP-20", 75)

	records, err := svc.Maintenance.ScheduleBatch(ctx, "tester", &ScheduleBatchRequest{
		Items:            []ScheduleItem{{ComponentType: entity.ComponentTypeMain, ComponentID: main.ID}},
		MainTypeSchedule: entity.ScheduleTypeMaintenance,
		MaintenanceType:  entity.MaintenanceClassA,
		HoursToAdd:       decimal.NewFromInt(100),
		StartDate:        time.Now(),
		EndDate:          time.Now().AddDate(0, 0, 2),
	})
	require.NoError(t, err)

	cancelled, err := svc.Maintenance.Cancel(ctx, "tester", records[0].ID, "parts unavailable")
	require.NoError(t, err)
	assert.Equal(t, entity.RecordStatusCancelled, cancelled.MaintenanceStatus)

	var c entity.Component
	require.NoError(t, db.First(&c, "id = ?", main.ID).Error)
	assert.True(t, c.MaintenanceHours.Equal(decimal.NewFromInt(75)))
	assert.Equal(t, entity.MaintStatusOperational, c.MaintenanceStatus)

	// A cancelled record cannot be completed.
	_, err = svc.Maintenance.Complete(ctx, "tester", records[0].ID, &CompleteRequest{})
	assert.ErrorIs(t, err, ErrAlreadyClosed)

	_, err = svc.Maintenance.Cancel(ctx, "tester", records[0].ID, "again")
	assert.ErrorIs(t, err, ErrAlreadyClosed)
}

func TestCompleteBatchClosesAllOpenRecords(t *testing.T) {
	svc, db := newTestServices(t)
	ctx := context.Background()

	aircraft := testutil.SeedAircraft(t, db, "5X-EGN", "5X-EGN-001")
	main := testutil.SeedComponent(t, db, 0, aircraft.ID, "Left Engine", "SN-ENG-30", 10)
	sub := testutil.SeedComponent(t, db, 1, main.ID, "Fuel Pump", "SN-PMP-30", 5)

	records, err := svc.Maintenance.ScheduleBatch(ctx, "tester", &ScheduleBatchRequest{
		Items: []ScheduleItem{
			{ComponentType: entity.ComponentTypeMain, ComponentID: main.ID},
			{ComponentType: entity.ComponentTypeSub, ComponentID: sub.ID},
		},
		MainTypeSchedule: entity.ScheduleTypeMaintenance,
		MaintenanceType:  entity.MaintenanceClassB,
		HoursToAdd:       decimal.NewFromInt(60),
		StartDate:        time.Now(),
		EndDate:          time.Now().AddDate(0, 0, 4),
	})
	require.NoError(t, err)

	end := time.Now()
	done, err := svc.Maintenance.CompleteBatch(ctx, "inspector", records[0].BatchID, &CompleteRequest{
		ActualEndDate:     &end,
		ActualHoursAdded:  decPtr(60),
		CompletionRemarks: "B check batch",
	})
	require.NoError(t, err)
	assert.Len(t, done, 2)

	for _, id := range []string{main.ID, sub.ID} {
		var c entity.Component
		require.NoError(t, db.First(&c, "id = ?", id).Error)
		assert.Equal(t, entity.MaintStatusOperational, c.MaintenanceStatus)
	}

	_, err = svc.Maintenance.CompleteBatch(ctx, "inspector", "MAINT-00000000000000-FFFFFF", &CompleteRequest{})
	assert.ErrorIs(t, err, ErrBatchNotFound)
}

func TestExpiredIsComputedNotStored(t *testing.T) {
	svc, db := newTestServices(t)
	ctx := context.Background()

	aircraft := testutil.SeedAircraft(t, db, "5X-EGO", "5X-EGO-001")
	main := testutil.SeedComponent(t, db, 0, aircraft.ID, "Gear", "SN-GER-30", 30)

	records, err := svc.Maintenance.ScheduleBatch(ctx, "tester", &ScheduleBatchRequest{
		Items:            []ScheduleItem{{ComponentType: entity.ComponentTypeMain, ComponentID: main.ID}},
		MainTypeSchedule: entity.ScheduleTypeOperational,
		MaintenanceType:  entity.MaintenanceClassA,
		StartDate:        time.Now().AddDate(0, 0, 1),
		EndDate:          time.Now().AddDate(0, 0, 2),
	})
	require.NoError(t, err)

	// Push the window into the past directly.
	require.NoError(t, db.Model(&entity.ComponentMaintenance{}).
		Where("id = ?", records[0].ID).
		Updates(map[string]interface{}{
			"start_date": time.Now().AddDate(0, 0, -10),
			"end_date":   time.Now().AddDate(0, 0, -3),
		}).Error)

	views, err := svc.Maintenance.List(ctx, repository.MaintenanceFilter{Status: entity.RecordStatusExpired})
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, entity.RecordStatusExpired, views[0].EffectiveStatus)
	// Stored state is untouched.
	assert.Equal(t, entity.RecordStatusScheduled, views[0].MaintenanceStatus)

	// The Scheduled bucket no longer includes it.
	views, err = svc.Maintenance.List(ctx, repository.MaintenanceFilter{Status: entity.RecordStatusScheduled})
	require.NoError(t, err)
	assert.Empty(t, views)

	// An expired record can still be completed.
	end := time.Now()
	done, err := svc.Maintenance.Complete(ctx, "inspector", records[0].ID, &CompleteRequest{
		ActualEndDate:     &end,
		ActualHoursAdded:  decPtr(10),
		CompletionRemarks: "late close",
	})
	require.NoError(t, err)
	assert.Equal(t, entity.RecordStatusCompleted, done.MaintenanceStatus)
}

func TestListFiltersByAircraftAndSearch(t *testing.T) {
	svc, db := newTestServices(t)
	ctx := context.Background()

	uganda := testutil.SeedAircraft(t, db, "5X-EGS", "5X-EGS-001")
	kenya := testutil.SeedAircraft(t, db, "5Y-EGT", "5Y-EGT-001")
	ugandaMain := testutil.SeedComponent(t, db, 0, uganda.ID, "Left Engine", "SN-ENG-60", 10)
	ugandaSub := testutil.SeedComponent(t, db, 1, ugandaMain.ID, "Fuel Pump", "SN-PMP-60", 10)
	kenyaMain := testutil.SeedComponent(t, db, 0, kenya.ID, "Right Engine", "SN-ENG-61", 10)

	_, err := svc.Maintenance.ScheduleBatch(ctx, "tester", &ScheduleBatchRequest{
		Items: []ScheduleItem{
			{ComponentType: entity.ComponentTypeMain, ComponentID: ugandaMain.ID},
			{ComponentType: entity.ComponentTypeSub, ComponentID: ugandaSub.ID},
		},
		MainTypeSchedule: entity.ScheduleTypeOperational,
		MaintenanceType:  entity.MaintenanceClassA,
		StartDate:        time.Now(),
		EndDate:          time.Now().AddDate(0, 0, 3),
		Remarks:          "oil seal replacement",
	})
	require.NoError(t, err)

	_, err = svc.Maintenance.ScheduleBatch(ctx, "tester", &ScheduleBatchRequest{
		Items:            []ScheduleItem{{ComponentType: entity.ComponentTypeMain, ComponentID: kenyaMain.ID}},
		MainTypeSchedule: entity.ScheduleTypeOperational,
		MaintenanceType:  entity.MaintenanceClassA,
		StartDate:        time.Now(),
		EndDate:          time.Now().AddDate(0, 0, 3),
		Remarks:          "borescope inspection",
	})
	require.NoError(t, err)

	// The aircraft filter covers the whole tree, sub-level records included.
	views, err := svc.Maintenance.List(ctx, repository.MaintenanceFilter{AircraftID: uganda.ID})
	require.NoError(t, err)
	require.Len(t, views, 2)
	for _, v := range views {
		assert.NotEqual(t, kenyaMain.ID, v.ComponentID)
	}

	views, err = svc.Maintenance.List(ctx, repository.MaintenanceFilter{Search: "borescope"})
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, kenyaMain.ID, views[0].ComponentID)

	// An aircraft with no components matches nothing rather than everything.
	empty := testutil.SeedAircraft(t, db, "5X-EGU", "5X-EGU-001")
	views, err = svc.Maintenance.List(ctx, repository.MaintenanceFilter{AircraftID: empty.ID})
	require.NoError(t, err)
	assert.Empty(t, views)
}

func TestDashboardCounts(t *testing.T) {
	svc, db := newTestServices(t)
	ctx := context.Background()

	aircraft := testutil.SeedAircraft(t, db, "5X-EGP", "5X-EGP-001")
	main := testutil.SeedComponent(t, db, 0, aircraft.ID, "Left Engine", "SN-ENG-40", 10)
	sub := testutil.SeedComponent(t, db, 1, main.ID, "Fuel Pump", "SN-PMP-40", 10)

	_, err := svc.Maintenance.ScheduleBatch(ctx, "tester", &ScheduleBatchRequest{
		Items:            []ScheduleItem{{ComponentType: entity.ComponentTypeMain, ComponentID: main.ID}},
		MainTypeSchedule: entity.ScheduleTypeOperational,
		MaintenanceType:  entity.MaintenanceClassA,
		StartDate:        time.Now(),
		EndDate:          time.Now().AddDate(0, 0, 5),
	})
	require.NoError(t, err)

	expired, err := svc.Maintenance.ScheduleBatch(ctx, "tester", &ScheduleBatchRequest{
		Items:            []ScheduleItem{{ComponentType: entity.ComponentTypeSub, ComponentID: sub.ID}},
		MainTypeSchedule: entity.ScheduleTypeOperational,
		MaintenanceType:  entity.MaintenanceClassA,
		StartDate:        time.Now(),
		EndDate:          time.Now().AddDate(0, 0, 5),
	})
	require.NoError(t, err)
	require.NoError(t, db.Model(&entity.ComponentMaintenance{}).
		Where("id = ?", expired[0].ID).
		Update("end_date", time.Now().AddDate(0, 0, -1)).Error)

	dashboard, err := svc.Maintenance.Dashboard(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), dashboard.Counts.Scheduled)
	assert.Equal(t, int64(1), dashboard.Counts.Expired)
	assert.Equal(t, int64(0), dashboard.Counts.Completed)
	assert.Len(t, dashboard.Recent, 2)
	require.Len(t, dashboard.ScheduleTypes, 1)
	assert.Equal(t, entity.ScheduleTypeOperational, dashboard.ScheduleTypes[0].MainTypeSchedule)
	assert.Equal(t, int64(2), dashboard.ScheduleTypes[0].Records)
}

func TestAutoScheduleSkipsOpenRecords(t *testing.T) {
	svc, db := newTestServices(t)
	ctx := context.Background()

	aircraft := testutil.SeedAircraft(t, db, "5X-EGQ", "5X-EGQ-001")
	main := testutil.SeedComponent(t, db, 0, aircraft.ID, "Left Engine", "SN-ENG-50", 8)

	var c entity.Component
	require.NoError(t, db.First(&c, "id = ?", main.ID).Error)

	created, err := svc.Maintenance.AutoSchedule(ctx, []entity.Component{c})
	require.NoError(t, err)
	require.Len(t, created, 1)
	assert.Equal(t, entity.ScheduleSourceAuto, created[0].Source)
	assert.Equal(t, entity.MaintenanceClassA, created[0].MaintenanceType)
	// Window is the configured seven days.
	assert.WithinDuration(t, created[0].StartDate.AddDate(0, 0, 7), created[0].EndDate, time.Minute)

	created, err = svc.Maintenance.AutoSchedule(ctx, []entity.Component{c})
	require.NoError(t, err)
	assert.Empty(t, created)
}

func TestCalendarMonthWindow(t *testing.T) {
	svc, db := newTestServices(t)
	ctx := context.Background()

	aircraft := testutil.SeedAircraft(t, db, "5X-EGR", "5X-EGR-001")
	main := testutil.SeedComponent(t, db, 0, aircraft.ID, "APU", "SN-APU-50", 10)

	records, err := svc.Maintenance.ScheduleBatch(ctx, "tester", &ScheduleBatchRequest{
		Items:            []ScheduleItem{{ComponentType: entity.ComponentTypeMain, ComponentID: main.ID}},
		MainTypeSchedule: entity.ScheduleTypeOperational,
		MaintenanceType:  entity.MaintenanceClassA,
		StartDate:        time.Date(2026, 3, 28, 0, 0, 0, 0, time.Local),
		EndDate:          time.Date(2026, 4, 2, 0, 0, 0, 0, time.Local),
	})
	require.NoError(t, err)

	// The window straddles March and April: visible in both months.
	for _, month := range []time.Month{time.March, time.April} {
		views, err := svc.Maintenance.Calendar(ctx, 2026, month)
		require.NoError(t, err)
		require.Len(t, views, 1, "month %s", month)
		assert.Equal(t, records[0].ID, views[0].ID)
	}

	views, err := svc.Maintenance.Calendar(ctx, 2026, time.June)
	require.NoError(t, err)
	assert.Empty(t, views)
}
