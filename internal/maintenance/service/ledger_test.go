package service

import (
	"context"
	"testing"
	"time"

	"github.com/mgeorge46/entebbe/internal/maintenance/entity"
	"github.com/mgeorge46/entebbe/internal/maintenance/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyFlightUsageWearsWholeSubtree(t *testing.T) {
	svc, db := newTestServices(t)
	ctx := context.Background()

	aircraft := testutil.SeedAircraft(t, db, "5X-EGA", "5X-EGA-001")
	main := testutil.SeedComponent(t, db, 0, aircraft.ID, "Left Engine", "SN-ENG-1", 500)
	sub := testutil.SeedComponent(t, db, 1, main.ID, "Fuel Pump", "SN-PMP-1", 300)
	sub2 := testutil.SeedComponent(t, db, 2, sub.ID, "Pump Motor", "SN-MTR-1", 200)
	sub3 := testutil.SeedComponent(t, db, 3, sub2.ID, "Motor Bearing", "SN-BRG-1", 100)

	result, err := svc.Ledger.ApplyFlightUsage(ctx, aircraft.ID, decimal.NewFromFloat(2.5), "tester")
	require.NoError(t, err)
	assert.Equal(t, 4, result.ComponentsWorn)

	for _, seeded := range []struct {
		id    string
		hours float64
	}{
		{main.ID, 497.5},
		{sub.ID, 297.5},
		{sub2.ID, 197.5},
		{sub3.ID, 97.5},
	} {
		var c entity.Component
		require.NoError(t, db.First(&c, "id = ?", seeded.id).Error)
		assert.True(t, c.MaintenanceHours.Equal(decimal.NewFromFloat(seeded.hours)),
			"component %s: got %s", seeded.id, c.MaintenanceHours)
		require.NotNil(t, c.ItemCycle)
		assert.Equal(t, 1, *c.ItemCycle)
		// Snapshot never moves with usage.
		assert.True(t, c.ItemOriginalHours.GreaterThan(c.MaintenanceHours))
	}
}

func TestApplyFlightUsageSkipsDetached(t *testing.T) {
	svc, db := newTestServices(t)
	ctx := context.Background()

	aircraft := testutil.SeedAircraft(t, db, "5X-EGB", "5X-EGB-001")
	main := testutil.SeedComponent(t, db, 0, aircraft.ID, "APU", "SN-APU-1", 400)
	detached := testutil.SeedComponent(t, db, 1, main.ID, "Starter", "SN-STR-1", 150)
	require.NoError(t, db.Model(&entity.Component{}).
		Where("id = ?", detached.ID).
		Update("component_status", entity.ComponentStatusDetached).Error)

	result, err := svc.Ledger.ApplyFlightUsage(ctx, aircraft.ID, decimal.NewFromInt(1), "tester")
	require.NoError(t, err)
	assert.Equal(t, 1, result.ComponentsWorn)

	var c entity.Component
	require.NoError(t, db.First(&c, "id = ?", detached.ID).Error)
	assert.True(t, c.MaintenanceHours.Equal(decimal.NewFromInt(150)))
	assert.Nil(t, c.ItemCycle)
}

func TestApplyFlightUsageSkipsComponentsInMaintenance(t *testing.T) {
	svc, db := newTestServices(t)
	ctx := context.Background()

	aircraft := testutil.SeedAircraft(t, db, "5X-EGG", "5X-EGG-001")
	main := testutil.SeedComponent(t, db, 0, aircraft.ID, "Right Engine", "SN-ENG-2", 500)
	sub := testutil.SeedComponent(t, db, 1, main.ID, "Oil Pump", "SN-OIL-1", 300)

	// A maintenance-type schedule parks the engine in the shop while
	// it stays attached, so its pump keeps flying.
	_, err := svc.Maintenance.ScheduleBatch(ctx, "tester", &ScheduleBatchRequest{
		Items:            []ScheduleItem{{ComponentType: entity.ComponentTypeMain, ComponentID: main.ID}},
		MainTypeSchedule: entity.ScheduleTypeMaintenance,
		MaintenanceType:  entity.MaintenanceClassB,
		HoursToAdd:       decimal.NewFromInt(120),
		StartDate:        time.Now(),
		EndDate:          time.Now().AddDate(0, 0, 5),
	})
	require.NoError(t, err)

	result, err := svc.Ledger.ApplyFlightUsage(ctx, aircraft.ID, decimal.NewFromInt(2), "tester")
	require.NoError(t, err)
	assert.Equal(t, 1, result.ComponentsWorn)

	var parked entity.Component
	require.NoError(t, db.First(&parked, "id = ?", main.ID).Error)
	assert.True(t, parked.MaintenanceHours.Equal(decimal.NewFromInt(500)))
	assert.Nil(t, parked.ItemCycle)

	var worn entity.Component
	require.NoError(t, db.First(&worn, "id = ?", sub.ID).Error)
	assert.True(t, worn.MaintenanceHours.Equal(decimal.NewFromInt(298)))
}

func TestApplyFlightUsageIncrementsCycle(t *testing.T) {
	svc, db := newTestServices(t)
	ctx := context.Background()

	aircraft := testutil.SeedAircraft(t, db, "5X-EGC", "5X-EGC-001")
	main := testutil.SeedComponent(t, db, 0, aircraft.ID, "Gear", "SN-GER-1", 50)

	_, err := svc.Ledger.ApplyFlightUsage(ctx, aircraft.ID, decimal.NewFromInt(1), "tester")
	require.NoError(t, err)
	_, err = svc.Ledger.ApplyFlightUsage(ctx, aircraft.ID, decimal.NewFromInt(1), "tester")
	require.NoError(t, err)

	var c entity.Component
	require.NoError(t, db.First(&c, "id = ?", main.ID).Error)
	require.NotNil(t, c.ItemCycle)
	assert.Equal(t, 2, *c.ItemCycle)
}

func TestApplyFlightUsageRejectsNonPositive(t *testing.T) {
	svc, db := newTestServices(t)
	aircraft := testutil.SeedAircraft(t, db, "5X-EGD", "5X-EGD-001")

	_, err := svc.Ledger.ApplyFlightUsage(context.Background(), aircraft.ID, decimal.Zero, "tester")
	assert.ErrorIs(t, err, ErrNegativeHours)

	_, err = svc.Ledger.ApplyFlightUsage(context.Background(), aircraft.ID, decimal.NewFromInt(-3), "tester")
	assert.ErrorIs(t, err, ErrNegativeHours)
}

func TestApplyFlightUsageReportsLowComponents(t *testing.T) {
	svc, db := newTestServices(t)
	ctx := context.Background()

	aircraft := testutil.SeedAircraft(t, db, "5X-EGE", "5X-EGE-001")
	main := testutil.SeedComponent(t, db, 0, aircraft.ID, "Prop", "SN-PRP-1", 11)
	require.NoError(t, db.Model(&entity.Component{}).
		Where("id = ?", main.ID).
		Update("min_maintenance_hours", 10).Error)

	result, err := svc.Ledger.ApplyFlightUsage(ctx, aircraft.ID, decimal.NewFromInt(2), "tester")
	require.NoError(t, err)
	require.Len(t, result.LowComponents, 1)
	assert.Equal(t, main.ID, result.LowComponents[0].ID)

	// Already below the floor: not reported again.
	result, err = svc.Ledger.ApplyFlightUsage(ctx, aircraft.ID, decimal.NewFromInt(1), "tester")
	require.NoError(t, err)
	assert.Empty(t, result.LowComponents)
}

func TestRestoreHours(t *testing.T) {
	svc, db := newTestServices(t)
	ctx := context.Background()

	aircraft := testutil.SeedAircraft(t, db, "5X-EGF", "5X-EGF-001")
	main := testutil.SeedComponent(t, db, 0, aircraft.ID, "Avionics", "SN-AVI-1", 20)

	component, err := svc.Ledger.RestoreHours(ctx, main.ID, decimal.NewFromInt(80), "tester")
	require.NoError(t, err)
	assert.True(t, component.MaintenanceHours.Equal(decimal.NewFromInt(100)))

	_, err = svc.Ledger.RestoreHours(ctx, main.ID, decimal.Zero, "tester")
	assert.ErrorIs(t, err, ErrNegativeHours)

	_, err = svc.Ledger.RestoreHours(ctx, "missing", decimal.NewFromInt(1), "tester")
	assert.ErrorIs(t, err, ErrComponentNotFound)
}
