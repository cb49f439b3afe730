package service

import (
	"context"
	"testing"

	"github.com/mgeorge46/entebbe/internal/maintenance/entity"
	"github.com/mgeorge46/entebbe/internal/maintenance/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveAircraftFromEveryLevel(t *testing.T) {
	svc, db := newTestServices(t)
	ctx := context.Background()

	aircraft := testutil.SeedAircraft(t, db, "5X-EHG", "5X-EHG-001")
	main := testutil.SeedComponent(t, db, 0, aircraft.ID, "Left Engine", "SN-RSV-1", 500)
	sub := testutil.SeedComponent(t, db, 1, main.ID, "Fuel Pump", "SN-RSV-2", 300)
	sub2 := testutil.SeedComponent(t, db, 2, sub.ID, "Pump Motor", "SN-RSV-3", 200)
	sub3 := testutil.SeedComponent(t, db, 3, sub2.ID, "Motor Bearing", "SN-RSV-4", 100)

	cases := []struct {
		componentType entity.ComponentType
		componentID   string
	}{
		{entity.ComponentTypeMain, main.ID},
		{entity.ComponentTypeSub, sub.ID},
		{entity.ComponentTypeSub2, sub2.ID},
		{entity.ComponentTypeSub3, sub3.ID},
	}
	for _, tc := range cases {
		resolved, err := svc.Resolver.ResolveAircraft(ctx, tc.componentType, tc.componentID)
		require.NoError(t, err, "type %s", tc.componentType)
		assert.Equal(t, aircraft.ID, resolved.ID)
	}
}

func TestResolveRejectsMismatchedType(t *testing.T) {
	svc, db := newTestServices(t)
	ctx := context.Background()

	aircraft := testutil.SeedAircraft(t, db, "5X-EHH", "5X-EHH-001")
	main := testutil.SeedComponent(t, db, 0, aircraft.ID, "APU", "SN-RSM-1", 400)

	// A main component id under the sub tag does not resolve.
	_, err := svc.Resolver.ResolveAircraftID(ctx, entity.ComponentTypeSub, main.ID)
	assert.ErrorIs(t, err, ErrComponentNotFound)

	_, err = svc.Resolver.ResolveAircraftID(ctx, "bogus", main.ID)
	assert.ErrorIs(t, err, ErrInvalidComponentType)
}

func TestResolveDetachedFromTree(t *testing.T) {
	svc, db := newTestServices(t)
	ctx := context.Background()

	aircraft := testutil.SeedAircraft(t, db, "5X-EHI", "5X-EHI-001")
	main := testutil.SeedComponent(t, db, 0, aircraft.ID, "Left Engine", "SN-RSD-1", 500)
	sub := testutil.SeedComponent(t, db, 1, main.ID, "Fuel Pump", "SN-RSD-2", 300)

	// Orphan the sub component.
	require.NoError(t, db.Model(&entity.Component{}).
		Where("id = ?", sub.ID).
		Update("parent_id", nil).Error)

	_, err := svc.Resolver.ResolveAircraftID(ctx, entity.ComponentTypeSub, sub.ID)
	assert.ErrorIs(t, err, ErrDetachedFromTree)
}
