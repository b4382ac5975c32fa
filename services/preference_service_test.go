package services

import (
	"context"
	"testing"

	"github.com/Pirategrand/savory-cart-portal/entity"
	"github.com/Pirategrand/savory-cart-portal/pkg/kv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDietaryDefaults(t *testing.T) {
	svc := NewPreferenceService(kv.NewMemoryStore())
	got := svc.Dietary(context.Background(), 7)
	assert.Equal(t, entity.ModeAll, got.Mode)
	assert.Equal(t, [2]int{0, 2000}, got.CalorieRange)
	assert.False(t, got.HealthyOnly)
}

func TestDietaryRoundTrip(t *testing.T) {
	svc := NewPreferenceService(kv.NewMemoryStore())
	ctx := context.Background()

	want := entity.DietaryPreferences{
		Mode:         entity.ModeVegan,
		CalorieRange: [2]int{200, 800},
		Restrictions: []string{"peanut"},
		HealthyOnly:  true,
	}
	require.NoError(t, svc.SetDietary(ctx, 7, want))
	assert.Equal(t, want, svc.Dietary(ctx, 7))

	// other users keep the default
	assert.Equal(t, entity.ModeAll, svc.Dietary(ctx, 8).Mode)
}

func TestDietaryRejectsInvertedRange(t *testing.T) {
	svc := NewPreferenceService(kv.NewMemoryStore())
	err := svc.SetDietary(context.Background(), 7, entity.DietaryPreferences{CalorieRange: [2]int{900, 100}})
	assert.Error(t, err)
}

func TestDietaryCorruptDataFallsBack(t *testing.T) {
	store := kv.NewMemoryStore()
	svc := NewPreferenceService(store)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "dietary-preferences:7", "{broken", 0))
	assert.Equal(t, entity.DefaultDietaryPreferences(), svc.Dietary(ctx, 7))
}

func TestLanguage(t *testing.T) {
	svc := NewPreferenceService(kv.NewMemoryStore())
	ctx := context.Background()

	assert.Equal(t, "en", svc.Language(ctx, 7))
	require.NoError(t, svc.SetLanguage(ctx, 7, "th"))
	assert.Equal(t, "th", svc.Language(ctx, 7))
	assert.Error(t, svc.SetLanguage(ctx, 7, ""))
}
