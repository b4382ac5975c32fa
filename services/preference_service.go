package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/Pirategrand/savory-cart-portal/entity"
	"github.com/Pirategrand/savory-cart-portal/pkg/kv"
)

// PreferenceService persists dietary filter state and UI language per
// user in the key/value store. No TTL; preferences survive the cart.
type PreferenceService struct {
	Store kv.Store
}

func NewPreferenceService(store kv.Store) *PreferenceService {
	return &PreferenceService{Store: store}
}

func prefsKey(uid uint) string { return fmt.Sprintf("dietary-preferences:%d", uid) }
func langKey(uid uint) string  { return fmt.Sprintf("language:%d", uid) }

// Dietary returns stored preferences, falling back to the permissive
// default on missing or corrupt data.
func (s *PreferenceService) Dietary(ctx context.Context, uid uint) entity.DietaryPreferences {
	raw, err := s.Store.Get(ctx, prefsKey(uid))
	if err != nil {
		return entity.DefaultDietaryPreferences()
	}
	var prefs entity.DietaryPreferences
	if err := json.Unmarshal([]byte(raw), &prefs); err != nil {
		return entity.DefaultDietaryPreferences()
	}
	if prefs.Mode == "" {
		prefs.Mode = entity.ModeAll
	}
	return prefs
}

func (s *PreferenceService) SetDietary(ctx context.Context, uid uint, prefs entity.DietaryPreferences) error {
	if prefs.CalorieRange[0] > prefs.CalorieRange[1] {
		return errors.New("calorie range minimum exceeds maximum")
	}
	data, err := json.Marshal(prefs)
	if err != nil {
		return err
	}
	return s.Store.Set(ctx, prefsKey(uid), string(data), 0)
}

func (s *PreferenceService) Language(ctx context.Context, uid uint) string {
	raw, err := s.Store.Get(ctx, langKey(uid))
	if err != nil || raw == "" {
		return "en"
	}
	return raw
}

func (s *PreferenceService) SetLanguage(ctx context.Context, uid uint, lang string) error {
	if lang == "" {
		return errors.New("language is required")
	}
	return s.Store.Set(ctx, langKey(uid), lang, 0)
}
