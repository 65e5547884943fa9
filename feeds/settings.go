package feeds

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/samber/lo"
	log "github.com/sirupsen/logrus"

	"teletext/models"
	"teletext/store"
)

const settingsDoc = "settings"

var (
	ValidThemes  = []string{"dark", "light", "system", "amber", "green", "blue", "white"}
	ValidFonts   = []string{"default", "vt323", "ibm-plex", "fira-code", "space-mono", "jetbrains", "press-start", "share-tech"}
	ValidLayouts = []string{"compact", "default", "wide", "full"}
)

// ValidationError reports a rejected settings field. The whole update is
// discarded when any field fails; nothing is saved.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func validationErrorf(format string, args ...interface{}) *ValidationError {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// SettingsStore loads and updates the persisted settings document.
type SettingsStore struct {
	store    store.Store
	defaults models.Settings
}

func NewSettingsStore(s store.Store, defaults models.Settings) *SettingsStore {
	return &SettingsStore{store: s, defaults: defaults}
}

// Get returns the current settings, seeding defaults on first access.
func (s *SettingsStore) Get() models.Settings {
	var settings models.Settings
	err := s.store.Load(settingsDoc, &settings)
	if err == nil {
		if settings.KeywordAlerts == nil {
			settings.KeywordAlerts = []string{}
		}
		return settings
	}

	if errors.Is(err, store.ErrNotFound) {
		if saveErr := s.store.Save(settingsDoc, s.defaults); saveErr != nil {
			log.WithFields(log.Fields{"error": saveErr}).Warn("Failed to seed settings")
		}
	} else {
		log.WithFields(log.Fields{"error": err}).Warn("Unreadable settings, using defaults")
	}
	return s.defaults
}

// Update merges the given fields into the current settings. Fields are
// validated in a fixed order and the first invalid one aborts the whole
// update, leaving the stored document untouched. Unknown fields are ignored.
func (s *SettingsStore) Update(updates map[string]interface{}) (models.Settings, error) {
	current := s.Get()

	if raw, ok := updates["theme"]; ok {
		theme, _ := raw.(string)
		if !lo.Contains(ValidThemes, theme) {
			return current, validationErrorf("Invalid theme '%v'. Must be one of: %s", raw, strings.Join(ValidThemes, ", "))
		}
		current.Theme = theme
	}

	if raw, ok := updates["articles_per_page"]; ok {
		n, err := coerceInt(raw)
		if err != nil {
			return current, validationErrorf("articles_per_page must be an integer, got '%v'", raw)
		}
		if n < 4 || n > 20 {
			return current, validationErrorf("articles_per_page must be between 4 and 20, got %d", n)
		}
		current.ArticlesPerPage = n
	}

	if raw, ok := updates["auto_refresh_seconds"]; ok {
		n, err := coerceInt(raw)
		if err != nil {
			return current, validationErrorf("auto_refresh_seconds must be an integer, got '%v'", raw)
		}
		if n < 0 {
			return current, validationErrorf("auto_refresh_seconds must be >= 0, got %d", n)
		}
		current.AutoRefreshSeconds = n
	}

	if raw, ok := updates["font"]; ok {
		font, _ := raw.(string)
		if !lo.Contains(ValidFonts, font) {
			return current, validationErrorf("Invalid font '%v'. Must be one of: %s", raw, strings.Join(ValidFonts, ", "))
		}
		current.Font = font
	}

	if raw, ok := updates["layout"]; ok {
		layout, _ := raw.(string)
		if !lo.Contains(ValidLayouts, layout) {
			return current, validationErrorf("Invalid layout '%v'. Must be one of: %s", raw, strings.Join(ValidLayouts, ", "))
		}
		current.Layout = layout
	}

	if raw, ok := updates["infinite_scroll"]; ok {
		b, isBool := raw.(bool)
		if !isBool {
			return current, validationErrorf("infinite_scroll must be a boolean, got '%v'", raw)
		}
		current.InfiniteScroll = b
	}

	if raw, ok := updates["notifications_enabled"]; ok {
		b, isBool := raw.(bool)
		if !isBool {
			return current, validationErrorf("notifications_enabled must be a boolean, got '%v'", raw)
		}
		current.NotificationsEnabled = b
	}

	if raw, ok := updates["keyword_alerts"]; ok {
		alerts, err := coerceStringList(raw)
		if err != nil {
			return current, err
		}
		current.KeywordAlerts = alerts
	}

	// Settings writes must not be silently lost, so save errors propagate.
	if err := s.store.Save(settingsDoc, current); err != nil {
		return current, fmt.Errorf("save settings: %w", err)
	}
	return current, nil
}

// coerceInt accepts the integer shapes a JSON body can carry: numbers
// (decoded as float64), numeric strings, and native ints.
func coerceInt(raw interface{}) (int, error) {
	switch v := raw.(type) {
	case int:
		return v, nil
	case float64:
		return int(v), nil
	case string:
		n, err := strconv.Atoi(v)
		if err != nil {
			return 0, err
		}
		return n, nil
	default:
		return 0, fmt.Errorf("not an integer: %v", raw)
	}
}

func coerceStringList(raw interface{}) ([]string, error) {
	list, ok := raw.([]interface{})
	if !ok {
		if strs, isStrs := raw.([]string); isStrs {
			return strs, nil
		}
		return nil, validationErrorf("keyword_alerts must be a list, got '%T'", raw)
	}
	alerts := make([]string, 0, len(list))
	for _, item := range list {
		str, isStr := item.(string)
		if !isStr {
			return nil, validationErrorf("keyword_alerts must be a list of strings")
		}
		alerts = append(alerts, str)
	}
	return alerts, nil
}
