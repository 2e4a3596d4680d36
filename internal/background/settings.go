package background

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/runnerr0/historyremover/internal/history"
	"github.com/runnerr0/historyremover/internal/messaging"
)

// SettingsKey is the key the settings document is stored under.
const SettingsKey = "settings"

// loadSettings returns the persisted settings, or the defaults when none
// have been saved.
func (r *Router) loadSettings(ctx context.Context) (history.Settings, error) {
	raw, ok, err := r.settings.Get(ctx, SettingsKey)
	if err != nil {
		return history.Settings{}, fmt.Errorf("load settings: %w", err)
	}
	if !ok {
		return history.DefaultSettings(), nil
	}

	s := history.DefaultSettings()
	if err := json.Unmarshal(raw, &s); err != nil {
		return history.Settings{}, fmt.Errorf("decode settings: %w", err)
	}
	return s, nil
}

func (r *Router) storeSettings(ctx context.Context, s history.Settings) error {
	if err := s.Validate(); err != nil {
		return fmt.Errorf("invalid settings: %w", err)
	}
	raw, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("encode settings: %w", err)
	}
	if err := r.settings.Set(ctx, SettingsKey, raw); err != nil {
		return fmt.Errorf("save settings: %w", err)
	}
	return nil
}

// Install writes the default settings if none are persisted yet. It is
// safe to call on every start.
func (r *Router) Install(ctx context.Context) error {
	_, ok, err := r.settings.Get(ctx, SettingsKey)
	if err != nil {
		return fmt.Errorf("load settings: %w", err)
	}
	if ok {
		return nil
	}
	if err := r.storeSettings(ctx, history.DefaultSettings()); err != nil {
		return err
	}
	r.logger.Info("default settings installed")
	return nil
}

func (r *Router) getSettings(ctx context.Context, _ messaging.Request) messaging.Response {
	s, err := r.loadSettings(ctx)
	if err != nil {
		return messaging.Fail(err)
	}
	resp, err := messaging.OK(s)
	if err != nil {
		return messaging.Fail(err)
	}
	return resp
}

func (r *Router) saveSettings(ctx context.Context, req messaging.Request) messaging.Response {
	if req.Settings == nil {
		return messaging.Fail(errors.New("settings are required"))
	}
	if err := r.storeSettings(ctx, *req.Settings); err != nil {
		return messaging.Fail(err)
	}
	r.logger.Info("settings saved", slog.Int("max_results", req.Settings.MaxResults))
	return messaging.Response{Success: true}
}
