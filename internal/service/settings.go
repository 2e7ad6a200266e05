package service

import (
	"slices"
	"strings"

	"github.com/wayapps/waysite/internal/domain"
	internal_errors "github.com/wayapps/waysite/internal/errors"
	"github.com/wayapps/waysite/internal/logger"
)

type SettingsService interface {
	All() (domain.Settings, error)
	Update(actor domain.Identity, changes domain.Settings) error
	Apps() ([]domain.AppRelease, error)
	SetApps(actor domain.Identity, released []string) error
}

type Settings struct {
	storage SettingsStorage
}

type SettingsStorage interface {
	Setting(key string) (string, error)
	AllSettings() (domain.Settings, error)
	SetSetting(key, value string) error
}

func NewSettings(storage SettingsStorage) *Settings {
	return &Settings{storage: storage}
}

func (s *Settings) All() (domain.Settings, error) {
	return s.storage.AllSettings()
}

// Update writes allow-listed keys only; an unknown key fails the whole
// request so a typo cannot silently create junk rows.
func (s *Settings) Update(actor domain.Identity, changes domain.Settings) error {
	for key := range changes {
		if !slices.Contains(domain.SettingKeys, key) {
			return internal_errors.Validation("Unknown setting", map[string]string{key: "is not an editable setting"})
		}
	}
	for key, value := range changes {
		if err := s.storage.SetSetting(key, value); err != nil {
			return err
		}
	}
	logger.AdminAction(actor.Email, "settings updated", "keys", settingKeys(changes))
	return nil
}

// Apps reports the release state of the fixed app catalogue, driven by the
// released_apps setting (comma-separated app keys).
func (s *Settings) Apps() ([]domain.AppRelease, error) {
	value, err := s.storage.Setting("released_apps")
	if err != nil && !internal_errors.IsNotFound(err) {
		return nil, err
	}
	released := map[string]bool{}
	for _, key := range strings.Split(value, ",") {
		if key = strings.TrimSpace(key); key != "" {
			released[key] = true
		}
	}
	apps := make([]domain.AppRelease, 0, len(domain.AppKeys))
	for _, key := range domain.AppKeys {
		apps = append(apps, domain.AppRelease{Key: key, Released: released[key]})
	}
	return apps, nil
}

func (s *Settings) SetApps(actor domain.Identity, released []string) error {
	for _, key := range released {
		if !slices.Contains(domain.AppKeys, key) {
			return internal_errors.Validation("Unknown app", map[string]string{key: "is not in the app catalogue"})
		}
	}
	if err := s.storage.SetSetting("released_apps", strings.Join(released, ",")); err != nil {
		return err
	}
	logger.AdminAction(actor.Email, "released apps updated", "apps", strings.Join(released, ","))
	return nil
}

func settingKeys(changes domain.Settings) string {
	keys := make([]string, 0, len(changes))
	for key := range changes {
		keys = append(keys, key)
	}
	slices.Sort(keys)
	return strings.Join(keys, ",")
}
