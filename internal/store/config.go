package store

import (
	"database/sql"
	"errors"
	"fmt"
	"strconv"
)

// ErrSettingNotFound 设置项不存在
var ErrSettingNotFound = errors.New("setting not found")

const (
	keyRetirementAge = "retirement_age"
	keyRegion        = "region"
)

// Settings 用户保存的默认参数
type Settings struct {
	RetirementAge int    `json:"retirementAge"`
	Region        string `json:"region"`
}

// GetSetting 获取设置项
func (s *Store) GetSetting(key string) (string, error) {
	var value string
	err := s.db.QueryRow("SELECT value FROM settings WHERE key = ?", key).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", fmt.Errorf("%w: %s", ErrSettingNotFound, key)
		}
		return "", err
	}
	return value, nil
}

// SetSetting 设置项存在则更新
func (s *Store) SetSetting(key, value string) error {
	_, err := s.db.Exec(`
		INSERT INTO settings (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = ?, updated_at = CURRENT_TIMESTAMP
	`, key, value, value)
	return err
}

// GetSettings 读取保存的默认参数；未保存的字段沿用 fallback
func (s *Store) GetSettings(fallback Settings) (Settings, error) {
	out := fallback

	age, err := s.GetSetting(keyRetirementAge)
	switch {
	case err == nil:
		n, convErr := strconv.Atoi(age)
		if convErr != nil {
			return fallback, fmt.Errorf("invalid %s %q: %w", keyRetirementAge, age, convErr)
		}
		out.RetirementAge = n
	case !errors.Is(err, ErrSettingNotFound):
		return fallback, fmt.Errorf("failed to get %s: %w", keyRetirementAge, err)
	}

	region, err := s.GetSetting(keyRegion)
	switch {
	case err == nil:
		out.Region = region
	case !errors.Is(err, ErrSettingNotFound):
		return fallback, fmt.Errorf("failed to get %s: %w", keyRegion, err)
	}
	return out, nil
}

// SaveSettings 保存默认参数（调用方负责校验）
func (s *Store) SaveSettings(v Settings) error {
	if err := s.SetSetting(keyRetirementAge, strconv.Itoa(v.RetirementAge)); err != nil {
		return fmt.Errorf("failed to save %s: %w", keyRetirementAge, err)
	}
	if err := s.SetSetting(keyRegion, v.Region); err != nil {
		return fmt.Errorf("failed to save %s: %w", keyRegion, err)
	}
	return nil
}
