package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	log "github.com/sirupsen/logrus"
)

// GetPreference returns the stored value for key, or def when the key has
// never been written.
func (s *SQLiteStore) GetPreference(ctx context.Context, key string, def bool) (bool, error) {
	var value int
	err := s.db.GetContext(ctx, &value, "SELECT value FROM preferences WHERE key = ?", key)
	if errors.Is(err, sql.ErrNoRows) {
		return def, nil
	}
	if err != nil {
		return def, persistenceErr(fmt.Sprintf("reading preference %s", key), err)
	}
	return value != 0, nil
}

// SetPreference durably stores value under key.
func (s *SQLiteStore) SetPreference(ctx context.Context, key string, value bool) error {
	if strings.TrimSpace(key) == "" {
		return fmt.Errorf("%w: preference key must not be empty", ErrValidation)
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO preferences (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET
			value = excluded.value,
			updated_at = excluded.updated_at`,
		key, boolToInt(value), s.now().UTC(),
	)
	if err != nil {
		log.WithError(err).WithField("key", key).Error("writing preference failed")
		return persistenceErr(fmt.Sprintf("writing preference %s", key), err)
	}

	log.WithFields(log.Fields{"key": key, "value": value}).Debug("preference set")
	return nil
}
