package search

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go-board/internal/localtime"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type HistoryItem struct {
	ID          uint   `json:"pk"`
	Value       string `json:"value"`
	CreatedDate string `json:"created_date"`
}

// record snapshots the result count for query and appends a history event
// unless the identity already searched it within the dedup window. Both
// writes share a transaction; on postgres the upsert's row lock on the
// search value serializes concurrent identical searches.
func (s *Service) record(ctx context.Context, query string, total int, userID *uint, deviceID uint, now time.Time) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		value, err := upsertValue(tx, query, total, now)
		if err != nil {
			return err
		}

		recent, err := hasRecent(tx, value.ID, userID, deviceID, now.Add(-s.opts.DedupWindow))
		if err != nil {
			return err
		}
		if recent {
			return nil
		}

		event := Search{
			UserID:        userID,
			DeviceID:      deviceID,
			SearchValueID: value.ID,
			CreatedDate:   now,
		}
		if err := tx.Omit(clause.Associations).Create(&event).Error; err != nil {
			return fmt.Errorf("record search: %w", err)
		}
		return nil
	})
}

// upsertValue creates the SearchValue for query or overwrites its reference
// count with total.
func upsertValue(tx *gorm.DB, query string, total int, now time.Time) (*SearchValue, error) {
	sv := SearchValue{Value: query, ReferenceCount: total, CreatedDate: now}
	if err := tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "value"}},
		DoUpdates: clause.AssignmentColumns([]string{"reference_count"}),
	}).Create(&sv).Error; err != nil {
		return nil, fmt.Errorf("upsert search value: %w", err)
	}

	var stored SearchValue
	if err := tx.Where("value = ?", query).First(&stored).Error; err != nil {
		return nil, fmt.Errorf("load search value: %w", err)
	}
	return &stored, nil
}

// hasRecent looks for an event newer than since. Signed-in users are matched
// by account on any device; anonymous readers by device.
func hasRecent(tx *gorm.DB, valueID uint, userID *uint, deviceID uint, since time.Time) (bool, error) {
	q := tx.Model(&Search{}).Where("search_value_id = ? AND created_date > ?", valueID, since)
	if userID != nil {
		q = q.Where("user_id = ?", *userID)
	} else {
		q = q.Where("device_id = ? AND user_id IS NULL", deviceID)
	}
	var count int64
	if err := q.Count(&count).Error; err != nil {
		return false, fmt.Errorf("check recent searches: %w", err)
	}
	return count > 0, nil
}

// History returns the user's most recent searches, newest first. Anonymous
// callers get an empty list.
func (s *Service) History(ctx context.Context, userID *uint) ([]HistoryItem, error) {
	items := []HistoryItem{}
	if userID == nil {
		return items, nil
	}

	var rows []Search
	if err := s.db.WithContext(ctx).
		Preload("SearchValue").
		Where("user_id = ?", *userID).
		Order("created_date desc").
		Order("id desc").
		Limit(s.opts.HistoryLimit).
		Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("load history: %w", err)
	}

	for _, r := range rows {
		items = append(items, HistoryItem{
			ID:          r.ID,
			Value:       r.SearchValue.Value,
			CreatedDate: s.dates.Format(r.CreatedDate, localtime.HistoryDate),
		})
	}
	return items, nil
}

// DeleteHistory detaches the event from its owner. The row itself is kept
// for aggregate statistics. Events owned by someone else, already detached,
// or missing fail with ErrNotFound.
func (s *Service) DeleteHistory(ctx context.Context, userID *uint, id uint) error {
	if userID == nil {
		return ErrNotFound
	}
	tx := s.db.WithContext(ctx)

	var row Search
	if err := tx.Where("id = ? AND user_id = ?", id, *userID).First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("load history item: %w", err)
	}
	if err := tx.Model(&row).Update("user_id", nil).Error; err != nil {
		return fmt.Errorf("detach history item: %w", err)
	}
	return nil
}
