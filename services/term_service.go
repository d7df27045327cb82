package services

import (
	"errors"
	"sync"
	"time"

	"course-folder-api/config"
	"course-folder-api/models"

	"gorm.io/gorm"
)

// ErrNoActiveTerm is returned when no term is marked active.
var ErrNoActiveTerm = errors.New("no active term configured")

const activeTermTTL = 5 * time.Minute

var activeTermCache struct {
	mu      sync.RWMutex
	term    models.Term
	fetched time.Time
}

// ActiveTerm returns the current academic term. The result is cached for a
// few minutes since every folder create and deadline check asks for it.
func ActiveTerm(db *gorm.DB) (models.Term, error) {
	activeTermCache.mu.RLock()
	if !activeTermCache.fetched.IsZero() && time.Since(activeTermCache.fetched) < activeTermTTL {
		term := activeTermCache.term
		activeTermCache.mu.RUnlock()
		return term, nil
	}
	activeTermCache.mu.RUnlock()

	if db == nil {
		db = config.DB
	}

	var term models.Term
	err := db.Where("is_active = ? AND delete_at IS NULL", true).
		Order("start_date DESC").
		First(&term).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.Term{}, ErrNoActiveTerm
	}
	if err != nil {
		return models.Term{}, err
	}

	activeTermCache.mu.Lock()
	activeTermCache.term = term
	activeTermCache.fetched = time.Now()
	activeTermCache.mu.Unlock()

	return term, nil
}

// InvalidateActiveTermCache drops the cached term. Term handlers call it
// after any term mutation.
func InvalidateActiveTermCache() {
	activeTermCache.mu.Lock()
	activeTermCache.fetched = time.Time{}
	activeTermCache.mu.Unlock()
}
