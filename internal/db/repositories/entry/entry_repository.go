package entry

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/aijournal/aijournal/internal/db/repositories/user"
)

// ----- Model -----

// Entry is one dated journal post. PostedOn is a calendar date and is unique
// per user: at most one entry per (user, day), enforced by the composite
// index below.
type Entry struct {
	ID        uint      `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`

	UserID uint      `gorm:"column:user_id;not null;uniqueIndex:idx_entries_user_posted_on,priority:1" json:"user_id"`
	User   user.User `gorm:"constraint:OnDelete:CASCADE" json:"-"`

	Title    string    `gorm:"column:title;type:varchar(100);not null" json:"title"`
	Content  string    `gorm:"column:content;type:text;not null" json:"content"`
	PostedOn time.Time `gorm:"column:posted_on;type:date;not null;uniqueIndex:idx_entries_user_posted_on,priority:2" json:"posted_on"`

	// ContentJA is the pre-translation Japanese source, AiTranslate the
	// cached translation, Response the cached AI feedback. Response is
	// written at most once through the feedback flow.
	ContentJA   string `gorm:"column:content_ja;type:text" json:"content_ja,omitempty"`
	AiTranslate string `gorm:"column:ai_translate;type:text" json:"ai_translate,omitempty"`
	Response    string `gorm:"column:response;type:text" json:"response,omitempty"`
	ImageKey    string `gorm:"column:image_key;type:varchar(255)" json:"image_key,omitempty"`
}

// TableName sets the explicit table name.
func (Entry) TableName() string {
	return "entries"
}

// ----- Repository Interface -----

type EntryRepository interface {
	Create(ctx context.Context, e *Entry) error
	Update(ctx context.Context, e *Entry) error
	Delete(ctx context.Context, userID, id uint) error
	FindByID(ctx context.Context, userID, id uint) (*Entry, error)
	FindByDate(ctx context.Context, userID uint, date time.Time) (*Entry, error)
	ListByUser(ctx context.Context, userID uint) ([]*Entry, error)
	ListRecent(ctx context.Context, userID uint, limit int) ([]*Entry, error)
	Search(ctx context.Context, userID uint, term string) ([]*Entry, error)
	PostedDates(ctx context.Context, userID uint) ([]time.Time, error)
	CountByUser(ctx context.Context, userID uint) (int64, error)
	CountSince(ctx context.Context, userID uint, date time.Time) (int64, error)
	CountInMonth(ctx context.Context, userID uint, month time.Time) (int64, error)
}

// ----- Implementation -----

type entryRepository struct {
	db *gorm.DB
}

func NewEntryRepository(database *gorm.DB) EntryRepository {
	return &entryRepository{db: database}
}

func (r *entryRepository) Create(ctx context.Context, e *Entry) error {
	return r.db.WithContext(ctx).Create(e).Error
}

func (r *entryRepository) Update(ctx context.Context, e *Entry) error {
	return r.db.WithContext(ctx).Save(e).Error
}

func (r *entryRepository) Delete(ctx context.Context, userID, id uint) error {
	return r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Delete(&Entry{}, id).Error
}

func (r *entryRepository) FindByID(ctx context.Context, userID, id uint) (*Entry, error) {
	var e Entry
	err := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		First(&e).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &e, nil
}

func (r *entryRepository) FindByDate(ctx context.Context, userID uint, date time.Time) (*Entry, error) {
	var e Entry
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND posted_on = ?", userID, date.Format("2006-01-02")).
		First(&e).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &e, nil
}

func (r *entryRepository) ListByUser(ctx context.Context, userID uint) ([]*Entry, error) {
	var entries []*Entry
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("posted_on DESC").
		Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

func (r *entryRepository) ListRecent(ctx context.Context, userID uint, limit int) ([]*Entry, error) {
	if limit <= 0 {
		limit = 5
	}
	var entries []*Entry
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("posted_on DESC").
		Limit(limit).
		Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

func (r *entryRepository) Search(ctx context.Context, userID uint, term string) ([]*Entry, error) {
	pattern := "%" + term + "%"
	var entries []*Entry
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND (title LIKE ? OR content LIKE ?)", userID, pattern, pattern).
		Order("posted_on DESC").
		Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

func (r *entryRepository) PostedDates(ctx context.Context, userID uint) ([]time.Time, error) {
	var dates []time.Time
	if err := r.db.WithContext(ctx).
		Model(&Entry{}).
		Where("user_id = ?", userID).
		Order("posted_on DESC").
		Pluck("posted_on", &dates).Error; err != nil {
		return nil, err
	}
	return dates, nil
}

func (r *entryRepository) CountByUser(ctx context.Context, userID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&Entry{}).
		Where("user_id = ?", userID).
		Count(&count).Error
	return count, err
}

func (r *entryRepository) CountSince(ctx context.Context, userID uint, date time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&Entry{}).
		Where("user_id = ? AND posted_on >= ?", userID, date.Format("2006-01-02")).
		Count(&count).Error
	return count, err
}

func (r *entryRepository) CountInMonth(ctx context.Context, userID uint, month time.Time) (int64, error) {
	first := time.Date(month.Year(), month.Month(), 1, 0, 0, 0, 0, time.UTC)
	next := first.AddDate(0, 1, 0)

	var count int64
	err := r.db.WithContext(ctx).
		Model(&Entry{}).
		Where("user_id = ? AND posted_on >= ? AND posted_on < ?",
			userID, first.Format("2006-01-02"), next.Format("2006-01-02")).
		Count(&count).Error
	return count, err
}
