package vocabulary

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/aijournal/aijournal/internal/db/repositories/entry"
	"github.com/aijournal/aijournal/internal/db/repositories/user"
)

// ----- Models -----

// Vocabulary is one learned word. Word is unique per user (case-sensitive
// exact match); registering an existing word again updates the meaning in
// place through Upsert rather than creating a duplicate row.
type Vocabulary struct {
	ID        uint      `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`

	UserID uint      `gorm:"column:user_id;not null;uniqueIndex:idx_vocabularies_user_word,priority:1" json:"user_id"`
	User   user.User `gorm:"constraint:OnDelete:CASCADE" json:"-"`

	Word      string `gorm:"column:word;type:varchar(255);not null;uniqueIndex:idx_vocabularies_user_word,priority:2" json:"word"`
	Meaning   string `gorm:"column:meaning;type:text;not null" json:"meaning"`
	Mastered  bool   `gorm:"column:mastered;not null;default:false" json:"mastered"`
	Favorited bool   `gorm:"column:favorited;not null;default:false" json:"favorited"`
}

// TableName sets the explicit table name.
func (Vocabulary) TableName() string {
	return "vocabularies"
}

// EntryVocabulary links a word to an entry it was learned from. One link per
// (entry, vocabulary) pair; removing the link leaves both sides intact.
type EntryVocabulary struct {
	ID        uint      `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`

	EntryID      uint        `gorm:"column:entry_id;not null;uniqueIndex:idx_entry_vocabularies_pair,priority:1" json:"entry_id"`
	Entry        entry.Entry `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	VocabularyID uint        `gorm:"column:vocabulary_id;not null;uniqueIndex:idx_entry_vocabularies_pair,priority:2" json:"vocabulary_id"`
	Vocabulary   Vocabulary  `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}

// TableName sets the explicit table name.
func (EntryVocabulary) TableName() string {
	return "entry_vocabularies"
}

// ----- Filters and projections -----

// Status filters for List and Flashcards.
const (
	FilterMastered   = "mastered"
	FilterUnmastered = "unmastered"
	FilterFavorited  = "favorited"
)

// WordUsage is one row of the most-used-words aggregation.
type WordUsage struct {
	Word       string `json:"word"`
	UsageCount int    `json:"usage_count"`
}

// EntryWordCount is one row of the words-by-entry aggregation: how many
// linked words each recent entry carries.
type EntryWordCount struct {
	Title     string    `gorm:"column:title" json:"title"`
	PostedOn  time.Time `gorm:"column:posted_on" json:"date"`
	WordCount int       `gorm:"column:word_count" json:"word_count"`
}

// ----- Repository Interface -----

type VocabularyRepository interface {
	// Upsert registers word for the user, updating meaning in place when the
	// word already exists. The conflict clause makes concurrent identical
	// submissions converge on one row instead of racing.
	Upsert(ctx context.Context, userID uint, word, meaning string) (*Vocabulary, bool, error)

	Create(ctx context.Context, v *Vocabulary) error
	Update(ctx context.Context, v *Vocabulary) error
	Delete(ctx context.Context, userID, id uint) error
	FindByID(ctx context.Context, userID, id uint) (*Vocabulary, error)
	FindByWord(ctx context.Context, userID uint, word string) (*Vocabulary, error)
	List(ctx context.Context, userID uint, search, filter string) ([]*Vocabulary, error)
	LinkEntry(ctx context.Context, entryID, vocabularyID uint) error
	CountByUser(ctx context.Context, userID uint) (int64, error)
	CountMastered(ctx context.Context, userID uint) (int64, error)
	CountFavorited(ctx context.Context, userID uint) (int64, error)
	CountCreatedSince(ctx context.Context, userID uint, since time.Time) (int64, error)
	MostUsedWords(ctx context.Context, userID uint, limit int) ([]WordUsage, error)
	WordsByEntry(ctx context.Context, userID uint, limit int) ([]EntryWordCount, error)
}

// ----- Implementation -----

type vocabularyRepository struct {
	db *gorm.DB
}

func NewVocabularyRepository(database *gorm.DB) VocabularyRepository {
	return &vocabularyRepository{db: database}
}

func (r *vocabularyRepository) Upsert(ctx context.Context, userID uint, word, meaning string) (*Vocabulary, bool, error) {
	// Existence check is only for the is-new flag in the result message; the
	// write itself is conflict-safe regardless of what this observes.
	existing, err := r.FindByWord(ctx, userID, word)
	if err != nil {
		return nil, false, err
	}

	v := &Vocabulary{
		UserID:  userID,
		Word:    word,
		Meaning: meaning,
	}
	err = r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "word"}},
			DoUpdates: clause.Assignments(map[string]interface{}{"meaning": meaning}),
		}).
		Create(v).Error
	if err != nil {
		return nil, false, err
	}

	// Re-read so the caller sees the surviving row (the conflict path keeps
	// the original primary key and flags).
	saved, err := r.FindByWord(ctx, userID, word)
	if err != nil {
		return nil, false, err
	}
	return saved, existing == nil, nil
}

func (r *vocabularyRepository) Create(ctx context.Context, v *Vocabulary) error {
	return r.db.WithContext(ctx).Create(v).Error
}

func (r *vocabularyRepository) Update(ctx context.Context, v *Vocabulary) error {
	return r.db.WithContext(ctx).Save(v).Error
}

func (r *vocabularyRepository) Delete(ctx context.Context, userID, id uint) error {
	return r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Delete(&Vocabulary{}, id).Error
}

func (r *vocabularyRepository) FindByID(ctx context.Context, userID, id uint) (*Vocabulary, error) {
	var v Vocabulary
	err := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		First(&v).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &v, nil
}

func (r *vocabularyRepository) FindByWord(ctx context.Context, userID uint, word string) (*Vocabulary, error) {
	var v Vocabulary
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND word = ?", userID, word).
		First(&v).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &v, nil
}

func (r *vocabularyRepository) List(ctx context.Context, userID uint, search, filter string) ([]*Vocabulary, error) {
	query := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC")

	if search != "" {
		query = query.Where("word LIKE ?", "%"+search+"%")
	}

	switch filter {
	case FilterMastered:
		query = query.Where("mastered = ?", true)
	case FilterUnmastered:
		query = query.Where("mastered = ?", false)
	case FilterFavorited:
		query = query.Where("favorited = ?", true)
	}

	var vocabularies []*Vocabulary
	if err := query.Find(&vocabularies).Error; err != nil {
		return nil, err
	}
	return vocabularies, nil
}

// LinkEntry creates the entry/word link, silently keeping an existing one.
func (r *vocabularyRepository) LinkEntry(ctx context.Context, entryID, vocabularyID uint) error {
	link := &EntryVocabulary{
		EntryID:      entryID,
		VocabularyID: vocabularyID,
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(link).Error
}

func (r *vocabularyRepository) CountByUser(ctx context.Context, userID uint) (int64, error) {
	return r.count(ctx, "user_id = ?", userID)
}

func (r *vocabularyRepository) CountMastered(ctx context.Context, userID uint) (int64, error) {
	return r.count(ctx, "user_id = ? AND mastered = true", userID)
}

func (r *vocabularyRepository) CountFavorited(ctx context.Context, userID uint) (int64, error) {
	return r.count(ctx, "user_id = ? AND favorited = true", userID)
}

func (r *vocabularyRepository) CountCreatedSince(ctx context.Context, userID uint, since time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&Vocabulary{}).
		Where("user_id = ? AND created_at >= ?", userID, since).
		Count(&count).Error
	return count, err
}

func (r *vocabularyRepository) count(ctx context.Context, cond string, userID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&Vocabulary{}).
		Where(cond, userID).
		Count(&count).Error
	return count, err
}

func (r *vocabularyRepository) WordsByEntry(ctx context.Context, userID uint, limit int) ([]EntryWordCount, error) {
	if limit <= 0 {
		limit = 10
	}
	var counts []EntryWordCount
	err := r.db.WithContext(ctx).
		Table("entries").
		Select("entries.title AS title, entries.posted_on AS posted_on, COUNT(entry_vocabularies.id) AS word_count").
		Joins("JOIN entry_vocabularies ON entry_vocabularies.entry_id = entries.id").
		Where("entries.user_id = ?", userID).
		Group("entries.id, entries.title, entries.posted_on").
		Order("entries.posted_on DESC").
		Limit(limit).
		Scan(&counts).Error
	if err != nil {
		return nil, err
	}
	return counts, nil
}

func (r *vocabularyRepository) MostUsedWords(ctx context.Context, userID uint, limit int) ([]WordUsage, error) {
	if limit <= 0 {
		limit = 5
	}
	var usages []WordUsage
	err := r.db.WithContext(ctx).
		Table("vocabularies").
		Select("vocabularies.word AS word, COUNT(entry_vocabularies.id) AS usage_count").
		Joins("JOIN entry_vocabularies ON entry_vocabularies.vocabulary_id = vocabularies.id").
		Where("vocabularies.user_id = ?", userID).
		Group("vocabularies.id, vocabularies.word").
		Order("COUNT(entry_vocabularies.id) DESC").
		Limit(limit).
		Scan(&usages).Error
	if err != nil {
		return nil, err
	}
	return usages, nil
}
