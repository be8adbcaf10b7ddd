package services

import (
	"context"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/aijournal/aijournal/internal/db/repositories/entry"
	"github.com/aijournal/aijournal/internal/db/repositories/user"
	"github.com/aijournal/aijournal/internal/db/repositories/vocabulary"
)

// In-memory repository fakes shared by the service tests. They implement the
// repository interfaces over plain maps, including the per-user-per-day and
// per-user-per-word uniqueness the real schema enforces.

type fakeEntryRepo struct {
	entries map[uint]*entry.Entry
	nextID  uint
	err     error
}

func newFakeEntryRepo() *fakeEntryRepo {
	return &fakeEntryRepo{entries: map[uint]*entry.Entry{}, nextID: 1}
}

func (r *fakeEntryRepo) Create(_ context.Context, e *entry.Entry) error {
	if r.err != nil {
		return r.err
	}
	for _, existing := range r.entries {
		if existing.UserID == e.UserID && sameDay(existing.PostedOn, e.PostedOn) {
			return gorm.ErrDuplicatedKey
		}
	}
	e.ID = r.nextID
	r.nextID++
	r.entries[e.ID] = cloneEntry(e)
	return nil
}

func (r *fakeEntryRepo) Update(_ context.Context, e *entry.Entry) error {
	if r.err != nil {
		return r.err
	}
	for id, existing := range r.entries {
		if id != e.ID && existing.UserID == e.UserID && sameDay(existing.PostedOn, e.PostedOn) {
			return gorm.ErrDuplicatedKey
		}
	}
	r.entries[e.ID] = cloneEntry(e)
	return nil
}

func (r *fakeEntryRepo) Delete(_ context.Context, userID, id uint) error {
	if r.err != nil {
		return r.err
	}
	if e, found := r.entries[id]; found && e.UserID == userID {
		delete(r.entries, id)
	}
	return nil
}

func (r *fakeEntryRepo) FindByID(_ context.Context, userID, id uint) (*entry.Entry, error) {
	if r.err != nil {
		return nil, r.err
	}
	if e, found := r.entries[id]; found && e.UserID == userID {
		return cloneEntry(e), nil
	}
	return nil, nil
}

func (r *fakeEntryRepo) FindByDate(_ context.Context, userID uint, date time.Time) (*entry.Entry, error) {
	if r.err != nil {
		return nil, r.err
	}
	for _, e := range r.entries {
		if e.UserID == userID && sameDay(e.PostedOn, date) {
			return cloneEntry(e), nil
		}
	}
	return nil, nil
}

func (r *fakeEntryRepo) ListByUser(_ context.Context, userID uint) ([]*entry.Entry, error) {
	if r.err != nil {
		return nil, r.err
	}
	var result []*entry.Entry
	for _, e := range r.entries {
		if e.UserID == userID {
			result = append(result, cloneEntry(e))
		}
	}
	return result, nil
}

func (r *fakeEntryRepo) ListRecent(_ context.Context, userID uint, limit int) ([]*entry.Entry, error) {
	all, err := r.ListByUser(context.Background(), userID)
	if err != nil {
		return nil, err
	}
	// Newest first.
	for i := 0; i < len(all); i++ {
		for j := i + 1; j < len(all); j++ {
			if all[j].PostedOn.After(all[i].PostedOn) {
				all[i], all[j] = all[j], all[i]
			}
		}
	}
	if limit > 0 && len(all) > limit {
		all = all[:limit]
	}
	return all, nil
}

func (r *fakeEntryRepo) Search(_ context.Context, userID uint, term string) ([]*entry.Entry, error) {
	if r.err != nil {
		return nil, r.err
	}
	var result []*entry.Entry
	for _, e := range r.entries {
		if e.UserID == userID &&
			(strings.Contains(e.Title, term) || strings.Contains(e.Content, term)) {
			result = append(result, cloneEntry(e))
		}
	}
	return result, nil
}

func (r *fakeEntryRepo) PostedDates(_ context.Context, userID uint) ([]time.Time, error) {
	if r.err != nil {
		return nil, r.err
	}
	var dates []time.Time
	for _, e := range r.entries {
		if e.UserID == userID {
			dates = append(dates, e.PostedOn)
		}
	}
	return dates, nil
}

func (r *fakeEntryRepo) CountByUser(_ context.Context, userID uint) (int64, error) {
	if r.err != nil {
		return 0, r.err
	}
	var count int64
	for _, e := range r.entries {
		if e.UserID == userID {
			count++
		}
	}
	return count, nil
}

func (r *fakeEntryRepo) CountSince(_ context.Context, userID uint, date time.Time) (int64, error) {
	if r.err != nil {
		return 0, r.err
	}
	var count int64
	for _, e := range r.entries {
		if e.UserID == userID && !e.PostedOn.Before(date) {
			count++
		}
	}
	return count, nil
}

func (r *fakeEntryRepo) CountInMonth(_ context.Context, userID uint, month time.Time) (int64, error) {
	if r.err != nil {
		return 0, r.err
	}
	var count int64
	for _, e := range r.entries {
		if e.UserID == userID &&
			e.PostedOn.Year() == month.Year() && e.PostedOn.Month() == month.Month() {
			count++
		}
	}
	return count, nil
}

func cloneEntry(e *entry.Entry) *entry.Entry {
	c := *e
	return &c
}

func sameDay(a, b time.Time) bool {
	return a.Format("2006-01-02") == b.Format("2006-01-02")
}

type fakeVocabRepo struct {
	words   map[uint]*vocabulary.Vocabulary
	links   map[[2]uint]struct{}
	byEntry []vocabulary.EntryWordCount
	nextID  uint
	err     error
}

func newFakeVocabRepo() *fakeVocabRepo {
	return &fakeVocabRepo{
		words:  map[uint]*vocabulary.Vocabulary{},
		links:  map[[2]uint]struct{}{},
		nextID: 1,
	}
}

func (r *fakeVocabRepo) Upsert(_ context.Context, userID uint, word, meaning string) (*vocabulary.Vocabulary, bool, error) {
	if r.err != nil {
		return nil, false, r.err
	}
	for _, v := range r.words {
		if v.UserID == userID && v.Word == word {
			v.Meaning = meaning
			return cloneVocab(v), false, nil
		}
	}
	v := &vocabulary.Vocabulary{ID: r.nextID, UserID: userID, Word: word, Meaning: meaning}
	r.nextID++
	r.words[v.ID] = v
	return cloneVocab(v), true, nil
}

func (r *fakeVocabRepo) Create(_ context.Context, v *vocabulary.Vocabulary) error {
	if r.err != nil {
		return r.err
	}
	v.ID = r.nextID
	r.nextID++
	r.words[v.ID] = cloneVocab(v)
	return nil
}

func (r *fakeVocabRepo) Update(_ context.Context, v *vocabulary.Vocabulary) error {
	if r.err != nil {
		return r.err
	}
	r.words[v.ID] = cloneVocab(v)
	return nil
}

func (r *fakeVocabRepo) Delete(_ context.Context, userID, id uint) error {
	if r.err != nil {
		return r.err
	}
	if v, found := r.words[id]; found && v.UserID == userID {
		delete(r.words, id)
	}
	return nil
}

func (r *fakeVocabRepo) FindByID(_ context.Context, userID, id uint) (*vocabulary.Vocabulary, error) {
	if r.err != nil {
		return nil, r.err
	}
	if v, found := r.words[id]; found && v.UserID == userID {
		return cloneVocab(v), nil
	}
	return nil, nil
}

func (r *fakeVocabRepo) FindByWord(_ context.Context, userID uint, word string) (*vocabulary.Vocabulary, error) {
	if r.err != nil {
		return nil, r.err
	}
	for _, v := range r.words {
		if v.UserID == userID && v.Word == word {
			return cloneVocab(v), nil
		}
	}
	return nil, nil
}

func (r *fakeVocabRepo) List(_ context.Context, userID uint, search, filter string) ([]*vocabulary.Vocabulary, error) {
	if r.err != nil {
		return nil, r.err
	}
	var result []*vocabulary.Vocabulary
	for _, v := range r.words {
		if v.UserID != userID {
			continue
		}
		if search != "" && !strings.Contains(v.Word, search) {
			continue
		}
		switch filter {
		case vocabulary.FilterMastered:
			if !v.Mastered {
				continue
			}
		case vocabulary.FilterUnmastered:
			if v.Mastered {
				continue
			}
		case vocabulary.FilterFavorited:
			if !v.Favorited {
				continue
			}
		}
		result = append(result, cloneVocab(v))
	}
	return result, nil
}

func (r *fakeVocabRepo) LinkEntry(_ context.Context, entryID, vocabularyID uint) error {
	if r.err != nil {
		return r.err
	}
	r.links[[2]uint{entryID, vocabularyID}] = struct{}{}
	return nil
}

func (r *fakeVocabRepo) CountByUser(_ context.Context, userID uint) (int64, error) {
	return r.countWhere(userID, func(*vocabulary.Vocabulary) bool { return true })
}

func (r *fakeVocabRepo) CountMastered(_ context.Context, userID uint) (int64, error) {
	return r.countWhere(userID, func(v *vocabulary.Vocabulary) bool { return v.Mastered })
}

func (r *fakeVocabRepo) CountFavorited(_ context.Context, userID uint) (int64, error) {
	return r.countWhere(userID, func(v *vocabulary.Vocabulary) bool { return v.Favorited })
}

func (r *fakeVocabRepo) CountCreatedSince(_ context.Context, userID uint, since time.Time) (int64, error) {
	return r.countWhere(userID, func(v *vocabulary.Vocabulary) bool { return !v.CreatedAt.Before(since) })
}

func (r *fakeVocabRepo) countWhere(userID uint, match func(*vocabulary.Vocabulary) bool) (int64, error) {
	if r.err != nil {
		return 0, r.err
	}
	var count int64
	for _, v := range r.words {
		if v.UserID == userID && match(v) {
			count++
		}
	}
	return count, nil
}

func (r *fakeVocabRepo) MostUsedWords(_ context.Context, userID uint, limit int) ([]vocabulary.WordUsage, error) {
	if r.err != nil {
		return nil, r.err
	}
	counts := map[uint]int{}
	for link := range r.links {
		counts[link[1]]++
	}
	var usages []vocabulary.WordUsage
	for id, n := range counts {
		if v, found := r.words[id]; found && v.UserID == userID {
			usages = append(usages, vocabulary.WordUsage{Word: v.Word, UsageCount: n})
		}
	}
	return usages, nil
}

func (r *fakeVocabRepo) WordsByEntry(_ context.Context, _ uint, limit int) ([]vocabulary.EntryWordCount, error) {
	if r.err != nil {
		return nil, r.err
	}
	if limit > 0 && len(r.byEntry) > limit {
		return r.byEntry[:limit], nil
	}
	return r.byEntry, nil
}

func cloneVocab(v *vocabulary.Vocabulary) *vocabulary.Vocabulary {
	c := *v
	return &c
}

type fakeUserRepo struct {
	users  map[uint]*user.User
	nextID uint
	err    error
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[uint]*user.User{}, nextID: 1}
}

func (r *fakeUserRepo) Create(_ context.Context, u *user.User) error {
	if r.err != nil {
		return r.err
	}
	for _, existing := range r.users {
		if existing.Email == u.Email {
			return gorm.ErrDuplicatedKey
		}
	}
	u.ID = r.nextID
	r.nextID++
	r.users[u.ID] = u
	return nil
}

func (r *fakeUserRepo) Update(_ context.Context, u *user.User) error {
	if r.err != nil {
		return r.err
	}
	for id, existing := range r.users {
		if id != u.ID && existing.Email == u.Email {
			return gorm.ErrDuplicatedKey
		}
	}
	r.users[u.ID] = u
	return nil
}

func (r *fakeUserRepo) Delete(_ context.Context, id uint) error {
	if r.err != nil {
		return r.err
	}
	delete(r.users, id)
	return nil
}

func (r *fakeUserRepo) FindByID(_ context.Context, id uint) (*user.User, error) {
	if r.err != nil {
		return nil, r.err
	}
	if u, found := r.users[id]; found {
		return u, nil
	}
	return nil, nil
}

func (r *fakeUserRepo) FindByEmail(_ context.Context, email string) (*user.User, error) {
	if r.err != nil {
		return nil, r.err
	}
	for _, u := range r.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, nil
}

// AI collaborator fakes.

type fakeTitleGen struct {
	title string
	err   error
	calls int
}

func (f *fakeTitleGen) Generate(context.Context, string) (string, error) {
	f.calls++
	return f.title, f.err
}

type fakeFeedbackGen struct {
	feedback string
	err      error
	calls    int
}

func (f *fakeFeedbackGen) Generate(context.Context, string, string) (string, error) {
	f.calls++
	return f.feedback, f.err
}

type fakeTranslator struct {
	translation string
	err         error
	calls       int
}

func (f *fakeTranslator) Translate(context.Context, string) (string, error) {
	f.calls++
	return f.translation, f.err
}
