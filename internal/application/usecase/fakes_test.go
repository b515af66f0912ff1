package usecase

import (
	"context"
	"fmt"
	"sync"

	"signlearn/internal/domain"
)

// fakeUserStore keeps one user in memory and enforces the same version
// semantics as the gorm repository, including an optional number of
// injected conflicts to exercise the retry loops.
type fakeUserStore struct {
	mu        sync.Mutex
	user      *domain.User
	conflicts int
	writes    int
}

func newFakeUserStore(user *domain.User) *fakeUserStore {
	return &fakeUserStore{user: user}
}

func (s *fakeUserStore) Create(ctx context.Context, user *domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.user != nil && s.user.Email == user.Email {
		return domain.ErrUserAlreadyExists
	}
	s.user = user
	return nil
}

func (s *fakeUserStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.user == nil || s.user.Email != email {
		return nil, domain.ErrUserNotFound
	}
	copied := *s.user
	return &copied, nil
}

func (s *fakeUserStore) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.user == nil || s.user.Username != username {
		return nil, domain.ErrUserNotFound
	}
	copied := *s.user
	return &copied, nil
}

func (s *fakeUserStore) UpdateFields(ctx context.Context, email string, fields map[string]interface{}) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.user == nil || s.user.Email != email {
		return domain.ErrUserNotFound
	}
	s.apply(fields)
	return nil
}

func (s *fakeUserStore) UpdateVersioned(ctx context.Context, email string, version int64, fields map[string]interface{}) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.user == nil || s.user.Email != email {
		return domain.ErrUserNotFound
	}
	if s.conflicts > 0 {
		s.conflicts--
		s.user.Version++
		return domain.ErrVersionConflict
	}
	if s.user.Version != version {
		return domain.ErrVersionConflict
	}
	s.apply(fields)
	s.user.Version++
	s.writes++
	return nil
}

func (s *fakeUserStore) UpdatePassword(ctx context.Context, email string, hash string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.user == nil || s.user.Email != email {
		return domain.ErrUserNotFound
	}
	s.user.Password = hash
	return nil
}

func (s *fakeUserStore) apply(fields map[string]interface{}) {
	for k, v := range fields {
		switch k {
		case "time_played":
			s.user.TimePlayed = v.(float64)
		case "xp":
			s.user.XP = v.(int64)
		case "coins":
			s.user.Coins = v.(int64)
		case "hearts":
			s.user.Hearts = v.(int)
		case "hearts_next_refill":
			s.user.HeartsNextRefill = v.(string)
		case "current_level":
			s.user.CurrentLevel = v.(domain.LevelMap)
		case "letters_learned":
			s.user.LettersLearned = v.(domain.LettersMap)
		case "battlepass":
			s.user.Battlepass = v.(domain.SeasonEntries)
		case "items_inventory":
			s.user.ItemsInventory = v.(domain.StringList)
		case "activated_items":
			s.user.ActivatedItems = v.(domain.ActiveEffects)
		case "achievements":
			s.user.Achievements = v.(domain.StringList)
		case "sound":
			s.user.Sound = v.(bool)
		case "haptic":
			s.user.Haptic = v.(bool)
		case "notifications":
			s.user.Notifications = v.(bool)
		case "reminder":
			s.user.Reminder = v.(bool)
		case "language":
			s.user.Language = v.(string)
		}
	}
}

type fakeSeasonStore struct {
	seasons []domain.Season
}

func (s *fakeSeasonStore) GetAll(ctx context.Context) ([]domain.Season, error) {
	return s.seasons, nil
}

type fakeItemStore struct {
	items map[string]domain.Item
}

func (s *fakeItemStore) GetByID(ctx context.Context, id string) (*domain.Item, error) {
	item, ok := s.items[id]
	if !ok {
		return nil, domain.ErrItemNotFound
	}
	return &item, nil
}

func (s *fakeItemStore) List(ctx context.Context) ([]domain.Item, error) {
	out := []domain.Item{}
	for _, item := range s.items {
		out = append(out, item)
	}
	return out, nil
}

type fakeAchievementStore struct {
	achievements []domain.Achievement
}

func (s *fakeAchievementStore) GetAll(ctx context.Context) ([]domain.Achievement, error) {
	return s.achievements, nil
}

func (s *fakeAchievementStore) Page(ctx context.Context, limit, offset int) ([]domain.Achievement, error) {
	if offset >= len(s.achievements) {
		return []domain.Achievement{}, nil
	}
	end := offset + limit + 1
	if end > len(s.achievements) {
		end = len(s.achievements)
	}
	return s.achievements[offset:end], nil
}

type fakeTaskStore struct {
	banks map[string][]domain.Task // key: "<section>/<language>"
}

func (s *fakeTaskStore) BankFor(ctx context.Context, section int, languageID string) ([]domain.Task, error) {
	return s.banks[bankKey(section, languageID)], nil
}

func bankKey(section int, languageID string) string {
	return fmt.Sprintf("%d/%s", section, languageID)
}

type fakeLanguageStore struct {
	ids map[string]bool
}

func (s *fakeLanguageStore) GetByID(ctx context.Context, id string) (*domain.Language, error) {
	if !s.ids[id] {
		return nil, domain.ErrLanguageNotFound
	}
	return &domain.Language{ID: id}, nil
}
