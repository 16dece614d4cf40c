package devapi

import (
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrijs2005/bookflix/internal/client/models"
)

var (
	errNotFound      = errors.New("not found")
	errAlreadyExists = errors.New("already exists")
)

type user struct {
	profile      models.UserProfile
	passwordHash string
	salt         string
}

type subscription struct {
	ID        int64           `json:"id"`
	TierID    int64           `json:"tier"`
	Details   models.TierInfo `json:"tier_details"`
	StartDate time.Time       `json:"start_date"`
	EndDate   *time.Time      `json:"end_date,omitempty"`
	IsActive  bool            `json:"is_active"`
	Status    string          `json:"status"`
}

// store keeps every resource of the development API in memory.
type store struct {
	mu sync.RWMutex

	users    map[string]*user
	byName   map[string]string
	subs     map[string]*subscription
	favs     map[string]map[string]bool
	progress map[string]map[string]int
	nextSub  int64

	tiers []models.TierInfo
	books []models.Book
}

func newStore() *store {
	return &store{
		users:    make(map[string]*user),
		byName:   make(map[string]string),
		subs:     make(map[string]*subscription),
		favs:     make(map[string]map[string]bool),
		progress: make(map[string]map[string]int),
		tiers:    seedTiers(),
		books:    seedBooks(),
	}
}

func (s *store) createUser(p models.UserProfile, hash, salt string) (models.UserProfile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := strings.ToLower(p.Username)
	if _, ok := s.byName[key]; ok {
		return models.UserProfile{}, errAlreadyExists
	}

	p.ID = models.ID(uuid.NewString())
	p.Tier = models.TierFree.String()
	s.users[string(p.ID)] = &user{profile: p, passwordHash: hash, salt: salt}
	s.byName[key] = string(p.ID)
	return p, nil
}

func (s *store) userByName(username string) (user, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.byName[strings.ToLower(username)]
	if !ok {
		return user{}, errNotFound
	}
	return *s.users[id], nil
}

func (s *store) profile(id string) (models.UserProfile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[id]
	if !ok {
		return models.UserProfile{}, errNotFound
	}
	return u.profile, nil
}

func (s *store) updateProfile(id string, fn func(p *models.UserProfile)) (models.UserProfile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[id]
	if !ok {
		return models.UserProfile{}, errNotFound
	}
	fn(&u.profile)
	return u.profile, nil
}

func (s *store) tierByID(id int64) (models.TierInfo, bool) {
	for _, t := range s.tiers {
		if t.ID == id {
			return t, true
		}
	}
	return models.TierInfo{}, false
}

func (s *store) subscription(userID string) (subscription, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sub, ok := s.subs[userID]
	if !ok {
		return subscription{}, errNotFound
	}
	return *sub, nil
}

// subscribe replaces the user's subscription with one on tier, starting now.
func (s *store) subscribe(userID string, tier models.TierInfo, now time.Time) (subscription, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[userID]
	if !ok {
		return subscription{}, errNotFound
	}

	s.nextSub++
	sub := &subscription{
		ID:        s.nextSub,
		TierID:    tier.ID,
		Details:   tier,
		StartDate: now.UTC(),
		IsActive:  true,
		Status:    "active",
	}
	if d, ok := tierDurations[tier.Duration]; ok {
		end := sub.StartDate.Add(d)
		sub.EndDate = &end
	}
	s.subs[userID] = sub

	u.profile.IsSubscribed = tier.PaymentRequired
	u.profile.Tier = tier.Tier().String()
	return *sub, nil
}

func (s *store) book(id string) (models.Book, bool) {
	for _, b := range s.books {
		if string(b.ID) == id || b.OpenLibraryID == id {
			return b, true
		}
	}
	return models.Book{}, false
}

// search matches q against title, authors and subjects, case-insensitively.
func (s *store) search(q string) []models.Book {
	q = strings.ToLower(strings.TrimSpace(q))
	out := []models.Book{}
	for _, b := range s.books {
		hay := strings.ToLower(b.Title + " " + b.Authors + " " + strings.Join(b.Subjects, " "))
		if strings.Contains(hay, q) {
			out = append(out, b)
		}
	}
	return out
}

// newest returns the books ordered by first publication, latest first.
func (s *store) newest(n int) []models.Book {
	out := append([]models.Book(nil), s.books...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].FirstPublishYear > out[j].FirstPublishYear })
	if len(out) > n {
		out = out[:n]
	}
	return out
}

// recommended suggests books sharing a subject with the user's favorites,
// or the whole catalog when there are none.
func (s *store) recommended(userID string) []models.Book {
	s.mu.RLock()
	defer s.mu.RUnlock()

	subjects := map[string]bool{}
	for id := range s.favs[userID] {
		if b, ok := s.book(id); ok {
			for _, subj := range b.Subjects {
				subjects[subj] = true
			}
		}
	}
	if len(subjects) == 0 {
		return append([]models.Book(nil), s.books...)
	}

	out := []models.Book{}
	for _, b := range s.books {
		if s.favs[userID][string(b.ID)] {
			continue
		}
		for _, subj := range b.Subjects {
			if subjects[subj] {
				out = append(out, b)
				break
			}
		}
	}
	return out
}

func (s *store) setFavorite(userID, bookID string, on bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if on {
		if s.favs[userID] == nil {
			s.favs[userID] = make(map[string]bool)
		}
		s.favs[userID][bookID] = true
		return
	}
	delete(s.favs[userID], bookID)
}

func (s *store) setProgress(userID, bookID string, p int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.progress[userID] == nil {
		s.progress[userID] = make(map[string]int)
	}
	s.progress[userID][bookID] = p
}
