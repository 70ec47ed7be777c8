package services

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/khamphay/laolotto-bot/internal/models"
)

func duplicateKeyError() error {
	return mongo.WriteException{
		WriteErrors: []mongo.WriteError{{Code: 11000, Message: "E11000 duplicate key error"}},
	}
}

// memWagerRepo is an in-memory WagerRepository enforcing the same
// (userId, roundId) uniqueness the Mongo index provides.
type memWagerRepo struct {
	mu     sync.Mutex
	wagers map[string]*models.Wager

	// missFinds makes the next N FindByUserAndRound calls miss, to force the
	// insert path into the unique-index collision.
	missFinds int
}

func newMemWagerRepo() *memWagerRepo {
	return &memWagerRepo{wagers: make(map[string]*models.Wager)}
}

func wagerKey(userID, roundID string) string {
	return userID + "|" + roundID
}

func (r *memWagerRepo) Create(ctx context.Context, wager *models.Wager) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := wagerKey(wager.UserID, wager.RoundID)
	if _, exists := r.wagers[key]; exists {
		return duplicateKeyError()
	}
	wager.ID = primitive.NewObjectID()
	copied := *wager
	r.wagers[key] = &copied
	return nil
}

func (r *memWagerRepo) FindByUserAndRound(ctx context.Context, userID, roundID string) (*models.Wager, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.missFinds > 0 {
		r.missFinds--
		return nil, mongo.ErrNoDocuments
	}
	wager, ok := r.wagers[wagerKey(userID, roundID)]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	copied := *wager
	return &copied, nil
}

func (r *memWagerRepo) FindByRound(ctx context.Context, roundID string) ([]*models.Wager, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []*models.Wager{}
	for _, wager := range r.wagers {
		if wager.RoundID == roundID {
			copied := *wager
			out = append(out, &copied)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UserID < out[j].UserID })
	return out, nil
}

func (r *memWagerRepo) FindByNumber(ctx context.Context, roundID, number string, position models.Position) ([]*models.Wager, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []*models.Wager{}
	for _, wager := range r.wagers {
		if wager.RoundID != roundID || wager.Number != number {
			continue
		}
		// PositionNone means no position filter, as in the Mongo implementation
		if position != models.PositionNone && wager.Position != position {
			continue
		}
		copied := *wager
		out = append(out, &copied)
	}
	return out, nil
}

func (r *memWagerRepo) CountByRound(ctx context.Context, roundID string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, wager := range r.wagers {
		if wager.RoundID == roundID {
			n++
		}
	}
	return n, nil
}

func (r *memWagerRepo) CountDistinctUsers(ctx context.Context, roundID string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	users := make(map[string]bool)
	for _, wager := range r.wagers {
		if wager.RoundID == roundID {
			users[wager.UserID] = true
		}
	}
	return int64(len(users)), nil
}

func (r *memWagerRepo) DeleteByRound(ctx context.Context, roundID string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for key, wager := range r.wagers {
		if wager.RoundID == roundID {
			delete(r.wagers, key)
			n++
		}
	}
	return n, nil
}

func (r *memWagerRepo) DeleteAll(ctx context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := int64(len(r.wagers))
	r.wagers = make(map[string]*models.Wager)
	return n, nil
}

func (r *memWagerRepo) EnsureIndexes(ctx context.Context) error { return nil }

// memResultRepo is an in-memory ResultRepository with the same one-result-
// per-round and publish-once semantics as the Mongo implementation.
type memResultRepo struct {
	mu      sync.Mutex
	results map[string]*models.Result
}

func newMemResultRepo() *memResultRepo {
	return &memResultRepo{results: make(map[string]*models.Result)}
}

func (r *memResultRepo) Create(ctx context.Context, result *models.Result) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.results[result.RoundID]; exists {
		return duplicateKeyError()
	}
	result.ID = primitive.NewObjectID()
	result.CreatedAt = time.Now()
	result.UpdatedAt = result.CreatedAt
	copied := *result
	r.results[result.RoundID] = &copied
	return nil
}

func (r *memResultRepo) FindByRound(ctx context.Context, roundID string) (*models.Result, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	result, ok := r.results[roundID]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	copied := *result
	return &copied, nil
}

func (r *memResultRepo) FindLatestPublished(ctx context.Context) (*models.Result, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var latest *models.Result
	for _, result := range r.results {
		if !result.IsPublished {
			continue
		}
		if latest == nil || result.AnnouncedAt.After(latest.AnnouncedAt) {
			latest = result
		}
	}
	if latest == nil {
		return nil, mongo.ErrNoDocuments
	}
	copied := *latest
	return &copied, nil
}

func (r *memResultRepo) MarkPublished(ctx context.Context, roundID string) (*models.Result, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	result, ok := r.results[roundID]
	if !ok || result.IsPublished {
		return nil, mongo.ErrNoDocuments
	}
	result.IsPublished = true
	result.AnnouncedAt = time.Now()
	result.UpdatedAt = result.AnnouncedAt
	copied := *result
	return &copied, nil
}

func (r *memResultRepo) DeleteAll(ctx context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := int64(len(r.results))
	r.results = make(map[string]*models.Result)
	return n, nil
}

func (r *memResultRepo) EnsureIndexes(ctx context.Context) error { return nil }

// fakeAnnouncer records outbound messages
type fakeAnnouncer struct {
	mu       sync.Mutex
	messages []string
	chatIDs  []int64
	sendErr  error
}

func (a *fakeAnnouncer) Send(chatID int64, text string) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.sendErr != nil {
		return a.sendErr
	}
	a.chatIDs = append(a.chatIDs, chatID)
	a.messages = append(a.messages, text)
	return nil
}

// fakeFormatter renders compact machine-checkable strings
type fakeFormatter struct{}

func (fakeFormatter) FormatAnnouncement(result *models.Result, breakdown *models.PrizeBreakdown) string {
	return fmt.Sprintf("announce %s %s winners=%d", result.RoundID, result.Digits4, breakdown.TotalWinners())
}

func (fakeFormatter) FormatReminder(roundID string, entries int64, cutoff time.Time) string {
	return fmt.Sprintf("remind %s entries=%d", roundID, entries)
}
