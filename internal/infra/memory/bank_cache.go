package memory

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"etika-quiz-service/internal/domain"
)

// BankLoader fetches the whole question bank from a backing store.
type BankLoader interface {
	LoadBank(ctx context.Context) ([]domain.Question, []domain.AnswerOption, error)
}

// BankCache caches the question bank with a TTL to avoid hitting the backing
// store on every request; the bank is read-only after seeding so staleness is
// bounded by the TTL.
type BankCache struct {
	loader BankLoader
	ttl    time.Duration
	clock  func() time.Time
	sf     singleflight.Group
	rnd    *rand.Rand

	mu        sync.RWMutex
	snapshot  *QuestionBank
	expiresAt time.Time
}

func NewBankCache(loader BankLoader, ttl time.Duration) *BankCache {
	return &BankCache{
		loader: loader,
		ttl:    ttl,
		clock:  time.Now,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (c *BankCache) RemainingIDs(ctx context.Context, excluded []int64) ([]int64, error) {
	bank, err := c.bank(ctx)
	if err != nil {
		return nil, err
	}
	return bank.RemainingIDs(ctx, excluded)
}

func (c *BankCache) QuestionByID(ctx context.Context, id int64) (domain.Question, error) {
	bank, err := c.bank(ctx)
	if err != nil {
		return domain.Question{}, err
	}
	return bank.QuestionByID(ctx, id)
}

func (c *BankCache) OptionsFor(ctx context.Context, questionID int64) ([]domain.AnswerOption, error) {
	bank, err := c.bank(ctx)
	if err != nil {
		return nil, err
	}
	return bank.OptionsFor(ctx, questionID)
}

func (c *BankCache) OptionByID(ctx context.Context, id int64) (domain.AnswerOption, error) {
	bank, err := c.bank(ctx)
	if err != nil {
		return domain.AnswerOption{}, err
	}
	return bank.OptionByID(ctx, id)
}

func (c *BankCache) bank(ctx context.Context) (*QuestionBank, error) {
	now := c.clock()

	c.mu.RLock()
	if c.snapshot != nil && c.expiresAt.After(now) {
		bank := c.snapshot
		c.mu.RUnlock()
		return bank, nil
	}
	c.mu.RUnlock()

	result, err, _ := c.sf.Do("bank", func() (interface{}, error) {
		now := c.clock()
		c.mu.RLock()
		if c.snapshot != nil && c.expiresAt.After(now) {
			bank := c.snapshot
			c.mu.RUnlock()
			return bank, nil
		}
		c.mu.RUnlock()

		questions, options, err := c.loader.LoadBank(ctx)
		if err != nil {
			return nil, err
		}
		bank := NewQuestionBank(questions, options)

		c.mu.Lock()
		c.snapshot = bank
		c.expiresAt = now.Add(c.ttlWithJitter())
		c.mu.Unlock()
		return bank, nil
	})
	if err != nil {
		return nil, err
	}
	return result.(*QuestionBank), nil
}

func (c *BankCache) ttlWithJitter() time.Duration {
	if c.ttl <= 0 {
		return 0
	}
	// add up to 10% jitter to spread expirations
	jitterMax := int64(c.ttl) / 10
	return c.ttl + time.Duration(c.rnd.Int63n(jitterMax+1))
}
