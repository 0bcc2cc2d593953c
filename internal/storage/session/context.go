package session

import (
	"encoding/json"
	"fmt"
	"strconv"
	"sync"

	"github.com/futig/ai-compass/internal/entity"
)

// Context is the only way components touch the session store. It gives the
// store an explicit lifecycle: Create, Current, Clear.
type Context struct {
	// mu keeps the company and response ids of one session together.
	mu    sync.RWMutex
	store Store
}

func NewContext(store Store) *Context {
	return &Context{store: store}
}

// Create persists a freshly initialized visitor session. Previous identifiers
// are overwritten and in-progress answers dropped.
func (c *Context) Create(s entity.VisitorSession) error {
	if !s.Valid() {
		return fmt.Errorf("%w: visitor session %+v", entity.ErrInvalidParameter, s)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.store.Set(KeyCompanyID, strconv.FormatInt(s.CompanyID, 10))
	c.store.Set(KeyResponseID, strconv.FormatInt(s.ResponseID, 10))
	c.store.Delete(KeyAnswers)

	return nil
}

// Current returns the active visitor session or entity.ErrNoActiveSession.
func (c *Context) Current() (entity.VisitorSession, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	companyID, okCompany := c.readID(KeyCompanyID)
	responseID, okResponse := c.readID(KeyResponseID)
	if !okCompany || !okResponse {
		return entity.VisitorSession{}, entity.ErrNoActiveSession
	}

	return entity.VisitorSession{CompanyID: companyID, ResponseID: responseID}, nil
}

// Owns reports whether responseID belongs to the active session.
func (c *Context) Owns(responseID int64) bool {
	current, err := c.Current()
	return err == nil && current.ResponseID == responseID
}

// Clear removes every key of the browsing session.
func (c *Context) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.store.Clear()
}

func (c *Context) readID(key string) (int64, bool) {
	raw, ok := c.store.Get(key)
	if !ok {
		return 0, false
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// Questionnaire returns the cached questionnaire blob.
func (c *Context) Questionnaire() (entity.Questionnaire, bool) {
	raw, ok := c.store.Get(KeyQuestionnaire)
	if !ok {
		return nil, false
	}
	return entity.Questionnaire(raw), true
}

// HasQuestionnaire reports whether the questionnaire cache is populated.
func (c *Context) HasQuestionnaire() bool {
	_, ok := c.store.Get(KeyQuestionnaire)
	return ok
}

// CacheQuestionnaire stores the questionnaire unless a copy is already cached.
// The first writer wins; it reports whether this call wrote.
func (c *Context) CacheQuestionnaire(q entity.Questionnaire) (bool, error) {
	if !json.Valid(q) {
		return false, fmt.Errorf("%w: questionnaire is not valid JSON", entity.ErrInvalidParameter)
	}
	return c.store.Add(KeyQuestionnaire, string(q)), nil
}

// Answers returns the in-progress answers of the active session.
func (c *Context) Answers() (entity.AnswerState, error) {
	raw, ok := c.store.Get(KeyAnswers)
	if !ok {
		return entity.AnswerState{}, nil
	}

	var answers entity.AnswerState
	if err := json.Unmarshal([]byte(raw), &answers); err != nil {
		return nil, fmt.Errorf("decode cached answers: %w", err)
	}
	return answers, nil
}

// RecordAnswer merges one answer into the in-progress answer state.
func (c *Context) RecordAnswer(questionID int64, answerIDs []int64) error {
	answers, err := c.Answers()
	if err != nil {
		// A corrupt cache is replaced rather than blocking the visitor.
		answers = entity.AnswerState{}
	}
	answers[questionID] = append([]int64(nil), answerIDs...)

	raw, err := json.Marshal(answers)
	if err != nil {
		return fmt.Errorf("encode answers: %w", err)
	}
	c.store.Set(KeyAnswers, string(raw))

	return nil
}
