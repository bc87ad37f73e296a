package query

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/mihircjain/localhealthrepo/internal/domain"
	"github.com/mihircjain/localhealthrepo/internal/intent"
	"github.com/mihircjain/localhealthrepo/internal/observability"
)

// unknownIntentAnswer is returned when classification lands on no handler.
const unknownIntentAnswer = "I'm not sure how to answer that question. You can ask me about your activities, food, sleep, blood reports, medications, or workouts. For example, 'How was my sleep last week?' or 'What was my average heart rate during my last run?'"

// Result is the outcome of one submitted query.
type Result struct {
	QueryID     string
	Response    string
	SourcesUsed []string
}

// Engine is the orchestrator: it persists the incoming query, classifies
// it, routes it to the matching handler, and attaches the response to the
// stored record. Handler failures are recorded on the query before being
// returned.
type Engine struct {
	users      domain.UserStore
	queries    domain.QueryStore
	classifier *intent.Classifier
	handlers   map[intent.Intent]Handler

	// Now is swappable for tests.
	Now func() time.Time
}

// NewEngine wires the orchestrator over its stores and handlers.
func NewEngine(users domain.UserStore, queries domain.QueryStore, classifier *intent.Classifier, handlers map[intent.Intent]Handler) *Engine {
	return &Engine{
		users:      users,
		queries:    queries,
		classifier: classifier,
		handlers:   handlers,
		Now:        time.Now,
	}
}

// SubmitQuery records and answers one user question. The query record is
// created before any processing so a failing handler still leaves an
// auditable row; in that case the stored response carries the error text
// and the error is returned to the caller.
func (e *Engine) SubmitQuery(ctx context.Context, userID, queryText string) (*Result, error) {
	record := &domain.UserQuery{
		ID:        uuid.NewString(),
		UserID:    userID,
		QueryText: queryText,
		QueryTime: e.Now().UTC(),
	}
	if err := e.queries.CreateQuery(ctx, record); err != nil {
		return nil, fmt.Errorf("create query record: %w", err)
	}

	normalized := strings.TrimSpace(strings.ToLower(queryText))

	response, used, category, err := e.answer(ctx, userID, normalized)
	observability.RecordQuery(string(category), err, record.QueryTime)
	if err != nil {
		stored := fmt.Sprintf("Error processing query: %s", err)
		if attachErr := e.queries.AttachResponse(ctx, record.ID, stored, nil); attachErr != nil {
			return nil, fmt.Errorf("attach error response: %w", attachErr)
		}
		return nil, err
	}

	used = dedupeSources(used)
	if err := e.queries.AttachResponse(ctx, record.ID, response, used); err != nil {
		return nil, fmt.Errorf("attach response: %w", err)
	}

	return &Result{QueryID: record.ID, Response: response, SourcesUsed: used}, nil
}

func (e *Engine) answer(ctx context.Context, userID, query string) (string, []string, intent.Intent, error) {
	exists, err := e.users.UserExists(ctx, userID)
	if err != nil {
		return "", nil, "", err
	}
	if !exists {
		return "User not found", nil, "", nil
	}

	category := e.classifier.Classify(query)
	handler, ok := e.handlers[category]
	if !ok {
		return unknownIntentAnswer, nil, category, nil
	}

	response, used, err := handler.Handle(ctx, userID, query)
	return response, used, category, err
}
