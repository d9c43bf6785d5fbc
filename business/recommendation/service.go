package recommendation

import (
	"context"
	"errors"
	"fmt"
	"smartShop/domain"
	"smartShop/pkg/logger"
	"sync"
	"time"
)

const (
	// full recompute reads a wider history window than a cache hit, which
	// only refreshes the viewed-product exclusion set.
	recomputeEventWindow = 100
	cachedViewedWindow   = 50
)

var ErrMissingUserID = errors.New("user_id is required")

// ---- Repository interfaces ----

type InteractionRepository interface {
	FindRecentEvents(ctx context.Context, userID string, limit int) ([]domain.InteractionEvent, error)
	FindRecentProductIDs(ctx context.Context, userID string, limit int) ([]string, error)
}

type ProductRepository interface {
	FindPopular(ctx context.Context, limit int) ([]domain.Product, error)
	FindByCategories(ctx context.Context, categories []string, excludeIDs []string, limit int) ([]domain.Product, error)
	FindOutsideCategories(ctx context.Context, categories []string, excludeIDs []string, limit int) ([]domain.Product, error)
}

// ExplanationRepository produces the justification text for one candidate.
// The live client never returns an error — every failure degrades to a
// fallback string — but the contract keeps the error so the orchestrator's
// partial-failure handling stays testable.
type ExplanationRepository interface {
	Explain(ctx context.Context, productName, productCategory string, history []domain.HistoryItem) (string, error)
}

// ---- Usecase / Service ----

type RecommendationService struct {
	interactionRepo InteractionRepository
	productRepo     ProductRepository
	explanationRepo ExplanationRepository
	cache           PreferenceCache
}

func NewRecommendationService(
	interactionRepo InteractionRepository,
	productRepo ProductRepository,
	explanationRepo ExplanationRepository,
	cache PreferenceCache,
) *RecommendationService {
	return &RecommendationService{
		interactionRepo: interactionRepo,
		productRepo:     productRepo,
		explanationRepo: explanationRepo,
		cache:           cache,
	}
}

// Recommend resolves the user's top categories (cache or recompute), selects
// candidates and fans out one explanation call per candidate. Output order
// follows the candidate set, never completion order. Store failures abort the
// request; explanation failures never do.
func (s *RecommendationService) Recommend(ctx context.Context, userID string) ([]domain.Recommendation, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}
	if userID == "" {
		return nil, ErrMissingUserID
	}

	RecommendRequestsTotal.Inc()

	start := time.Now()
	defer func() {
		RecommendLatency.Observe(time.Since(start).Seconds())
	}()

	var (
		topCategories []string
		viewedIDs     []string
		history       []domain.HistoryItem
	)

	if cached, ok := s.cache.Get(userID); ok {
		PreferenceCacheHitsTotal.Inc()
		topCategories = cached

		// cached categories are reused, but viewed-product exclusion
		// must stay fresh
		ids, err := s.interactionRepo.FindRecentProductIDs(ctx, userID, cachedViewedWindow)
		if err != nil {
			logger.Error("failed to fetch recent interaction ids", "user_id", userID, "error", err)
			return nil, fmt.Errorf("fetch recent interactions: %w", err)
		}
		viewedIDs = ids
	} else {
		PreferenceCacheMissesTotal.Inc()

		events, err := s.interactionRepo.FindRecentEvents(ctx, userID, recomputeEventWindow)
		if err != nil {
			logger.Error("failed to fetch interaction events", "user_id", userID, "error", err)
			return nil, fmt.Errorf("fetch recent interactions: %w", err)
		}

		topCategories = TopCategories(events)
		s.cache.Put(userID, topCategories)

		viewedIDs = make([]string, 0, len(events))
		history = make([]domain.HistoryItem, 0, len(events))
		for _, ev := range events {
			viewedIDs = append(viewedIDs, ev.ProductID)
			history = append(history, domain.HistoryItem{
				Category: ev.Category,
				Action:   ev.ActionType,
			})
		}
	}

	// no preference signal at all: serve the popular pool, still explained
	if len(topCategories) == 0 {
		products, err := s.selectCandidates(ctx, nil, nil)
		if err != nil {
			return nil, err
		}
		return s.explainPopular(ctx, products), nil
	}

	products, err := s.selectCandidates(ctx, topCategories, viewedIDs)
	if err != nil {
		return nil, err
	}

	return s.explainAll(ctx, products, history), nil
}

// explainAll fans out explanation calls for the personalized branch. A
// candidate whose call fails is dropped from the result; the rest survive.
func (s *RecommendationService) explainAll(
	ctx context.Context,
	products []domain.Product,
	history []domain.HistoryItem,
) []domain.Recommendation {

	type outcome struct {
		explanation string
		err         error
	}

	outcomes := make([]outcome, len(products))

	var wg sync.WaitGroup
	for i, p := range products {
		wg.Add(1)
		go func(i int, p domain.Product) {
			defer wg.Done()
			text, err := s.explanationRepo.Explain(ctx, p.Name, p.Category, history)
			outcomes[i] = outcome{explanation: text, err: err}
		}(i, p)
	}
	wg.Wait()

	recs := make([]domain.Recommendation, 0, len(products))
	for i, o := range outcomes {
		if o.err != nil {
			logger.Warn("dropping candidate without explanation",
				"product_id", products[i].ID,
				"error", o.err,
			)
			ExplanationDropsTotal.Inc()
			continue
		}
		recs = append(recs, domain.Recommendation{
			Product:     products[i],
			Explanation: o.explanation,
		})
	}

	return recs
}

// explainPopular fans out over the fallback pool. Nothing is dropped here: a
// failed call gets a generic templated line instead.
func (s *RecommendationService) explainPopular(ctx context.Context, products []domain.Product) []domain.Recommendation {
	recs := make([]domain.Recommendation, len(products))

	var wg sync.WaitGroup
	for i, p := range products {
		wg.Add(1)
		go func(i int, p domain.Product) {
			defer wg.Done()
			text, err := s.explanationRepo.Explain(ctx, p.Name, p.Category, nil)
			if err != nil {
				text = fmt.Sprintf("This %s product is popular and might interest you.", p.Category)
			}
			recs[i] = domain.Recommendation{Product: p, Explanation: text}
		}(i, p)
	}
	wg.Wait()

	return recs
}
