package recommendation

import (
	"context"
	"fmt"
	"smartShop/domain"
	"smartShop/pkg/logger"
)

const (
	candidateTarget = 6
	candidatePool   = 8
)

// selectCandidates assembles the bounded candidate list. With no preferred
// categories it serves the stable "popular" pool. Otherwise it pulls from the
// preferred categories excluding already-viewed products, then backfills from
// the rest of the catalog when the primary pool runs short. The repository
// treats an empty viewedIDs as "exclude nothing" — never "exclude everything".
func (s *RecommendationService) selectCandidates(
	ctx context.Context,
	topCategories []string,
	viewedIDs []string,
) ([]domain.Product, error) {

	if len(topCategories) == 0 {
		products, err := s.productRepo.FindPopular(ctx, candidatePool)
		if err != nil {
			return nil, fmt.Errorf("load popular products: %w", err)
		}
		if len(products) > candidateTarget {
			products = products[:candidateTarget]
		}
		return products, nil
	}

	products, err := s.productRepo.FindByCategories(ctx, topCategories, viewedIDs, candidatePool)
	if err != nil {
		return nil, fmt.Errorf("load candidate products: %w", err)
	}

	if len(products) < candidateTarget {
		backfill, err := s.productRepo.FindOutsideCategories(ctx, topCategories, viewedIDs, candidateTarget-len(products))
		if err != nil {
			// backfill is best-effort; a short list beats a failed request
			logger.Warn("candidate backfill failed", "error", err)
		} else {
			products = append(products, backfill...)
		}
	}

	if len(products) > candidateTarget {
		products = products[:candidateTarget]
	}

	return products, nil
}
