package catalog

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"mizan/internal"
	"mizan/internal/config"
	"mizan/internal/util"
)

// FetchedAtLayout is the timestamp format of the fetched_at metadata.
const FetchedAtLayout = "2006-01-02 15:04:05"

type searcher interface {
	Search(ctx context.Context, query string, page int) ([]map[string]any, error)
}

// FetchService harvests raw products brand by brand.
type FetchService struct {
	client   searcher
	keywords *config.Keywords
	logger   *zap.Logger
	now      func() time.Time
}

func NewFetchService(cfg config.Config, keywords *config.Keywords, logger *zap.Logger) *FetchService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FetchService{client: NewClient(cfg), keywords: keywords, logger: logger, now: time.Now}
}

// Fetch collects up to limit usable products. A failed search is logged and
// counted as no results; only a cancelled ctx stops the harvest with an error.
func (s *FetchService) Fetch(ctx context.Context, limit int) (internal.Collection, error) {
	if limit <= 0 {
		return internal.Collection{}, fmt.Errorf("fetch limit must be positive, got %d", limit)
	}
	products := make([]internal.Product, 0, limit)
	slugs := util.NewSlugSet()
	seenCodes := map[string]struct{}{}

	for _, brand := range s.keywords.Brands {
		if len(products) >= limit {
			break
		}

		s.logger.Info("searching brand", zap.String("brand", brand))
		results, err := s.client.Search(ctx, brand, 1)
		if err != nil {
			if ctx.Err() != nil {
				return internal.Collection{}, ctx.Err()
			}
			s.logger.Warn("search failed", zap.String("brand", brand), zap.Error(err))
			continue
		}

		for _, raw := range results {
			if len(products) >= limit {
				break
			}

			code := toString(raw["code"])
			if _, ok := seenCodes[code]; ok {
				continue
			}
			seenCodes[code] = struct{}{}

			if !IsUsable(raw) {
				continue
			}
			product, err := ToProduct(raw, s.keywords, slugs)
			if err != nil {
				s.logger.Warn("skipping product", zap.String("code", code), zap.Error(err))
				continue
			}
			products = append(products, product)
			s.logger.Debug("added product", zap.String("name", product.Name))
		}
	}

	out := internal.Collection{Products: products}
	if err := out.SetMeta("source", sourceName); err != nil {
		return internal.Collection{}, err
	}
	if err := out.SetMeta("fetched_at", s.now().Format(FetchedAtLayout)); err != nil {
		return internal.Collection{}, err
	}
	return out, nil
}
