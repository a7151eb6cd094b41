package services

import (
	"context"
	"strings"

	"quranstudy/apperror"
	"quranstudy/models"
)

type SearchService struct {
	store SurahStore
}

func NewSearchService(store SurahStore) *SearchService {
	return &SearchService{store: store}
}

// Search matches surah names case-insensitively; an empty query lists every surah.
func (s *SearchService) Search(ctx context.Context, query string) ([]models.Surah, error) {
	surahs, err := s.store.Search(ctx, strings.TrimSpace(query))
	if err != nil {
		return nil, apperror.Internal(err)
	}
	if surahs == nil {
		surahs = []models.Surah{}
	}
	return surahs, nil
}
