package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"quranstudy/apperror"
	"quranstudy/config"
	"quranstudy/models"
	"quranstudy/repository"
	"quranstudy/tracing"

	"go.uber.org/zap"
)

const (
	MinSurahNumber = 1
	MaxSurahNumber = 114
)

type SurahStore interface {
	Search(ctx context.Context, query string) ([]models.Surah, error)
	FindByNumber(ctx context.Context, number int) (*models.Surah, error)
	Upsert(ctx context.Context, surahs []models.Surah) error
}

// DashboardCache keeps the fetched dashboard listing.
type DashboardCache interface {
	GetDashboard(ctx context.Context) ([]models.DashboardSurah, bool, error)
	SetDashboard(ctx context.Context, surahs []models.DashboardSurah) error
}

type SurahService struct {
	store      SurahStore
	cache      DashboardCache
	client     *http.Client
	datasetURL string
	logger     *zap.Logger
}

func NewSurahService(store SurahStore, cache DashboardCache, cfg config.SurahConfig, logger *zap.Logger) *SurahService {
	return &SurahService{
		store:      store,
		cache:      cache,
		client:     tracing.NewHTTPClient(cfg.FetchTimeout),
		datasetURL: cfg.DatasetURL,
		logger:     logger,
	}
}

type uthmaniDataset struct {
	Quran struct {
		Surahs []struct {
			Num  json.Number `json:"num"`
			Name string      `json:"name"`
		} `json:"surahs"`
	} `json:"quran"`
}

// Dashboard lists every surah number and name from the external dataset.
func (s *SurahService) Dashboard(ctx context.Context) ([]models.DashboardSurah, error) {
	if surahs, ok, err := s.cache.GetDashboard(ctx); err != nil {
		s.logger.Warn("dashboard cache read failed", zap.Error(err))
	} else if ok {
		return surahs, nil
	}

	surahs, err := s.fetchDashboard(ctx)
	if err != nil {
		s.logger.Error("dashboard fetch failed", zap.String("url", s.datasetURL), zap.Error(err))
		return nil, apperror.BadGateway("Failed to fetch dashboard data", err)
	}
	if len(surahs) == 0 {
		return nil, apperror.NotFound("Dashboard data not found")
	}

	if err := s.cache.SetDashboard(ctx, surahs); err != nil {
		s.logger.Warn("dashboard cache write failed", zap.Error(err))
	}
	return surahs, nil
}

func (s *SurahService) fetchDashboard(ctx context.Context) ([]models.DashboardSurah, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.datasetURL, nil)
	if err != nil {
		return nil, err
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, fmt.Errorf("dataset responded with status %d", resp.StatusCode)
	}

	var dataset uthmaniDataset
	if err := json.NewDecoder(resp.Body).Decode(&dataset); err != nil {
		return nil, fmt.Errorf("decode dataset: %w", err)
	}

	surahs := make([]models.DashboardSurah, 0, len(dataset.Quran.Surahs))
	for _, entry := range dataset.Quran.Surahs {
		num, err := strconv.Atoi(entry.Num.String())
		if err != nil {
			return nil, fmt.Errorf("surah %q has a bad number: %w", entry.Name, err)
		}
		surahs = append(surahs, models.DashboardSurah{Num: num, Name: entry.Name})
	}
	return surahs, nil
}

func (s *SurahService) GetByNumber(ctx context.Context, number int) (*models.Surah, error) {
	if number < MinSurahNumber || number > MaxSurahNumber {
		return nil, apperror.NotFound("Surah not found")
	}
	surah, err := s.store.FindByNumber(ctx, number)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperror.NotFound("Surah not found")
	}
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return surah, nil
}

// Seed validates and upserts surahs, keyed by number.
func (s *SurahService) Seed(ctx context.Context, surahs []models.Surah) error {
	for _, surah := range surahs {
		if err := validateSurah(surah); err != nil {
			return err
		}
	}
	if err := s.store.Upsert(ctx, surahs); err != nil {
		return err
	}
	s.logger.Info("surahs seeded", zap.Int("count", len(surahs)))
	return nil
}

func validateSurah(surah models.Surah) error {
	switch {
	case surah.Number < MinSurahNumber || surah.Number > MaxSurahNumber:
		return fmt.Errorf("surah number %d out of range", surah.Number)
	case surah.Name == "" || surah.EnglishName == "" || surah.EnglishNameTranslation == "":
		return fmt.Errorf("surah %d is missing a name", surah.Number)
	case surah.NumberOfAyahs < 1:
		return fmt.Errorf("surah %d must have at least one ayah", surah.Number)
	case surah.RevelationType != models.RevelationMeccan && surah.RevelationType != models.RevelationMedinan:
		return fmt.Errorf("surah %d has unknown revelation type %q", surah.Number, surah.RevelationType)
	}
	return nil
}

type RedisDashboardCache struct {
	*RedisCache
}

func NewRedisDashboardCache(cache *RedisCache) *RedisDashboardCache {
	return &RedisDashboardCache{RedisCache: cache}
}

func (c *RedisDashboardCache) GetDashboard(ctx context.Context) ([]models.DashboardSurah, bool, error) {
	var surahs []models.DashboardSurah
	ok, err := c.getJSON(ctx, "dashboard", &surahs)
	if !ok {
		return nil, false, err
	}
	return surahs, true, nil
}

func (c *RedisDashboardCache) SetDashboard(ctx context.Context, surahs []models.DashboardSurah) error {
	return c.setJSON(ctx, "dashboard", surahs)
}
