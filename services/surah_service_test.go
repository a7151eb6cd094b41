package services

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"quranstudy/config"
	"quranstudy/models"
	"quranstudy/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var testSurahs = []models.Surah{
	{Number: 1, Name: "الفاتحة", EnglishName: "Al-Faatiha", EnglishNameTranslation: "The Opening", NumberOfAyahs: 7, RevelationType: models.RevelationMeccan},
	{Number: 108, Name: "الكوثر", EnglishName: "Al-Kawthar", EnglishNameTranslation: "Abundance", NumberOfAyahs: 3, RevelationType: models.RevelationMeccan},
	{Number: 110, Name: "النصر", EnglishName: "An-Nasr", EnglishNameTranslation: "Divine Support", NumberOfAyahs: 3, RevelationType: models.RevelationMedinan},
}

func newSurahService(t *testing.T, datasetURL string) *SurahService {
	_, rdb := newTestRedis(t)
	return NewSurahService(
		repository.NewSurahRepository(newTestDB(t)),
		NewRedisDashboardCache(NewRedisCache(rdb, "surah", time.Hour)),
		config.SurahConfig{DatasetURL: datasetURL, FetchTimeout: time.Second},
		zap.NewNop(),
	)
}

func TestDashboardFetchesOnceThenCaches(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		_, _ = w.Write([]byte(`{"quran":{"surahs":[{"num":"1","name":"الفاتحة","ayahs":[]},{"num":2,"name":"البقرة"}]}}`))
	}))
	defer srv.Close()

	svc := newSurahService(t, srv.URL)
	ctx := context.Background()

	first, err := svc.Dashboard(ctx)
	require.NoError(t, err)
	assert.Equal(t, []models.DashboardSurah{{Num: 1, Name: "الفاتحة"}, {Num: 2, Name: "البقرة"}}, first)

	second, err := svc.Dashboard(ctx)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.EqualValues(t, 1, atomic.LoadInt32(&hits))
}

func TestDashboardUpstreamFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	_, err := newSurahService(t, srv.URL).Dashboard(context.Background())
	requireStatus(t, err, http.StatusBadGateway)
}

func TestSurahSeedAndLookup(t *testing.T) {
	svc := newSurahService(t, "http://unused.invalid")
	ctx := context.Background()

	require.NoError(t, svc.Seed(ctx, testSurahs))

	surah, err := svc.GetByNumber(ctx, 108)
	require.NoError(t, err)
	assert.Equal(t, "Al-Kawthar", surah.EnglishName)

	_, err = svc.GetByNumber(ctx, 2)
	requireStatus(t, err, http.StatusNotFound)

	_, err = svc.GetByNumber(ctx, 115)
	requireStatus(t, err, http.StatusNotFound)

	bad := testSurahs[0]
	bad.RevelationType = "Unknown"
	assert.Error(t, svc.Seed(ctx, []models.Surah{bad}))
}

func TestSearchService(t *testing.T) {
	db := newTestDB(t)
	store := repository.NewSurahRepository(db)
	require.NoError(t, store.Upsert(context.Background(), testSurahs))
	svc := NewSearchService(store)

	all, err := svc.Search(context.Background(), "")
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, 7, all[2].NumberOfAyahs)

	found, err := svc.Search(context.Background(), "  an-NASR ")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, 110, found[0].Number)

	none, err := svc.Search(context.Background(), "zzz")
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)
}
