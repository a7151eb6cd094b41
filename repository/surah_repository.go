package repository

import (
	"context"
	"strings"

	"quranstudy/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type SurahRepository struct {
	DB *gorm.DB
}

func NewSurahRepository(db *gorm.DB) *SurahRepository {
	return &SurahRepository{DB: db}
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// Search matches query case-insensitively against the three name columns.
// An empty query returns every surah. Results are ordered by ayah count.
func (r *SurahRepository) Search(ctx context.Context, query string) ([]models.Surah, error) {
	q := r.DB.WithContext(ctx).Model(&models.Surah{})
	if query != "" {
		pattern := "%" + likeEscaper.Replace(strings.ToLower(query)) + "%"
		q = q.Where(
			`LOWER(name) LIKE ? ESCAPE '\' OR LOWER(english_name) LIKE ? ESCAPE '\' OR LOWER(english_name_translation) LIKE ? ESCAPE '\'`,
			pattern, pattern, pattern,
		)
	}

	var surahs []models.Surah
	err := q.Order("number_of_ayahs ASC").Order("number ASC").Find(&surahs).Error
	return surahs, err
}

func (r *SurahRepository) FindByNumber(ctx context.Context, number int) (*models.Surah, error) {
	var surah models.Surah
	if err := r.DB.WithContext(ctx).Where("number = ?", number).First(&surah).Error; err != nil {
		return nil, notFound(err)
	}
	return &surah, nil
}

// Upsert inserts surahs or refreshes the existing row with the same number.
func (r *SurahRepository) Upsert(ctx context.Context, surahs []models.Surah) error {
	if len(surahs) == 0 {
		return nil
	}
	return r.DB.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "number"}},
		DoUpdates: clause.AssignmentColumns([]string{"name", "english_name", "english_name_translation", "number_of_ayahs", "revelation_type", "updated_at"}),
	}).Create(&surahs).Error
}
