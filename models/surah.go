package models

import "time"

type RevelationType string

const (
	RevelationMeccan  RevelationType = "Meccan"
	RevelationMedinan RevelationType = "Medinan"
)

type Surah struct {
	ID                     uint           `json:"id" gorm:"primaryKey"`
	Number                 int            `json:"number" gorm:"uniqueIndex;not null"`
	Name                   string         `json:"name" gorm:"not null"`
	EnglishName            string         `json:"englishName" gorm:"not null"`
	EnglishNameTranslation string         `json:"englishNameTranslation" gorm:"not null"`
	NumberOfAyahs          int            `json:"numberOfAyahs" gorm:"not null;check:number_of_ayahs >= 1"`
	RevelationType         RevelationType `json:"revelationType" gorm:"type:varchar(16);not null"`
	CreatedAt              time.Time      `json:"createdAt"`
	UpdatedAt              time.Time      `json:"updatedAt"`
}

// DashboardSurah is the trimmed listing served on the dashboard.
type DashboardSurah struct {
	Num  int    `json:"num"`
	Name string `json:"name"`
}
