package database

import (
	"time"

	"github.com/cutmatch/cutmatch-backend/internal/domain/entities"
)

// SampleListings returns a small development corpus so the service is
// searchable out of the box without Postgres.
func SampleListings() []entities.Listing {
	postedAt := time.Now().Add(-48 * time.Hour)

	return []entities.Listing{
		{
			ID:          1,
			Title:       "ボブカット練習モデル募集",
			Description: "渋谷駅徒歩5分。ボブカット練習のカットモデルを募集しています。",
			Keywords:    []string{"ボブ", "カット", "練習"},
			Location: entities.ListingLocation{
				Station:    "渋谷駅",
				Address:    "東京都渋谷区道玄坂1-2-3",
				Prefecture: "東京都",
				DistanceKm: 0.4,
				Latitude:   35.658,
				Longitude:  139.701,
			},
			Price:         1000,
			OriginalPrice: 4500,
			Services:      []string{"カット"},
			Rating:        4.6,
			ReviewCount:   28,
			Assistant: entities.Assistant{
				Name:            "佐藤 美咲",
				ExperienceLevel: entities.ExperienceIntermediate,
			},
			Salon:           entities.Salon{Name: "hair salon LUCE", Rating: 4.4},
			Status:          entities.StatusRecruiting,
			Urgency:         entities.UrgencyNormal,
			PostedAt:        postedAt,
			AvailableDates:  []string{"2026-09-01", "2026-09-03"},
			AvailableTimes:  []string{"10:00", "14:00", "19:00"},
			Requirements:    []string{"肩上の長さ", "ブリーチなし"},
			ModelCount:      3,
			AppliedCount:    1,
			DurationMinutes: 90,
		},
		{
			ID:          2,
			Title:       "カラーモデル募集 バレイヤージュ",
			Description: "表参道のサロンでバレイヤージュの練習をさせていただけるカラーモデルを探しています。",
			Keywords:    []string{"カラー", "バレイヤージュ"},
			Location: entities.ListingLocation{
				Station:    "表参道駅",
				Address:    "東京都港区南青山3-4-5",
				Prefecture: "東京都",
				DistanceKm: 1.2,
				Latitude:   35.665,
				Longitude:  139.712,
			},
			Price:         2500,
			OriginalPrice: 12000,
			Services:      []string{"カラー", "トリートメント"},
			Rating:        4.8,
			ReviewCount:   54,
			Assistant: entities.Assistant{
				Name:            "田中 蓮",
				ExperienceLevel: entities.ExperienceAdvanced,
			},
			Salon:           entities.Salon{Name: "AVEC omotesando", Rating: 4.7},
			Status:          entities.StatusRecruiting,
			Urgency:         entities.UrgencyUrgent,
			PostedAt:        postedAt.Add(12 * time.Hour),
			AvailableDates:  []string{"2026-09-02"},
			AvailableTimes:  []string{"13:00", "18:00"},
			Requirements:    []string{"ロングヘア"},
			ModelCount:      2,
			AppliedCount:    2,
			DurationMinutes: 180,
		},
		{
			ID:          3,
			Title:       "メンズカットモデル募集",
			Description: "大阪梅田のサロンです。メンズのカット練習にご協力いただける方を募集中。",
			Keywords:    []string{"メンズ", "カット"},
			Location: entities.ListingLocation{
				Station:    "梅田駅",
				Address:    "大阪府大阪市北区梅田2-3-4",
				Prefecture: "大阪府",
				DistanceKm: 0.8,
				Latitude:   34.702,
				Longitude:  135.495,
			},
			Price:         800,
			OriginalPrice: 3800,
			Services:      []string{"カット"},
			Rating:        4.2,
			ReviewCount:   11,
			Assistant: entities.Assistant{
				Name:            "山本 大輝",
				ExperienceLevel: entities.ExperienceBeginner,
			},
			Salon:           entities.Salon{Name: "barber WORKS", Rating: 4.1},
			Status:          entities.StatusRecruiting,
			Urgency:         entities.UrgencyNormal,
			PostedAt:        postedAt.Add(-24 * time.Hour),
			AvailableDates:  []string{"2026-09-05", "2026-09-06"},
			AvailableTimes:  []string{"11:00", "16:00"},
			Requirements:    []string{"男性", "短髪OK"},
			ModelCount:      4,
			AppliedCount:    0,
			DurationMinutes: 60,
		},
	}
}
