package service

import (
	"github.com/stellar-edu/stellar-admin-api/internal/models"
)

// Built-in demo dataset served when the platform backend is
// unreachable, so the dashboard stays browsable during outages and
// demos. Responses built from it carry a sample marker in their meta.

var weekLabels = []string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}

func sampleSectionStats() []models.SectionStat {
	return []models.SectionStat{
		{GradeLevel: 4, Section: "A1", StudentCount: 32, AvgStoryLevel: 18.4, AvgAccuracy: 72.5, ActivityLabels: weekLabels, ActivityData: []int{24, 28, 26, 30, 22, 12, 8}, CurrentDayIndex: 3},
		{GradeLevel: 4, Section: "A2", StudentCount: 30, AvgStoryLevel: 16.9, AvgAccuracy: 68.1, ActivityLabels: weekLabels, ActivityData: []int{22, 25, 27, 24, 20, 10, 6}, CurrentDayIndex: 3},
		{GradeLevel: 5, Section: "B1", StudentCount: 33, AvgStoryLevel: 34.2, AvgAccuracy: 75.8, ActivityLabels: weekLabels, ActivityData: []int{28, 30, 29, 31, 26, 14, 9}, CurrentDayIndex: 3},
		{GradeLevel: 5, Section: "B2", StudentCount: 31, AvgStoryLevel: 31.7, AvgAccuracy: 71.3, ActivityLabels: weekLabels, ActivityData: []int{25, 27, 28, 26, 23, 11, 7}, CurrentDayIndex: 3},
		{GradeLevel: 6, Section: "C1", StudentCount: 29, AvgStoryLevel: 52.6, AvgAccuracy: 81.2, ActivityLabels: weekLabels, ActivityData: []int{26, 28, 27, 29, 24, 13, 10}, CurrentDayIndex: 3},
		{GradeLevel: 6, Section: "C2", StudentCount: 28, AvgStoryLevel: 49.8, AvgAccuracy: 78.6, ActivityLabels: weekLabels, ActivityData: []int{23, 26, 25, 27, 21, 12, 8}, CurrentDayIndex: 3},
	}
}

func sampleOverview() *models.OverviewSnapshot {
	return &models.OverviewSnapshot{
		TotalStudents: 183,
		ActiveToday:   97,
		AvgStoryLevel: 33.9,
		Engagement: models.EngagementSeries{
			Labels:      weekLabels,
			DailyLogins: []int{148, 164, 157, 171, 136, 73, 47},
		},
		ChallengeAttempts: models.ChallengeAttempts{
			TextExtract:         412,
			TwoTruths:           388,
			StatementScrutinize: 275,
		},
	}
}

func sampleGameMastery() *models.GameMasterySet {
	return &models.GameMasterySet{
		TextExtract: models.GameMastery{
			AverageScore: 74.2,
			Leaderboard: []models.LeaderboardEntry{
				{Rank: 1, Name: "Maya Santos", Score: 98, Date: "2026-08-28"},
				{Rank: 2, Name: "Liam Reyes", Score: 95, Date: "2026-08-27"},
				{Rank: 3, Name: "Ava Cruz", Score: 93, Date: "2026-08-28"},
			},
		},
		TwoTruths: models.GameMastery{
			AverageScore: 69.8,
			Leaderboard: []models.LeaderboardEntry{
				{Rank: 1, Name: "Noah Garcia", Score: 97, Date: "2026-08-26"},
				{Rank: 2, Name: "Maya Santos", Score: 94, Date: "2026-08-28"},
				{Rank: 3, Name: "Ethan Lim", Score: 90, Date: "2026-08-25"},
			},
		},
		StatementScrutinize: models.GameMastery{
			AverageScore: 63.5,
			Leaderboard: []models.LeaderboardEntry{
				{Rank: 1, Name: "Ava Cruz", Score: 92, Date: "2026-08-27"},
				{Rank: 2, Name: "Sofia Tan", Score: 89, Date: "2026-08-28"},
				{Rank: 3, Name: "Liam Reyes", Score: 86, Date: "2026-08-24"},
			},
		},
	}
}
