package models

// EngagementSeries is a labelled daily-login time series.
type EngagementSeries struct {
	Labels      []string `json:"labels"`
	DailyLogins []int    `json:"dailyLogins"`
}

// ChallengeAttempts counts attempts per game mode.
type ChallengeAttempts struct {
	TextExtract         int `json:"textExtract"`
	TwoTruths           int `json:"twoTruths"`
	StatementScrutinize int `json:"statementScrutinize"`
}

// LeaderboardEntry is one ranked row of a game leaderboard.
type LeaderboardEntry struct {
	Rank  int    `json:"rank"`
	Name  string `json:"name"`
	Score int    `json:"score"`
	Date  string `json:"date"`
}

// GameMastery summarizes one game mode across the school.
type GameMastery struct {
	AverageScore float64            `json:"averageScore"`
	Leaderboard  []LeaderboardEntry `json:"leaderboard"`
}

// GameMasterySet groups mastery summaries for all three game modes.
type GameMasterySet struct {
	TextExtract         GameMastery `json:"textExtract"`
	TwoTruths           GameMastery `json:"twoTruths"`
	StatementScrutinize GameMastery `json:"statementScrutinize"`
}

// OverviewSnapshot is the school-wide landing page payload.
type OverviewSnapshot struct {
	TotalStudents     int               `json:"totalStudents"`
	ActiveToday       int               `json:"activeToday"`
	AvgStoryLevel     float64           `json:"avgStoryLevel"`
	Engagement        EngagementSeries  `json:"engagement"`
	ChallengeAttempts ChallengeAttempts `json:"challengeAttempts"`
}
