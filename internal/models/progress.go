package models

import "time"

// MaxStoryLevel is the last story level a student can reach.
const MaxStoryLevel = 75

// SectionStat is one aggregated progress row per (gradeLevel, section)
// pair as served by the platform backend. Instances are never mutated;
// a refetch supersedes the whole slice.
type SectionStat struct {
	GradeLevel      int      `json:"gradeLevel"`
	Section         string   `json:"section"`
	StudentCount    int      `json:"studentCount"`
	AvgStoryLevel   float64  `json:"avgStoryLevel"`
	AvgAccuracy     float64  `json:"avgAccuracy"`
	ActivityLabels  []string `json:"activityLabels"`
	ActivityData    []int    `json:"activityData"`
	CurrentDayIndex int      `json:"currentDayIndex"`
}

// GradeRollup aggregates the sections of a single grade level. Derived
// on every aggregation call, never persisted.
type GradeRollup struct {
	GradeLevel      int           `json:"gradeLevel"`
	Sections        []SectionStat `json:"sections"`
	AvgStoryLevel   float64       `json:"avgStoryLevel"`
	AvgAccuracy     float64       `json:"avgAccuracy"`
	ActivityLabels  []string      `json:"activityLabels"`
	AvgActivityData []int         `json:"avgActivityData"`
}

// GameScores holds one student's cumulative score per game mode.
type GameScores struct {
	TextExtract         int `json:"textExtract"`
	TwoTruths           int `json:"twoTruths"`
	StatementScrutinize int `json:"statementScrutinize"`
}

// StudentRecord is the canonical roster row for a class. Game scores are
// nested under gameScores; this is the single record shape consumed by
// both the summary endpoints and the report exporters.
type StudentRecord struct {
	UserID           string     `json:"userID"`
	Name             string     `json:"name"`
	GradeLevel       int        `json:"gradeLevel"`
	Section          string     `json:"section"`
	StoryProgress    int        `json:"storyProgress"`
	ExperiencePoints int        `json:"experiencePoints"`
	GameScores       GameScores `json:"gameScores"`
	LastLogin        *time.Time `json:"lastLogin"`
}

// StudentDetail bundles everything the student drill-down page shows.
type StudentDetail struct {
	Student              StudentRecord     `json:"student"`
	Playtime             PlaytimeStats     `json:"playtime"`
	ChallengeAttempts    ChallengeAttempts `json:"challengeAttempts"`
	ChallengePerformance int               `json:"challengePerformance"`
	Achievements         []Achievement     `json:"achievements"`
	Engagement           EngagementSeries  `json:"engagement"`
	WeeklyAverages       WeeklyAverages    `json:"weeklyAverages"`
}

// PlaytimeStats tracks a student's reading habit.
type PlaytimeStats struct {
	ReadingStreak int        `json:"readingStreak"`
	LastActive    *time.Time `json:"lastActive"`
}

// Achievement is one earned badge.
type Achievement struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// WeeklyScore is one week's average score, week 0 being the current one.
type WeeklyScore struct {
	Week  int `json:"week"`
	Score int `json:"score"`
}

// WeeklyAverages groups weekly score series per game mode.
type WeeklyAverages struct {
	TextExtract         []WeeklyScore `json:"textExtract"`
	TwoTruths           []WeeklyScore `json:"twoTruths"`
	StatementScrutinize []WeeklyScore `json:"statementScrutinize"`
}
