package service

import (
	"regexp"
	"strings"

	"github.com/stellar-edu/stellar-admin-api/internal/models"
)

// Output format per game mode, one line, two top-level semicolons:
//
//	extract:    passage;question;answer
//	truth:      passage;s1|s2|s3;lieIndex
//	scrutinize: passage;s1|s2|s3;falseIndex|evidence
var formatPatterns = map[models.GameMode]*regexp.Regexp{
	models.ModeExtract:    regexp.MustCompile(`^[^;\n]+;[^;\n]+;[^;\n]+$`),
	models.ModeTruth:      regexp.MustCompile(`^[^;\n]+;[^;|\n]+\|[^;|\n]+\|[^;|\n]+;[0-2]$`),
	models.ModeScrutinize: regexp.MustCompile(`^[^;\n]+;[^;|\n]+\|[^;|\n]+\|[^;|\n]+;[0-2]\|[^;\n]+$`),
}

// ValidFormat reports whether output matches the strict one-line format
// of the given game mode.
func ValidFormat(mode models.GameMode, output string) bool {
	pattern, ok := formatPatterns[mode]
	if !ok {
		return false
	}
	return pattern.MatchString(output)
}

// ParseCandidate splits a validated output into its three fields. Only
// the first two semicolons split; the answer field keeps any later ones.
func ParseCandidate(mode models.GameMode, output string) models.CandidateQuestion {
	parts := strings.SplitN(output, ";", 3)
	return models.CandidateQuestion{
		GameMode:  mode,
		GameID:    mode.GameID(),
		Passage:   strings.TrimSpace(parts[0]),
		Challenge: strings.TrimSpace(parts[1]),
		Answer:    strings.TrimSpace(parts[2]),
	}
}
