package services

import "strings"

// ScoreScale is the top of the grading scale every attempt is reported on.
const ScoreScale = 20.0

func normalizeAnswer(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// GradeAnswer compares a submitted answer with the expected one, ignoring
// case and surrounding whitespace, and returns the points it earns.
func GradeAnswer(submitted, correct string, points float64) (bool, float64) {
	if normalizeAnswer(submitted) == normalizeAnswer(correct) {
		return true, points
	}
	return false, 0
}

// ScaleScore maps earned points onto [0, ScoreScale]. A quiz worth nothing scores 0.
func ScaleScore(earned, max float64) float64 {
	if max <= 0 {
		return 0
	}
	return earned / max * ScoreScale
}

// CourseProgress returns the share of quizzes passed as a percentage.
func CourseProgress(passed, total int) float64 {
	if total <= 0 {
		return 0
	}
	return float64(passed) / float64(total) * 100
}
