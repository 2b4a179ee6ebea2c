package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGradeAnswer(t *testing.T) {
	tests := []struct {
		submitted, correct string
		points             float64
		wantCorrect        bool
		wantPoints         float64
	}{
		{"  paris  ", "Paris", 2, true, 2},
		{"PARIS", "paris ", 1, true, 1},
		{"Pariss", "Paris", 1, false, 0},
		{"", "", 1.5, true, 1.5},
		{"", "Paris", 1, false, 0},
		{"New  York", "new york", 1, false, 0},
		{"\ttrue\n", "True", 1, true, 1},
	}
	for _, tt := range tests {
		ok, pts := GradeAnswer(tt.submitted, tt.correct, tt.points)
		assert.Equal(t, tt.wantCorrect, ok, "%q vs %q", tt.submitted, tt.correct)
		assert.Equal(t, tt.wantPoints, pts)
	}
}

func TestScaleScore(t *testing.T) {
	assert.Equal(t, 0.0, ScaleScore(0, 0))
	assert.Equal(t, 0.0, ScaleScore(3, 0))
	assert.Equal(t, 20.0, ScaleScore(4, 4))
	assert.Equal(t, 5.0, ScaleScore(1, 4))
	assert.InDelta(t, 13.333333, ScaleScore(2, 3), 1e-6)
}

func TestCourseProgress(t *testing.T) {
	assert.Equal(t, 0.0, CourseProgress(0, 0))
	assert.Equal(t, 50.0, CourseProgress(1, 2))
	assert.Equal(t, 100.0, CourseProgress(3, 3))
}
