package analytics

import (
	"sort"
	"time"

	"github.com/waste3d/course-marketplace/internal/domain"
)

type CourseProgress struct {
	CourseID         string    `json:"courseId"`
	Title            string    `json:"title"`
	Progress         float64   `json:"progress"`
	CompletedLessons int       `json:"completedLessons"`
	TotalLessons     int       `json:"totalLessons"`
	LastAccessed     time.Time `json:"lastAccessed"`
}

// StudentDashboard lists a student's courses, most recently opened first.
// Enrollments whose course no longer exists are skipped.
func StudentDashboard(userID string, enrollments []domain.Enrollment, courses []domain.Course) []CourseProgress {
	byID := make(map[string]domain.Course, len(courses))
	for _, c := range courses {
		byID[c.ID] = c
	}

	var out []CourseProgress
	for _, e := range enrollments {
		if e.UserID != userID {
			continue
		}
		c, ok := byID[e.CourseID]
		if !ok {
			continue
		}
		done := 0
		for _, id := range e.CompletedLessonIDs {
			if c.HasLesson(id) {
				done++
			}
		}
		out = append(out, CourseProgress{
			CourseID:         c.ID,
			Title:            c.Title,
			Progress:         e.Progress(c),
			CompletedLessons: done,
			TotalLessons:     c.TotalLessons(),
			LastAccessed:     e.LastAccessed,
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].LastAccessed.After(out[j].LastAccessed)
	})
	return out
}
