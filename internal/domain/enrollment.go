package domain

import (
	"strconv"
	"time"
)

type Enrollment struct {
	UserID             string    `json:"userId"`
	CourseID           string    `json:"courseId"`
	CompletedLessonIDs []string  `json:"completedLessonIds"`
	EnrolledAt         time.Time `json:"enrolledAt"`
	LastAccessed       time.Time `json:"lastAccessed"`
}

// EnrollmentKey length-prefixes the user id so ids containing the separator
// cannot collide.
func EnrollmentKey(userID, courseID string) string {
	return strconv.Itoa(len(userID)) + ":" + userID + ":" + courseID
}

func (e Enrollment) Key() string { return EnrollmentKey(e.UserID, e.CourseID) }

// Belongs reports whether e is the enrollment of userID in courseID.
func (e Enrollment) Belongs(userID, courseID string) bool {
	return e.UserID == userID && e.CourseID == courseID
}

func (e Enrollment) Clone() Enrollment {
	out := e
	out.CompletedLessonIDs = append([]string{}, e.CompletedLessonIDs...)
	return out
}

func (e Enrollment) HasCompleted(lessonID string) bool {
	for _, id := range e.CompletedLessonIDs {
		if id == lessonID {
			return true
		}
	}
	return false
}

// MarkCompleted adds lessonID with set semantics and reports whether it was new.
func (e *Enrollment) MarkCompleted(lessonID string) bool {
	if e.HasCompleted(lessonID) {
		return false
	}
	e.CompletedLessonIDs = append(e.CompletedLessonIDs, lessonID)
	return true
}

// Progress is derived on read and never stored.
func (e Enrollment) Progress(course Course) float64 {
	total := course.TotalLessons()
	if total == 0 {
		return 0
	}
	done := 0
	for _, id := range e.CompletedLessonIDs {
		if course.HasLesson(id) {
			done++
		}
	}
	p := float64(done) / float64(total) * 100
	if p > 100 {
		p = 100
	}
	return p
}
