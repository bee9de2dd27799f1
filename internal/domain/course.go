package domain

import "time"

type CourseStatus string

const (
	CourseDraft     CourseStatus = "draft"
	CoursePublished CourseStatus = "published"
)

type HostingMode string

const (
	HostingInternal HostingMode = "internal"
	HostingExternal HostingMode = "external"
)

type Course struct {
	ID           string       `json:"id"`
	Title        string       `json:"title"`
	Description  string       `json:"description,omitempty"`
	Price        int64        `json:"price"`
	PromoPrice   *int64       `json:"promoPrice,omitempty"`
	Currency     string       `json:"currency,omitempty"`
	InstructorID string       `json:"instructorId"`
	Status       CourseStatus `json:"status"`
	HostingMode  HostingMode  `json:"hostingMode"`
	ExternalURL  string       `json:"externalUrl,omitempty"`
	Modules      []Module     `json:"modules"`
	Reviews      []Review     `json:"reviews"`
	CreatedAt    time.Time    `json:"createdAt"`
}

type Module struct {
	ID      string   `json:"id"`
	Title   string   `json:"title"`
	Lessons []Lesson `json:"lessons"`
}

type Lesson struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Duration string `json:"duration,omitempty"`
	VideoURL string `json:"videoUrl,omitempty"`
}

type Review struct {
	UserID  string    `json:"userId"`
	Rating  int       `json:"rating"`
	Comment string    `json:"comment"`
	Date    time.Time `json:"date"`
}

func (c Course) Key() string { return c.ID }

func (c Course) Clone() Course {
	out := c
	if c.PromoPrice != nil {
		p := *c.PromoPrice
		out.PromoPrice = &p
	}
	if c.Modules != nil {
		out.Modules = make([]Module, len(c.Modules))
		for i, m := range c.Modules {
			out.Modules[i] = m
			out.Modules[i].Lessons = append([]Lesson(nil), m.Lessons...)
		}
	}
	out.Reviews = append([]Review(nil), c.Reviews...)
	return out
}

// EffectivePrice is the promo price when one is set, otherwise the list price.
func (c Course) EffectivePrice() int64 {
	if c.PromoPrice != nil {
		return *c.PromoPrice
	}
	return c.Price
}

func (c Course) TotalLessons() int {
	n := 0
	for _, m := range c.Modules {
		n += len(m.Lessons)
	}
	return n
}

func (c Course) HasLesson(lessonID string) bool {
	for _, m := range c.Modules {
		for _, l := range m.Lessons {
			if l.ID == lessonID {
				return true
			}
		}
	}
	return false
}

func (c Course) AverageRating() float64 {
	if len(c.Reviews) == 0 {
		return 0
	}
	sum := 0
	for _, r := range c.Reviews {
		sum += r.Rating
	}
	return float64(sum) / float64(len(c.Reviews))
}

func (c Course) Validate() error {
	if c.ID == "" {
		return Invariant("course id is empty")
	}
	if c.Price < 0 {
		return Invariant("course %s price %d is negative", c.ID, c.Price)
	}
	if c.PromoPrice != nil && (*c.PromoPrice < 0 || *c.PromoPrice >= c.Price) {
		return Invariant("course %s promo price %d must be in [0, %d)", c.ID, *c.PromoPrice, c.Price)
	}
	switch c.Status {
	case CourseDraft, CoursePublished:
	default:
		return Invariant("course %s has unknown status %q", c.ID, c.Status)
	}
	switch c.HostingMode {
	case HostingInternal, HostingExternal:
	default:
		return Invariant("course %s has unknown hosting mode %q", c.ID, c.HostingMode)
	}
	for _, r := range c.Reviews {
		if r.Rating < 1 || r.Rating > 5 {
			return Invariant("course %s review rating %d outside 1..5", c.ID, r.Rating)
		}
	}
	return nil
}
