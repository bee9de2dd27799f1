package domain

import (
	"net/url"
	"strings"
	"time"
)

type Campaign struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Source       string    `json:"source"`
	Medium       string    `json:"medium"`
	Term         string    `json:"term,omitempty"`
	Content      string    `json:"content,omitempty"`
	BaseURL      string    `json:"baseUrl"`
	TrackingLink string    `json:"trackingLink"`
	VendorID     string    `json:"vendorId,omitempty"`
	Clicks       int64     `json:"clicks"`
	Sales        int64     `json:"sales"`
	Revenue      int64     `json:"revenue"`
	Budget       int64     `json:"budget"`
	TargetSales  int64     `json:"targetSales"`
	IsActive     bool      `json:"isActive"`
	IsArchived   bool      `json:"isArchived"`
	CreatedAt    time.Time `json:"createdAt"`
}

func (c Campaign) Key() string { return c.ID }

func (c Campaign) Clone() Campaign { return c }

func (c Campaign) Params() TrackingParams {
	return TrackingParams{Source: c.Source, Medium: c.Medium, Campaign: c.Name, Term: c.Term, Content: c.Content}
}

// TrackingParams are the UTM parameters of a tagged link.
type TrackingParams struct {
	Source   string `json:"source"`
	Medium   string `json:"medium"`
	Campaign string `json:"campaign"`
	Term     string `json:"term,omitempty"`
	Content  string `json:"content,omitempty"`
}

// Slugify lower-cases name and joins whitespace-separated words with underscores.
func Slugify(name string) string {
	return strings.Join(strings.Fields(strings.ToLower(name)), "_")
}

// BuildTrackingLink appends UTM parameters in the fixed order source, medium,
// campaign, term, content. Existing utm_* parameters on base are dropped so
// re-tagging a tagged link yields the same string.
func BuildTrackingLink(base string, p TrackingParams) (string, error) {
	if strings.TrimSpace(p.Source) == "" || strings.TrimSpace(p.Medium) == "" {
		return "", Invariant("tracking link needs both source and medium")
	}
	if Slugify(p.Campaign) == "" {
		return "", Invariant("tracking link needs a campaign name")
	}
	u, err := url.Parse(strings.TrimSpace(base))
	if err != nil {
		return "", Invariant("invalid base url %q: %v", base, err)
	}

	var query []string
	for _, pair := range strings.Split(u.RawQuery, "&") {
		if pair == "" {
			continue
		}
		name := pair
		if i := strings.IndexByte(pair, '='); i >= 0 {
			name = pair[:i]
		}
		if strings.HasPrefix(strings.ToLower(name), "utm_") {
			continue
		}
		query = append(query, pair)
	}

	ordered := [...]struct{ key, value string }{
		{"utm_source", strings.TrimSpace(p.Source)},
		{"utm_medium", strings.TrimSpace(p.Medium)},
		{"utm_campaign", Slugify(p.Campaign)},
		{"utm_term", strings.TrimSpace(p.Term)},
		{"utm_content", strings.TrimSpace(p.Content)},
	}
	for _, kv := range ordered {
		if kv.value == "" {
			continue
		}
		query = append(query, kv.key+"="+url.QueryEscape(kv.value))
	}
	u.RawQuery = strings.Join(query, "&")
	return u.String(), nil
}

// ParseTrackingLink recovers the UTM parameters of a tagged link.
func ParseTrackingLink(link string) (TrackingParams, error) {
	u, err := url.Parse(strings.TrimSpace(link))
	if err != nil {
		return TrackingParams{}, Invariant("invalid tracking link %q: %v", link, err)
	}
	q := u.Query()
	return TrackingParams{
		Source:   q.Get("utm_source"),
		Medium:   q.Get("utm_medium"),
		Campaign: q.Get("utm_campaign"),
		Term:     q.Get("utm_term"),
		Content:  q.Get("utm_content"),
	}, nil
}

// Matches reports whether a parsed link was generated for this campaign.
func (c Campaign) Matches(p TrackingParams) bool {
	return strings.EqualFold(strings.TrimSpace(c.Source), p.Source) &&
		strings.EqualFold(strings.TrimSpace(c.Medium), p.Medium) &&
		Slugify(c.Name) == p.Campaign
}
