package models

import "time"

// User is an account referenced by a timeline response's included-users list.
type User struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Verified bool   `json:"verified"`
}

// PublicMetrics carries the engagement counters attached to a post.
type PublicMetrics struct {
	RetweetCount int `json:"retweet_count"`
	ReplyCount   int `json:"reply_count"`
	LikeCount    int `json:"like_count"`
	QuoteCount   int `json:"quote_count"`
}

// Post is a single timeline item, enriched with author metadata resolved
// from the included-users list. Immutable once fetched.
type Post struct {
	ID             string        `json:"id"`
	Text           string        `json:"text"`
	AuthorID       string        `json:"author_id"`
	CreatedAt      time.Time     `json:"created_at"`
	Metrics        PublicMetrics `json:"public_metrics"`
	AuthorUsername string        `json:"author_username"`
	AuthorVerified bool          `json:"author_verified"`
}

type Category string

const (
	CategoryTechnology    Category = "Technology"
	CategoryFinance       Category = "Finance"
	CategoryHealth        Category = "Health"
	CategoryPolitics      Category = "Politics"
	CategorySports        Category = "Sports"
	CategoryEntertainment Category = "Entertainment"
	CategoryScience       Category = "Science"
	CategoryOther         Category = "Other"
)

var categories = map[Category]struct{}{
	CategoryTechnology:    {},
	CategoryFinance:       {},
	CategoryHealth:        {},
	CategoryPolitics:      {},
	CategorySports:        {},
	CategoryEntertainment: {},
	CategoryScience:       {},
	CategoryOther:         {},
}

// NormalizeCategory maps an arbitrary category string onto the closed
// enumeration, falling back to Other for anything it does not recognize.
func NormalizeCategory(s string) Category {
	c := Category(s)
	if _, ok := categories[c]; ok {
		return c
	}
	return CategoryOther
}

// Classification is the structured verdict the scoring service returns
// for a single post.
type Classification struct {
	IsNews    bool     `json:"is_news"`
	NewsScore float64  `json:"news_score"`
	Category  Category `json:"category"`
	Headline  string   `json:"headline"`
	Summary   string   `json:"summary"`
}

// NewsItem is a post whose classification passed the relevance
// threshold. It lives for the remainder of the cycle that produced it.
type NewsItem struct {
	Post           Post           `json:"post"`
	Classification Classification `json:"classification"`
	ClassifiedAt   time.Time      `json:"classified_at"`
}
