// Package notifier renders the cycle's accepted items into a plain-text
// digest and submits it by email.
package notifier

import (
	"fmt"
	"strings"
	"time"

	"newsagent/models"
)

// BuildDigest groups items by category (first-occurrence order) and
// renders the digest subject and plain-text body.
func BuildDigest(items []models.NewsItem, now time.Time) (subject, body string) {
	subject = fmt.Sprintf("News Digest: %d %s from your timeline", len(items), plural(len(items), "story", "stories"))

	grouped := make(map[models.Category][]models.NewsItem)
	var order []models.Category
	for _, item := range items {
		cat := item.Classification.Category
		if _, seen := grouped[cat]; !seen {
			order = append(order, cat)
		}
		grouped[cat] = append(grouped[cat], item)
	}

	var b strings.Builder
	b.WriteString("Your timeline news digest\n")
	for _, cat := range order {
		list := grouped[cat]
		fmt.Fprintf(&b, "\n== %s (%d %s) ==\n", cat, len(list), plural(len(list), "story", "stories"))
		for _, item := range list {
			fmt.Fprintf(&b, "\n* %s\n", item.Classification.Headline)
			fmt.Fprintf(&b, "  %s\n", item.Classification.Summary)
			fmt.Fprintf(&b, "  Source: @%s\n", item.Post.AuthorUsername)
		}
	}
	b.WriteString("\n---\n")
	fmt.Fprintf(&b, "%d %s across %d %s\n",
		len(items), plural(len(items), "story", "stories"),
		len(order), plural(len(order), "category", "categories"))
	fmt.Fprintf(&b, "Generated at %s\n", now.UTC().Format(time.RFC1123))

	return subject, b.String()
}

func plural(n int, singular, pluralForm string) string {
	if n == 1 {
		return singular
	}
	return pluralForm
}
