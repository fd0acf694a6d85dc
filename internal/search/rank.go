package search

import (
	"sort"
	"strings"

	"go-board/internal/post"
)

// Match is a post that contains the query, with the fields it was found in.
type Match struct {
	Post    *post.Post
	Title   bool
	Tags    bool
	Content bool
}

// Matched reports whether the query was found anywhere.
func (m Match) Matched() bool {
	return m.Title || m.Tags || m.Content
}

// Positions lists the matched fields for display, always in title, tags,
// content order.
func (m Match) Positions() []string {
	positions := make([]string, 0, 3)
	if m.Title {
		positions = append(positions, "title")
	}
	if m.Tags {
		positions = append(positions, "tags")
	}
	if m.Content {
		positions = append(positions, "content")
	}
	return positions
}

// matchPost checks query against title, tag values and markdown source.
// Comparison is case-insensitive; query is expected to be lowercase already.
func matchPost(p *post.Post, query string) Match {
	m := Match{
		Post:    p,
		Title:   strings.Contains(strings.ToLower(p.Title), query),
		Content: strings.Contains(strings.ToLower(p.TextMD), query),
	}
	for _, tag := range p.Tags {
		if strings.Contains(strings.ToLower(tag.Value), query) {
			m.Tags = true
			break
		}
	}
	return m
}

// rankBefore orders by (title, tags, content, created date, id), all
// descending. The id makes it a total order.
func rankBefore(a, b Match) bool {
	if a.Title != b.Title {
		return a.Title
	}
	if a.Tags != b.Tags {
		return a.Tags
	}
	if a.Content != b.Content {
		return a.Content
	}
	if !a.Post.CreatedDate.Equal(b.Post.CreatedDate) {
		return a.Post.CreatedDate.After(b.Post.CreatedDate)
	}
	return a.Post.ID > b.Post.ID
}

// Rank matches every post against query, drops non-matches and returns the
// rest in rank order.
func Rank(posts []post.Post, query string) []Match {
	matches := make([]Match, 0, len(posts))
	for i := range posts {
		if m := matchPost(&posts[i], query); m.Matched() {
			matches = append(matches, m)
		}
	}
	sort.Slice(matches, func(i, j int) bool {
		return rankBefore(matches[i], matches[j])
	})
	return matches
}
