// Package search implements post search, the per-query popularity counter,
// deduplicated search history and query suggestions.
package search

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"
	"strings"
	"time"

	"go-board/internal/config"
	"go-board/internal/device"
	"go-board/internal/localtime"
	"go-board/internal/paginate"
	"go-board/internal/post"
	"go-board/internal/user"

	"gorm.io/gorm"
)

var (
	ErrEmptyQuery = errors.New("search query is empty")
	ErrNotFound   = errors.New("not found")
)

type Options struct {
	PageSize       int
	QueryMaxLength int
	DedupWindow    time.Duration
	SuggestLimit   int
	HistoryLimit   int
	RejectEmpty    bool
}

func OptionsFromConfig(c config.SearchConfig) Options {
	c.ApplyDefaults()
	return Options{
		PageSize:       c.PageSize,
		QueryMaxLength: c.QueryMaxLength,
		DedupWindow:    time.Duration(c.DedupWindowHours) * time.Hour,
		SuggestLimit:   c.SuggestLimit,
		HistoryLimit:   c.HistoryLimit,
		RejectEmpty:    c.RejectEmptyQuery,
	}
}

func (o Options) withDefaults() Options {
	if o.PageSize <= 0 {
		o.PageSize = paginate.SearchPageSize
	}
	if o.QueryMaxLength <= 0 {
		o.QueryMaxLength = 20
	}
	if o.DedupWindow <= 0 {
		o.DedupWindow = 6 * time.Hour
	}
	if o.SuggestLimit <= 0 {
		o.SuggestLimit = 8
	}
	if o.HistoryLimit <= 0 {
		o.HistoryLimit = 8
	}
	return o
}

type Service struct {
	db      *gorm.DB
	devices device.Resolver
	dates   *localtime.Formatter
	opts    Options
	now     func() time.Time
}

func NewService(db *gorm.DB, devices device.Resolver, dates *localtime.Formatter, opts Options) *Service {
	return &Service{
		db:      db,
		devices: devices,
		dates:   dates,
		opts:    opts.withDefaults(),
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// Request is a search as the reader typed it.
type Request struct {
	Query    string
	Page     int
	Username string // restrict to one author when set
}

// Requester identifies who is searching. UserID is nil for anonymous readers.
type Requester struct {
	UserID    *uint
	Addr      string
	UserAgent string
}

type Result struct {
	ElapsedTime float64 `json:"elapsed_time"`
	TotalSize   int     `json:"total_size"`
	LastPage    int     `json:"last_page"`
	Query       string  `json:"query"`
	Results     []Hit   `json:"results"`
}

type Hit struct {
	URL         string   `json:"url"`
	Title       string   `json:"title"`
	Image       string   `json:"image"`
	Description string   `json:"description"`
	ReadTime    int      `json:"read_time"`
	CreatedDate string   `json:"created_date"`
	AuthorImage string   `json:"author_image"`
	Author      string   `json:"author"`
	Positions   []string `json:"positions"`
}

// Search ranks visible posts against the query and returns the requested
// page. Executing a search also refreshes the query's reference count and
// records a history event unless the same identity ran it within the dedup
// window. An out-of-range page fails with ErrNotFound before anything is
// recorded.
func (s *Service) Search(ctx context.Context, req Request, who Requester) (*Result, error) {
	query := Normalize(req.Query, s.opts.QueryMaxLength)
	// Blank input is empty for the rejection check only; the key keeps its spaces
	if s.opts.RejectEmpty && strings.TrimSpace(query) == "" {
		return nil, ErrEmptyQuery
	}

	start := time.Now()
	now := s.now()

	matches, err := s.rank(ctx, query, req.Username, now)
	if err != nil {
		return nil, err
	}
	total := len(matches)

	page, err := paginate.New(total, s.opts.PageSize, req.Page)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNotFound, err)
	}

	dev, err := s.devices.Resolve(ctx, who.Addr, who.UserAgent)
	if err != nil {
		return nil, fmt.Errorf("resolve device: %w", err)
	}
	if err := s.record(ctx, query, total, who.UserID, dev.ID, now); err != nil {
		return nil, err
	}

	pageMatches := paginate.Slice(matches, page)
	hits := make([]Hit, 0, len(pageMatches))
	for _, m := range pageMatches {
		hits = append(hits, s.hit(m))
	}

	elapsed := math.Round(time.Since(start).Seconds()*1000) / 1000
	log.Printf("[Search] q=%q author=%q total=%d page=%d/%d took=%.3fs", query, req.Username, total, page.Number, page.LastPage, elapsed)

	return &Result{
		ElapsedTime: elapsed,
		TotalSize:   total,
		LastPage:    page.LastPage,
		Query:       query,
		Results:     hits,
	}, nil
}

// rankColumns are the post fields ranking and hits read. The rendered body is
// left out.
var rankColumns = []string{
	"posts.id", "posts.url", "posts.title", "posts.text_md", "posts.author_id",
	"posts.hide", "posts.created_date", "posts.image", "posts.description", "posts.read_time",
}

// rank loads candidate posts and orders them. The store narrows the corpus
// with the same case-insensitive substring test that Rank applies, so Rank
// only has to classify and sort.
func (s *Service) rank(ctx context.Context, query, username string, now time.Time) ([]Match, error) {
	tx := s.db.WithContext(ctx).
		Select(rankColumns).
		Preload("Author", func(db *gorm.DB) *gorm.DB {
			return db.Select("id", "username", "avatar")
		}).
		Preload("Tags").
		Where("posts.hide = ? AND posts.created_date <= ?", false, now)

	if username != "" {
		tx = tx.Where("posts.author_id IN (?)",
			s.db.Model(&user.User{}).Select("id").Where("username = ?", username))
	}
	if query != "" {
		pattern := containsPattern(query)
		tagged := s.db.Table("post_tags").
			Select("post_tags.post_id").
			Joins("JOIN tags ON tags.id = post_tags.tag_id").
			Where("LOWER(tags.value) LIKE ? ESCAPE '\\'", pattern)
		tx = tx.Where(s.db.
			Where("LOWER(posts.title) LIKE ? ESCAPE '\\'", pattern).
			Or("LOWER(posts.text_md) LIKE ? ESCAPE '\\'", pattern).
			Or("posts.id IN (?)", tagged))
	}

	var posts []post.Post
	if err := tx.Find(&posts).Error; err != nil {
		return nil, fmt.Errorf("load posts: %w", err)
	}

	visible := posts[:0]
	for _, p := range posts {
		if p.IsVisible(now) {
			visible = append(visible, p)
		}
	}
	return Rank(visible, query), nil
}

func (s *Service) hit(m Match) Hit {
	p := m.Post
	return Hit{
		URL:         p.URL,
		Title:       p.Title,
		Image:       p.Image,
		Description: p.Description,
		ReadTime:    p.ReadTime,
		CreatedDate: s.dates.Format(p.CreatedDate, localtime.PostDate),
		AuthorImage: p.Author.Avatar,
		Author:      p.Author.Username,
		Positions:   m.Positions(),
	}
}
