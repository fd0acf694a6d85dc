package search

import (
	"context"
	"fmt"

	"gorm.io/gorm/clause"
)

// Suggest completes a partial query from previously executed queries that
// returned results. Values are ordered by reference count, then prefix
// matches ahead of infix matches, then age.
func (s *Service) Suggest(ctx context.Context, raw string) ([]string, error) {
	query := Normalize(raw, s.opts.QueryMaxLength)

	values := []string{}
	err := s.db.WithContext(ctx).
		Model(&SearchValue{}).
		Where("reference_count > ?", 0).
		Where("value LIKE ? ESCAPE '\\'", containsPattern(query)).
		Order(clause.OrderBy{Expression: clause.Expr{
			SQL:                "reference_count DESC, CASE WHEN value LIKE ? ESCAPE '\\' THEN 1 ELSE 0 END DESC, id ASC",
			Vars:               []interface{}{prefixPattern(query)},
			WithoutParentheses: true,
		}}).
		Limit(s.opts.SuggestLimit).
		Pluck("value", &values).Error
	if err != nil {
		return nil, fmt.Errorf("load suggestions: %w", err)
	}
	return values, nil
}
