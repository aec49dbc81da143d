package catalog_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"stockbook/internal/core/id"
	"stockbook/internal/domain/catalogs/category"
	"stockbook/internal/infrastructure/storage/postgres"
)

const categoriesTable = "cat_categories"

// CategoryRepo implements category.Repository.
type CategoryRepo struct {
	*BaseCatalogRepo[*category.Category]
}

var _ category.Repository = (*CategoryRepo)(nil)

// NewCategoryRepo creates a new category repository.
func NewCategoryRepo(txManager *postgres.TxManager) *CategoryRepo {
	return &CategoryRepo{
		BaseCatalogRepo: NewBaseCatalogRepo(
			txManager,
			categoriesTable,
			postgres.ExtractDBColumns[category.Category](),
			func() *category.Category { return &category.Category{} },
		),
	}
}

// GetChildren returns direct children; nil parentID means roots.
func (r *CategoryRepo) GetChildren(ctx context.Context, parentID *id.ID) ([]*category.Category, error) {
	q := r.baseSelect(ctx).
		Where(squirrel.Eq{"deletion_mark": false})

	if parentID == nil {
		q = q.Where(squirrel.Eq{"parent_id": nil})
	} else {
		q = q.Where(squirrel.Eq{"parent_id": *parentID})
	}

	q = q.OrderBy("name")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var categories []*category.Category
	if err := pgxscan.Select(ctx, r.querier(ctx), &categories, sql, args...); err != nil {
		return nil, fmt.Errorf("get children: %w", err)
	}

	return categories, nil
}
