package queries

import (
	"context"

	gocommand "github.com/goliatone/go-command"
	dashboard "github.com/goliatone/go-sales-dashboard/components/dashboard"
)

// CatalogInput requests the addable widget catalog.
type CatalogInput struct{}

type catalogService interface {
	Catalog() []dashboard.WidgetDefinition
}

// CatalogQuery lists the widget types users may add.
type CatalogQuery struct {
	service catalogService
}

// NewCatalogQuery builds the query.
func NewCatalogQuery(service catalogService) *CatalogQuery {
	return &CatalogQuery{service: service}
}

var _ gocommand.Querier[CatalogInput, []dashboard.WidgetDefinition] = (*CatalogQuery)(nil)

// Query returns the catalog.
func (q *CatalogQuery) Query(context.Context, CatalogInput) ([]dashboard.WidgetDefinition, error) {
	return q.service.Catalog(), nil
}

// PreviewMoveInput names the drop target of the active drag.
type PreviewMoveInput struct {
	OverID string `json:"over_id"`
}

type previewService interface {
	ProposeMove(overID string) []string
}

// PreviewMoveQuery returns the order a drop would produce without committing it.
type PreviewMoveQuery struct {
	service previewService
}

// NewPreviewMoveQuery builds the query.
func NewPreviewMoveQuery(service previewService) *PreviewMoveQuery {
	return &PreviewMoveQuery{service: service}
}

var _ gocommand.Querier[PreviewMoveInput, []string] = (*PreviewMoveQuery)(nil)

// Query previews the order.
func (q *PreviewMoveQuery) Query(_ context.Context, in PreviewMoveInput) ([]string, error) {
	return q.service.ProposeMove(in.OverID), nil
}
