// Package records runs record operations for a table: it resolves the
// table from the catalog, checks the actor's role, validates and coerces
// submitted fields, fills computed columns and hands the result to the
// repository. Nothing is written unless validation passes.
package records

import (
	"context"
	"net/url"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"nursery-service/internal/access"
	"nursery-service/internal/coerce"
	"nursery-service/internal/model"
	"nursery-service/internal/query"
	"nursery-service/internal/repository"
	"nursery-service/internal/schema"
	"nursery-service/internal/validation"
	"nursery-service/pkg/logger"
	"nursery-service/prometheus"
)

// Actor is the authenticated caller. TenantID scopes every read and write.
type Actor struct {
	UserID   string
	Role     access.Role
	TenantID string
}

// Service implements record operations over the catalog.
type Service struct {
	registry *schema.Registry
	repo     repository.RecordRepository
	metrics  *prometheus.Metrics
	now      func() time.Time
	newID    func() string
}

// NewService creates a record service.
func NewService(registry *schema.Registry, repo repository.RecordRepository, metrics *prometheus.Metrics) *Service {
	return &Service{
		registry: registry,
		repo:     repo,
		metrics:  metrics,
		now:      time.Now,
		newID:    uuid.NewString,
	}
}

// TableInfo is a table together with its display and edit columns.
type TableInfo struct {
	Table   schema.Table
	Display []schema.Column
	Edit    []schema.Column
	CanEdit bool
}

// ListResult is one page of records plus column totals.
type ListResult struct {
	TableInfo
	Filter  query.Filter
	Records []model.Record
	Totals  map[string]float64
}

// Tables returns the tables actor may view, in navigation order.
func (s *Service) Tables(actor Actor) []schema.Table {
	var out []schema.Table
	for _, t := range s.registry.ListTables() {
		if access.CanViewTable(actor.Role, t) {
			out = append(out, t)
		}
	}
	return out
}

// Describe resolves slug for actor.
func (s *Service) Describe(actor Actor, slug string) (TableInfo, error) {
	t, ok := s.registry.TableBySlug(slug)
	if !ok {
		return TableInfo{}, ErrTableNotFound
	}
	if !access.CanViewTable(actor.Role, t) {
		return TableInfo{}, ErrForbidden
	}
	return TableInfo{
		Table:   t,
		Display: s.registry.ColumnsForDisplay(t.ID),
		Edit:    s.registry.ColumnsForEdit(t.ID),
		CanEdit: access.CanEditTable(actor.Role, t),
	}, nil
}

func (s *Service) editable(actor Actor, slug string) (TableInfo, error) {
	info, err := s.Describe(actor, slug)
	if err != nil {
		return info, err
	}
	if !info.CanEdit {
		return info, ErrForbidden
	}
	return info, nil
}

func (s *Service) storage(t schema.Table) repository.Table {
	cols := s.registry.AllColumnsForTable(t.ID)
	ids := make([]string, len(cols))
	for i, c := range cols {
		ids[i] = c.ID
	}
	return repository.Table{Name: t.StorageName(), Columns: ids}
}

// List returns the tenant's records of a table matching the query params.
func (s *Service) List(ctx context.Context, actor Actor, slug string, params url.Values) (ListResult, error) {
	info, err := s.Describe(actor, slug)
	if err != nil {
		return ListResult{}, err
	}
	f := query.Parse(s.registry.AllColumnsForTable(info.Table.ID), info.Table.DateColumn, params, s.now())
	if len(f.Ignored) > 0 {
		logger.FromContext(ctx).Debug("Ignoring malformed filter parameters",
			zap.String("table", slug), zap.Strings("params", f.Ignored))
	}

	done := s.metrics.TrackDBOperation("find_many")
	recs, err := s.repo.FindMany(ctx, s.storage(info.Table), actor.TenantID, f)
	done()
	if err != nil {
		return ListResult{}, persistence("list", err)
	}
	s.metrics.RecordOperation(slug, "list")

	return ListResult{
		TableInfo: info,
		Filter:    f,
		Records:   recs,
		Totals:    Totals(info.Display, recs),
	}, nil
}

// Get returns one record of the tenant.
func (s *Service) Get(ctx context.Context, actor Actor, slug, id string) (TableInfo, model.Record, error) {
	info, err := s.Describe(actor, slug)
	if err != nil {
		return info, nil, err
	}
	done := s.metrics.TrackDBOperation("find_by_id")
	rec, err := s.repo.FindByID(ctx, s.storage(info.Table), actor.TenantID, id)
	done()
	if err != nil {
		return info, nil, persistence("load", err)
	}
	s.metrics.RecordOperation(slug, "get")
	return info, rec, nil
}

// Create validates form against every editable column and inserts it.
// The returned error is validation.Errors when the input is rejected.
func (s *Service) Create(ctx context.Context, actor Actor, slug string, form coerce.Form) (model.Record, error) {
	info, err := s.editable(actor, slug)
	if err != nil {
		return nil, err
	}
	if errs := validation.ValidateRecord(info.Edit, form.Raw()); len(errs) > 0 {
		s.metrics.RecordValidationFailure(slug)
		return nil, errs
	}

	rec := coerce.Coerce(info.Edit, form, actor.TenantID)
	rec[model.FieldID] = s.newID()
	s.compute(info.Table, rec, rec)

	done := s.metrics.TrackDBOperation("create")
	err = s.repo.Create(ctx, s.storage(info.Table), rec)
	done()
	if err != nil {
		return nil, persistence("create", err)
	}
	s.metrics.RecordOperation(slug, "create")
	logger.FromContext(ctx).Info("Record created",
		zap.String("table", slug), zap.String("record_id", rec.ID()), zap.String("user_id", actor.UserID))
	return rec, nil
}

// Update validates the submitted fields only and applies them. Fields
// absent from form keep their stored value; computed columns are
// recalculated from the merged record.
func (s *Service) Update(ctx context.Context, actor Actor, slug, id string, form coerce.Form) (model.Record, error) {
	info, err := s.editable(actor, slug)
	if err != nil {
		return nil, err
	}
	if errs := validation.ValidateSubmitted(info.Edit, form.Raw()); len(errs) > 0 {
		s.metrics.RecordValidationFailure(slug)
		return nil, errs
	}

	table := s.storage(info.Table)
	done := s.metrics.TrackDBOperation("find_by_id")
	current, err := s.repo.FindByID(ctx, table, actor.TenantID, id)
	done()
	if err != nil {
		return nil, persistence("load", err)
	}

	changes := coerce.Coerce(info.Edit, form, actor.TenantID)
	delete(changes, model.FieldBusinessID)
	merged := current.Clone()
	for k, v := range changes {
		merged[k] = v
	}
	s.compute(info.Table, merged, changes)

	done = s.metrics.TrackDBOperation("update")
	err = s.repo.Update(ctx, table, actor.TenantID, id, changes)
	done()
	if err != nil {
		return nil, persistence("update", err)
	}
	s.metrics.RecordOperation(slug, "update")
	logger.FromContext(ctx).Info("Record updated",
		zap.String("table", slug), zap.String("record_id", id), zap.String("user_id", actor.UserID))
	return merged, nil
}

// Delete removes one record of the tenant.
func (s *Service) Delete(ctx context.Context, actor Actor, slug, id string) error {
	info, err := s.editable(actor, slug)
	if err != nil {
		return err
	}
	done := s.metrics.TrackDBOperation("delete")
	err = s.repo.Delete(ctx, s.storage(info.Table), actor.TenantID, id)
	done()
	if err != nil {
		return persistence("delete", err)
	}
	s.metrics.RecordOperation(slug, "delete")
	logger.FromContext(ctx).Info("Record deleted",
		zap.String("table", slug), zap.String("record_id", id), zap.String("user_id", actor.UserID))
	return nil
}

// Options returns the distinct stored values of a text column, for
// filter dropdowns.
func (s *Service) Options(ctx context.Context, actor Actor, slug, column string) ([]string, error) {
	info, err := s.Describe(actor, slug)
	if err != nil {
		return nil, err
	}
	col, ok := s.registry.Column(info.Table.ID, column)
	if !ok || col.Type != schema.TypeText {
		return nil, ErrColumnNotFound
	}
	done := s.metrics.TrackDBOperation("distinct")
	values, err := s.repo.Distinct(ctx, s.storage(info.Table), actor.TenantID, column)
	done()
	if err != nil {
		return nil, persistence("list", err)
	}
	return values, nil
}

// compute evaluates every formula column of t against src and stores the
// results in dst. A formula with a missing operand yields nil.
func (s *Service) compute(t schema.Table, src, dst model.Record) {
	for _, col := range s.registry.AllColumnsForTable(t.ID) {
		e, ok := s.registry.Formula(t.ID, col.ID)
		if !ok {
			continue
		}
		v, ok := e.Eval(func(id string) (float64, bool) {
			n, ok := src[id].(float64)
			return n, ok
		})
		if ok {
			dst[col.ID] = v
			src[col.ID] = v
		} else {
			dst[col.ID] = nil
			src[col.ID] = nil
		}
	}
}

// Totals sums every number and currency column of columns over recs.
// Percent columns are not additive and are left out.
func Totals(columns []schema.Column, recs []model.Record) map[string]float64 {
	totals := map[string]float64{}
	for _, col := range columns {
		if col.Type != schema.TypeNumber && col.Type != schema.TypeCurrency {
			continue
		}
		var sum float64
		for _, r := range recs {
			if n, ok := r[col.ID].(float64); ok {
				sum += n
			}
		}
		totals[col.ID] = sum
	}
	return totals
}
