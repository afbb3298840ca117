package records

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"reflect"
	"testing"
	"time"

	promclient "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"nursery-service/internal/access"
	"nursery-service/internal/coerce"
	"nursery-service/internal/model"
	"nursery-service/internal/query"
	"nursery-service/internal/repository"
	"nursery-service/internal/schema"
	"nursery-service/internal/validation"
	"nursery-service/prometheus"
)

var (
	manager  = Actor{UserID: "u-mgr", Role: access.RoleManager, TenantID: "tenant-A"}
	employee = Actor{UserID: "u-emp", Role: access.RoleEmployee, TenantID: "tenant-A"}
	intruder = Actor{UserID: "u-other", Role: access.RoleOwner, TenantID: "tenant-B"}
)

// failingRepo fails every write with err.
type failingRepo struct {
	*repository.MemoryRecordRepository
	err error
}

func (f failingRepo) Create(context.Context, repository.Table, model.Record) error { return f.err }

func (f failingRepo) Update(context.Context, repository.Table, string, string, model.Record) error {
	return f.err
}

func newTestService(t *testing.T) (*Service, *repository.MemoryRecordRepository, *prometheus.Metrics) {
	t.Helper()
	reg, err := schema.NewStaticRegistry(schema.Builtin())
	if err != nil {
		t.Fatal(err)
	}
	repo := repository.NewMemoryRecordRepository()
	metrics := prometheus.NewMetrics("test", promclient.NewRegistry())
	svc := NewService(reg, repo, metrics)
	n := 0
	svc.newID = func() string {
		n++
		return fmt.Sprintf("rec-%d", n)
	}
	return svc, repo, metrics
}

func TestCreateValidPricing(t *testing.T) {
	svc, _, _ := newTestService(t)
	rec, err := svc.Create(context.Background(), manager, "pricing", coerce.Form{"plantName": "Rose", "finalPrice": "12.50"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	want := model.Record{"id": "rec-1", "businessId": "tenant-A", "plantName": "Rose", "finalPrice": 12.5}
	if !reflect.DeepEqual(rec, want) {
		t.Fatalf("Create = %v, want %v", rec, want)
	}
}

func TestCreateInvalidPricingWritesNothing(t *testing.T) {
	svc, repo, metrics := newTestService(t)
	_, err := svc.Create(context.Background(), manager, "pricing", coerce.Form{"plantName": "", "finalPrice": "-3"})
	var verrs validation.Errors
	if !errors.As(err, &verrs) {
		t.Fatalf("err = %v, want validation.Errors", err)
	}
	want := validation.Errors{"plantName": "Plant Name is required", "finalPrice": "Final Price cannot be negative"}
	if !reflect.DeepEqual(verrs, want) {
		t.Fatalf("errors = %v, want %v", verrs, want)
	}
	recs, _ := repo.FindMany(context.Background(), repository.Table{Name: "pricing"}, manager.TenantID, query.Filter{})
	if n := len(recs); n != 0 {
		t.Fatalf("%d rows written after validation failure", n)
	}
	if got := testutil.ToFloat64(metrics.ValidationFailures.WithLabelValues("pricing")); got != 1 {
		t.Errorf("validation failures = %v, want 1", got)
	}
}

func TestCreateComputesFormula(t *testing.T) {
	svc, _, _ := newTestService(t)
	rec, err := svc.Create(context.Background(), manager, "sales", coerce.Form{
		"saleDate": "2024-04-01", "quantity": "3", "unitPrice": "4.25", "totalPrice": "999",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if rec["totalPrice"] != 12.75 {
		t.Fatalf("totalPrice = %#v, want 12.75", rec["totalPrice"])
	}

	rec, err = svc.Create(context.Background(), manager, "sales", coerce.Form{"saleDate": "2024-04-01", "quantity": "3"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if v, ok := rec["totalPrice"]; !ok || v != nil {
		t.Fatalf("totalPrice = %#v, want nil when an operand is missing", v)
	}
}

func TestUpdateRecomputesFromStoredValues(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()
	rec, err := svc.Create(ctx, manager, "sales", coerce.Form{"saleDate": "2024-04-01", "quantity": "2", "unitPrice": "5"})
	if err != nil {
		t.Fatal(err)
	}
	updated, err := svc.Update(ctx, manager, "sales", rec.ID(), coerce.Form{"quantity": "4"})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated["totalPrice"] != 20.0 || updated["unitPrice"] != 5.0 {
		t.Fatalf("updated = %v", updated)
	}
	_, stored, err := svc.Get(ctx, manager, "sales", rec.ID())
	if err != nil {
		t.Fatal(err)
	}
	if stored["totalPrice"] != 20.0 || stored["quantity"] != 4.0 {
		t.Fatalf("stored = %v", stored)
	}
}

func TestUpdateRejectsBlankingRequired(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()
	rec, err := svc.Create(ctx, manager, "pricing", coerce.Form{"plantName": "Rose", "finalPrice": "5"})
	if err != nil {
		t.Fatal(err)
	}
	_, err = svc.Update(ctx, manager, "pricing", rec.ID(), coerce.Form{"finalPrice": ""})
	var verrs validation.Errors
	if !errors.As(err, &verrs) || verrs["finalPrice"] != "Final Price is required" {
		t.Fatalf("err = %v", err)
	}
}

func TestTenantIsolation(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()
	rec, err := svc.Create(ctx, manager, "sales", coerce.Form{"saleDate": "2024-04-01", "customerName": "Ann"})
	if err != nil {
		t.Fatal(err)
	}

	if _, _, err := svc.Get(ctx, intruder, "sales", rec.ID()); !errors.Is(err, ErrRecordNotFound) {
		t.Errorf("Get from other tenant: %v", err)
	}
	if _, err := svc.Update(ctx, intruder, "sales", rec.ID(), coerce.Form{"customerName": "Eve"}); !errors.Is(err, ErrRecordNotFound) {
		t.Errorf("Update from other tenant: %v", err)
	}
	if err := svc.Delete(ctx, intruder, "sales", rec.ID()); !errors.Is(err, ErrRecordNotFound) {
		t.Errorf("Delete from other tenant: %v", err)
	}
	list, err := svc.List(ctx, intruder, "sales", url.Values{})
	if err != nil || len(list.Records) != 0 {
		t.Errorf("List from other tenant = %v, %v", list.Records, err)
	}

	_, stored, err := svc.Get(ctx, manager, "sales", rec.ID())
	if err != nil || stored["customerName"] != "Ann" {
		t.Fatalf("owner view = %v, %v", stored, err)
	}
}

func TestBusinessIDComesFromSession(t *testing.T) {
	svc, _, _ := newTestService(t)
	rec, err := svc.Create(context.Background(), manager, "sales", coerce.Form{"saleDate": "2024-04-01", "businessId": "tenant-B"})
	if err != nil {
		t.Fatal(err)
	}
	if rec.BusinessID() != "tenant-A" {
		t.Fatalf("businessId = %q, want tenant-A", rec.BusinessID())
	}
}

func TestAuthorization(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()
	if _, err := svc.Create(ctx, employee, "sales", coerce.Form{"saleDate": "2024-04-01"}); !errors.Is(err, ErrForbidden) {
		t.Errorf("employee create: %v", err)
	}
	if _, err := svc.List(ctx, employee, "pricing", url.Values{}); !errors.Is(err, ErrForbidden) {
		t.Errorf("employee list pricing: %v", err)
	}
	if _, err := svc.Create(ctx, employee, "sales", coerce.Form{}); !errors.Is(err, ErrForbidden) {
		t.Errorf("authorization must be checked before validation: %v", err)
	}
	for _, tbl := range svc.Tables(employee) {
		if tbl.Slug == "pricing" {
			t.Error("pricing listed for employee")
		}
	}
	if got := len(svc.Tables(manager)); got != 8 {
		t.Errorf("manager sees %d tables, want 8", got)
	}
}

func TestUnknownTable(t *testing.T) {
	svc, _, _ := newTestService(t)
	if _, err := svc.Describe(manager, "nonexistent-slug"); !errors.Is(err, ErrTableNotFound) {
		t.Fatalf("err = %v, want ErrTableNotFound", err)
	}
}

func TestListTotals(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()
	for _, q := range []string{"2", "3"} {
		if _, err := svc.Create(ctx, manager, "sales", coerce.Form{"saleDate": "2024-04-01", "quantity": q, "unitPrice": "1.5"}); err != nil {
			t.Fatal(err)
		}
	}
	list, err := svc.List(ctx, employee, "sales", url.Values{})
	if err != nil {
		t.Fatal(err)
	}
	if len(list.Records) != 2 || list.CanEdit {
		t.Fatalf("list = %d records, canEdit %v", len(list.Records), list.CanEdit)
	}
	if list.Totals["quantity"] != 5 || list.Totals["totalPrice"] != 7.5 {
		t.Fatalf("totals = %v", list.Totals)
	}
}

func TestPersistenceErrorIsWrapped(t *testing.T) {
	svc, repo, _ := newTestService(t)
	cause := errors.New("connection reset")
	svc.repo = failingRepo{MemoryRecordRepository: repo, err: cause}
	_, err := svc.Create(context.Background(), manager, "sales", coerce.Form{"saleDate": "2024-04-01"})
	var perr *PersistenceError
	if !errors.As(err, &perr) || err.Error() != "failed to create record" || !errors.Is(err, cause) {
		t.Fatalf("err = %v", err)
	}
}

func TestOptions(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()
	for _, name := range []string{"Cy", "Ann", "Cy"} {
		if _, err := svc.Create(ctx, manager, "sales", coerce.Form{"saleDate": "2024-04-01", "customerName": name}); err != nil {
			t.Fatal(err)
		}
	}
	got, err := svc.Options(ctx, employee, "sales", "customerName")
	if err != nil || !reflect.DeepEqual(got, []string{"Ann", "Cy"}) {
		t.Fatalf("Options = %v, %v", got, err)
	}
	if _, err := svc.Options(ctx, employee, "sales", "quantity"); !errors.Is(err, ErrColumnNotFound) {
		t.Fatalf("numeric column options: %v", err)
	}
}

func TestListDateRangeIncludesBoundaryDays(t *testing.T) {
	svc, _, _ := newTestService(t)
	svc.now = func() time.Time {
		return time.Date(2024, time.January, 20, 12, 0, 0, 0, time.FixedZone("CST", -6*60*60))
	}
	ctx := context.Background()
	if _, err := svc.Create(ctx, manager, "sales", coerce.Form{"saleDate": "2024-01-15"}); err != nil {
		t.Fatal(err)
	}

	for _, q := range []url.Values{
		{"dateFrom": {"2024-01-15"}},
		{"dateTo": {"2024-01-15"}},
		{"dateFrom": {"2024-01-15"}, "dateTo": {"2024-01-15"}},
		{"quickRange": {"last7"}},
	} {
		list, err := svc.List(ctx, manager, "sales", q)
		if err != nil {
			t.Fatal(err)
		}
		if len(list.Records) != 1 {
			t.Errorf("List(%v) = %d records, want 1", q, len(list.Records))
		}
	}
}
