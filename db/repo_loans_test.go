package db

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/LoanRangers/SelfServiceLoaningBackend/models"
)

func TestLoanReturnRoundTrip(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()
	drill := seedItem(t, r, "Drill-01")

	loans, err := r.CreateLoans(ctx, "alice", []string{drill.ID})
	if err != nil {
		t.Fatalf("CreateLoans: %v", err)
	}
	if len(loans) != 1 {
		t.Fatalf("got %d loans, want 1", len(loans))
	}
	if loans[0].Location != models.LocationWithUser {
		t.Errorf("loan location = %q, want %q", loans[0].Location, models.LocationWithUser)
	}

	it := reloadItem(t, r, drill.ID)
	if it.IsAvailable {
		t.Error("item still available after loan")
	}
	if it.Location != models.LocationWithUser {
		t.Errorf("item location = %q, want %q", it.Location, models.LocationWithUser)
	}

	// Same item for a second borrower must conflict.
	if _, err := r.CreateLoans(ctx, "bob", []string{drill.ID}); !errors.Is(err, ErrAlreadyLoaned) {
		t.Fatalf("second loan error = %v, want ErrAlreadyLoaned", err)
	}

	hist, err := r.ReturnItem(ctx, "alice", drill.ID, "Shelf-A")
	if err != nil {
		t.Fatalf("ReturnItem: %v", err)
	}
	if hist.UserID != "alice" {
		t.Errorf("history user = %q, want alice", hist.UserID)
	}
	if hist.Location != "Shelf-A" {
		t.Errorf("history location = %q, want Shelf-A", hist.Location)
	}
	if !hist.LoanedDate.Equal(loans[0].LoanedDate) {
		t.Errorf("history loaned date %v does not match original %v", hist.LoanedDate, loans[0].LoanedDate)
	}

	it = reloadItem(t, r, drill.ID)
	if !it.IsAvailable {
		t.Error("item not available after return")
	}
	if it.Location != "Shelf-A" {
		t.Errorf("item location = %q, want Shelf-A", it.Location)
	}
	if n := countRows(t, r, &models.Loan{}); n != 0 {
		t.Errorf("%d active loans left, want 0", n)
	}
	if n := countRows(t, r, &models.LoanHistory{}); n != 1 {
		t.Errorf("%d history rows, want 1", n)
	}

	var audits []models.AuditLog
	if err := r.DB.Where("action = ?", models.ActionReturnDevice).Find(&audits).Error; err != nil {
		t.Fatalf("load audits: %v", err)
	}
	if len(audits) != 1 {
		t.Fatalf("%d RETURN_DEVICE audit rows, want 1", len(audits))
	}
	if audits[0].SsoID != "alice" {
		t.Errorf("audit actor = %q, want alice", audits[0].SsoID)
	}
}

func TestCreateLoansValidation(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()

	if _, err := r.CreateLoans(ctx, "alice", nil); !errors.Is(err, ErrValidation) {
		t.Errorf("empty batch error = %v, want ErrValidation", err)
	}
	if _, err := r.CreateLoans(ctx, "  ", []string{"x"}); !errors.Is(err, ErrValidation) {
		t.Errorf("blank user error = %v, want ErrValidation", err)
	}
}

func TestCreateLoansBatch(t *testing.T) {
	t.Run("all succeed together", func(t *testing.T) {
		r := newTestRepo(t)
		ctx := context.Background()
		a := seedItem(t, r, "Hammer")
		b := seedItem(t, r, "Saw")

		loans, err := r.CreateLoans(ctx, "alice", []string{a.ID, b.ID})
		if err != nil {
			t.Fatalf("CreateLoans: %v", err)
		}
		if len(loans) != 2 {
			t.Fatalf("got %d loans, want 2", len(loans))
		}
		for _, id := range []string{a.ID, b.ID} {
			if reloadItem(t, r, id).IsAvailable {
				t.Errorf("item %s still available", id)
			}
		}
	})

	t.Run("one failure rolls back all", func(t *testing.T) {
		r := newTestRepo(t)
		ctx := context.Background()
		a := seedItem(t, r, "Hammer")

		_, err := r.CreateLoans(ctx, "alice", []string{a.ID, "no-such-item"})
		if !errors.Is(err, ErrItemNotFound) {
			t.Fatalf("error = %v, want ErrItemNotFound", err)
		}
		if n := countRows(t, r, &models.Loan{}); n != 0 {
			t.Errorf("%d loans persisted after failed batch, want 0", n)
		}
		if !reloadItem(t, r, a.ID).IsAvailable {
			t.Error("first item unavailable after failed batch")
		}
	})

	t.Run("already loaned mid-batch rolls back all", func(t *testing.T) {
		r := newTestRepo(t)
		ctx := context.Background()
		a := seedItem(t, r, "Hammer")
		b := seedItem(t, r, "Saw")
		if _, err := r.CreateLoans(ctx, "bob", []string{b.ID}); err != nil {
			t.Fatalf("seed loan: %v", err)
		}

		_, err := r.CreateLoans(ctx, "alice", []string{a.ID, b.ID})
		if !errors.Is(err, ErrAlreadyLoaned) {
			t.Fatalf("error = %v, want ErrAlreadyLoaned", err)
		}
		if !reloadItem(t, r, a.ID).IsAvailable {
			t.Error("first item unavailable after failed batch")
		}
		if n := countRows(t, r, &models.Loan{}); n != 1 {
			t.Errorf("%d loans, want only bob's 1", n)
		}
	})
}

func TestReturnItemErrors(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()
	it := seedItem(t, r, "Drill")

	if _, err := r.ReturnItem(ctx, "alice", it.ID, "Shelf-A"); !errors.Is(err, ErrNoActiveLoan) {
		t.Errorf("return without loan error = %v, want ErrNoActiveLoan", err)
	}
	if _, err := r.ReturnItem(ctx, "alice", it.ID, "   "); !errors.Is(err, ErrValidation) {
		t.Errorf("blank location error = %v, want ErrValidation", err)
	}
}

// A storage failure between the loan delete and the history insert must
// leave the pre-return state intact: active loan present, item unavailable.
func TestReturnItemAtomicOnStorageFailure(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()
	it := seedItem(t, r, "Drill")
	if _, err := r.CreateLoans(ctx, "alice", []string{it.ID}); err != nil {
		t.Fatalf("loan: %v", err)
	}

	if err := r.DB.Exec("DROP TABLE " + models.LoanHistoryTable).Error; err != nil {
		t.Fatalf("drop history table: %v", err)
	}

	_, err := r.ReturnItem(ctx, "alice", it.ID, "Shelf-A")
	if !errors.Is(err, ErrStorage) {
		t.Fatalf("error = %v, want ErrStorage", err)
	}
	if n := countRows(t, r, &models.Loan{}); n != 1 {
		t.Errorf("%d active loans after rollback, want 1", n)
	}
	if reloadItem(t, r, it.ID).IsAvailable {
		t.Error("item available after rolled-back return")
	}
}

func TestLoanHistoryPagination(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()
	it := seedItem(t, r, "Drill")

	// Five completed cycles on the same item.
	for i := 0; i < 5; i++ {
		if _, err := r.CreateLoans(ctx, "alice", []string{it.ID}); err != nil {
			t.Fatalf("loan %d: %v", i, err)
		}
		if _, err := r.ReturnItem(ctx, "alice", it.ID, "Storage"); err != nil {
			t.Fatalf("return %d: %v", i, err)
		}
	}

	rows, err := r.LoanHistoryByUser(ctx, "alice", 100, 10)
	if err != nil {
		t.Fatalf("far page: %v", err)
	}
	if len(rows) != 0 {
		t.Errorf("page 100 returned %d rows, want 0", len(rows))
	}

	first, err := r.LoanHistoryByUser(ctx, "alice", 1, 3)
	if err != nil {
		t.Fatalf("page 1: %v", err)
	}
	second, err := r.LoanHistoryByUser(ctx, "alice", 2, 3)
	if err != nil {
		t.Fatalf("page 2: %v", err)
	}
	if len(first) != 3 || len(second) != 2 {
		t.Fatalf("page sizes = %d, %d; want 3, 2", len(first), len(second))
	}
	seen := map[string]bool{}
	for _, h := range append(first, second...) {
		if seen[h.ID] {
			t.Fatalf("row %s appeared on two pages", h.ID)
		}
		seen[h.ID] = true
	}

	other, err := r.LoanHistoryByUser(ctx, "bob", 1, 10)
	if err != nil {
		t.Fatalf("other user: %v", err)
	}
	if len(other) != 0 {
		t.Errorf("bob has %d history rows, want 0", len(other))
	}
}

func TestCurrentLoansPagination(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()
	for _, name := range []string{"A", "B", "C"} {
		it := seedItem(t, r, name)
		if _, err := r.CreateLoans(ctx, "alice", []string{it.ID}); err != nil {
			t.Fatalf("loan %s: %v", name, err)
		}
	}

	first, err := r.CurrentLoansByUser(ctx, "alice", 1, 2)
	if err != nil {
		t.Fatalf("page 1: %v", err)
	}
	second, err := r.CurrentLoansByUser(ctx, "alice", 2, 2)
	if err != nil {
		t.Fatalf("page 2: %v", err)
	}
	if len(first) != 2 || len(second) != 1 {
		t.Fatalf("page sizes = %d, %d; want 2, 1", len(first), len(second))
	}
	empty, err := r.CurrentLoansByUser(ctx, "alice", 3, 2)
	if err != nil {
		t.Fatalf("page 3: %v", err)
	}
	if len(empty) != 0 {
		t.Errorf("page 3 returned %d rows, want 0", len(empty))
	}
}

func TestConcurrentLoanSameItem(t *testing.T) {
	r := newTestRepo(t)
	it := seedItem(t, r, "Drill")

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i, user := range []string{"alice", "bob"} {
		wg.Add(1)
		go func(i int, user string) {
			defer wg.Done()
			_, errs[i] = r.CreateLoans(context.Background(), user, []string{it.ID})
		}(i, user)
	}
	wg.Wait()

	var ok, conflict int
	for _, err := range errs {
		switch {
		case err == nil:
			ok++
		case errors.Is(err, ErrAlreadyLoaned):
			conflict++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if ok != 1 || conflict != 1 {
		t.Fatalf("ok=%d conflict=%d, want exactly one of each", ok, conflict)
	}
	if n := countRows(t, r, &models.Loan{}); n != 1 {
		t.Errorf("%d active loans, want 1", n)
	}
}

// Two returns racing on the same loan must produce exactly one history
// row and one audit entry; the loser gets ErrNoActiveLoan.
func TestConcurrentReturnSameItem(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()
	it := seedItem(t, r, "Drill")
	if _, err := r.CreateLoans(ctx, "alice", []string{it.ID}); err != nil {
		t.Fatalf("loan: %v", err)
	}

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = r.ReturnItem(context.Background(), "alice", it.ID, "Shelf-A")
		}(i)
	}
	wg.Wait()

	var ok, gone int
	for _, err := range errs {
		switch {
		case err == nil:
			ok++
		case errors.Is(err, ErrNoActiveLoan):
			gone++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if ok != 1 || gone != 1 {
		t.Fatalf("ok=%d gone=%d, want exactly one of each", ok, gone)
	}
	if n := countRows(t, r, &models.LoanHistory{}); n != 1 {
		t.Errorf("%d history rows after racing returns, want 1", n)
	}
	var audits int64
	if err := r.DB.Model(&models.AuditLog{}).
		Where("action = ?", models.ActionReturnDevice).Count(&audits).Error; err != nil {
		t.Fatalf("count audits: %v", err)
	}
	if audits != 1 {
		t.Errorf("%d RETURN_DEVICE audit rows, want 1", audits)
	}
}

func TestAvailableAndUnavailableLists(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()
	free := seedItem(t, r, "Free")
	out := seedItem(t, r, "Out")
	if _, err := r.CreateLoans(ctx, "alice", []string{out.ID}); err != nil {
		t.Fatalf("loan: %v", err)
	}

	avail, err := r.ListAvailableItems(ctx)
	if err != nil {
		t.Fatalf("available: %v", err)
	}
	if len(avail) != 1 || avail[0].ID != free.ID {
		t.Fatalf("available = %v, want just %s", avail, free.ID)
	}

	unavail, err := r.ListUnavailableItems(ctx)
	if err != nil {
		t.Fatalf("unavailable: %v", err)
	}
	if len(unavail) != 1 || unavail[0].ID != out.ID {
		t.Fatalf("unavailable has %d rows, want just the loaned item", len(unavail))
	}
	if unavail[0].UserID != "alice" {
		t.Errorf("borrower = %q, want alice", unavail[0].UserID)
	}
}
