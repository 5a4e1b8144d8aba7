package numerator

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"

	"comercia/internal/core/id"
)

type mockRow struct {
	val int64
	err error
}

func (m *mockRow) Scan(dest ...any) error {
	if m.err != nil {
		return m.err
	}
	if len(dest) > 0 {
		if ptr, ok := dest[0].(*int64); ok {
			*ptr = m.val
		}
	}
	return nil
}

// mockQuerier simulates the sys_sequences upsert: every call bumps the
// value stored under the sequence key by the increment argument (1 for
// the strict path), so distinct keys keep distinct counters.
type mockQuerier struct {
	mu     sync.Mutex
	values map[string]int64
	calls  int
}

func (m *mockQuerier) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	m.mu.Lock()
	defer m.mu.Unlock()

	key, _ := args[0].(string)

	var increment int64 = 1
	if len(args) == 2 {
		if val, ok := args[1].(int64); ok {
			increment = val
		}
	}

	if m.values == nil {
		m.values = make(map[string]int64)
	}
	m.values[key] += increment
	m.calls++

	return &mockRow{val: m.values[key]}
}

func (m *mockQuerier) stored(key string) int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.values[key]
}

func TestGetNextNumber_Strict(t *testing.T) {
	q := &mockQuerier{}
	svc := New(q)
	ctx := context.Background()
	cfg := DefaultConfig("TEST")
	bizID := id.New()
	year := time.Now().Format("2006")

	num, err := svc.GetNextNumber(ctx, bizID, cfg, nil, time.Now())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if num != "TEST-"+year+"-00001" {
		t.Errorf("expected TEST-%s-00001, got %s", year, num)
	}

	num, err = svc.GetNextNumber(ctx, bizID, cfg, nil, time.Now())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if num != "TEST-"+year+"-00002" {
		t.Errorf("expected TEST-%s-00002, got %s", year, num)
	}
}

func TestGetNextNumber_Cached(t *testing.T) {
	q := &mockQuerier{}
	svc := New(q)
	ctx := context.Background()
	cfg := DefaultConfig("ORD")
	bizID := id.New()
	year := time.Now().Format("2006")

	opts := &Options{
		Strategy:  StrategyCached,
		RangeSize: 10,
	}
	key := svc.buildKey(bizID, cfg, time.Now())

	// First call reserves 1..10, hands out 1.
	num, err := svc.GetNextNumber(ctx, bizID, cfg, opts, time.Now())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if num != "ORD-"+year+"-00001" {
		t.Errorf("expected ORD-%s-00001, got %s", year, num)
	}
	if q.stored(key) != 10 {
		t.Errorf("expected DB value to be 10, got %d", q.stored(key))
	}

	// Second call comes from memory, DB untouched.
	num, err = svc.GetNextNumber(ctx, bizID, cfg, opts, time.Now())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if num != "ORD-"+year+"-00002" {
		t.Errorf("expected ORD-%s-00002, got %s", year, num)
	}
	if q.stored(key) != 10 {
		t.Errorf("expected DB value to stay 10, got %d", q.stored(key))
	}

	// Exhaust the range; the next call reserves 11..20.
	for i := 0; i < 8; i++ {
		_, _ = svc.GetNextNumber(ctx, bizID, cfg, opts, time.Now())
	}
	num, err = svc.GetNextNumber(ctx, bizID, cfg, opts, time.Now())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if num != "ORD-"+year+"-00011" {
		t.Errorf("expected ORD-%s-00011, got %s", year, num)
	}
	if q.stored(key) != 20 {
		t.Errorf("expected DB value to be 20, got %d", q.stored(key))
	}
}

func TestGetNextNumber_BusinessesDoNotShareSequences(t *testing.T) {
	q := &mockQuerier{}
	svc := New(q)
	ctx := context.Background()
	cfg := DefaultConfig("INV")
	opts := &Options{Strategy: StrategyCached, RangeSize: 10}

	a := id.New()
	b := id.New()

	numA, err := svc.GetNextNumber(ctx, a, cfg, opts, time.Now())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	numB, err := svc.GetNextNumber(ctx, b, cfg, opts, time.Now())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Each business gets its own cached range, so both see a DB
	// reservation and both start from 1.
	want := "INV-" + time.Now().Format("2006") + "-00001"
	if numA != want {
		t.Errorf("expected %s, got %s", want, numA)
	}
	if numB != want {
		t.Errorf("expected %s, got %s", want, numB)
	}
	if q.calls != 2 {
		t.Errorf("expected 2 range reservations, got %d", q.calls)
	}
}

func TestParseNumber(t *testing.T) {
	if n := ParseNumber("INV-2026-00042"); n != 42 {
		t.Errorf("expected 42, got %d", n)
	}
	if n := ParseNumber("INV-00042"); n != 42 {
		t.Errorf("expected 42, got %d", n)
	}
	if n := ParseNumber("garbage"); n != -1 {
		t.Errorf("expected -1, got %d", n)
	}
	if n := ParseNumber("INV-"); n != -1 {
		t.Errorf("expected -1, got %d", n)
	}
}
