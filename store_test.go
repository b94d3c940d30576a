package folio

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/google/go-cmp/cmp"
	"go.uber.org/zap"
)

// cmpHoldings compares holdings on their exact decimal values.
var cmpHoldings = cmp.Comparer(func(a, b Holding) bool {
	return a.Symbol == b.Symbol &&
		a.Shares.Equal(b.Shares) &&
		a.PurchasePrice.Equal(b.PurchasePrice) &&
		a.PurchaseDate == b.PurchaseDate
})

func TestStore_LoadMissingFile(t *testing.T) {
	logger, logs := observed()
	s := NewStore(filepath.Join(t.TempDir(), "portfolio.json"), logger)

	if got := s.Load(); len(got) != 0 {
		t.Errorf("Load() = %v, want an empty portfolio", got)
	}
	if logs.Len() != 0 {
		t.Errorf("Load() emitted %d diagnostics, want none: %v", logs.Len(), logs.All())
	}
}

func TestStore_LoadMalformedFile(t *testing.T) {
	testCases := []struct {
		name    string
		content string
	}{
		{"not json", `{"symbol": "AAPL",`},
		{"not an array", `{"symbol": "AAPL"}`},
		{"empty", ``},
		{"null", "null"},
		{"padded null", " null \n"},
		{"wrong types", `[{"symbol": "AAPL", "shares": "ten", "purchase_price": 1, "purchase_date": "2025-01-02"}]`},
		{"bad date", `[{"symbol": "AAPL", "shares": 1, "purchase_price": 1, "purchase_date": "yesterday"}]`},
		{"invalid holdings", `[{"symbol": "AAPL", "shares": 0, "purchase_price": 1, "purchase_date": "2025-01-02"},
		                       {"symbol": "", "shares": 1, "purchase_price": 1, "purchase_date": "2025-01-02"}]`},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			file := filepath.Join(t.TempDir(), "portfolio.json")
			if err := os.WriteFile(file, []byte(tc.content), 0644); err != nil {
				t.Fatal(err)
			}
			logger, logs := observed()
			s := NewStore(file, logger)

			if got := s.Load(); len(got) != 0 {
				t.Errorf("Load() = %v, want an empty portfolio", got)
			}
			if logs.Len() != 1 {
				t.Errorf("Load() emitted %d diagnostics, want exactly 1: %v", logs.Len(), logs.All())
			}
		})
	}
}

func TestStore_RoundTrip(t *testing.T) {
	file := filepath.Join(t.TempDir(), "portfolio.json")
	s := NewStore(file, zap.NewNop())
	s.Load()

	want := []Holding{
		holding(t, "aapl", 10, 189.3, "2025-01-02"),
		holding(t, "MSFT", 0.125, 415.123456789, "2025-02-03"),
	}
	for _, h := range want {
		if err := s.Add(h); err != nil {
			t.Fatalf("Add(%v) unexpected error: %v", h, err)
		}
	}

	// simulate a restart
	got := NewStore(file, zap.NewNop()).Load()
	if diff := cmp.Diff(want, got, cmpHoldings); diff != "" {
		t.Errorf("Load() after Add() mismatch (-want +got):\n%s", diff)
	}
	if got[0].Symbol != "AAPL" {
		t.Errorf("Load()[0].Symbol = %q, want %q", got[0].Symbol, "AAPL")
	}
}

func TestStore_FileFormat(t *testing.T) {
	file := filepath.Join(t.TempDir(), "portfolio.json")
	content := `[
  {"symbol": "AAPL", "shares": 10.0, "purchase_price": 189.3, "purchase_date": "2025-01-02"},
  {"symbol": "TCS.NS", "shares": 2, "purchase_price": "4100.55", "purchase_date": "2025-1-3"}
]`
	if err := os.WriteFile(file, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	got := NewStore(file, zap.NewNop()).Load()
	want := []Holding{
		holding(t, "AAPL", 10, 189.3, "2025-01-02"),
		holding(t, "TCS.NS", 2, 4100.55, "2025-01-03"),
	}
	if diff := cmp.Diff(want, got, cmpHoldings); diff != "" {
		t.Errorf("Load() mismatch (-want +got):\n%s", diff)
	}
}

func TestStore_SaveEmptyIsArray(t *testing.T) {
	file := filepath.Join(t.TempDir(), "portfolio.json")
	s := NewStore(file, zap.NewNop())
	s.Load()
	s.Save()

	content, err := os.ReadFile(file)
	if err != nil {
		t.Fatalf("ReadFile() unexpected error: %v", err)
	}
	if got := string(content); got != "[]\n" {
		t.Errorf("saved content = %q, want %q", got, "[]\n")
	}
}

func TestStore_Remove(t *testing.T) {
	file := filepath.Join(t.TempDir(), "portfolio.json")
	s := NewStore(file, zap.NewNop())
	s.Load()
	for _, h := range []Holding{
		holding(t, "MSFT", 1, 400, "2025-01-02"),
		holding(t, "AAPL", 2, 180, "2025-01-03"),
		holding(t, "MSFT", 3, 410, "2025-01-04"),
	} {
		if err := s.Add(h); err != nil {
			t.Fatal(err)
		}
	}

	n, err := s.Remove("MSFT")
	if err != nil {
		t.Fatalf("Remove(MSFT) unexpected error: %v", err)
	}
	if n != 2 {
		t.Errorf("Remove(MSFT) = %d, want 2", n)
	}

	want := []Holding{holding(t, "AAPL", 2, 180, "2025-01-03")}
	if diff := cmp.Diff(want, s.Holdings(), cmpHoldings); diff != "" {
		t.Errorf("Holdings() after Remove mismatch (-want +got):\n%s", diff)
	}
	// and it was persisted
	if diff := cmp.Diff(want, NewStore(file, zap.NewNop()).Load(), cmpHoldings); diff != "" {
		t.Errorf("Load() after Remove mismatch (-want +got):\n%s", diff)
	}
}

func TestStore_RemoveNothing(t *testing.T) {
	file := filepath.Join(t.TempDir(), "portfolio.json")
	s := NewStore(file, zap.NewNop())
	s.Load()
	if err := s.Add(holding(t, "AAPL", 2, 180, "2025-01-03")); err != nil {
		t.Fatal(err)
	}

	if _, err := s.Remove(""); !errors.Is(err, ErrNoSelection) {
		t.Errorf("Remove(\"\") error = %v, want ErrNoSelection", err)
	}
	if _, err := s.Remove("GOOG"); !errors.Is(err, ErrNotHeld) {
		t.Errorf("Remove(GOOG) error = %v, want ErrNotHeld", err)
	}
	// removal matches the normalized form
	if n, err := s.Remove("aapl"); err != nil || n != 1 {
		t.Errorf("Remove(aapl) = %d, %v, want 1, nil", n, err)
	}
}

func TestStore_AddInvalid(t *testing.T) {
	s := NewStore(filepath.Join(t.TempDir(), "portfolio.json"), zap.NewNop())
	s.Load()
	for _, shares := range []float64{0, -5} {
		h := Holding{Symbol: "AAPL", Shares: Q(shares), PurchasePrice: P(100.0)}
		if err := s.Add(h); !errors.Is(err, ErrInvalidInput) {
			t.Errorf("Add(shares=%v) error = %v, want ErrInvalidInput", shares, err)
		}
	}
	if got := s.Holdings(); len(got) != 0 {
		t.Errorf("Holdings() = %v, want unchanged empty portfolio", got)
	}
}

func TestStore_SaveKeepsFileMode(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("unix permissions")
	}
	testCases := []struct {
		name     string
		existing fs.FileMode // 0 for no existing file
		want     fs.FileMode
	}{
		{"new file", 0, 0644},
		{"shared file", 0644, 0644},
		{"private file", 0600, 0600},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			file := filepath.Join(t.TempDir(), "portfolio.json")
			if tc.existing != 0 {
				if err := os.WriteFile(file, []byte("[]"), tc.existing); err != nil {
					t.Fatal(err)
				}
				if err := os.Chmod(file, tc.existing); err != nil {
					t.Fatal(err)
				}
			}
			s := NewStore(file, zap.NewNop())
			s.Load()
			if err := s.Add(holding(t, "AAPL", 1, 180, "2025-01-03")); err != nil {
				t.Fatalf("Add() unexpected error: %v", err)
			}

			fi, err := os.Stat(file)
			if err != nil {
				t.Fatal(err)
			}
			if got := fi.Mode().Perm(); got != tc.want {
				t.Errorf("mode after Add() = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestStore_SaveFailureIsNotFatal(t *testing.T) {
	logger, logs := observed()
	s := NewStore(filepath.Join(t.TempDir(), "missing", "portfolio.json"), logger)
	s.Load()

	if err := s.Add(holding(t, "AAPL", 2, 180, "2025-01-03")); err != nil {
		t.Fatalf("Add() error = %v, want nil even if the file cannot be written", err)
	}
	if got := len(s.Holdings()); got != 1 {
		t.Errorf("len(Holdings()) = %d, want 1: memory is authoritative", got)
	}
	if logs.FilterMessage("error saving portfolio").Len() != 1 {
		t.Errorf("want one save error diagnostic, got %v", logs.All())
	}
}

func TestStore_Symbols(t *testing.T) {
	s := NewStore(filepath.Join(t.TempDir(), "portfolio.json"), zap.NewNop())
	s.Load()
	for _, sym := range []string{"MSFT", "AAPL", "MSFT", "GOOG"} {
		if err := s.Add(holding(t, sym, 1, 100, "2025-01-03")); err != nil {
			t.Fatal(err)
		}
	}
	want := []string{"MSFT", "AAPL", "GOOG"}
	if diff := cmp.Diff(want, s.Symbols()); diff != "" {
		t.Errorf("Symbols() mismatch (-want +got):\n%s", diff)
	}
}
