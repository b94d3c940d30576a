package quote

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/etnz/folio"
)

// newChartServer serves Yahoo chart payloads by symbol.
func newChartServer(t *testing.T, payloads map[string]string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		symbol := r.URL.Path[len("/v8/finance/chart/"):]
		payload, ok := payloads[symbol]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			w.Write([]byte(`{"chart":{"result":null,"error":{"code":"Not Found","description":"No data found, symbol may be delisted"}}}`))
			return
		}
		if r.Header.Get("User-Agent") == "" {
			t.Errorf("request for %s has no User-Agent", symbol)
		}
		w.Write([]byte(payload))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestYahoo_Quote(t *testing.T) {
	srv := newChartServer(t, map[string]string{
		"AAPL":   `{"chart":{"result":[{"meta":{"symbol":"AAPL","regularMarketPrice":212.49},"indicators":{"quote":[{"close":[210.1]}]}}],"error":null}}`,
		"^BSESN": `{"chart":{"result":[{"meta":{"symbol":"^BSESN"},"indicators":{"quote":[{"close":[81000.5,81523.16,null]}]}}],"error":null}}`,
		"EMPTY":  `{"chart":{"result":[{"meta":{"symbol":"EMPTY"},"indicators":{"quote":[{"close":[null]}]}}],"error":null}}`,
		"BROKEN": `{"chart":{"result":[]}}`,
	})
	y := NewYahoo(srv.Client(), srv.URL)

	testCases := []struct {
		symbol string
		want   float64
		ok     bool
	}{
		{"AAPL", 212.49, true},
		{"^BSESN", 81523.16, true}, // falls back on the last close
		{"EMPTY", 0, false},
		{"BROKEN", 0, false},
		{"UNKNOWN", 0, false},
	}
	for _, tc := range testCases {
		q := y.Quote(context.Background(), tc.symbol)
		if q.Available() != tc.ok {
			t.Errorf("Quote(%q).Available() = %v, want %v (err=%v)", tc.symbol, q.Available(), tc.ok, q.Err)
			continue
		}
		if !tc.ok {
			if !errors.Is(q.Err, folio.ErrPriceUnavailable) {
				t.Errorf("Quote(%q).Err = %v, want ErrPriceUnavailable", tc.symbol, q.Err)
			}
			continue
		}
		if !q.Price.Equal(folio.P(tc.want)) {
			t.Errorf("Quote(%q).Price = %v, want %v", tc.symbol, q.Price, tc.want)
		}
		if q.Symbol != tc.symbol {
			t.Errorf("Quote(%q).Symbol = %q", tc.symbol, q.Symbol)
		}
	}
}

func TestYahoo_NetworkError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close() // nothing listens anymore

	q := NewYahoo(srv.Client(), srv.URL).Quote(context.Background(), "AAPL")
	if q.Available() {
		t.Errorf("Quote() on a closed server is available: %v", q.Price)
	}
}
