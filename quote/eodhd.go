package quote

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/etnz/folio"
	"github.com/shopspring/decimal"
)

// EODHDBaseURL is the default eodhd.com API endpoint.
const EODHDBaseURL = "https://eodhd.com/api"

// EODHDDemoKey is eodhd's public demo key, it only serves a few tickers (e.g. AAPL.US).
const EODHDDemoKey = "demo"

// EODHD looks up the latest trade price with eodhd.com's real-time API.
//
// Symbols without an exchange suffix are looked up on the default exchange,
// and index symbols ("^BSESN") on eodhd's INDX virtual exchange.
type EODHD struct {
	client   *http.Client
	baseURL  string
	apiKey   string
	exchange string
}

// NewEODHD returns an eodhd lookup. A nil client means http.DefaultClient, an
// empty baseURL means EODHDBaseURL and an empty exchange means "US".
func NewEODHD(client *http.Client, baseURL, apiKey, exchange string) *EODHD {
	if client == nil {
		client = http.DefaultClient
	}
	if baseURL == "" {
		baseURL = EODHDBaseURL
	}
	if exchange == "" {
		exchange = "US"
	}
	return &EODHD{client: client, baseURL: strings.TrimSuffix(baseURL, "/"), apiKey: apiKey, exchange: exchange}
}

// ticker converts a symbol into eodhd's "CODE.EXCHANGE" notation.
func (e *EODHD) ticker(symbol string) string {
	if code, ok := strings.CutPrefix(symbol, "^"); ok {
		return code + ".INDX"
	}
	if strings.Contains(symbol, ".") {
		return symbol
	}
	return symbol + "." + e.exchange
}

// Quote implements folio.PriceLookup.
func (e *EODHD) Quote(ctx context.Context, symbol string) folio.Quote {
	if e.apiKey == "" {
		return folio.Unavailable(symbol, errors.New("EODHD API key is not set. Use eodhd.api_key config or EODHD_API_KEY environment variable"))
	}
	// https://eodhd.com/api/real-time/AAPL.US?api_token=demo&fmt=json
	// {
	//   "code": "AAPL.US",
	//   "timestamp": 1718395200,
	//   "open": 213.85,
	//   "close": 212.49,
	//   "previousClose": 214.24,
	//   ...
	// }
	// "close" is "NA" when the ticker has no trade.
	ticker := e.ticker(symbol)
	addr := fmt.Sprintf("%s/real-time/%s?fmt=json&api_token=%s", e.baseURL, url.PathEscape(ticker), url.QueryEscape(e.apiKey))

	var content struct {
		Code  string          `json:"code"`
		Close decimal.Decimal `json:"close"`
	}
	if err := jwget(ctx, e.client, addr, &content); err != nil {
		return folio.Unavailable(symbol, fmt.Errorf("eodhd %s: %w", ticker, e.redact(err)))
	}
	if !content.Close.IsPositive() {
		return folio.Unavailable(symbol, fmt.Errorf("eodhd %s: no trade", ticker))
	}
	return folio.Found(symbol, folio.P(content.Close))
}

// redact hides the API key from the URL carried by transport errors.
func (e *EODHD) redact(err error) error {
	var uerr *url.Error
	if errors.As(err, &uerr) {
		uerr.URL = strings.ReplaceAll(uerr.URL, "api_token="+url.QueryEscape(e.apiKey), "api_token=REDACTED")
	}
	return err
}
