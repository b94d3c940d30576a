package quote

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/PaesslerAG/jsonpath"
	"github.com/etnz/folio"
	"github.com/shopspring/decimal"
)

// YahooBaseURL is the default Yahoo Finance API endpoint.
const YahooBaseURL = "https://query1.finance.yahoo.com"

// Yahoo looks up the latest trade price on Yahoo Finance's chart API.
//
// Symbols use Yahoo's notation: "AAPL", "TCS.NS", "^BSESN".
type Yahoo struct {
	client  *http.Client
	baseURL string
}

// NewYahoo returns a Yahoo lookup. A nil client means http.DefaultClient, an
// empty baseURL means YahooBaseURL.
func NewYahoo(client *http.Client, baseURL string) *Yahoo {
	if client == nil {
		client = http.DefaultClient
	}
	if baseURL == "" {
		baseURL = YahooBaseURL
	}
	return &Yahoo{client: client, baseURL: strings.TrimSuffix(baseURL, "/")}
}

/*
	{
	  "chart": {
	    "result": [
	      {
	        "meta": {
	          "currency": "INR",
	          "symbol": "^BSESN",
	          "regularMarketPrice": 81523.16,
	          ...
	        },
	        "timestamp": [1718595900],
	        "indicators": { "quote": [ { "close": [81523.16], ... } ] }
	      }
	    ],
	    "error": null
	  }
	}
*/

// Quote implements folio.PriceLookup.
func (y *Yahoo) Quote(ctx context.Context, symbol string) folio.Quote {
	addr := fmt.Sprintf("%s/v8/finance/chart/%s?range=1d&interval=1d", y.baseURL, url.PathEscape(symbol))
	var jobj any
	if err := jwget(ctx, y.client, addr, &jobj); err != nil {
		return folio.Unavailable(symbol, err)
	}
	price, err := yahooPrice(jobj)
	if err != nil {
		return folio.Unavailable(symbol, err)
	}
	return folio.Found(symbol, folio.P(price))
}

// yahooPrice extracts the latest price from a chart payload: the regular
// market price, or else the last close of the day.
func yahooPrice(jobj any) (decimal.Decimal, error) {
	if jval, err := jsonpath.Get("$.chart.result[0].meta.regularMarketPrice", jobj); err == nil {
		if v, ok := jval.(float64); ok && v > 0 {
			return decimal.NewFromFloat(v), nil
		}
	}

	path := "$.chart.result[0].indicators.quote[0].close"
	jval, err := jsonpath.Get(path, jobj)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("error parsing %q: %w", path, err)
	}
	closes, ok := jval.([]any)
	if !ok {
		return decimal.Decimal{}, fmt.Errorf("error parsing %q: not a list %v", path, jval)
	}
	// the series contains nulls for periods without trades, keep the last real one.
	for i := len(closes) - 1; i >= 0; i-- {
		if v, ok := closes[i].(float64); ok && v > 0 {
			return decimal.NewFromFloat(v), nil
		}
	}
	return decimal.Decimal{}, errors.New("empty history")
}
