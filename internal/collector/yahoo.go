package collector

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"time"

	"FinanceHarvester/internal/model"
)

const (
	DefaultChartURL      = "https://query1.finance.yahoo.com/v8/finance/chart"
	DefaultTimeseriesURL = "https://query2.finance.yahoo.com/ws/fundamentals-timeseries/v1/finance/timeseries"

	// timeseriesPeriod1 is the earliest period requested from the timeseries API.
	timeseriesPeriod1 = 493590046
)

// YahooFetcher implements Fetcher using Yahoo Finance public APIs.
type YahooFetcher struct {
	Client        *http.Client
	ChartURL      string
	TimeseriesURL string
	// Now is the clock used for the timeseries upper bound.
	Now func() time.Time
}

// NewYahooFetcher creates a new Yahoo Finance fetcher.
func NewYahooFetcher(proxyURL string) *YahooFetcher {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	return &YahooFetcher{
		Client: &http.Client{
			Timeout:   30 * time.Second,
			Transport: transport,
		},
		ChartURL:      DefaultChartURL,
		TimeseriesURL: DefaultTimeseriesURL,
		Now:           time.Now,
	}
}

func (f *YahooFetcher) Name() string { return "yahoo" }

// yahooChart is the response structure from Yahoo Finance chart API.
type yahooChart struct {
	Chart struct {
		Result []struct {
			Meta struct {
				Symbol    string `json:"symbol"`
				GMTOffset int    `json:"gmtoffset"`
				Timezone  string `json:"timezone"`
			} `json:"meta"`
			Timestamp  []int64 `json:"timestamp"`
			Events     struct {
				Dividends map[string]struct {
					Amount float64 `json:"amount"`
					Date   int64   `json:"date"`
				} `json:"dividends"`
				Splits map[string]struct {
					Date        int64   `json:"date"`
					Numerator   float64 `json:"numerator"`
					Denominator float64 `json:"denominator"`
				} `json:"splits"`
			} `json:"events"`
			Indicators struct {
				Quote []struct {
					Open   []interface{} `json:"open"`
					High   []interface{} `json:"high"`
					Low    []interface{} `json:"low"`
					Close  []interface{} `json:"close"`
					Volume []interface{} `json:"volume"`
				} `json:"quote"`
				AdjClose []struct {
					AdjClose []interface{} `json:"adjclose"`
				} `json:"adjclose"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

// yahooTimeseries is the response structure from the fundamentals-timeseries API.
// Each result carries its values under a key equal to its type name.
type yahooTimeseries struct {
	Timeseries struct {
		Result []map[string]json.RawMessage `json:"result"`
		Error  *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"timeseries"`
}

func toFloat(v interface{}) float64 {
	if v == nil {
		return 0
	}
	switch n := v.(type) {
	case float64:
		return n
	case int:
		return float64(n)
	default:
		return 0
	}
}

func at(vals []interface{}, i int) float64 {
	if i >= len(vals) {
		return 0
	}
	return toFloat(vals[i])
}

func (f *YahooFetcher) get(ctx context.Context, u string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "Mozilla/5.0")

	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("yahoo fetch: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("yahoo read body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("yahoo: status %d, body: %s", resp.StatusCode, string(body))
	}
	return body, nil
}

// FetchPriceHistory requests the maximum available daily history with
// dividend and split events.
func (f *YahooFetcher) FetchPriceHistory(ctx context.Context, symbol string) (*model.PriceHistory, error) {
	u := fmt.Sprintf("%s/%s?interval=1d&range=max&events=div%%2Csplit",
		f.ChartURL, url.PathEscape(symbol))

	body, err := f.get(ctx, u)
	if err != nil {
		return nil, err
	}

	var chart yahooChart
	if err := json.Unmarshal(body, &chart); err != nil {
		return nil, fmt.Errorf("yahoo decode: %w", err)
	}
	if chart.Chart.Error != nil {
		return nil, fmt.Errorf("yahoo api error: %s", chart.Chart.Error.Description)
	}
	if len(chart.Chart.Result) == 0 || len(chart.Chart.Result[0].Timestamp) == 0 {
		return nil, fmt.Errorf("yahoo: no data returned")
	}

	result := chart.Chart.Result[0]
	if len(result.Indicators.Quote) == 0 {
		return nil, fmt.Errorf("yahoo: no quote data")
	}
	quote := result.Indicators.Quote[0]
	var adj []interface{}
	if len(result.Indicators.AdjClose) > 0 {
		adj = result.Indicators.AdjClose[0].AdjClose
	}

	loc := time.FixedZone(result.Meta.Timezone, result.Meta.GMTOffset)
	day := func(ts int64) string { return time.Unix(ts, 0).In(loc).Format(model.DateLayout) }

	// Events are keyed by their trading date.
	dividends := make(map[string]float64, len(result.Events.Dividends))
	for _, d := range result.Events.Dividends {
		dividends[day(d.Date)] += d.Amount
	}
	splits := make(map[string]float64, len(result.Events.Splits))
	for _, sp := range result.Events.Splits {
		if sp.Denominator != 0 {
			splits[day(sp.Date)] = sp.Numerator / sp.Denominator
		}
	}

	history := &model.PriceHistory{Symbol: symbol, Bars: make([]model.OHLCV, 0, len(result.Timestamp))}

	for i, ts := range result.Timestamp {
		o := at(quote.Open, i)
		h := at(quote.High, i)
		l := at(quote.Low, i)
		c := at(quote.Close, i)
		if o == 0 && h == 0 && l == 0 && c == 0 {
			continue // skip null bars (holidays etc.)
		}
		local := time.Unix(ts, 0).In(loc)
		ac := at(adj, i)
		if ac == 0 {
			ac = c
		}
		date := local.Format(model.DateLayout)
		history.Bars = append(history.Bars, model.OHLCV{
			Time:      time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc),
			Open:      o,
			High:      h,
			Low:       l,
			Close:     c,
			AdjClose:  ac,
			Volume:    int64(at(quote.Volume, i)),
			Dividends: dividends[date],
			Splits:    splits[date],
		})
	}

	sort.Slice(history.Bars, func(i, j int) bool { return history.Bars[i].Time.Before(history.Bars[j].Time) })
	return history, nil
}

// FetchStatement requests the quarterly statement of the given kind.
func (f *YahooFetcher) FetchStatement(ctx context.Context, symbol string, kind model.TableKind) (*model.Statement, error) {
	types, err := timeseriesTypes(kind)
	if err != nil {
		return nil, err
	}
	q := url.Values{}
	q.Set("symbol", symbol)
	q.Set("type", types)
	q.Set("period1", strconv.Itoa(timeseriesPeriod1))
	q.Set("period2", strconv.FormatInt(f.Now().Unix(), 10))
	u := fmt.Sprintf("%s/%s?%s", f.TimeseriesURL, url.PathEscape(symbol), q.Encode())

	body, err := f.get(ctx, u)
	if err != nil {
		return nil, err
	}

	var ts yahooTimeseries
	if err := json.Unmarshal(body, &ts); err != nil {
		return nil, fmt.Errorf("yahoo decode: %w", err)
	}
	if ts.Timeseries.Error != nil {
		return nil, fmt.Errorf("yahoo api error: %s", ts.Timeseries.Error.Description)
	}

	p := newPivot()
	for _, res := range ts.Timeseries.Result {
		var meta struct {
			Type []string `json:"type"`
		}
		if raw, ok := res["meta"]; ok {
			if err := json.Unmarshal(raw, &meta); err != nil {
				return nil, fmt.Errorf("yahoo decode meta: %w", err)
			}
		}
		for _, field := range meta.Type {
			raw, ok := res[field]
			if !ok {
				continue
			}
			var points []*timeseriesPoint
			if err := json.Unmarshal(raw, &points); err != nil {
				return nil, fmt.Errorf("yahoo decode %s: %w", field, err)
			}
			for _, pt := range points {
				if pt != nil {
					p.add(field, *pt)
				}
			}
		}
	}

	stmt := model.NewStatement(symbol, kind)
	stmt.Rows = p.result()
	if len(stmt.Rows) == 0 {
		return nil, fmt.Errorf("yahoo: no %s data returned", kind)
	}
	return stmt, nil
}
