package data

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/contactkeval/option-mc/internal/logger"
)

// polygonDataProvider implements Provider using Polygon.io API.
type polygonDataProvider struct {
	apiKey    string
	client    *http.Client
	secondary Provider
}

// NewPolygonDataProvider constructs a Polygon-backed provider. Uses raw
// HTTP calls against the aggs endpoints; no SDK.
func NewPolygonDataProvider(apiKey string) Provider {
	return &polygonDataProvider{apiKey: apiKey, client: &http.Client{Timeout: 30 * time.Second}}
}

func (polygonDataProv *polygonDataProvider) Secondary() Provider {
	return polygonDataProv.secondary
}

func (polygonDataProv *polygonDataProvider) GetDailyBars(underlying string, fromDate, toDate time.Time) ([]Bar, error) {
	base := "https://api.polygon.io"
	url := fmt.Sprintf("%s/v2/aggs/ticker/%s/range/1/day/%s/%s?adjusted=true&sort=asc&limit=50000&apiKey=%s",
		base, underlying, fromDate.Format("2006-01-02"), toDate.Format("2006-01-02"), polygonDataProv.apiKey)
	logger.Debugf("polygon: fetching daily bars %s %s..%s", underlying, fromDate.Format("2006-01-02"), toDate.Format("2006-01-02"))
	req, _ := http.NewRequest("GET", url, nil)
	resp, err := polygonDataProv.client.Do(req)
	if err != nil {
		return polygonDataProv.fallbackBars(underlying, fromDate, toDate, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != 200 {
		return polygonDataProv.fallbackBars(underlying, fromDate, toDate, fmt.Errorf("polygon aggs status %d", resp.StatusCode))
	}
	var body struct {
		Results []struct {
			Time  int64   `json:"t"`
			Open  float64 `json:"o"`
			High  float64 `json:"h"`
			Low   float64 `json:"l"`
			Close float64 `json:"c"`
			Vol   float64 `json:"v"`
		} `json:"results"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, err
	}
	out := make([]Bar, 0, len(body.Results))
	for _, r := range body.Results {
		out = append(out, Bar{Date: time.UnixMilli(r.Time).UTC(), Open: r.Open, High: r.High, Low: r.Low, Close: r.Close, Vol: r.Vol})
	}
	return out, nil
}

func (polygonDataProv *polygonDataProvider) GetSpot(underlying string) (float64, error) {
	url := fmt.Sprintf("https://api.polygon.io/v2/aggs/ticker/%s/prev?adjusted=true&apiKey=%s", underlying, polygonDataProv.apiKey)
	req, _ := http.NewRequest("GET", url, nil)
	resp, err := polygonDataProv.client.Do(req)
	if err != nil {
		return polygonDataProv.fallbackSpot(underlying, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != 200 {
		return polygonDataProv.fallbackSpot(underlying, fmt.Errorf("polygon prev status %d", resp.StatusCode))
	}
	var body struct {
		Results []struct {
			Close float64 `json:"c"`
		} `json:"results"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return 0, err
	}
	if len(body.Results) == 0 || body.Results[0].Close <= 0 {
		return polygonDataProv.fallbackSpot(underlying, fmt.Errorf("no usable previous close for %s", underlying))
	}
	return body.Results[0].Close, nil
}

func (polygonDataProv *polygonDataProvider) fallbackBars(underlying string, fromDate, toDate time.Time, cause error) ([]Bar, error) {
	if polygonDataProv.secondary != nil {
		logger.Debugf("polygon: bars failed (%v), trying secondary", cause)
		return polygonDataProv.secondary.GetDailyBars(underlying, fromDate, toDate)
	}
	return nil, cause
}

func (polygonDataProv *polygonDataProvider) fallbackSpot(underlying string, cause error) (float64, error) {
	if polygonDataProv.secondary != nil {
		logger.Debugf("polygon: spot failed (%v), trying secondary", cause)
		return polygonDataProv.secondary.GetSpot(underlying)
	}
	return 0, cause
}
