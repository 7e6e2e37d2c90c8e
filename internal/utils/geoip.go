package utils

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
)

// GeoLocation — ответ геосервиса по IP.
type GeoLocation struct {
	City    string  `json:"city"`
	Region  string  `json:"regionName"`
	Country string  `json:"country"`
	Lat     float64 `json:"lat"`
	Lon     float64 `json:"lon"`
	IP      string  `json:"query"`
	Status  string  `json:"status"`

	// Raw — тело ответа как есть, сохраняем в члене при регистрации.
	Raw string `json:"-"`
}

// GeoIPClient — провайдер геолокации (ip-api-совместимый JSON API).
type GeoIPClient struct {
	BaseURL string
	client  *http.Client
}

func NewGeoIPClient(baseURL string) *GeoIPClient {
	if baseURL == "" {
		baseURL = "http://ip-api.com/json"
	}
	return &GeoIPClient{BaseURL: baseURL, client: &http.Client{}}
}

// Locate возвращает геолокацию по IP. Локальные адреса сервис сам
// резолвит по адресу запроса.
func (c *GeoIPClient) Locate(ip string) (*GeoLocation, error) {
	u := c.BaseURL + "/" + url.PathEscape(ip) + "?lang=ru"

	resp, err := c.client.Get(u)
	if err != nil {
		return nil, fmt.Errorf("geoip request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err != nil {
		return nil, fmt.Errorf("geoip read: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("geoip status %d", resp.StatusCode)
	}

	var loc GeoLocation
	if err := json.Unmarshal(body, &loc); err != nil {
		return nil, fmt.Errorf("geoip parse: %w", err)
	}
	if loc.Status != "" && loc.Status != "success" {
		return nil, fmt.Errorf("geoip lookup failed for %s", ip)
	}
	loc.Raw = string(body)
	return &loc, nil
}
