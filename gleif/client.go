package gleif

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"time"

	"golang.org/x/time/rate"
)

// DefaultBaseURL адрес реестра GLEIF.
const DefaultBaseURL = "https://api.gleif.org/api/v1/lei-records"

// DefaultTimeout таймаут одного запроса к реестру.
const DefaultTimeout = 20 * time.Second

// Имена фильтров GLEIF API.
const (
	FilterLEI      = "filter[lei]"
	FilterFulltext = "filter[fulltext]"
	ParamPageSize  = "page[size]"
)

// Client клиент реестра GLEIF. Выполняет фильтрованные GET-запросы
// к /lei-records и классифицирует ошибки по статусу ответа.
// Сессия (пул соединений) процессная и бизнес-состояния не несет.
type Client struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
}

// ClientConfig конфигурация клиента
type ClientConfig struct {
	BaseURL string
	Timeout time.Duration
	// RateLimit страховочный лимит самого клиента. По умолчанию
	// не ограничен: паузы пакетной обработки задает оркестратор.
	RateLimit rate.Limit
}

// NewClient создает новый клиент реестра GLEIF
func NewClient(config ClientConfig) *Client {
	if config.BaseURL == "" {
		config.BaseURL = DefaultBaseURL
	}
	if config.Timeout == 0 {
		config.Timeout = DefaultTimeout
	}
	if config.RateLimit == 0 {
		config.RateLimit = rate.Inf
	}

	transport := &http.Transport{
		MaxIdleConns:        10,
		MaxConnsPerHost:     5,
		IdleConnTimeout:     90 * time.Second,
		MaxIdleConnsPerHost: 5,
	}

	return &Client{
		baseURL: config.BaseURL,
		httpClient: &http.Client{
			Timeout:   config.Timeout,
			Transport: transport,
		},
		limiter: rate.NewLimiter(config.RateLimit, 1),
	}
}

// Fetch выполняет один GET-запрос с переданными фильтрами и возвращает
// массив data из ответа. Пустой результат без ошибки — легальный исход
// (реестр может вернуть 200 с пустым data). Ошибка всегда *QueryError;
// вызывающая сторона решает, как ее отразить в диагностике.
func (c *Client) Fetch(ctx context.Context, filters map[string]string) ([]RawRecord, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, NewRequestFailedError(0, fmt.Errorf("rate limit wait: %w", err))
	}

	params := url.Values{}
	// Стабильный порядок параметров упрощает логи и тесты.
	keys := make([]string, 0, len(filters))
	for k := range filters {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		params.Add(k, filters[k])
	}

	fullURL := fmt.Sprintf("%s?%s", c.baseURL, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, NewRequestFailedError(0, fmt.Errorf("failed to create request: %w", err))
	}
	req.Header.Set("Accept", "application/vnd.api+json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, NewRequestFailedError(0, fmt.Errorf("request failed: %w", err))
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return decodeRecords(resp.Body), nil
	case resp.StatusCode == http.StatusBadRequest:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, NewBadQueryError(resp.StatusCode, string(body))
	case resp.StatusCode == http.StatusNotFound:
		return nil, NewNoMatchesError(resp.StatusCode)
	default:
		return nil, NewRequestFailedError(resp.StatusCode, nil)
	}
}

// decodeRecords разбирает тело ответа и возвращает массив data.
// Отсутствующий или кривой data не считается ошибкой: для вызывающей
// стороны это просто пустой результат.
func decodeRecords(r io.Reader) []RawRecord {
	var envelope struct {
		Data []RawRecord `json:"data"`
	}
	if err := json.NewDecoder(r).Decode(&envelope); err != nil {
		return []RawRecord{}
	}
	if envelope.Data == nil {
		return []RawRecord{}
	}
	return envelope.Data
}
