package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// Product es un articulo del feed externo de catalogo.
type Product struct {
	ID          int     `json:"id"`
	Title       string  `json:"title"`
	Price       float64 `json:"price"`
	Description string  `json:"description"`
	Category    string  `json:"category"`
	Image       string  `json:"image"`
}

// Client define la interfaz para consultar el catalogo de productos.
type Client interface {
	FetchProducts(ctx context.Context, limit int) ([]Product, error)
}

type logger interface {
	Printf(format string, v ...interface{})
}

// HTTPClient implementa Client contra una API estilo fakestore.
// Es un wrapper fino de I/O: el catalogo no es parte del nucleo.
type HTTPClient struct {
	baseURL string
	client  *http.Client
	logger  logger
}

// NewHTTPClient construye un cliente HTTP apuntando al feed de productos.
func NewHTTPClient(baseURL string, log any) *HTTPClient {
	l, _ := log.(logger)
	if baseURL == "" {
		baseURL = "https://fakestoreapi.com"
	}
	return &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: 15 * time.Second},
		logger:  l,
	}
}

func (c *HTTPClient) FetchProducts(ctx context.Context, limit int) ([]Product, error) {
	url := c.baseURL + "/products"
	if limit > 0 {
		url += "?limit=" + strconv.Itoa(limit)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode >= 400 {
		if c.logger != nil {
			c.logger.Printf("catalog error status %d: %s", resp.StatusCode, string(respBody))
		}
		return nil, fmt.Errorf("catalog http error: status=%d", resp.StatusCode)
	}

	var products []Product
	if err := json.Unmarshal(respBody, &products); err != nil {
		return nil, fmt.Errorf("unmarshal response: %w", err)
	}
	return products, nil
}
