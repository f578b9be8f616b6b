// Package client implements the point-of-sale client core: a typed API client
// for the server's wire contract, a persisted table/order cache with optimistic
// mutation, and the synchronization layer that keeps the two consistent.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/02priyeshraj/Restaurant_POS_Backend/models"
)

// Error taxonomy for server responses.
var (
	ErrInvalidInput   = errors.New("invalid input")
	ErrNotFound       = errors.New("not found")
	ErrDuplicateTable = errors.New("duplicate table")
	ErrUnauthorized   = errors.New("unauthorized")
	ErrPersistence    = errors.New("persistence failure")
)

type APIClient struct {
	baseURL    string
	httpClient *http.Client
	token      string
}

func NewAPIClient(baseURL string) *APIClient {
	return &APIClient{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// SetToken installs the bearer token used on every request. Token refresh is
// the session routine's job, not the client's.
func (c *APIClient) SetToken(token string) {
	c.token = token
}

func (c *APIClient) do(ctx context.Context, method, path string, body interface{}, out interface{}) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("%w: encoding request: %v", ErrInvalidInput, err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return c.mapError(resp)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("%w: decoding response: %v", ErrPersistence, err)
		}
	}
	return nil
}

func (c *APIClient) mapError(resp *http.Response) error {
	var payload struct {
		Error string `json:"error"`
	}
	msg := ""
	if data, err := io.ReadAll(io.LimitReader(resp.Body, 4096)); err == nil {
		if json.Unmarshal(data, &payload) == nil {
			msg = payload.Error
		}
		if msg == "" {
			msg = string(bytes.TrimSpace(data))
		}
	}

	switch resp.StatusCode {
	case http.StatusBadRequest:
		return fmt.Errorf("%w: %s", ErrInvalidInput, msg)
	case http.StatusNotFound:
		return fmt.Errorf("%w: %s", ErrNotFound, msg)
	case http.StatusConflict:
		return fmt.Errorf("%w: %s", ErrDuplicateTable, msg)
	case http.StatusUnauthorized:
		return fmt.Errorf("%w: %s", ErrUnauthorized, msg)
	default:
		return fmt.Errorf("%w: %s", ErrPersistence, msg)
	}
}

func (c *APIClient) ListTables(ctx context.Context) ([]models.Table, error) {
	var out struct {
		Tables []models.Table `json:"tables"`
	}
	if err := c.do(ctx, http.MethodGet, "/tables", nil, &out); err != nil {
		return nil, err
	}
	return out.Tables, nil
}

func (c *APIClient) CreateTable(ctx context.Context, tableNumber, capacity int) (*models.Table, error) {
	body := map[string]int{"tableNumber": tableNumber, "capacity": capacity}
	var out struct {
		Table models.Table `json:"table"`
	}
	if err := c.do(ctx, http.MethodPost, "/tables", body, &out); err != nil {
		return nil, err
	}
	return &out.Table, nil
}

// TableUpdate is a partial table update addressed by table number.
type TableUpdate struct {
	TableNumber  int     `json:"tableNumber"`
	Capacity     *int    `json:"capacity,omitempty"`
	Status       *string `json:"status,omitempty"`
	CurrentOrder *string `json:"currentOrder,omitempty"`
}

func (c *APIClient) UpdateTable(ctx context.Context, update TableUpdate) (*models.Table, error) {
	var out struct {
		Table models.Table `json:"table"`
	}
	if err := c.do(ctx, http.MethodPut, "/tables", update, &out); err != nil {
		return nil, err
	}
	return &out.Table, nil
}

func (c *APIClient) DeleteTable(ctx context.Context, tableNumber int) error {
	return c.do(ctx, http.MethodDelete, "/tables?tableNumber="+strconv.Itoa(tableNumber), nil, nil)
}

// OrderRequest opens an order against a table.
type OrderRequest struct {
	TableNumber   int                `json:"tableNumber"`
	Items         []models.OrderItem `json:"items"`
	ServedBy      string             `json:"servedBy,omitempty"`
	PaymentMethod string             `json:"paymentMethod,omitempty"`
}

func (c *APIClient) CreateOrder(ctx context.Context, req OrderRequest) (*models.Order, error) {
	var out struct {
		Order models.Order `json:"order"`
	}
	if err := c.do(ctx, http.MethodPost, "/orders", req, &out); err != nil {
		return nil, err
	}
	return &out.Order, nil
}

// OrderUpdate replaces items and/or settles an order.
type OrderUpdate struct {
	OrderId       string             `json:"orderId"`
	Items         []models.OrderItem `json:"items,omitempty"`
	PaymentMethod string             `json:"paymentMethod,omitempty"`
	Status        string             `json:"status,omitempty"`
	PaymentStatus string             `json:"paymentStatus,omitempty"`
}

func (c *APIClient) UpdateOrder(ctx context.Context, update OrderUpdate) (*models.Order, error) {
	var out struct {
		Order models.Order `json:"order"`
	}
	if err := c.do(ctx, http.MethodPut, "/orders", update, &out); err != nil {
		return nil, err
	}
	return &out.Order, nil
}

// OrderFilter narrows an order listing.
type OrderFilter struct {
	StartDate   *time.Time
	EndDate     *time.Time
	Status      string
	TableNumber int
}

func (c *APIClient) ListOrders(ctx context.Context, filter OrderFilter) ([]models.Order, error) {
	params := url.Values{}
	if filter.StartDate != nil {
		params.Set("startDate", filter.StartDate.Format(time.RFC3339))
	}
	if filter.EndDate != nil {
		params.Set("endDate", filter.EndDate.Format(time.RFC3339))
	}
	if filter.Status != "" {
		params.Set("status", filter.Status)
	}
	if filter.TableNumber > 0 {
		params.Set("tableNumber", strconv.Itoa(filter.TableNumber))
	}

	path := "/orders"
	if encoded := params.Encode(); encoded != "" {
		path += "?" + encoded
	}

	var out struct {
		Orders []models.Order `json:"orders"`
	}
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return out.Orders, nil
}

// TopItem is one entry of the top-sellers report.
type TopItem struct {
	Product       string  `json:"_id"`
	Name          string  `json:"name"`
	TotalQuantity int     `json:"totalQuantity"`
	TotalRevenue  float64 `json:"totalRevenue"`
}

// RevenueStats is the aggregate revenue report for a period.
type RevenueStats struct {
	TotalRevenue      float64   `json:"totalRevenue"`
	TotalOrders       int64     `json:"totalOrders"`
	AverageOrderValue float64   `json:"averageOrderValue"`
	TopItems          []TopItem `json:"topItems"`
	Period            string    `json:"period"`
}

func (c *APIClient) GetRevenueStats(ctx context.Context, period string) (*RevenueStats, error) {
	var out RevenueStats
	if err := c.do(ctx, http.MethodGet, "/orders/stats?period="+url.QueryEscape(period), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Login authenticates and installs the returned bearer token.
func (c *APIClient) Login(ctx context.Context, email, password string) (refreshToken string, err error) {
	body := map[string]string{"email": email, "password": password}
	var out struct {
		Token        string `json:"token"`
		RefreshToken string `json:"refresh_token"`
	}
	if err := c.do(ctx, http.MethodPost, "/users/login", body, &out); err != nil {
		return "", err
	}
	c.token = out.Token
	return out.RefreshToken, nil
}

// Refresh rotates the token pair and installs the new access token.
func (c *APIClient) Refresh(ctx context.Context, refreshToken string) (newRefreshToken string, err error) {
	body := map[string]string{"refresh_token": refreshToken}
	var out struct {
		Token        string `json:"token"`
		RefreshToken string `json:"refresh_token"`
	}
	if err := c.do(ctx, http.MethodPost, "/users/refresh", body, &out); err != nil {
		return "", err
	}
	c.token = out.Token
	return out.RefreshToken, nil
}
