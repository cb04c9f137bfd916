package storeapi

import (
	"context"
	"sync"
)

// MockData seeds deterministic store responses for tests or offline demos.
type MockData struct {
	Products []Product
	Carts    []Cart
	Users    []User

	ProductsErr error
	CartsErr    error
	UsersErr    error
}

// MockClient implements Client using in-memory fixtures.
type MockClient struct {
	mu    sync.RWMutex
	data  MockData
	calls map[string]int
}

// NewMockClient builds a mock store client from the provided fixtures.
func NewMockClient(data MockData) *MockClient {
	return &MockClient{data: data, calls: map[string]int{}}
}

// SetData swaps the fixtures served by the client.
func (c *MockClient) SetData(data MockData) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data = data
}

// Calls reports how many times a collection was requested.
func (c *MockClient) Calls(collection string) int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.calls[collection]
}

func (c *MockClient) Products(ctx context.Context) ([]Product, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls["products"]++
	if c.data.ProductsErr != nil {
		return nil, &FetchError{Collection: "products", Err: c.data.ProductsErr}
	}
	return append([]Product(nil), c.data.Products...), nil
}

func (c *MockClient) Carts(ctx context.Context) ([]Cart, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls["carts"]++
	if c.data.CartsErr != nil {
		return nil, &FetchError{Collection: "carts", Err: c.data.CartsErr}
	}
	out := make([]Cart, len(c.data.Carts))
	for i, cart := range c.data.Carts {
		cart.Products = append([]CartLine(nil), cart.Products...)
		out[i] = cart
	}
	return out, nil
}

func (c *MockClient) Users(ctx context.Context) ([]User, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls["users"]++
	if c.data.UsersErr != nil {
		return nil, &FetchError{Collection: "users", Err: c.data.UsersErr}
	}
	return append([]User(nil), c.data.Users...), nil
}
