package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/medikart/storefront/internal/domain"
	"github.com/medikart/storefront/internal/port"
)

func (c *Client) Login(ctx context.Context, creds port.Credentials) (string, domain.Customer, error) {
	body := map[string]string{
		"email":    creds.Email,
		"password": creds.Password,
	}

	var resp struct {
		Token    string       `json:"token"`
		Customer *customerDTO `json:"pelanggan"`
		User     *customerDTO `json:"user"`
	}

	if err := c.doJSON(ctx, http.MethodPost, "/login-pelanggan", body, &resp); err != nil {
		return "", domain.Customer{}, fmt.Errorf("doJSON: %w", err)
	}

	if resp.Token == "" {
		return "", domain.Customer{}, fmt.Errorf("login response has no token")
	}

	// older backend versions put the profile under "user"
	dto := resp.Customer
	if dto == nil {
		dto = resp.User
	}
	if dto == nil {
		return "", domain.Customer{}, fmt.Errorf("login response has no profile")
	}

	return resp.Token, mapCustomerDTO(*dto), nil
}

func (c *Client) Register(ctx context.Context, reg port.Registration) error {
	// the backend requires a confirmation field matching the password
	body := map[string]string{
		"nama":                  reg.Name,
		"email":                 reg.Email,
		"telepon":               reg.Phone,
		"alamat":                reg.Address,
		"password":              reg.Password,
		"password_confirmation": reg.Password,
	}

	if err := c.doJSON(ctx, http.MethodPost, "/register-pelanggan", body, nil); err != nil {
		return fmt.Errorf("doJSON: %w", err)
	}

	return nil
}

func (c *Client) Logout(ctx context.Context) error {
	if err := c.doJSON(ctx, http.MethodPost, "/logout", nil, nil); err != nil {
		return fmt.Errorf("doJSON: %w", err)
	}

	return nil
}

func (c *Client) UpdateProfile(ctx context.Context, customer domain.Customer) (domain.Customer, error) {
	if customer.ID == 0 {
		return domain.Customer{}, fmt.Errorf("customer ID is zero")
	}

	body := map[string]string{
		"nama":    customer.Name,
		"email":   customer.Email,
		"telepon": customer.Phone,
		"alamat":  customer.Address,
	}

	var envelope struct {
		Data customerDTO `json:"data"`
	}

	path := fmt.Sprintf("/pelanggan/%d", customer.ID)
	if err := c.doJSON(ctx, http.MethodPut, path, body, &envelope); err != nil {
		return domain.Customer{}, fmt.Errorf("doJSON: %w", err)
	}

	return mapCustomerDTO(envelope.Data), nil
}
