package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"strings"
	"time"

	"ecofinds/internal/domain"
)

// Client es el cliente HTTP del API de auth. Lleva un cookie jar para que
// la cookie de sesion viaje sola, y muta el AuthState al completar cada
// llamada. Las llamadas se serializan: un doble submit no solapa requests.
type Client struct {
	baseURL string
	http    *http.Client
	state   *AuthState
	callMu  chan struct{}
}

type apiResponse struct {
	Success bool                  `json:"success"`
	Message string                `json:"message"`
	User    *domain.SanitizedUser `json:"user"`
}

// NewClient construye el cliente apuntando al servidor de EcoFinds.
func NewClient(baseURL string) (*Client, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http: &http.Client{
			Jar:     jar,
			Timeout: 30 * time.Second,
		},
		state:  NewAuthState(),
		callMu: make(chan struct{}, 1),
	}
	c.callMu <- struct{}{}
	return c, nil
}

// State expone el contenedor de estado para la capa de UI.
func (c *Client) State() *AuthState {
	return c.state
}

// CheckAuth resuelve la comprobacion inicial de sesion. Cualquier fallo
// deja el estado en no-autenticado sin propagar error a la UI.
func (c *Client) CheckAuth(ctx context.Context) error {
	c.acquire()
	defer c.release()

	resp, status, err := c.do(ctx, http.MethodGet, "/api/auth/check-auth", nil)
	if err != nil || status != http.StatusOK || resp.User == nil {
		c.state.completeUnauthenticated()
		return nil
	}
	c.state.completeAuthenticated(*resp.User)
	return nil
}

// Signup registra la cuenta; en exito el usuario queda logueado sin verificar.
func (c *Client) Signup(ctx context.Context, email, password, name string) (*domain.SanitizedUser, error) {
	c.acquire()
	defer c.release()
	c.state.beginCall()

	body := map[string]string{"email": email, "password": password, "name": name}
	resp, status, err := c.do(ctx, http.MethodPost, "/api/auth/signup", body)
	if err != nil {
		c.state.completeError(err.Error())
		return nil, err
	}
	if status != http.StatusCreated || resp.User == nil {
		c.state.completeError(resp.Message)
		return nil, fmt.Errorf("signup failed: %s", resp.Message)
	}
	c.state.completeAuthenticated(*resp.User)
	return resp.User, nil
}

// Login autentica con email y password.
func (c *Client) Login(ctx context.Context, email, password string) (*domain.SanitizedUser, error) {
	c.acquire()
	defer c.release()
	c.state.beginCall()

	body := map[string]string{"email": email, "password": password}
	resp, status, err := c.do(ctx, http.MethodPost, "/api/auth/login", body)
	if err != nil {
		c.state.completeError(err.Error())
		return nil, err
	}
	if status != http.StatusOK || resp.User == nil {
		c.state.completeError(resp.Message)
		return nil, fmt.Errorf("login failed: %s", resp.Message)
	}
	c.state.completeAuthenticated(*resp.User)
	return resp.User, nil
}

// VerifyEmail consume el codigo de verificacion de 6 digitos.
func (c *Client) VerifyEmail(ctx context.Context, code string) (*domain.SanitizedUser, error) {
	c.acquire()
	defer c.release()
	c.state.beginCall()

	body := map[string]string{"code": code}
	resp, status, err := c.do(ctx, http.MethodPost, "/api/auth/verify-email", body)
	if err != nil {
		c.state.completeError(err.Error())
		return nil, err
	}
	if status != http.StatusOK || resp.User == nil {
		c.state.completeError(resp.Message)
		return nil, fmt.Errorf("verify email failed: %s", resp.Message)
	}
	c.state.completeAuthenticated(*resp.User)
	return resp.User, nil
}

// Logout limpia la sesion; siempre deja el estado en no-autenticado.
func (c *Client) Logout(ctx context.Context) error {
	c.acquire()
	defer c.release()
	c.state.beginCall()

	_, _, err := c.do(ctx, http.MethodPost, "/api/auth/logout", nil)
	c.state.completeUnauthenticated()
	return err
}

// ForgotPassword solicita el enlace de reset.
func (c *Client) ForgotPassword(ctx context.Context, email string) error {
	c.acquire()
	defer c.release()
	c.state.beginCall()

	body := map[string]string{"email": email}
	resp, status, err := c.do(ctx, http.MethodPost, "/api/auth/forgot-password", body)
	if err != nil {
		c.state.completeError(err.Error())
		return err
	}
	if status != http.StatusOK {
		c.state.completeError(resp.Message)
		return fmt.Errorf("forgot password failed: %s", resp.Message)
	}
	c.state.completeError("")
	return nil
}

// ResetPassword consume el token de reset con la password nueva.
func (c *Client) ResetPassword(ctx context.Context, token, password string) error {
	c.acquire()
	defer c.release()
	c.state.beginCall()

	body := map[string]string{"password": password}
	resp, status, err := c.do(ctx, http.MethodPost, "/api/auth/reset-password/"+token, body)
	if err != nil {
		c.state.completeError(err.Error())
		return err
	}
	if status != http.StatusOK {
		c.state.completeError(resp.Message)
		return fmt.Errorf("reset password failed: %s", resp.Message)
	}
	c.state.completeError("")
	return nil
}

func (c *Client) acquire() { <-c.callMu }
func (c *Client) release() { c.callMu <- struct{}{} }

func (c *Client) do(ctx context.Context, method, path string, body any) (apiResponse, int, error) {
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return apiResponse{}, 0, fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return apiResponse{}, 0, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return apiResponse{}, 0, fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	var parsed apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return apiResponse{}, resp.StatusCode, fmt.Errorf("decode response: %w", err)
	}
	return parsed, resp.StatusCode, nil
}
