// Package crmapi es el cliente REST del backend CRM: cotizaciones, facturas y documentos.
package crmapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/WMASewwandi/clovesis-sub003/internal/application/billing"
	"github.com/WMASewwandi/clovesis-sub003/internal/application/dto"
	"github.com/WMASewwandi/clovesis-sub003/internal/domain"
	"github.com/WMASewwandi/clovesis-sub003/internal/domain/entity"
)

// ── Endpoints ─────────────────────────────────────────────────────────────────

const (
	pathQuotesWithoutInvoice = "/CRMQuotes/GetCRMQuotesWithoutInvoice"
	pathCreateInvoice        = "/CRMInvoice/CreateCRMInvoice"
	pathUpdateInvoice        = "/CRMInvoice/UpdateCRMInvoice"
	pathDocumentUpload       = "/AWS/DocumentUpload"

	// GenericErrorMessage se muestra cuando el backend falla sin mensaje propio.
	GenericErrorMessage = "Something went wrong. Please try again."

	maxResponseBytes = 4 << 20 // 4 MB
)

var (
	_ billing.QuoteProvider      = (*Client)(nil)
	_ billing.InvoicePersistence = (*Client)(nil)
	_ billing.DocumentUploader   = (*Client)(nil)
)

// ── Errores ───────────────────────────────────────────────────────────────────

// APIError respuesta de error del backend (HTTP no 2xx o statusCode >= 400 en el cuerpo).
// Message es el mensaje del servidor, o GenericErrorMessage si no vino ninguno.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("crm api: status %d: %s", e.StatusCode, e.Message)
}

// Unwrap permite errors.Is(err, domain.ErrUpstream).
func (e *APIError) Unwrap() error { return domain.ErrUpstream }

// ── Cliente ───────────────────────────────────────────────────────────────────

// Client implementa QuoteProvider, InvoicePersistence y DocumentUploader contra el backend.
// No reintenta: un fallo se informa una vez y el usuario decide si repetir.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient construye el cliente. timeout <= 0 usa 60 s.
func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

// GetQuotesWithoutInvoice GET /CRMQuotes/GetCRMQuotesWithoutInvoice → {result: Quote[]}.
func (c *Client) GetQuotesWithoutInvoice(ctx context.Context, token string) ([]entity.Quote, error) {
	req, err := c.newRequest(ctx, http.MethodGet, pathQuotesWithoutInvoice, token, nil)
	if err != nil {
		return nil, err
	}
	env, err := c.do(req)
	if err != nil {
		return nil, err
	}
	if !env.HasResult() {
		return nil, fmt.Errorf("%w: cotizaciones sin result", domain.ErrUnexpectedResponse)
	}
	var quotes []dto.QuoteDTO
	if err := json.Unmarshal(env.Result, &quotes); err != nil {
		return nil, fmt.Errorf("%w: cotizaciones: %v", domain.ErrUnexpectedResponse, err)
	}

	out := make([]entity.Quote, 0, len(quotes))
	for _, q := range quotes {
		out = append(out, q.ToEntity())
	}
	return out, nil
}

// CreateInvoice POST /CRMInvoice/CreateCRMInvoice.
func (c *Client) CreateInvoice(ctx context.Context, token string, payload dto.InvoicePayload) (*dto.BackendMessage, error) {
	return c.postInvoice(ctx, pathCreateInvoice, token, payload)
}

// UpdateInvoice POST /CRMInvoice/UpdateCRMInvoice.
func (c *Client) UpdateInvoice(ctx context.Context, token string, payload dto.InvoicePayload) (*dto.BackendMessage, error) {
	return c.postInvoice(ctx, pathUpdateInvoice, token, payload)
}

func (c *Client) postInvoice(ctx context.Context, path, token string, payload dto.InvoicePayload) (*dto.BackendMessage, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("crm api: serializar factura: %w", err)
	}
	req, err := c.newRequest(ctx, http.MethodPost, path, token, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	env, err := c.do(req)
	if err != nil {
		return nil, err
	}
	return &dto.BackendMessage{Message: env.Message, StatusCode: env.StatusCode}, nil
}

// UploadDocument POST /AWS/DocumentUpload (multipart) → {result: url}.
func (c *Client) UploadDocument(ctx context.Context, token string, in dto.DocumentUploadRequest) (string, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fields := []struct{ name, value string }{
		{"InquiryID", in.InquiryID},
		{"InqCode", in.InqCode},
		{"DocumentType", in.DocumentType},
		{"DocumentContentType", in.DocumentContentType},
		{"DocumentSubContentType", in.DocumentSubContentType},
		{"FileName", in.FileName},
	}
	for _, f := range fields {
		if err := mw.WriteField(f.name, f.value); err != nil {
			return "", fmt.Errorf("crm api: multipart %s: %w", f.name, err)
		}
	}
	fw, err := mw.CreateFormFile("File", in.FileName)
	if err != nil {
		return "", fmt.Errorf("crm api: multipart File: %w", err)
	}
	if _, err := fw.Write(in.File); err != nil {
		return "", fmt.Errorf("crm api: multipart File: %w", err)
	}
	if err := mw.Close(); err != nil {
		return "", fmt.Errorf("crm api: cerrar multipart: %w", err)
	}

	req, err := c.newRequest(ctx, http.MethodPost, pathDocumentUpload, token, &buf)
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	env, err := c.do(req)
	if err != nil {
		return "", err
	}
	var url string
	if !env.HasResult() || json.Unmarshal(env.Result, &url) != nil || strings.TrimSpace(url) == "" {
		return "", fmt.Errorf("%w: subida sin URL en result", domain.ErrUnexpectedResponse)
	}
	return url, nil
}

// ── HTTP ──────────────────────────────────────────────────────────────────────

func (c *Client) newRequest(ctx context.Context, method, path, token string, body io.Reader) (*http.Request, error) {
	if strings.TrimSpace(token) == "" {
		return nil, fmt.Errorf("crm api: %w: token vacío", domain.ErrUnauthorized)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("crm api: crear request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")
	return req, nil
}

// do ejecuta la llamada y decodifica el sobre. Los errores del backend se devuelven como *APIError.
func (c *Client) do(req *http.Request) (*dto.BackendEnvelope, error) {
	ctx := req.Context()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("crm api: timeout o cancelación: %w", ctx.Err())
		}
		// Timeout propio del http.Client: se informa igual que un deadline del contexto.
		var netErr net.Error
		if errors.As(err, &netErr) && netErr.Timeout() {
			return nil, fmt.Errorf("crm api: timeout: %w", context.DeadlineExceeded)
		}
		return nil, fmt.Errorf("crm api: %w: llamada HTTP fallida: %v", domain.ErrUpstream, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("crm api: leer respuesta: %w", err)
	}

	var env dto.BackendEnvelope
	decodeErr := json.Unmarshal(raw, &env)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, newAPIError(resp.StatusCode, env.Message)
	}
	if decodeErr != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrUnexpectedResponse, decodeErr)
	}
	if env.StatusCode >= 400 {
		return nil, newAPIError(env.StatusCode, env.Message)
	}
	return &env, nil
}

func newAPIError(status int, message string) *APIError {
	if strings.TrimSpace(message) == "" {
		message = GenericErrorMessage
	}
	return &APIError{StatusCode: status, Message: message}
}

// UserMessage mensaje apto para el usuario: el del servidor si err es *APIError,
// si no el genérico.
func UserMessage(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	return GenericErrorMessage
}
