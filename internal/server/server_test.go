package server_test

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Alphavirusboy/invoice-qc-service/internal/app"
	"github.com/Alphavirusboy/invoice-qc-service/internal/config"
	"github.com/Alphavirusboy/invoice-qc-service/internal/logging"
	"github.com/Alphavirusboy/invoice-qc-service/internal/model"
	"github.com/Alphavirusboy/invoice-qc-service/internal/server"
)

const invoiceText = `Invoice Number: INV-7
Invoice Date: 2024-03-01
Seller: ACME Ltd
Buyer: Globex
Subtotal: 100.00
Tax: 20.00
Total: £120.00`

func newTestServer() *server.Server {
	cfg := config.Default()
	cfg.Server.Debug = true
	return server.NewServer(app.New(cfg, logging.Discard()))
}

func serve(srv *server.Server, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)
	return w
}

func TestHealthEndpoint(t *testing.T) {
	w := serve(newTestServer(), httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get(server.RequestIDHeader))

	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, "ok", response["status"])
	assert.NotEmpty(t, response["time"])
}

func TestRequestIDIsEchoed(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(server.RequestIDHeader, "abc-123")

	w := serve(newTestServer(), req)
	assert.Equal(t, "abc-123", w.Header().Get(server.RequestIDHeader))
}

func TestCORSAllowsAnyOrigin(t *testing.T) {
	req := httptest.NewRequest(http.MethodOptions, "/api/v1/validate-json", nil)
	req.Header.Set("Origin", "http://example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)

	w := serve(newTestServer(), req)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestValidateJSONEndpoint(t *testing.T) {
	body := `[
		{"invoice_number": "A1", "invoice_date": "2024-01-10", "seller_name": "S", "buyer_name": "B",
		 "currency": "EUR", "net_total": 100, "tax_amount": 19, "gross_total": "119.00"},
		{"invoice_number": "A1", "invoice_date": "2024-01-10", "seller_name": "S", "buyer_name": "B",
		 "currency": "EUR"},
		{"invoice_number": "A2"}
	]`

	req := httptest.NewRequest(http.MethodPost, "/api/v1/validate-json", bytes.NewBufferString(body))
	w := serve(newTestServer(), req)
	require.Equal(t, http.StatusOK, w.Code)

	var response model.ValidationResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))

	assert.Equal(t, 3, response.Summary.TotalInvoices)
	assert.Equal(t, 1, response.Summary.ValidInvoices)
	assert.Equal(t, 2, response.Summary.InvalidInvoices)
	assert.Equal(t, 1, response.Summary.ErrorCounts["anomaly: duplicate_invoice"])
	require.Len(t, response.Results, 3)
	assert.True(t, response.Results[0].IsValid)
}

func TestValidateJSONEndpoint_Rejects(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"empty body", ""},
		{"malformed", "[{"},
		{"object", `{"invoice_number": "A1"}`},
		{"wrong type", `[{"invoice_number": 7}]`},
	}

	srv := newTestServer()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/v1/validate-json", bytes.NewBufferString(tt.body))
			w := serve(srv, req)
			assert.Equal(t, http.StatusBadRequest, w.Code)

			var response server.ErrorResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
			assert.NotEmpty(t, response.Error)
		})
	}
}

func TestExtractEndpoint(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/extract?source=inv7.txt", bytes.NewBufferString(invoiceText))
	w := serve(newTestServer(), req)
	require.Equal(t, http.StatusOK, w.Code)

	var response server.ExtractResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))

	assert.Equal(t, "text", response.Format)
	assert.Equal(t, "heuristic", response.Method)
	require.NotNil(t, response.Invoice)
	assert.Equal(t, "INV-7", model.Value(response.Invoice.InvoiceNumber))
	assert.Equal(t, "inv7.txt", model.Value(response.Invoice.ExternalReference))
	assert.Equal(t, "120", response.Invoice.GrossTotal.Raw())
}

func TestExtractEndpoint_Errors(t *testing.T) {
	tests := []struct {
		name   string
		body   []byte
		status int
	}{
		{"empty body", nil, http.StatusBadRequest},
		{"binary", []byte{0x00, 0x01, 0x02, 0xff}, http.StatusBadRequest},
		{"image", []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A}, http.StatusUnprocessableEntity},
		{"broken pdf", []byte("%PDF-1.4\nnot really"), http.StatusUnprocessableEntity},
	}

	srv := newTestServer()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/v1/extract", bytes.NewReader(tt.body))
			assert.Equal(t, tt.status, serve(srv, req).Code)
		})
	}
}

func multipartRequest(t *testing.T, files map[string]string) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for name, content := range files {
		part, err := mw.CreateFormFile("files", name)
		require.NoError(t, err)
		_, err = part.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/extract-and-validate", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestExtractAndValidateEndpoint(t *testing.T) {
	req := multipartRequest(t, map[string]string{
		"a.txt":   invoiceText,
		"b.txt":   invoiceText,
		"bad.bin": "\x00\x01\x02\x03",
	})

	w := serve(newTestServer(), req)
	require.Equal(t, http.StatusOK, w.Code)

	var response model.ExtractAndValidateResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))

	assert.Len(t, response.Invoices, 2)
	assert.Equal(t, 2, response.Validation.Summary.TotalInvoices)
	assert.Equal(t, 1, response.Validation.Summary.ValidInvoices)
	assert.Equal(t, 1, response.Validation.Summary.ErrorCounts["anomaly: duplicate_invoice"])
}

func TestExtractAndValidateEndpoint_NoFiles(t *testing.T) {
	srv := newTestServer()

	w := serve(srv, multipartRequest(t, nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/extract-and-validate", bytes.NewBufferString("x"))
	assert.Equal(t, http.StatusBadRequest, serve(srv, req).Code)
}

func TestInfoEndpoint(t *testing.T) {
	tests := []struct {
		name         string
		body         []byte
		format       string
		mimeType     string
		documentType string
	}{
		{"invoice text", []byte(invoiceText), "text", "text/plain", "invoice"},
		{"purchase order text", []byte("Purchase Order 4711\nPos Article"), "text", "text/plain", "purchase_order"},
		{"png", []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A}, "image", "image/png", ""},
		{"binary", []byte{0x00, 0x01, 0x02, 0xff}, "unknown", "application/octet-stream", ""},
	}

	srv := newTestServer()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/v1/info", bytes.NewReader(tt.body))
			w := serve(srv, req)
			require.Equal(t, http.StatusOK, w.Code)

			var response server.InfoResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
			assert.Equal(t, tt.format, response.Format)
			assert.Equal(t, tt.mimeType, response.MimeType)
			assert.Equal(t, len(tt.body), response.Size)
			assert.Equal(t, tt.documentType, response.DocumentType)
		})
	}
}

func TestBodyLimit(t *testing.T) {
	cfg := config.Default()
	cfg.Server.MaxBodyBytes = 8
	srv := server.NewServer(app.New(cfg, logging.Discard()))

	req := httptest.NewRequest(http.MethodPost, "/api/v1/extract", bytes.NewBufferString(invoiceText))
	assert.Equal(t, http.StatusBadRequest, serve(srv, req).Code)
}

// Benchmark tests

func BenchmarkExtract(b *testing.B) {
	srv := newTestServer()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/extract", bytes.NewBufferString(invoiceText))
		w := httptest.NewRecorder()
		srv.Handler().ServeHTTP(w, req)
	}
}

func BenchmarkHealth(b *testing.B) {
	srv := newTestServer()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		w := httptest.NewRecorder()
		srv.Handler().ServeHTTP(w, req)
	}
}
