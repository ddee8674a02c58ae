// Package mailer клиент почтового API для подтверждений бронирования.
// Отправка best-effort: вызывающий код логирует ошибку и продолжает работу
package mailer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/chillthrive/CT-BookingService/internal/domain"
)

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Client клиент почтового API (Resend-совместимый endpoint /emails)
type Client struct {
	baseURL    string
	apiKey     string
	from       string
	httpClient *http.Client
	log        Logger
}

// NewClient создает новый экземпляр почтового клиента
func NewClient(baseURL, apiKey, from string, timeout time.Duration, log Logger) *Client {
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		from:    from,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		log: log,
	}
}

// SendBookingConfirmation отправляет клиенту письмо с деталями бронирования
func (c *Client) SendBookingConfirmation(ctx context.Context, booking *domain.Booking) error {
	c.log.Info("Sending booking confirmation to %s for booking id=%s", booking.CustomerEmail, booking.ID)

	payload := sendRequest{
		From:    c.from,
		To:      []string{booking.CustomerEmail},
		Subject: fmt.Sprintf("Booking confirmed: %s on %s", booking.ServiceTitle, booking.BookingDate.Format(domain.DateFormat)),
		HTML:    confirmationHTML(booking),
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("%w: failed to marshal request: %v", ErrInternal, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/emails", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("%w: failed to create request: %v", ErrInternal, err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: failed to execute request: %v", ErrInternal, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("%w: unexpected status code %d: %s", ErrInvalidResponse, resp.StatusCode, string(respBody))
	}

	var result sendResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return fmt.Errorf("%w: failed to decode response: %v", ErrInvalidResponse, err)
	}

	c.log.Info("Booking confirmation sent, message id=%s", result.ID)
	return nil
}

func confirmationHTML(b *domain.Booking) string {
	return fmt.Sprintf(
		"<p>Hi %s,</p>"+
			"<p>Your booking for <strong>%s</strong> is confirmed.</p>"+
			"<ul>"+
			"<li>Date: %s</li>"+
			"<li>Time: %s</li>"+
			"<li>Duration: %d minutes</li>"+
			"<li>Amount: ₹%.2f</li>"+
			"</ul>"+
			"<p>Booking reference: %s</p>",
		b.CustomerName,
		b.ServiceTitle,
		b.BookingDate.Format(domain.DateFormat),
		b.StartTime.String(),
		b.DurationMinutes,
		b.FinalAmount,
		b.ID,
	)
}
