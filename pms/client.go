package pms

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"stayhaven/config"
)

// ErrUpstream is returned for any non-2xx answer from the property-management
// API. The upstream detail is logged server-side only; callers surface a
// generic message.
var ErrUpstream = errors.New("property management service unavailable")

type upstreamError struct {
	Message string `json:"message"`
}

type NightlyRate struct {
	Date      string  `json:"date"`
	Price     float64 `json:"price"`
	Available bool    `json:"available"`
}

type GuestRecord struct {
	ID    int    `json:"id,omitempty"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

type BookingRequest struct {
	PropertyID int     `json:"propertyId"`
	GuestID    int     `json:"guestId"`
	StartDate  string  `json:"start"`
	EndDate    string  `json:"end"`
	Amount     float64 `json:"amount"`
}

type BookingConfirmation struct {
	BookingID int    `json:"bookingId"`
	Status    string `json:"status"`
}

// Client talks to the third-party property-management REST API over Basic
// Auth. Outbound calls go through a circuit breaker with bounded retries on
// transport failures.
type Client struct {
	baseURL    string
	username   string
	password   string
	httpClient *http.Client
	breaker    *gobreaker.CircuitBreaker
	logger     *logrus.Logger
	Tracer     trace.Tracer

	maxRetries  int
	backoffBase time.Duration
}

func NewClient(cfg *config.Config, logger *logrus.Logger, tracer trace.Tracer) *Client {
	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name: "PMSRequest",
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			logger.WithFields(logrus.Fields{"path": "pms/client"}).
				Infof("Circuit Breaker state changed from %s to %s", from, to)
		},
	})

	return &Client{
		baseURL:     cfg.PMSBaseURL,
		username:    cfg.PMSUsername,
		password:    cfg.PMSPassword,
		httpClient:  &http.Client{Timeout: 30 * time.Second},
		breaker:     breaker,
		logger:      logger,
		Tracer:      tracer,
		maxRetries:  3,
		backoffBase: time.Second,
	}
}

func (c *Client) NightlyRates(ctx context.Context, propertyID int, start, end string) ([]NightlyRate, error) {
	ctx, span := c.Tracer.Start(ctx, "PMSClient.NightlyRates")
	defer span.End()

	var response struct {
		Rates []NightlyRate `json:"rates"`
	}
	url := fmt.Sprintf("%s/rates/%d?from=%s&to=%s", c.baseURL, propertyID, start, end)
	err := c.do(ctx, http.MethodGet, url, nil, &response)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	return response.Rates, nil
}

func (c *Client) UpdateGuest(ctx context.Context, guestID int, guest GuestRecord) error {
	ctx, span := c.Tracer.Start(ctx, "PMSClient.UpdateGuest")
	defer span.End()

	url := fmt.Sprintf("%s/guests/%d", c.baseURL, guestID)
	err := c.do(ctx, http.MethodPut, url, guest, nil)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	return nil
}

func (c *Client) CreateBooking(ctx context.Context, booking BookingRequest) (*BookingConfirmation, error) {
	ctx, span := c.Tracer.Start(ctx, "PMSClient.CreateBooking")
	defer span.End()

	var confirmation BookingConfirmation
	url := c.baseURL + "/bookings"
	err := c.do(ctx, http.MethodPost, url, booking, &confirmation)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	return &confirmation, nil
}

func (c *Client) do(ctx context.Context, method, url string, body interface{}, out interface{}) error {
	var reqBody []byte
	if body != nil {
		var err error
		reqBody, err = json.Marshal(body)
		if err != nil {
			return fmt.Errorf("error marshaling request JSON: %v", err)
		}
	}

	operation := func() (interface{}, error) {
		var reader io.Reader
		if reqBody != nil {
			reader = bytes.NewBuffer(reqBody)
		}
		req, err := http.NewRequestWithContext(ctx, method, url, reader)
		if err != nil {
			return nil, err
		}
		req.SetBasicAuth(c.username, c.password)
		if reqBody != nil {
			req.Header.Set("Content-Type", "application/json")
		}
		return c.httpClient.Do(req)
	}

	result, err := c.breaker.Execute(func() (interface{}, error) {
		return retryOperationWithExponentialBackoff(ctx, c.maxRetries, c.backoffBase, operation)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) {
			return ErrUpstream
		}
		return err
	}
	resp, ok := result.(*http.Response)
	if !ok {
		return errors.New("unexpected response type from Circuit Breaker")
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var upstream upstreamError
		if decodeErr := json.NewDecoder(resp.Body).Decode(&upstream); decodeErr == nil && upstream.Message != "" {
			c.logger.WithFields(logrus.Fields{"path": "pms/client", "status": resp.StatusCode}).
				Errorf("upstream error: %s", upstream.Message)
		} else {
			c.logger.WithFields(logrus.Fields{"path": "pms/client", "status": resp.StatusCode}).
				Error("upstream error with unreadable body")
		}
		return ErrUpstream
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("error decoding JSON response: %v", err)
		}
	}
	return nil
}

func retryOperationWithExponentialBackoff(ctx context.Context, maxRetries int, base time.Duration, operation func() (interface{}, error)) (interface{}, error) {
	for attempt := 1; attempt <= maxRetries; attempt++ {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		result, err := operation()
		if err == nil {
			return result, nil
		}
		if attempt == maxRetries {
			break
		}
		backoff := time.Duration(attempt*attempt) * base
		time.Sleep(backoff)
	}
	return nil, fmt.Errorf("max retries exceeded")
}
