package clients

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/sony/gobreaker"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/sokung536/s-social-feed/internal/core/domain"
)

const maxBodyBytes = 1 << 20

// PlaceholderClient lit posts et utilisateurs sur JSONPlaceholder.
// Implémente ports.PostSource et ports.UserSource.
type PlaceholderClient struct {
	baseURL string
	client  *http.Client
	breaker *gobreaker.CircuitBreaker
}

func NewPlaceholderClient(baseURL string, timeout time.Duration) *PlaceholderClient {
	transport := &http.Transport{
		Proxy:                 http.ProxyFromEnvironment,
		DialContext:           (&net.Dialer{Timeout: 10 * time.Second, KeepAlive: 30 * time.Second}).DialContext,
		ForceAttemptHTTP2:     true,
		MaxIdleConns:          100,
		MaxIdleConnsPerHost:   20,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
	}

	return &PlaceholderClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		client: &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(transport),
		},
		breaker: gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:        "placeholder-api",
			MaxRequests: 5,
			Interval:    30 * time.Second,
			Timeout:     10 * time.Second,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
				return counts.Requests >= 10 && failureRatio >= 0.6
			},
			// Un 404 est une réponse valide du serveur, pas une panne
			IsSuccessful: func(err error) bool {
				var fe *domain.FetchError
				if errors.As(err, &fe) && fe.StatusCode >= 400 && fe.StatusCode < 500 && fe.StatusCode != http.StatusTooManyRequests {
					return true
				}
				return err == nil
			},
			OnStateChange: func(name string, from, to gobreaker.State) {
				slog.Warn("⚡ Circuit breaker state changed", "breaker", name, "from", from.String(), "to", to.String())
			},
		}),
	}
}

type placeholderPost struct {
	ID     int    `json:"id"`
	UserID int    `json:"userId"`
	Title  string `json:"title"`
	Body   string `json:"body"`
}

type placeholderUser struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Company  *struct {
		Name string `json:"name"`
	} `json:"company"`
}

func (c *PlaceholderClient) GetPost(ctx context.Context, id int) (*domain.RawPost, error) {
	var p placeholderPost
	if err := c.getJSON(ctx, "post", id, c.PostURL(id), &p); err != nil {
		return nil, err
	}
	return &domain.RawPost{
		ID:       p.ID,
		SourceID: id,
		UserID:   p.UserID,
		Title:    p.Title,
		Body:     p.Body,
	}, nil
}

func (c *PlaceholderClient) GetUser(ctx context.Context, id int) (*domain.DirectoryUser, error) {
	var u placeholderUser
	if err := c.getJSON(ctx, "user", id, fmt.Sprintf("%s/users/%d", c.baseURL, id), &u); err != nil {
		return nil, err
	}
	user := &domain.DirectoryUser{
		ID:       u.ID,
		Name:     u.Name,
		Username: u.Username,
		Email:    u.Email,
	}
	if u.Company != nil {
		user.CompanyName = u.Company.Name
	}
	return user, nil
}

func (c *PlaceholderClient) PostURL(id int) string {
	return fmt.Sprintf("%s/posts/%d", c.baseURL, id)
}

func (c *PlaceholderClient) getJSON(ctx context.Context, resource string, id int, url string, dst any) error {
	_, err := c.breaker.Execute(func() (interface{}, error) {
		return nil, c.doGet(ctx, resource, id, url, dst)
	})
	if err != nil {
		return domain.AsFetchError(resource, id, err)
	}
	return nil
}

func (c *PlaceholderClient) doGet(ctx context.Context, resource string, id int, url string, dst any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return &domain.FetchError{Resource: resource, ID: id, Err: err}
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return &domain.FetchError{Resource: resource, ID: id, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodyBytes))
		return &domain.FetchError{Resource: resource, ID: id, StatusCode: resp.StatusCode}
	}

	if err := json.NewDecoder(io.LimitReader(resp.Body, maxBodyBytes)).Decode(dst); err != nil {
		return &domain.FetchError{Resource: resource, ID: id, Err: fmt.Errorf("decode: %w", err)}
	}
	return nil
}
