package coros

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

const (
	// DefaultBaseURL is the Training Hub API host.
	DefaultBaseURL = "https://teamapi.coros.com"

	loginPath    = "/account/login"
	queryPath    = "/activity/query"
	detailPath   = "/activity/detail/query"
	downloadPath = "/activity/detail/download"

	// PaginationLimit is the largest page size the listing endpoint accepts.
	PaginationLimit = 200

	// MaxTries and RetryDelay bound the detail fetch retry loop.
	MaxTries   = 3
	RetryDelay = 500 * time.Millisecond
)

// Client is a COROS Training Hub API client. File downloads go through a
// second resty client because exports are served from a different host than
// the API itself.
type Client struct {
	http     *resty.Client
	download *resty.Client
	logger   *zap.Logger

	maxTries   int
	retryDelay time.Duration
	sleep      func(time.Duration)
}

// NewClient builds a client for the API at baseURL. The timeout applies
// uniformly to every request, queries and downloads alike.
func NewClient(baseURL string, timeout time.Duration, logger *zap.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	httpClient := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetHeader("Accept", "application/json")

	downloadClient := resty.New().
		SetTimeout(timeout)

	return &Client{
		http:       httpClient,
		download:   downloadClient,
		logger:     logger,
		maxTries:   MaxTries,
		retryDelay: RetryDelay,
		sleep:      time.Sleep,
	}
}

// Login authenticates against the vendor API and returns the session used
// by every subsequent call. The password is MD5-hashed because the login
// endpoint requires it; the hash is part of the wire contract, not a
// security boundary this client owns. Login is never retried.
func (c *Client) Login(ctx context.Context, account, password string) (*Session, error) {
	sum := md5.Sum([]byte(password))

	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(map[string]any{
			"account":     account,
			"accountType": 2,
			"pwd":         hex.EncodeToString(sum[:]),
		}).
		Post(loginPath)
	if err != nil {
		return nil, &AuthError{Reason: "login request failed", Err: err}
	}
	if resp.IsError() {
		return nil, &AuthError{Reason: fmt.Sprintf("login returned status %d", resp.StatusCode())}
	}

	var out loginResponse
	if err := json.Unmarshal(resp.Body(), &out); err != nil {
		return nil, &AuthError{Reason: "decoding login response", Err: err}
	}
	if out.Data == nil || out.Data.AccessToken == "" {
		return nil, &AuthError{Reason: "login response carried no access token"}
	}

	c.logger.Info("logged in", zap.String("user_id", out.Data.UserID))
	return &Session{AccessToken: out.Data.AccessToken, UserID: out.Data.UserID}, nil
}

// ListActivities fetches the activity index in server order. With limit == 0
// it first issues a single-item query to learn the authoritative count, then
// walks pages of PaginationLimit sequentially. With an explicit limit the
// page count is ceil(limit/limit) at a page size of min(limit,
// PaginationLimit) -- deliberately the same approximate arithmetic the
// upstream tooling uses, so a limit above the page cap still fetches one
// capped page. types is serialized as a comma-joined code list; empty means
// all activity types. Listing is never retried; any bad page fails the call.
func (c *Client) ListActivities(ctx context.Context, sess *Session, limit int, types []ActivityType) ([]IndexEntry, error) {
	codes := make([]string, 0, len(types))
	for _, t := range types {
		codes = append(codes, strconv.Itoa(t.Code()))
	}
	modeList := strings.Join(codes, ",")

	total := limit
	if limit == 0 {
		first, err := c.listPage(ctx, sess, modeList, 1, 1)
		if err != nil {
			return nil, fmt.Errorf("fetching activity count: %w", err)
		}
		total = first.Count
		limit = PaginationLimit
	}

	size := limit
	if size > PaginationLimit {
		size = PaginationLimit
	}

	pages := int(math.Ceil(float64(total) / float64(limit)))

	var entries []IndexEntry
	for page := 1; page <= pages; page++ {
		res, err := c.listPage(ctx, sess, modeList, page, size)
		if err != nil {
			return nil, fmt.Errorf("fetching page %d: %w", page, err)
		}
		entries = append(entries, res.DataList...)
	}

	c.logger.Debug("listed activities",
		zap.Int("count", len(entries)),
		zap.Int("pages", pages))
	return entries, nil
}

func (c *Client) listPage(ctx context.Context, sess *Session, modeList string, page, size int) (*listData, error) {
	resp, err := c.http.R().
		SetContext(ctx).
		SetHeaders(sess.Headers()).
		SetQueryParams(map[string]string{
			"modeList":   modeList,
			"pageNumber": strconv.Itoa(page),
			"size":       strconv.Itoa(size),
		}).
		Get(queryPath)
	if err != nil {
		return nil, err
	}
	if resp.IsError() {
		return nil, &StatusError{Endpoint: queryPath, StatusCode: resp.StatusCode(), Body: string(resp.Body())}
	}

	var out listResponse
	if err := json.Unmarshal(resp.Body(), &out); err != nil {
		return nil, fmt.Errorf("decoding listing response: %w", err)
	}
	if out.Data == nil {
		return nil, &StatusError{Endpoint: queryPath, StatusCode: resp.StatusCode(), Body: "response carried no data envelope"}
	}
	return out.Data, nil
}

// FetchDetail fetches one activity's full payload with bounded retries. A
// failed attempt is either a transport/status error or a 2xx payload whose
// summary is missing; the two are logged separately. The loop sleeps
// retryDelay between attempts, not after the last one. Exhaustion yields a
// *RetryError, which callers are expected to handle per activity.
func (c *Client) FetchDetail(ctx context.Context, sess *Session, entry IndexEntry) (*Detail, error) {
	var lastErr error
	for attempt := 1; attempt <= c.maxTries; attempt++ {
		out, body, err := c.fetchDetailOnce(ctx, sess, entry)
		switch {
		case err != nil:
			lastErr = err
			c.logger.Warn("detail request failed",
				zap.String("label_id", entry.LabelID),
				zap.Int("attempt", attempt),
				zap.Error(err))
		case !out.valid():
			lastErr = fmt.Errorf("detail payload carried no summary")
			c.logger.Error("detail payload malformed",
				zap.String("label_id", entry.LabelID),
				zap.Int("attempt", attempt),
				zap.ByteString("payload", body))
		default:
			return out.Data, nil
		}

		if attempt < c.maxTries {
			// A dead context cannot be retried.
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			c.logger.Warn("will retry detail fetch",
				zap.String("label_id", entry.LabelID),
				zap.Int("tries_left", c.maxTries-attempt))
			c.sleep(c.retryDelay)
		}
	}

	return nil, &RetryError{Endpoint: detailPath, Attempts: c.maxTries, Err: lastErr}
}

func (c *Client) fetchDetailOnce(ctx context.Context, sess *Session, entry IndexEntry) (*detailResponse, []byte, error) {
	resp, err := c.http.R().
		SetContext(ctx).
		SetHeaders(sess.Headers()).
		SetQueryParams(map[string]string{
			"labelId":   entry.LabelID,
			"sportType": strconv.Itoa(entry.SportType),
			"screenW":   "944",
			"screenH":   "1440",
		}).
		Post(detailPath)
	if err != nil {
		return nil, nil, err
	}
	if resp.IsError() {
		return nil, nil, &StatusError{Endpoint: detailPath, StatusCode: resp.StatusCode(), Body: string(resp.Body())}
	}

	var out detailResponse
	if err := json.Unmarshal(resp.Body(), &out); err != nil {
		return nil, resp.Body(), fmt.Errorf("decoding detail response: %w", err)
	}
	return &out, resp.Body(), nil
}

// RequestExportURL asks the vendor for a download link to one activity in
// the given file format. Not every format exists for every sport type; the
// server signals that by omitting the data envelope, which is reported as
// ErrFormatUnavailable rather than a failure.
func (c *Client) RequestExportURL(ctx context.Context, sess *Session, entry IndexEntry, fileType FileType) (string, error) {
	resp, err := c.http.R().
		SetContext(ctx).
		SetHeaders(sess.Headers()).
		SetFormData(map[string]string{
			"labelId":   entry.LabelID,
			"fileType":  strconv.Itoa(fileType.Code()),
			"sportType": strconv.Itoa(entry.SportType),
		}).
		Post(downloadPath)
	if err != nil {
		return "", err
	}
	if resp.IsError() {
		return "", &StatusError{Endpoint: downloadPath, StatusCode: resp.StatusCode(), Body: string(resp.Body())}
	}

	var out downloadResponse
	if err := json.Unmarshal(resp.Body(), &out); err != nil {
		return "", fmt.Errorf("decoding download response: %w", err)
	}
	if out.Data == nil {
		return "", ErrFormatUnavailable
	}
	return out.Data.FileURL, nil
}

// Download streams the file at url. The caller owns the returned body and
// must close it.
func (c *Client) Download(ctx context.Context, url string) (io.ReadCloser, error) {
	resp, err := c.download.R().
		SetContext(ctx).
		SetDoNotParseResponse(true).
		Get(url)
	if err != nil {
		return nil, err
	}
	if resp.IsError() {
		resp.RawBody().Close()
		return nil, &StatusError{Endpoint: url, StatusCode: resp.StatusCode()}
	}
	return resp.RawBody(), nil
}
