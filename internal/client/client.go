// Package client 是 SkillsHub API 的类型化 Go 客户端。
// 它把服务端的错误信封解码为 *APIError，并提供前端交互所需的
// 一次性详情加载、引用数据缓存、共享资源守卫与提交流程状态机。
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"skillshub/internal/errcode"
)

// APIError 承载服务端错误信封。Kind 供程序分支使用，Message 呈现给用户。
type APIError struct {
	Status  int
	Kind    errcode.Kind
	Message string
	Fields  map[string]string
}

func (e *APIError) Error() string {
	if len(e.Fields) > 0 {
		return fmt.Sprintf("%s: %s (%d field errors)", e.Kind, e.Message, len(e.Fields))
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// IsKind 判断 err 是否为指定分类的 *APIError。
func IsKind(err error, kind errcode.Kind) bool {
	apiErr, ok := err.(*APIError)
	return ok && apiErr.Kind == kind
}

// Client 包装 net/http 访问 /api/*。请求失败不自动重试，由调用方决定。
type Client struct {
	baseURL    string
	httpClient *http.Client
	token      func() string
}

// Option 调整 Client 构造行为。
type Option func(*Client)

// WithHTTPClient 替换底层 http.Client（测试时注入 httptest client）。
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithTokenProvider 设置访问令牌来源，每次请求时调用。
func WithTokenProvider(provider func() string) Option {
	return func(c *Client) { c.token = provider }
}

// New 构造客户端。baseURL 形如 http://host:port，不带 /api 后缀。
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type errorEnvelope struct {
	Error  string            `json:"error"`
	Kind   errcode.Kind      `json:"kind"`
	Fields map[string]string `json:"fields"`
}

// do 发送请求并把响应解码进 out（可为 nil）。
// 传输层失败合成 KindNetwork；非 2xx 响应解码错误信封，信封缺失时按状态码推断分类。
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	var reqBody io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request body: %w", err)
		}
		reqBody = bytes.NewReader(encoded)
	}

	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reqBody)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != nil {
		if token := c.token(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &APIError{Kind: errcode.KindNetwork, Message: err.Error()}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeError(resp)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &APIError{Status: resp.StatusCode, Kind: errcode.KindServer, Message: "malformed response body"}
	}
	return nil
}

func decodeError(resp *http.Response) *APIError {
	apiErr := &APIError{Status: resp.StatusCode}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err == nil {
		var envelope errorEnvelope
		if jsonErr := json.Unmarshal(raw, &envelope); jsonErr == nil && envelope.Kind != "" {
			apiErr.Kind = envelope.Kind
			apiErr.Message = envelope.Error
			apiErr.Fields = envelope.Fields
			return apiErr
		}
	}

	apiErr.Kind = kindForStatus(resp.StatusCode)
	apiErr.Message = http.StatusText(resp.StatusCode)
	return apiErr
}

func kindForStatus(status int) errcode.Kind {
	switch status {
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return errcode.KindValidation
	case http.StatusUnauthorized:
		return errcode.KindAuth
	case http.StatusForbidden:
		return errcode.KindForbidden
	case http.StatusNotFound:
		return errcode.KindNotFound
	case http.StatusConflict:
		return errcode.KindConflict
	case http.StatusTooManyRequests:
		return errcode.KindRateLimited
	}
	return errcode.KindServer
}
