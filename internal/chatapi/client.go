package chatapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"gamechat/internal/chat"
	"gamechat/internal/logger"
)

const (
	pathSend    = "/api/chat/send"
	pathHistory = "/api/chat/history"
	pathClear   = "/api/chat/clear"
	pathStatus  = "/api/game/status"
)

var log = logger.Named("chatapi")

// StatusError 表示服务端返回了非 2xx 响应，Body 为按纯文本读取的响应体。
type StatusError struct {
	Method string
	Path   string
	Code   int
	Body   string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("%s %s: %d %s", e.Method, e.Path, e.Code, http.StatusText(e.Code))
	}
	return fmt.Sprintf("%s %s: %d %s", e.Method, e.Path, e.Code, e.Body)
}

// Options 控制客户端行为。
type Options struct {
	Timeout    time.Duration
	HTTPClient *http.Client
}

// Client 封装聊天服务的三个调用（以及游戏状态查询）。
type Client struct {
	baseURL string
	http    *http.Client
}

// New 创建客户端；baseURL 末尾的 / 会被去掉。
func New(baseURL string, opts Options) *Client {
	hc := opts.HTTPClient
	if hc == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = 10 * time.Second
		}
		hc = &http.Client{Timeout: timeout}
	}
	return &Client{
		baseURL: strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		http:    hc,
	}
}

// BaseURL 返回规范化后的服务地址。
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Send 发送一条消息；消息内容原样提交，由调用方负责 trim。
func (c *Client) Send(ctx context.Context, message string) error {
	body, err := json.Marshal(chat.SendRequest{Message: message})
	if err != nil {
		return err
	}
	resp, err := c.do(ctx, http.MethodPost, pathSend, bytes.NewReader(body))
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)
	log.WithField("length", len(message)).Debug("chat message sent")
	return nil
}

// History 拉取完整的聊天记录。
func (c *Client) History(ctx context.Context) ([]chat.Message, error) {
	resp, err := c.do(ctx, http.MethodGet, pathHistory, nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var payload chat.HistoryResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode history: %w", err)
	}
	if payload.Messages == nil {
		return []chat.Message{}, nil
	}
	return payload.Messages, nil
}

// Clear 清空服务端聊天记录。
func (c *Client) Clear(ctx context.Context) error {
	resp, err := c.do(ctx, http.MethodPost, pathClear, nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)
	log.Debug("chat history cleared")
	return nil
}

// Status 查询游戏是否在运行，debug 为 true 时附带诊断信息。
func (c *Client) Status(ctx context.Context, debug bool) (chat.StatusResponse, error) {
	path := pathStatus
	if debug {
		path += "?debug=1"
	}
	resp, err := c.do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return chat.StatusResponse{}, err
	}
	defer resp.Body.Close()

	var status chat.StatusResponse
	if err := json.NewDecoder(resp.Body).Decode(&status); err != nil {
		return chat.StatusResponse{}, fmt.Errorf("decode status: %w", err)
	}
	return status, nil
}

func (c *Client) do(ctx context.Context, method, path string, body io.Reader) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		defer resp.Body.Close()
		text, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, &StatusError{
			Method: method,
			Path:   path,
			Code:   resp.StatusCode,
			Body:   strings.TrimSpace(string(text)),
		}
	}
	return resp, nil
}
