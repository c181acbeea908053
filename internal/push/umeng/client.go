package umeng

/**
 *	Implemented umeng message api: send, upload, cancel
 */

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/goccy/go-json"
	"github.com/valyala/fastjson"
	"golang.org/x/net/http2"

	log "github.com/sirupsen/logrus"
	config "github.com/spf13/viper"

	"umeng-push/internal/push"
)

const (
	sendPath   = "/api/send"
	uploadPath = "/upload"
	cancelPath = "/api/cancel"

	retSuccess = "SUCCESS"
)

var transport *http.Transport

func init() {
	config.SetDefault("umeng.host", "https://msgapi.umeng.com")
	config.SetDefault("umeng.timeout", 10*time.Second)
	config.SetDefault("umeng.user_agent", "Mozilla/5.0")
	transport = &http.Transport{
		MaxIdleConnsPerHost: 10,
		MaxIdleConns:        100,
		IdleConnTimeout:     30 * time.Second,
	}

	if err := http2.ConfigureTransport(transport); err != nil {
		log.Errorf("umeng: cannot configure transport %s", err)
	}
}

type Client struct {
	http      *http.Client
	host      string
	userAgent string
	now       func() time.Time
}

// New creates a client from the umeng.* config section.
func New() *Client {
	return NewClient(
		config.GetString("umeng.host"),
		config.GetString("umeng.user_agent"),
		config.GetDuration("umeng.timeout"),
	)
}

func NewClient(host, userAgent string, timeout time.Duration) *Client {
	return &Client{
		http: &http.Client{
			Transport: transport,
			Timeout:   timeout,
		},
		host:      host,
		userAgent: userAgent,
		now:       time.Now,
	}
}

func (c *Client) timestamp() string {
	return strconv.FormatInt(c.now().Unix(), 10)
}

// Send posts the notification and returns the task id assigned by the service.
func (c *Client) Send(ctx context.Context, n *Notification) (string, error) {
	if n == nil || !n.Valid() {
		log.Errorf("umeng: notification not valid")
		return "", push.ErrorRequest
	}

	if err := n.SetPredefinedKeyValue("timestamp", c.timestamp()); err != nil {
		return "", err
	}

	body, err := n.Body()
	if err != nil {
		log.Errorf("umeng: cannot marshal notification %s", err)
		return "", push.ErrorRequest
	}

	data, err := c.post(ctx, sendPath, body, n.AppMasterSecret())
	if err != nil {
		return "", err
	}

	taskID := stringOf(data.Get("task_id"))
	if taskID == "" {
		taskID = stringOf(data.Get("msg_id"))
	}
	if taskID == "" {
		log.Errorf("umeng: reply without task id %s", data)
		return "", push.ErrorServiceUnavailable
	}

	log.Debugf("umeng: %s %s sent, task %s", n.Platform(), n.Cast(), taskID)

	return taskID, nil
}

// Upload stores newline separated device tokens or aliases and returns the file id.
func (c *Client) Upload(ctx context.Context, appKey, appMasterSecret, contents string) (string, error) {
	if appKey == "" || appMasterSecret == "" || contents == "" {
		log.Errorf("umeng: upload opts not valid [%s]", appKey)
		return "", push.ErrorRequest
	}

	body, err := json.Marshal(map[string]string{
		"appkey":    appKey,
		"timestamp": c.timestamp(),
		"content":   contents,
	})
	if err != nil {
		log.Errorf("umeng: cannot marshal upload %s", err)
		return "", push.ErrorRequest
	}

	data, err := c.post(ctx, uploadPath, body, appMasterSecret)
	if err != nil {
		return "", fmt.Errorf("%w: %w", push.ErrorUploadFailed, err)
	}

	fileID := stringOf(data.Get("file_id"))
	if fileID == "" {
		log.Errorf("umeng: upload reply without file id %s", data)
		return "", push.ErrorUploadFailed
	}

	return fileID, nil
}

// Cancel asks the service to stop a scheduled or running task.
func (c *Client) Cancel(ctx context.Context, appKey, appMasterSecret, taskID string) error {
	if appKey == "" || appMasterSecret == "" || taskID == "" {
		log.Errorf("umeng: cancel opts not valid [%s] [%s]", appKey, taskID)
		return push.ErrorRequest
	}

	body, err := json.Marshal(map[string]string{
		"appkey":    appKey,
		"timestamp": c.timestamp(),
		"task_id":   taskID,
	})
	if err != nil {
		log.Errorf("umeng: cannot marshal cancel %s", err)
		return push.ErrorRequest
	}

	if _, err := c.post(ctx, cancelPath, body, appMasterSecret); err != nil {
		return fmt.Errorf("%w: %w", push.ErrorCancelFailed, err)
	}

	return nil
}

func (c *Client) post(ctx context.Context, path string, body []byte, appMasterSecret string) (*fastjson.Value, error) {
	url := c.host + path

	request, err := http.NewRequestWithContext(ctx, http.MethodPost,
		url+"?sign="+Sign(http.MethodPost, url, body, appMasterSecret),
		bytes.NewBuffer(body))

	if err != nil {
		log.Errorf("umeng: cannot make request %s", err)
		return nil, push.ErrorRequest
	}

	request.Header.Set("User-Agent", c.userAgent)
	request.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(request)

	defer func() {
		if resp != nil && resp.Body != nil {
			resp.Body.Close()
		}
	}()

	if err != nil {
		log.Errorf("umeng: cannot send request %s %s", path, err)
		return nil, push.ErrorTransportProblem
	}

	reply, err := io.ReadAll(resp.Body)

	if err != nil {
		log.Errorf("umeng: cannot read data %s", err)
		return nil, push.ErrorServiceUnavailable
	}

	return parseReply(resp.StatusCode, reply)
}

// parseReply returns the "data" object of a successful reply.
func parseReply(status int, body []byte) (*fastjson.Value, error) {
	var p fastjson.Parser

	v, err := p.ParseBytes(body)

	if err != nil {
		log.Errorf("umeng: parse reply error %d %s %s", status, err, string(body))
		return nil, push.ErrorServiceUnavailable
	}

	ret := stringOf(v.Get("ret"))

	if status == http.StatusOK && ret == retSuccess {
		data := v.Get("data")
		if data == nil {
			log.Errorf("umeng: reply without data %s", string(body))
			return nil, push.ErrorServiceUnavailable
		}
		return data, nil
	}

	code := stringOf(v.Get("data", "error_code"))
	if code == "" {
		log.Errorf("umeng: bad reply %d %s", status, string(body))
		return nil, push.ErrorServiceUnavailable
	}

	msg := stringOf(v.Get("data", "error_msg"))
	log.Errorf("umeng: error reply %d code %s: %s", status, code, msg)

	return nil, fmt.Errorf("umeng: error [%w] %s", push.PushError(code), msg)
}

// stringOf reads a string or number value as text.
func stringOf(v *fastjson.Value) string {
	if v == nil {
		return ""
	}
	switch v.Type() {
	case fastjson.TypeString:
		return string(v.GetStringBytes())
	case fastjson.TypeNumber:
		return v.String()
	}
	return ""
}

/**
reply
{"ret":"SUCCESS","data":{"task_id":"us65502140543925540900"}} - broadcast, groupcast, filecast, customizedcast
{"ret":"SUCCESS","data":{"msg_id":"uu81522140543925541100"}} - unicast, listcast
{"ret":"FAIL","data":{"error_code":"2003","error_msg":"appkey not found"}} - rejected
*/
