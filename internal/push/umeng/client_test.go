package umeng

import (
	"context"
	"errors"
	"io"
	"net/http"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/jarcoal/httpmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"umeng-push/internal/push"
)

const testHost = "https://msgapi.test"

func newTestClient(t *testing.T) *Client {
	t.Helper()
	c := NewClient(testHost, "Mozilla/5.0", time.Second)
	c.now = func() time.Time { return time.Unix(1700000000, 0) }
	httpmock.ActivateNonDefault(c.http)
	t.Cleanup(httpmock.DeactivateAndReset)
	return c
}

func TestSign(t *testing.T) {
	assert.Equal(t, "d41d8cd98f00b204e9800998ecf8427e", Sign("", "", nil, ""))
	assert.Equal(t, "900150983cd24fb0d6963f7d28e17f72", Sign("a", "b", []byte("c"), ""))
	assert.NotEqual(t, Sign("POST", "u", []byte("a"), "s"), Sign("POST", "u", []byte("b"), "s"))
}

func TestSendSignsBodyAndReturnsTaskID(t *testing.T) {
	c := newTestClient(t)

	httpmock.RegisterResponder(http.MethodPost, `=~^https://msgapi\.test/api/send`,
		func(req *http.Request) (*http.Response, error) {
			body, err := io.ReadAll(req.Body)
			require.NoError(t, err)

			assert.Equal(t, Sign(http.MethodPost, testHost+"/api/send", body, "secret"), req.URL.Query().Get("sign"))
			assert.Equal(t, "Mozilla/5.0", req.Header.Get("User-Agent"))

			var doc map[string]any
			require.NoError(t, json.Unmarshal(body, &doc))
			assert.Equal(t, "1700000000", doc["timestamp"])
			assert.Equal(t, "broadcast", doc["type"])

			return httpmock.NewStringResponse(http.StatusOK,
				`{"ret":"SUCCESS","data":{"task_id":"us65502140543925540900"}}`), nil
		})

	n := NewAndroidCast(Broadcast, "key", "secret")
	require.NoError(t, n.SetTitle("hello"))

	taskID, err := c.Send(context.Background(), &n.Notification)

	require.NoError(t, err)
	assert.Equal(t, "us65502140543925540900", taskID)
	assert.Equal(t, 1, httpmock.GetTotalCallCount())
}

func TestSendUnicastReturnsMsgID(t *testing.T) {
	c := newTestClient(t)

	httpmock.RegisterResponder(http.MethodPost, `=~^https://msgapi\.test/api/send`,
		httpmock.NewStringResponder(http.StatusOK, `{"ret":"SUCCESS","data":{"msg_id":"uu81522140543925541100"}}`))

	n := NewIOSCast(Unicast, "key", "secret")
	require.NoError(t, n.SetDeviceToken("token"))

	taskID, err := c.Send(context.Background(), &n.Notification)

	require.NoError(t, err)
	assert.Equal(t, "uu81522140543925541100", taskID)
}

func TestSendErrors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		check  func(t *testing.T, err error)
	}{
		{
			name:   "rejected",
			status: http.StatusBadRequest,
			body:   `{"ret":"FAIL","data":{"error_code":"2003","error_msg":"appkey not found"}}`,
			check: func(t *testing.T, err error) {
				var pe push.PushError
				require.True(t, errors.As(err, &pe))
				assert.Equal(t, "2003", pe.TransportErrorCode())
			},
		},
		{
			name:   "numeric error code",
			status: http.StatusOK,
			body:   `{"ret":"FAIL","data":{"error_code":2020,"error_msg":"bad"}}`,
			check: func(t *testing.T, err error) {
				assert.ErrorIs(t, err, push.PushError("2020"))
			},
		},
		{
			name:   "malformed",
			status: http.StatusOK,
			body:   `<html>`,
			check: func(t *testing.T, err error) {
				assert.ErrorIs(t, err, push.ErrorServiceUnavailable)
			},
		},
		{
			name:   "server error without body",
			status: http.StatusInternalServerError,
			body:   `{}`,
			check: func(t *testing.T, err error) {
				assert.ErrorIs(t, err, push.ErrorServiceUnavailable)
			},
		},
		{
			name:   "success without task id",
			status: http.StatusOK,
			body:   `{"ret":"SUCCESS","data":{}}`,
			check: func(t *testing.T, err error) {
				assert.ErrorIs(t, err, push.ErrorServiceUnavailable)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t)
			httpmock.RegisterResponder(http.MethodPost, `=~^https://msgapi\.test/api/send`,
				httpmock.NewStringResponder(tt.status, tt.body))

			taskID, err := c.Send(context.Background(), &NewAndroidCast(Broadcast, "key", "secret").Notification)

			require.Error(t, err)
			assert.Empty(t, taskID)
			tt.check(t, err)
		})
	}
}

func TestSendTransportError(t *testing.T) {
	c := newTestClient(t)
	httpmock.RegisterResponder(http.MethodPost, `=~^https://msgapi\.test/api/send`,
		httpmock.NewErrorResponder(errors.New("connection reset")))

	_, err := c.Send(context.Background(), &NewAndroidCast(Broadcast, "key", "secret").Notification)

	assert.ErrorIs(t, err, push.ErrorTransportProblem)
}

func TestSendInvalidNotification(t *testing.T) {
	c := newTestClient(t)

	_, err := c.Send(context.Background(), &NewAndroidCast(Broadcast, "key", "").Notification)

	assert.ErrorIs(t, err, push.ErrorRequest)
	assert.Zero(t, httpmock.GetTotalCallCount())
}

func TestUpload(t *testing.T) {
	c := newTestClient(t)

	httpmock.RegisterResponder(http.MethodPost, `=~^https://msgapi\.test/upload`,
		func(req *http.Request) (*http.Response, error) {
			var doc map[string]string
			require.NoError(t, json.NewDecoder(req.Body).Decode(&doc))
			assert.Equal(t, "key", doc["appkey"])
			assert.Equal(t, "aa\nbb", doc["content"])
			return httpmock.NewStringResponse(http.StatusOK, `{"ret":"SUCCESS","data":{"file_id":"PF1"}}`), nil
		})

	fileID, err := c.Upload(context.Background(), "key", "secret", "aa\nbb")

	require.NoError(t, err)
	assert.Equal(t, "PF1", fileID)
}

func TestUploadFailure(t *testing.T) {
	c := newTestClient(t)
	httpmock.RegisterResponder(http.MethodPost, `=~^https://msgapi\.test/upload`,
		httpmock.NewStringResponder(http.StatusOK, `{"ret":"FAIL","data":{"error_code":"3001","error_msg":"empty"}}`))

	_, err := c.Upload(context.Background(), "key", "secret", "aa")

	assert.ErrorIs(t, err, push.ErrorUploadFailed)
	assert.ErrorIs(t, err, push.PushError("3001"))
}

func TestCancel(t *testing.T) {
	c := newTestClient(t)

	httpmock.RegisterResponder(http.MethodPost, `=~^https://msgapi\.test/api/cancel`,
		func(req *http.Request) (*http.Response, error) {
			body, err := io.ReadAll(req.Body)
			require.NoError(t, err)
			assert.Equal(t, Sign(http.MethodPost, testHost+"/api/cancel", body, "secret"), req.URL.Query().Get("sign"))
			assert.JSONEq(t, `{"appkey":"key","timestamp":"1700000000","task_id":"us1"}`, string(body))
			return httpmock.NewStringResponse(http.StatusOK, `{"ret":"SUCCESS","data":{"task_id":"us1"}}`), nil
		})

	require.NoError(t, c.Cancel(context.Background(), "key", "secret", "us1"))

	httpmock.RegisterResponder(http.MethodPost, `=~^https://msgapi\.test/api/cancel`,
		httpmock.NewStringResponder(http.StatusBadRequest, `{"ret":"FAIL","data":{"error_code":"2028","error_msg":"task finished"}}`))

	assert.ErrorIs(t, c.Cancel(context.Background(), "key", "secret", "us1"), push.ErrorCancelFailed)
	assert.ErrorIs(t, c.Cancel(context.Background(), "key", "secret", ""), push.ErrorRequest)
}
