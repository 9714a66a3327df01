package push

import (
	"context"
	"testing"

	"course_commerce/internal/pkg/config"

	"github.com/aliyun/alibaba-cloud-sdk-go/services/push"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type captureClient struct {
	last *push.PushRequest
}

func (c *captureClient) Push(request *push.PushRequest) (*push.PushResponse, error) {
	c.last = request
	return push.CreatePushResponse(), nil
}

func TestNewAliyunPushServiceRequiresConfig(t *testing.T) {
	_, err := NewAliyunPushService(config.PushConfig{})
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestPushToAccount(t *testing.T) {
	client := &captureClient{}
	svc := &AliyunPushService{client: client, appKey: 333}

	err := svc.PushToAccount(context.Background(), "user-1", Message{
		Title: "Thanh toán thành công",
		Body:  "Đơn hàng đã được xác nhận",
		Ext:   map[string]string{"orderId": "order-1"},
	})

	require.NoError(t, err)
	require.NotNil(t, client.last)
	assert.Equal(t, "ACCOUNT", client.last.Target)
	assert.Equal(t, "user-1", client.last.TargetValue)
	assert.Equal(t, "NOTICE", client.last.PushType)
	assert.JSONEq(t, `{"orderId":"order-1"}`, client.last.AndroidExtParameters)
	assert.Equal(t, client.last.AndroidExtParameters, client.last.IOSExtParameters)
}

func TestPushToAccountHonoursCancelledContext(t *testing.T) {
	client := &captureClient{}
	svc := &AliyunPushService{client: client, appKey: 333}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, svc.PushToAccount(ctx, "user-1", Message{Title: "x"}), context.Canceled)
	assert.Nil(t, client.last)
}
