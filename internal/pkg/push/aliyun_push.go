package push

import (
	"context"
	"encoding/json"
	"errors"

	"course_commerce/internal/pkg/config"

	"github.com/aliyun/alibaba-cloud-sdk-go/sdk/requests"
	"github.com/aliyun/alibaba-cloud-sdk-go/services/push"
)

var ErrNotConfigured = errors.New("push config is missing")

// Message 推送内容，Ext 透传给 App
type Message struct {
	Title string
	Body  string
	Ext   map[string]string
}

// Notifier 按账户推送（账户即用户 id，App 登录时绑定）
type Notifier interface {
	PushToAccount(ctx context.Context, accountID string, msg Message) error
}

type pushClient interface {
	Push(request *push.PushRequest) (*push.PushResponse, error)
}

type AliyunPushService struct {
	client pushClient
	appKey int64
}

func NewAliyunPushService(cfg config.PushConfig) (*AliyunPushService, error) {
	if cfg.AccessKeyID == "" || cfg.AppKey == 0 {
		return nil, ErrNotConfigured
	}

	client, err := push.NewClientWithAccessKey(cfg.RegionID, cfg.AccessKeyID, cfg.AccessKeySecret)
	if err != nil {
		return nil, err
	}
	return &AliyunPushService{client: client, appKey: cfg.AppKey}, nil
}

func (s *AliyunPushService) PushToAccount(ctx context.Context, accountID string, msg Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	_, err := s.client.Push(BuildRequest(s.appKey, "ACCOUNT", accountID, msg))
	return err
}

// BuildRequest 组装通知类推送，iOS 与 Android 同时下发
func BuildRequest(appKey int64, target, targetValue string, msg Message) *push.PushRequest {
	request := push.CreatePushRequest()
	request.AppKey = requests.NewInteger(int(appKey))
	request.Target = target
	request.TargetValue = targetValue
	request.Title = msg.Title
	request.Body = msg.Body
	request.DeviceType = "ALL"
	request.PushType = "NOTICE"

	if len(msg.Ext) > 0 {
		extJSON, _ := json.Marshal(msg.Ext)
		request.AndroidExtParameters = string(extJSON)
		request.IOSExtParameters = string(extJSON)
	}
	return request
}
