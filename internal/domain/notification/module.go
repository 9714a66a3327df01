package notification

import (
	"course_commerce/internal/domain/notification/service"
	"course_commerce/internal/pkg/push"
	"course_commerce/internal/pkg/registry"

	"go.uber.org/zap"
)

type NotificationModule struct{}

func init() {
	registry.Register(&NotificationModule{})
}

func (m *NotificationModule) Name() string {
	return "notification"
}

func (m *NotificationModule) Priority() int {
	return 30
}

func (m *NotificationModule) Init(ctx *registry.ModuleContext) error {
	pusher, err := push.NewAliyunPushService(ctx.Config.Push)
	if err != nil {
		// 推送是附加能力，未配置不阻塞启动
		ctx.Logger.Warn("payment push notifications disabled", zap.Error(err))
		return nil
	}
	service.NewPaymentNotifier(ctx.Cache, pusher, ctx.Logger).Register(ctx.Bus)
	return nil
}
