package events

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/nats-io/nats.go"
)

// MsgPublisher *nats.Conn 的发布子集
type MsgPublisher interface {
	PublishMsg(m *nats.Msg) error
}

// NATSForwarder 把本地事件转发到 NATS，subject = <prefix>.<event name>
// Nats-Msg-Id 用事件名+去重键，JetStream 侧可直接去重
type NATSForwarder struct {
	pub    MsgPublisher
	prefix string
}

func NewNATSForwarder(pub MsgPublisher, prefix string) *NATSForwarder {
	return &NATSForwarder{pub: pub, prefix: prefix}
}

// Attach 为给定事件注册转发订阅
func (f *NATSForwarder) Attach(bus Bus, eventNames ...string) {
	for _, name := range eventNames {
		bus.Subscribe(name, "nats_forwarder", f.Forward)
	}
}

func (f *NATSForwarder) Subject(eventName string) string {
	if f.prefix == "" {
		return eventName
	}
	return f.prefix + "." + eventName
}

func (f *NATSForwarder) Forward(ctx context.Context, evt Event) error {
	data, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("marshal event %s: %w", evt.Name(), err)
	}

	msg := nats.NewMsg(f.Subject(evt.Name()))
	msg.Data = data
	msg.Header.Set(nats.MsgIdHdr, evt.Name()+":"+evt.Key())
	msg.Header.Set("Event-Name", evt.Name())

	if err := f.pub.PublishMsg(msg); err != nil {
		return fmt.Errorf("publish failed: %w", err)
	}
	return nil
}

// ConnectNATS 建立连接；url 为空时返回 nil, nil（不转发）
func ConnectNATS(url, name string) (*nats.Conn, error) {
	if url == "" {
		return nil, nil
	}
	return nats.Connect(url,
		nats.Name(name),
		nats.MaxReconnects(-1),
	)
}
