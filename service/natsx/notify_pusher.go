package natsx

import (
	"context"
	"encoding/json"

	socialmodel "SocialCore/module/social/model"

	"github.com/nats-io/nats.go"
)

// 按收件人分主题：sc.notify.<userID>
func NotifySubject(userID string) string {
	return "sc.notify." + userID
}

// NotifyPusher 把收件箱新增事件推到在线网关
type NotifyPusher struct {
	c *Client
}

func NewNotifyPusher(c *Client) *NotifyPusher {
	return &NotifyPusher{c: c}
}

func (p *NotifyPusher) PushNotification(_ context.Context, n socialmodel.Notification) error {
	data, err := json.Marshal(n)
	if err != nil {
		return err
	}
	return p.c.Publish(NotifySubject(n.RecipientID), data)
}

// SubscribeNotify 网关侧按用户订阅在线推送
func (p *NotifyPusher) SubscribeNotify(userID string, cb func(n socialmodel.Notification)) (*nats.Subscription, error) {
	return p.c.Subscribe(NotifySubject(userID), func(data []byte) {
		var n socialmodel.Notification
		if err := json.Unmarshal(data, &n); err != nil {
			return
		}
		cb(n)
	})
}
