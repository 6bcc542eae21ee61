package model

import (
	"time"

	"SocialCore/service/mgo"

	"go.mongodb.org/mongo-driver/mongo"
)

// 广告投放状态
const (
	CampaignPending  = "pending"
	CampaignActive   = "active"
	CampaignRejected = "rejected"
)

// GenderAll 性别定向通配
const GenderAll = "all"

// TargetingRule 定向规则。全部字段可缺省；缺省项不参与判定。
type TargetingRule struct {
	Location  string   `bson:"location,omitempty"`  // 城市，大小写/首尾空白不敏感
	Gender    string   `bson:"gender,omitempty"`    // all 通配
	AgeRange  string   `bson:"age_range,omitempty"` // "min-max" 闭区间
	Interests []string `bson:"interests,omitempty"` // 任一关键词命中简介即通过
}

// Campaign 广告主投放记录
type Campaign struct {
	ID        string `bson:"_id"` // 雪花ID
	SponsorID string `bson:"sponsor_id"`
	Title     string `bson:"title"`
	MediaURL  string `bson:"media_url,omitempty"`
	LinkURL   string `bson:"link_url,omitempty"`

	Targeting *TargetingRule `bson:"targeting,omitempty"` // 为空则全量投放

	Status string `bson:"status"`

	Views  int64 `bson:"views"`  // $inc
	Clicks int64 `bson:"clicks"` // $inc

	CreateTime time.Time `bson:"create_time"`
}

const (
	CampaignFieldID        = "_id"
	CampaignFieldSponsorID = "sponsor_id"
	CampaignFieldStatus    = "status"
	CampaignFieldViews     = "views"
	CampaignFieldClicks    = "clicks"
)

func (c *Campaign) GetTableName() string {
	return "campaign"
}

func (c *Campaign) Collection() *mongo.Collection {
	return mgo.GetDB().Collection(c.GetTableName())
}
