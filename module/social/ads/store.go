package ads

import (
	"context"
	"time"

	"SocialCore/data/database/mgo/mongoutil"
	socialmodel "SocialCore/module/social/model"
	"SocialCore/tools/errs"
	"SocialCore/tools/ids"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Store struct {
	CampaignColl *mongo.Collection // campaign
}

func NewStore(db *mongo.Database) *Store {
	c := socialmodel.Campaign{}
	return &Store{CampaignColl: db.Collection(c.GetTableName())}
}

func (s *Store) Insert(ctx context.Context, c *socialmodel.Campaign) error {
	if c.ID == "" {
		c.ID = ids.GenerateString()
	}
	if c.Status == "" {
		c.Status = socialmodel.CampaignPending
	}
	if c.CreateTime.IsZero() {
		c.CreateTime = time.Now()
	}
	if _, err := s.CampaignColl.InsertOne(ctx, c); err != nil {
		return errs.Wrap(err)
	}
	return nil
}

func (s *Store) Get(ctx context.Context, campaignID string) (*socialmodel.Campaign, error) {
	var c socialmodel.Campaign
	err := s.CampaignColl.FindOne(ctx, bson.M{socialmodel.CampaignFieldID: campaignID}).Decode(&c)
	if mongoutil.IsNotFound(err) {
		return nil, errs.ErrNotFound.WrapMsg("campaign", "id", campaignID)
	}
	if err != nil {
		return nil, errs.Wrap(err)
	}
	return &c, nil
}

// SetStatus 审核流转：pending -> active / rejected
func (s *Store) SetStatus(ctx context.Context, campaignID string, status string) error {
	res, err := s.CampaignColl.UpdateOne(ctx,
		bson.M{socialmodel.CampaignFieldID: campaignID},
		bson.M{"$set": bson.M{socialmodel.CampaignFieldStatus: status}})
	if err != nil {
		return errs.Wrap(err)
	}
	if res.MatchedCount == 0 {
		return errs.ErrNotFound.WrapMsg("campaign", "id", campaignID)
	}
	return nil
}

// ListActive 候选池：全部在投的广告
func (s *Store) ListActive(ctx context.Context) ([]*socialmodel.Campaign, error) {
	cur, err := s.CampaignColl.Find(ctx,
		bson.M{socialmodel.CampaignFieldStatus: socialmodel.CampaignActive})
	if err != nil {
		return nil, errs.Wrap(err)
	}
	defer cur.Close(ctx)
	var list []*socialmodel.Campaign
	if err := cur.All(ctx, &list); err != nil {
		return nil, errs.Wrap(err)
	}
	return list, nil
}

func (s *Store) ListBySponsor(ctx context.Context, sponsorID string) ([]*socialmodel.Campaign, error) {
	cur, err := s.CampaignColl.Find(ctx,
		bson.M{socialmodel.CampaignFieldSponsorID: sponsorID},
		options.Find().SetSort(bson.M{"create_time": -1}))
	if err != nil {
		return nil, errs.Wrap(err)
	}
	defer cur.Close(ctx)
	var list []*socialmodel.Campaign
	if err := cur.All(ctx, &list); err != nil {
		return nil, errs.Wrap(err)
	}
	return list, nil
}

func (s *Store) IncViews(ctx context.Context, campaignID string) error {
	_, err := s.CampaignColl.UpdateOne(ctx,
		bson.M{socialmodel.CampaignFieldID: campaignID},
		bson.M{"$inc": bson.M{socialmodel.CampaignFieldViews: 1}})
	return errs.Wrap(err)
}

func (s *Store) IncClicks(ctx context.Context, campaignID string) error {
	_, err := s.CampaignColl.UpdateOne(ctx,
		bson.M{socialmodel.CampaignFieldID: campaignID},
		bson.M{"$inc": bson.M{socialmodel.CampaignFieldClicks: 1}})
	return errs.Wrap(err)
}
