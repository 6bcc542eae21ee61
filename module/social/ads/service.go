package ads

import (
	"context"
	"math/rand"
	"time"

	socialmodel "SocialCore/module/social/model"
	"SocialCore/tools/errs"
)

// Notifier 投放状态变化的站内信入口
type Notifier interface {
	DepositAsync(ctx context.Context, n socialmodel.Notification)
}

type Service struct {
	store    *Store
	notifier Notifier
	rnd      *rand.Rand
}

func NewService(store *Store, notifier Notifier) *Service {
	return &Service{
		store:    store,
		notifier: notifier,
		rnd:      rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (s *Service) Submit(ctx context.Context, c *socialmodel.Campaign) error {
	if c.SponsorID == "" || c.Title == "" {
		return errs.ErrValidation.WrapMsg("sponsor_id and title required")
	}
	c.Status = socialmodel.CampaignPending
	return s.store.Insert(ctx, c)
}

// Review 审核。approve=false 直接打回
func (s *Service) Review(ctx context.Context, campaignID string, approve bool) error {
	status := socialmodel.CampaignRejected
	if approve {
		status = socialmodel.CampaignActive
	}
	if err := s.store.SetStatus(ctx, campaignID, status); err != nil {
		return err
	}
	c, err := s.store.Get(ctx, campaignID)
	if err != nil {
		return err
	}
	s.notifier.DepositAsync(ctx, socialmodel.Notification{
		RecipientID: c.SponsorID,
		Kind:        socialmodel.NotifyCampaignStatus,
		CampaignID:  c.ID,
	})
	return nil
}

// PickForViewer 信息流注入：在投广告先过定向，再等概率抽一条。
// 抽中即计一次曝光。没有命中返回 (nil, nil)。
func (s *Service) PickForViewer(ctx context.Context, viewer *socialmodel.User) (*socialmodel.Campaign, error) {
	pool, err := s.store.ListActive(ctx)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	matched := pool[:0]
	for _, c := range pool {
		if Matches(c.Targeting, viewer, now) {
			matched = append(matched, c)
		}
	}
	picked := pickOne(matched, s.rnd)
	if picked == nil {
		return nil, nil
	}
	if err := s.store.IncViews(ctx, picked.ID); err != nil {
		return nil, err
	}
	return picked, nil
}

// Click 落地页点击计数
func (s *Service) Click(ctx context.Context, campaignID string) error {
	return s.store.IncClicks(ctx, campaignID)
}

func (s *Service) SponsorCampaigns(ctx context.Context, sponsorID string) ([]*socialmodel.Campaign, error) {
	return s.store.ListBySponsor(ctx, sponsorID)
}
