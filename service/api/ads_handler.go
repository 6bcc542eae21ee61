package api

import (
	"context"

	midsec "SocialCore/middleware/security"
	"SocialCore/module/social/ads"
	socialmodel "SocialCore/module/social/model"
	"SocialCore/tools/errs"

	"github.com/gin-gonic/gin"
)

type adsHandler struct {
	svc       *ads.Service
	userStore UserLoader
}

// UserLoader 按ID取用户画像，投放定向要用
type UserLoader interface {
	GetUser(ctx context.Context, userID string) (*socialmodel.User, error)
}

type submitCampaignReq struct {
	Title     string   `json:"title" binding:"required"`
	MediaURL  string   `json:"media_url"`
	LinkURL   string   `json:"link_url"`
	Location  string   `json:"location"`
	Gender    string   `json:"gender"`
	AgeRange  string   `json:"age_range"`
	Interests []string `json:"interests"`
}

func (h *adsHandler) submit(c *gin.Context) {
	var req submitCampaignReq
	if err := c.ShouldBindJSON(&req); err != nil {
		Fail(c, errs.ErrValidation.WrapMsg(err.Error()))
		return
	}
	camp := &socialmodel.Campaign{
		SponsorID: midsec.UserID(c),
		Title:     req.Title,
		MediaURL:  req.MediaURL,
		LinkURL:   req.LinkURL,
	}
	if req.Location != "" || req.Gender != "" || req.AgeRange != "" || len(req.Interests) > 0 {
		camp.Targeting = &socialmodel.TargetingRule{
			Location:  req.Location,
			Gender:    req.Gender,
			AgeRange:  req.AgeRange,
			Interests: req.Interests,
		}
	}
	if err := h.svc.Submit(c.Request.Context(), camp); err != nil {
		Fail(c, err)
		return
	}
	OK(c, gin.H{"campaign_id": camp.ID})
}

type reviewReq struct {
	CampaignID string `json:"campaign_id" binding:"required"`
	Approve    bool   `json:"approve"`
}

func (h *adsHandler) review(c *gin.Context) {
	var req reviewReq
	if err := c.ShouldBindJSON(&req); err != nil {
		Fail(c, errs.ErrValidation.WrapMsg(err.Error()))
		return
	}
	if err := h.svc.Review(c.Request.Context(), req.CampaignID, req.Approve); err != nil {
		Fail(c, err)
		return
	}
	OK(c, nil)
}

// pick 信息流广告位：按观众画像过定向后随机取一条
func (h *adsHandler) pick(c *gin.Context) {
	viewer, err := h.userStore.GetUser(c.Request.Context(), midsec.UserID(c))
	if err != nil {
		Fail(c, err)
		return
	}
	camp, err := h.svc.PickForViewer(c.Request.Context(), viewer)
	if err != nil {
		Fail(c, err)
		return
	}
	OK(c, camp)
}

type clickReq struct {
	CampaignID string `json:"campaign_id" binding:"required"`
}

func (h *adsHandler) click(c *gin.Context) {
	var req clickReq
	if err := c.ShouldBindJSON(&req); err != nil {
		Fail(c, errs.ErrValidation.WrapMsg(err.Error()))
		return
	}
	if err := h.svc.Click(c.Request.Context(), req.CampaignID); err != nil {
		Fail(c, err)
		return
	}
	OK(c, nil)
}

func (h *adsHandler) mine(c *gin.Context) {
	list, err := h.svc.SponsorCampaigns(c.Request.Context(), midsec.UserID(c))
	if err != nil {
		Fail(c, err)
		return
	}
	OK(c, list)
}
