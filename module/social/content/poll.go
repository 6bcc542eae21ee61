package content

import (
	socialmodel "SocialCore/module/social/model"
	"SocialCore/tools/errs"
)

// applyVote 给选项计票。重复投票（任一选项已含该用户）静默返回未修改状态。
// 返回是否发生修改。
func applyVote(poll *socialmodel.Poll, userID string, optionIdx int) (bool, error) {
	if poll == nil {
		return false, errs.ErrNotFound.WrapMsg("post has no poll")
	}
	if optionIdx < 0 || optionIdx >= len(poll.Options) {
		return false, errs.ErrValidation.WrapMsg("option index out of range", "idx", optionIdx)
	}
	if poll.HasVoted(userID) {
		return false, nil
	}
	opt := &poll.Options[optionIdx]
	opt.VoterIDs = append(opt.VoterIDs, userID)
	opt.Votes++
	return true, nil
}
