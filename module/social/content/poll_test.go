package content

import (
	"testing"

	socialmodel "SocialCore/module/social/model"
	"SocialCore/tools/errs"
)

func TestApplyVote(t *testing.T) {
	poll := &socialmodel.Poll{
		Question: "q",
		Options: []socialmodel.PollOption{
			{Text: "a"},
			{Text: "b"},
		},
	}

	changed, err := applyVote(poll, "u1", 1)
	if err != nil || !changed {
		t.Fatalf("first vote should count: changed=%v err=%v", changed, err)
	}
	if poll.Options[1].Votes != 1 || len(poll.Options[1].VoterIDs) != 1 {
		t.Fatalf("option b should have one vote: %+v", poll.Options[1])
	}

	// 二次投票（换选项也算）静默不变
	changed, err = applyVote(poll, "u1", 0)
	if err != nil || changed {
		t.Fatalf("double vote must be silent no-op: changed=%v err=%v", changed, err)
	}
	if poll.Options[0].Votes != 0 || poll.Options[1].Votes != 1 {
		t.Fatalf("counts must be unchanged: %+v", poll.Options)
	}
}

func TestApplyVoteBounds(t *testing.T) {
	poll := &socialmodel.Poll{Options: []socialmodel.PollOption{{Text: "a"}}}

	if _, err := applyVote(poll, "u1", 5); !errs.ErrValidation.Is(err) {
		t.Fatalf("out of range: expected Validation, got %v", err)
	}
	if _, err := applyVote(nil, "u1", 0); !errs.ErrNotFound.Is(err) {
		t.Fatalf("no poll: expected NotFound, got %v", err)
	}
}
