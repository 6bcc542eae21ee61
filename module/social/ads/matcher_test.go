package ads

import (
	"testing"
	"time"

	socialmodel "SocialCore/module/social/model"
)

func viewer(city, gender, bio string, age int) *socialmodel.User {
	now := time.Now()
	u := &socialmodel.User{City: city, Gender: gender, Bio: bio}
	if age > 0 {
		u.BirthYear = now.Year() - age
	}
	return u
}

func TestMatchesEmptyRule(t *testing.T) {
	now := time.Now()
	if !Matches(nil, viewer("", "", "", 0), now) {
		t.Fatal("nil rule must match everyone")
	}
	if !Matches(&socialmodel.TargetingRule{}, viewer("Dhaka", "female", "loves cricket", 22), now) {
		t.Fatal("empty rule must match everyone")
	}
}

func TestMatchesAgeRange(t *testing.T) {
	now := time.Now()
	rule := &socialmodel.TargetingRule{AgeRange: "18-25"}
	if Matches(rule, viewer("", "", "", 30), now) {
		t.Fatal("age 30 must not match 18-25")
	}
	if !Matches(rule, viewer("", "", "", 20), now) {
		t.Fatal("age 20 must match 18-25")
	}
	// 闭区间：边界都算命中
	if !Matches(rule, viewer("", "", "", 18), now) || !Matches(rule, viewer("", "", "", 25), now) {
		t.Fatal("bounds are inclusive")
	}
	// 规则写坏或生年缺失不命中
	if Matches(&socialmodel.TargetingRule{AgeRange: "18"}, viewer("", "", "", 20), now) {
		t.Fatal("malformed range must not match")
	}
	if Matches(rule, viewer("", "", "", 0), now) {
		t.Fatal("unknown birth year must not match an age constraint")
	}
}

func TestMatchesDhakaScenario(t *testing.T) {
	now := time.Now()
	u := viewer("Dhaka", "male", "", 22)
	if !Matches(&socialmodel.TargetingRule{Location: "Dhaka", AgeRange: "18-30"}, u, now) {
		t.Fatal("Dhaka 22yo must match {Dhaka, 18-30}")
	}
	if Matches(&socialmodel.TargetingRule{Location: "Chittagong"}, u, now) {
		t.Fatal("Dhaka viewer must not match Chittagong")
	}
}

func TestMatchesLocationNormalized(t *testing.T) {
	now := time.Now()
	u := viewer("  dhaka ", "", "", 0)
	if !Matches(&socialmodel.TargetingRule{Location: "DHAKA"}, u, now) {
		t.Fatal("location match must trim and casefold")
	}
}

func TestMatchesGender(t *testing.T) {
	now := time.Now()
	u := viewer("", "female", "", 0)
	if !Matches(&socialmodel.TargetingRule{Gender: socialmodel.GenderAll}, u, now) {
		t.Fatal("gender wildcard must match everyone")
	}
	if !Matches(&socialmodel.TargetingRule{Gender: "female"}, u, now) {
		t.Fatal("exact gender must match")
	}
	if Matches(&socialmodel.TargetingRule{Gender: "male"}, u, now) {
		t.Fatal("mismatched gender must not match")
	}
}

func TestMatchesInterests(t *testing.T) {
	now := time.Now()
	u := viewer("", "", "Weekend Cricket and street food", 0)
	if !Matches(&socialmodel.TargetingRule{Interests: []string{"football", "cricket"}}, u, now) {
		t.Fatal("any keyword as substring of bio must pass")
	}
	if Matches(&socialmodel.TargetingRule{Interests: []string{"chess"}}, u, now) {
		t.Fatal("no keyword hit must fail")
	}
}

func TestMatchesAllConstraintsAnded(t *testing.T) {
	now := time.Now()
	u := viewer("Dhaka", "male", "cricket fan", 22)
	rule := &socialmodel.TargetingRule{
		Location:  "Dhaka",
		Gender:    "male",
		AgeRange:  "18-30",
		Interests: []string{"cricket"},
	}
	if !Matches(rule, u, now) {
		t.Fatal("all constraints satisfied must match")
	}
	rule.Gender = "female"
	if Matches(rule, u, now) {
		t.Fatal("one failing constraint must fail the whole rule")
	}
}

func TestPickOne(t *testing.T) {
	if pickOne(nil, nil) != nil {
		t.Fatal("empty pool must return nil")
	}
	c := &socialmodel.Campaign{ID: "1"}
	if pickOne([]*socialmodel.Campaign{c}, nil) != c {
		t.Fatal("single-entry pool must return that entry")
	}
}
