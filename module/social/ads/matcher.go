package ads

import (
	"strconv"
	"strings"
	"time"

	"SocialCore/module/social/model"
)

// Matches 定向规则对观众画像的纯判定。
// 缺省约束直接通过；给出的约束逐项独立判定，全过才算命中。
func Matches(rule *model.TargetingRule, viewer *model.User, now time.Time) bool {
	if rule == nil {
		return true
	}
	if !matchLocation(rule.Location, viewer.City) {
		return false
	}
	if !matchGender(rule.Gender, viewer.Gender) {
		return false
	}
	if !matchAge(rule.AgeRange, viewer.Age(now)) {
		return false
	}
	if !matchInterests(rule.Interests, viewer.Bio) {
		return false
	}
	return true
}

// 城市：去首尾空白、忽略大小写的精确匹配
func matchLocation(want, got string) bool {
	want = strings.TrimSpace(want)
	if want == "" {
		return true
	}
	return strings.EqualFold(want, strings.TrimSpace(got))
}

func matchGender(want, got string) bool {
	if want == "" || want == model.GenderAll {
		return true
	}
	return strings.EqualFold(want, got)
}

// 年龄段 "min-max" 闭区间。规则写坏或观众没填生年都按不命中处理，
// 坏规则不能变成全量投放。
func matchAge(rng string, age int) bool {
	rng = strings.TrimSpace(rng)
	if rng == "" {
		return true
	}
	min, max, ok := parseAgeRange(rng)
	if !ok || age <= 0 {
		return false
	}
	return age >= min && age <= max
}

func parseAgeRange(rng string) (int, int, bool) {
	parts := strings.SplitN(rng, "-", 2)
	if len(parts) != 2 {
		return 0, 0, false
	}
	min, err1 := strconv.Atoi(strings.TrimSpace(parts[0]))
	max, err2 := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err1 != nil || err2 != nil || min > max {
		return 0, 0, false
	}
	return min, max, true
}

// 兴趣：任一关键词作为子串命中简介即通过（忽略大小写）
func matchInterests(keywords []string, bio string) bool {
	if len(keywords) == 0 {
		return true
	}
	bio = strings.ToLower(bio)
	for _, kw := range keywords {
		kw = strings.ToLower(strings.TrimSpace(kw))
		if kw != "" && strings.Contains(bio, kw) {
			return true
		}
	}
	return false
}
