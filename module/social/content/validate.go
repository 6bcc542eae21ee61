package content

import (
	socialmodel "SocialCore/module/social/model"
	"SocialCore/tools/errs"
)

// Variant 评论/消息共用的内容变体：text/image/audio 三选一
type Variant struct {
	Text          string
	ImageURL      string
	AudioURL      string
	AudioDuration int // 秒，audio 必填
}

// Resolve 校验有且仅有一种内容，返回归一化后的类型标签
func (v Variant) Resolve() (string, error) {
	populated := 0
	kind := ""
	if v.Text != "" {
		populated++
		kind = socialmodel.ContentText
	}
	if v.ImageURL != "" {
		populated++
		kind = socialmodel.ContentImage
	}
	if v.AudioURL != "" {
		populated++
		kind = socialmodel.ContentAudio
	}
	if populated != 1 {
		return "", errs.ErrValidation.WrapMsg("exactly one of text/image/audio required", "populated", populated)
	}
	if kind == socialmodel.ContentAudio && v.AudioDuration <= 0 {
		return "", errs.ErrValidation.WrapMsg("audio requires a positive duration")
	}
	return kind, nil
}

// apply 把变体写进评论（其余内容字段清零）
func (v Variant) applyToComment(c *socialmodel.Comment, kind string) {
	c.Type = kind
	c.Text = v.Text
	c.ImageURL = v.ImageURL
	c.AudioURL = v.AudioURL
	c.AudioDuration = v.AudioDuration
}

func (v Variant) applyToMessage(m *socialmodel.Message, kind string) {
	m.Type = kind
	m.Text = v.Text
	m.ImageURL = v.ImageURL
	m.AudioURL = v.AudioURL
	m.AudioDuration = v.AudioDuration
}

// Preview 回复摘要用的内容预览。文本按 rune 截断，不会切坏多字节字符
func (v Variant) Preview(kind string) string {
	switch kind {
	case socialmodel.ContentImage:
		return "[image]"
	case socialmodel.ContentAudio:
		return "[audio]"
	default:
		r := []rune(v.Text)
		if len(r) > 64 {
			return string(r[:64])
		}
		return v.Text
	}
}
