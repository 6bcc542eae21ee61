package content

import (
	socialmodel "SocialCore/module/social/model"
)

// ResolveParentID 单层回复：parentID 指向顶层评论时原样返回；
// 指向一条回复时折叠到它的顶层祖先；指向不存在的评论时置空（成为顶层评论）。
func ResolveParentID(comments []socialmodel.Comment, parentID string) string {
	if parentID == "" {
		return ""
	}
	for i := range comments {
		if comments[i].ID != parentID {
			continue
		}
		if comments[i].ParentID == "" {
			return parentID
		}
		// 回复的回复：折叠到最近的顶层祖先（父链只有一层，直接拿父的父）
		return ResolveParentID(comments, comments[i].ParentID)
	}
	return ""
}

// softDeleteComment 软删：内容与表情清空，id/author 保留，回复仍可解析
func softDeleteComment(c *socialmodel.Comment) {
	c.IsDeleted = true
	c.Type = ""
	c.Text = ""
	c.ImageURL = ""
	c.AudioURL = ""
	c.AudioDuration = 0
	c.Reactions = nil
}
