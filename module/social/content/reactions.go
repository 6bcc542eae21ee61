package content

// 帖子/评论表情：userID -> emoji，一人一条。
// 同值再选 = 取消；不同值 = 覆盖。
// 消息表情：emoji -> userID 集合，一人可同时挂多个不同 emoji。
// 这些是纯函数，事务体内可安全重放。

// ToggleEmoji 对 map 语义表情取反/覆盖。返回操作后 map 与该用户是否仍有表情。
// 传入 nil map 时会新建。
func ToggleEmoji(reactions map[string]string, userID, emoji string) (map[string]string, bool) {
	if reactions == nil {
		reactions = make(map[string]string, 1)
	}
	if reactions[userID] == emoji {
		delete(reactions, userID)
		return reactions, false
	}
	reactions[userID] = emoji
	return reactions, true
}

// ToggleEmojiSet 对集合语义表情取反。只动该 emoji 的用户集合；
// 集合清空后移除整个键。返回操作后 map 与该用户在该 emoji 下是否存在。
func ToggleEmojiSet(reactions map[string][]string, userID, emoji string) (map[string][]string, bool) {
	if reactions == nil {
		reactions = make(map[string][]string, 1)
	}
	set := reactions[emoji]
	for i, id := range set {
		if id == userID {
			set = append(set[:i], set[i+1:]...)
			if len(set) == 0 {
				delete(reactions, emoji)
			} else {
				reactions[emoji] = set
			}
			return reactions, false
		}
	}
	reactions[emoji] = append(set, userID)
	return reactions, true
}
