package content

import "testing"

func TestToggleEmojiMapSemantics(t *testing.T) {
	m, present := ToggleEmoji(nil, "u1", "👍")
	if !present || m["u1"] != "👍" {
		t.Fatalf("first toggle should set: %v", m)
	}

	// 同值再选 = 取消
	m, present = ToggleEmoji(m, "u1", "👍")
	if present {
		t.Fatal("same emoji again should remove")
	}
	if _, ok := m["u1"]; ok {
		t.Fatalf("entry should be gone: %v", m)
	}

	// X 后 Y = 覆盖，只留一条
	m, _ = ToggleEmoji(m, "u1", "👍")
	m, present = ToggleEmoji(m, "u1", "❤️")
	if !present || m["u1"] != "❤️" {
		t.Fatalf("different emoji should overwrite: %v", m)
	}
	if len(m) != 1 {
		t.Fatalf("one entry per user: %v", m)
	}
}

func TestToggleEmojiSetSemantics(t *testing.T) {
	// X 再 Y：两个 emoji 下都在（与帖子语义不同）
	m, _ := ToggleEmojiSet(nil, "u1", "👍")
	m, _ = ToggleEmojiSet(m, "u1", "❤️")

	if len(m["👍"]) != 1 || m["👍"][0] != "u1" {
		t.Fatalf("user should stay under first emoji: %v", m)
	}
	if len(m["❤️"]) != 1 || m["❤️"][0] != "u1" {
		t.Fatalf("user should also be under second emoji: %v", m)
	}

	// 取消只动命中的 emoji
	m, present := ToggleEmojiSet(m, "u1", "👍")
	if present {
		t.Fatal("toggle off should report absent")
	}
	if _, ok := m["👍"]; ok {
		t.Fatalf("emptied emoji key should be removed: %v", m)
	}
	if len(m["❤️"]) != 1 {
		t.Fatalf("other emoji untouched: %v", m)
	}
}

func TestToggleEmojiSetMultipleUsers(t *testing.T) {
	m, _ := ToggleEmojiSet(nil, "u1", "👍")
	m, _ = ToggleEmojiSet(m, "u2", "👍")
	m, _ = ToggleEmojiSet(m, "u1", "👍")

	if len(m["👍"]) != 1 || m["👍"][0] != "u2" {
		t.Fatalf("only u1 should be removed: %v", m)
	}
}
