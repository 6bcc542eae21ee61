package content

import (
	"strings"
	"testing"
	"unicode/utf8"

	socialmodel "SocialCore/module/social/model"
	"SocialCore/tools/errs"
)

func threadFixture() []socialmodel.Comment {
	return []socialmodel.Comment{
		{ID: "c1", Type: socialmodel.ContentText, Text: "top"},
		{ID: "c2", ParentID: "c1", Type: socialmodel.ContentText, Text: "reply"},
	}
}

func TestResolveParentID(t *testing.T) {
	comments := threadFixture()

	if got := ResolveParentID(comments, ""); got != "" {
		t.Fatalf("no parent: got %q", got)
	}
	if got := ResolveParentID(comments, "c1"); got != "c1" {
		t.Fatalf("top-level parent kept: got %q", got)
	}
	// 回复的回复折叠到顶层祖先
	if got := ResolveParentID(comments, "c2"); got != "c1" {
		t.Fatalf("deep chain should collapse to c1: got %q", got)
	}
	// 父评论不存在：落为顶层
	if got := ResolveParentID(comments, "missing"); got != "" {
		t.Fatalf("unknown parent should clear: got %q", got)
	}
}

func TestSoftDeleteKeepsIdentity(t *testing.T) {
	c := socialmodel.Comment{
		ID:     "c9",
		Author: socialmodel.UserSnapshot{UserID: "u1", Name: "alice"},
		Type:   socialmodel.ContentAudio, AudioURL: "http://cdn/a.ogg", AudioDuration: 12,
		Reactions: map[string]string{"u2": "👍"},
	}
	softDeleteComment(&c)

	if !c.IsDeleted {
		t.Fatal("is_deleted should be set")
	}
	if c.Text != "" || c.ImageURL != "" || c.AudioURL != "" || c.AudioDuration != 0 || c.Type != "" {
		t.Fatalf("content should be blanked: %+v", c)
	}
	if c.Reactions != nil {
		t.Fatalf("reactions should be blanked: %+v", c)
	}
	if c.ID != "c9" || c.Author.UserID != "u1" {
		t.Fatalf("id/author must survive for thread integrity: %+v", c)
	}
}

func TestVariantResolve(t *testing.T) {
	if _, err := (Variant{}).Resolve(); !errs.ErrValidation.Is(err) {
		t.Fatalf("empty variant: expected Validation, got %v", err)
	}
	if _, err := (Variant{Text: "hi", ImageURL: "x"}).Resolve(); !errs.ErrValidation.Is(err) {
		t.Fatalf("two fields: expected Validation, got %v", err)
	}
	if _, err := (Variant{AudioURL: "a.ogg"}).Resolve(); !errs.ErrValidation.Is(err) {
		t.Fatalf("audio without duration: expected Validation, got %v", err)
	}

	kind, err := (Variant{AudioURL: "a.ogg", AudioDuration: 3}).Resolve()
	if err != nil || kind != socialmodel.ContentAudio {
		t.Fatalf("audio variant: got %q %v", kind, err)
	}
	kind, err = (Variant{Text: "hi"}).Resolve()
	if err != nil || kind != socialmodel.ContentText {
		t.Fatalf("text variant: got %q %v", kind, err)
	}
}

func TestVariantPreview(t *testing.T) {
	if got := (Variant{ImageURL: "x"}).Preview(socialmodel.ContentImage); got != "[image]" {
		t.Fatalf("image placeholder: got %q", got)
	}
	if got := (Variant{AudioURL: "a.ogg"}).Preview(socialmodel.ContentAudio); got != "[audio]" {
		t.Fatalf("audio placeholder: got %q", got)
	}
	if got := (Variant{Text: "short"}).Preview(socialmodel.ContentText); got != "short" {
		t.Fatalf("short text must pass through, got %q", got)
	}

	// 多字节文本按 rune 截断，不得产生半个字符
	long := strings.Repeat("好", 100)
	got := (Variant{Text: long}).Preview(socialmodel.ContentText)
	if r := []rune(got); len(r) != 64 {
		t.Fatalf("expected 64 runes, got %d", len(r))
	}
	if !utf8.ValidString(got) {
		t.Fatal("preview must remain valid utf-8")
	}
}
