package internal

import (
	"strings"
	"testing"
)

func TestMessages_Get(t *testing.T) {
	tests := []struct {
		name     string
		language string
		key      string
		contains string
	}{
		{
			name:     "english_final_link",
			language: "en",
			key:      MsgFinalLink,
			contains: "Final direct link",
		},
		{
			name:     "chinese_final_link",
			language: "zh",
			key:      MsgFinalLink,
			contains: "最终直链",
		},
		{
			name:     "english_completed",
			language: "en",
			key:      MsgCompleted,
			contains: "Completed",
		},
		{
			name:     "chinese_unzipped",
			language: "zh",
			key:      MsgUnzipped,
			contains: "解压完成",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msgs := NewMessages(tt.language)
			text := msgs.Get(tt.key)
			if !strings.Contains(text, tt.contains) {
				t.Errorf("expected %q in %q", tt.contains, text)
			}
		})
	}
}

func TestMessages_UnknownLanguageFallsBack(t *testing.T) {
	msgs := NewMessages("fr")

	if msgs.Language() != "en" {
		t.Errorf("expected fallback to en, got %q", msgs.Language())
	}
	if text := msgs.Get(MsgFailed); !strings.Contains(text, "Failed") {
		t.Errorf("expected English text, got %q", text)
	}
}

func TestMessages_UnknownKeyReturnsKey(t *testing.T) {
	msgs := NewMessages("en")
	if got := msgs.Get("no_such_key"); got != "no_such_key" {
		t.Errorf("expected key echo, got %q", got)
	}
}

func TestMessages_AllKeysPresentInAllLanguages(t *testing.T) {
	keys := []string{
		MsgResolving, MsgFinalLink, MsgDownloadingTo,
		MsgCompleted, MsgUnzipped, MsgExtractSkip, MsgFailed,
	}

	for _, lang := range []string{"en", "zh"} {
		msgs := NewMessages(lang)
		for _, key := range keys {
			if msgs.Get(key) == key {
				t.Errorf("language %s missing key %s", lang, key)
			}
		}
	}
}
