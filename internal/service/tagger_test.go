package service

import (
	"reflect"
	"strings"
	"testing"
)

func testTagger() *taggerService {
	return &taggerService{
		labels: []string{"homework", "worksheet", "quiz", "exam", "lesson plan"},
	}
}

func TestTaggerParseTags(t *testing.T) {
	s := testTagger()

	tests := []struct {
		name  string
		reply string
		want  []string
	}{
		{"json array", `["homework", "quiz"]`, []string{"homework", "quiz"}},
		{"json with prose around it", "Here you go:\n[\"worksheet\"]\nHope that helps.", []string{"worksheet"}},
		{"comma fallback", "homework, quiz", []string{"homework", "quiz"}},
		{"case-insensitive match", `["Homework", "QUIZ"]`, []string{"homework", "quiz"}},
		{"unknown labels dropped", `["homework", "recipe", "quiz"]`, []string{"homework", "quiz"}},
		{"multi-word label", `["lesson plan"]`, []string{"lesson plan"}},
		{"empty reply", "", []string{}},
		{"malformed json falls back to comma split", `[homework, quiz`, []string{"quiz"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := s.parseTags(tt.reply)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("parseTags(%q) = %v, want %v", tt.reply, got, tt.want)
			}
		})
	}
}

func TestTaggerParseTags_CapsAtMax(t *testing.T) {
	s := &taggerService{labels: []string{"a", "b", "c", "d", "e", "f", "g"}}
	got := s.parseTags(`["a","b","c","d","e","f","g"]`)
	if len(got) != taggerMaxTags {
		t.Errorf("len = %d, want %d", len(got), taggerMaxTags)
	}
}

func TestTaggerSystemPrompt(t *testing.T) {
	prompt := testTagger().systemPrompt()
	for _, label := range testTagger().labels {
		if !strings.Contains(prompt, label) {
			t.Errorf("prompt missing label %q", label)
		}
	}
}
