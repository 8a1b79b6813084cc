package service

import (
	"reflect"
	"strings"
	"testing"
)

func TestSplitTags(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{"simple", "math,quiz", []string{"math", "quiz"}},
		{"whitespace trimmed", " math , quiz ", []string{"math", "quiz"}},
		{"empties dropped", "math,,quiz,", []string{"math", "quiz"}},
		{"duplicates collapsed", "math,math,quiz", []string{"math", "quiz"}},
		{"empty input", "", []string{}},
		{"only commas", ",,,", []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SplitTags(tt.in)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("SplitTags(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestCleanTags_KeepsDuplicates(t *testing.T) {
	got := cleanTags([]string{" a ", "", "a", "b"})
	want := []string{"a", "a", "b"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("cleanTags = %v, want %v", got, want)
	}
}

func TestMergeTags(t *testing.T) {
	got := mergeTags([]string{"a", " a", "b", "", "a"})
	want := []string{"a", "b"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("mergeTags = %v, want %v", got, want)
	}
}

func TestAddRemoveTags(t *testing.T) {
	added := addTags([]string{"a", "b"}, []string{"b", "c"})
	if !reflect.DeepEqual(added, []string{"a", "b", "c"}) {
		t.Errorf("addTags = %v, want [a b c]", added)
	}

	removed := removeTags([]string{"a", "b", "c"}, []string{"b"})
	if !reflect.DeepEqual(removed, []string{"a", "c"}) {
		t.Errorf("removeTags = %v, want [a c]", removed)
	}

	removed = removeTags([]string{"a"}, []string{"a"})
	if len(removed) != 0 {
		t.Errorf("removeTags = %v, want empty", removed)
	}
}

func TestUploadRequest_Validate(t *testing.T) {
	tests := []struct {
		name    string
		req     UploadRequest
		wantErr bool
	}{
		{"valid", UploadRequest{Filename: "a.pdf", File: strings.NewReader("x")}, false},
		{"uppercase extension", UploadRequest{Filename: "A.PDF", File: strings.NewReader("x")}, false},
		{"wrong extension", UploadRequest{Filename: "a.docx", File: strings.NewReader("x")}, true},
		{"no filename", UploadRequest{File: strings.NewReader("x")}, true},
		{"no file", UploadRequest{Filename: "a.pdf"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestMoveRequest_Validate(t *testing.T) {
	if err := (&MoveRequest{PDFIDs: []int64{1}}).Validate(); err != nil {
		t.Errorf("valid move rejected: %v", err)
	}
	if err := (&MoveRequest{}).Validate(); err == nil {
		t.Error("move with no ids accepted")
	}
}

func TestBatchRequest_Validate(t *testing.T) {
	tests := []struct {
		name    string
		req     BatchRequest
		wantErr bool
	}{
		{"delete", BatchRequest{Operation: BatchDelete, PDFIDs: []int64{1}}, false},
		{"add tags", BatchRequest{Operation: BatchAddTags, PDFIDs: []int64{1}, Tags: []string{"a"}}, false},
		{"add tags without tags", BatchRequest{Operation: BatchAddTags, PDFIDs: []int64{1}}, true},
		{"unknown operation", BatchRequest{Operation: "rename", PDFIDs: []int64{1}}, true},
		{"no ids", BatchRequest{Operation: BatchDelete}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
