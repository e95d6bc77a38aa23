package detector

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"civic_ingest/internal/model"
)

func TestDetect(t *testing.T) {
	tests := []struct {
		name string
		text string
		want model.Verdict
	}{
		{
			name: "genuine streetlight report",
			text: "The streetlight near Connaught Place has been broken for 2 weeks!! Nobody fixing it #DelhiProblems #Infrastructure",
			want: model.Verdict{IsFake: false},
		},
		{
			name: "hinglish group message",
			text: "Bhai logo garbage truck aaya hi nahi 3 din se, hamare block mein bahut smell aa rahi hai. Koi complain karo please",
			want: model.Verdict{IsFake: false},
		},
		{
			name: "spam with joke markers",
			text: "lol free pizza lol discount code FREE100 click link bit.ly/fakespam not a real complaint haha spam test",
			want: model.Verdict{IsFake: true, Reasons: []string{ReasonPromotional, ReasonJoke}},
		},
		{
			name: "marketing with filler characters",
			text: "BUY NOW!!! Best deals!!! Click here!!! Not related to civic issues at all. aaaa aaa test test test",
			want: model.Verdict{IsFake: true, Reasons: []string{ReasonPromotional, ReasonJoke, ReasonRepeated}},
		},
		{
			name: "empty text",
			text: "",
			want: model.Verdict{IsFake: true, Reasons: []string{ReasonTooShort, ReasonIncoherent}},
		},
		{
			name: "whitespace only",
			text: "   \n\t ",
			want: model.Verdict{IsFake: true, Reasons: []string{ReasonTooShort, ReasonIncoherent}},
		},
		{
			name: "short but civic",
			text: "pothole on my road",
			want: model.Verdict{IsFake: true, Reasons: []string{ReasonTooShort}},
		},
		{
			name: "long but irrelevant",
			text: "Had a wonderful evening with my family watching the cricket match together",
			want: model.Verdict{IsFake: true, Reasons: []string{ReasonIrrelevant}},
		},
		{
			name: "irrelevance not added when another rule fired",
			text: "Join our cricket club this weekend, use the promo and get snacks included",
			want: model.Verdict{IsFake: true, Reasons: []string{ReasonPromotional}},
		},
		{
			name: "numbers and symbols only",
			text: "1234 5678 !!!! ???? 1234 5678 !!!! ???? 1234 5678",
			want: model.Verdict{IsFake: true, Reasons: []string{ReasonIncoherent}},
		},
		{
			name: "repeated z is case insensitive",
			text: "ZZZZ the water pipe on our street keeps leaking all night long",
			want: model.Verdict{IsFake: true, Reasons: []string{ReasonRepeated}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Detect(tt.text)
			if diff := cmp.Diff(tt.want, got, cmpopts.EquateEmpty()); diff != "" {
				t.Errorf("Detect() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestDetectShortTextAlwaysFake(t *testing.T) {
	for n := 0; n < MinLength; n++ {
		text := strings.Repeat("w", n)
		got := Detect(text)
		if !got.IsFake {
			t.Fatalf("Detect(%q) IsFake = false, want true", text)
		}
		if diff := cmp.Diff(ReasonTooShort, got.Reasons[0]); diff != "" {
			t.Errorf("first reason mismatch for length %d (-want +got):\n%s", n, diff)
		}
	}
}

func TestDetectCivicKeywordsPass(t *testing.T) {
	for _, kw := range CivicVocabulary {
		text := "Residents near the main market want to report a " + kw + " concern today"
		got := Detect(text)
		if got.IsFake {
			t.Errorf("Detect(%q) = %v, want genuine", text, got.Reasons)
		}
	}
}

func TestIsFakeMatchesReasons(t *testing.T) {
	inputs := []string{
		"",
		"short",
		"The water supply in Sector 14 has been cut for four days now",
		"click here for the best deal of the year on all appliances",
	}
	for _, in := range inputs {
		got := Detect(in)
		if got.IsFake != (len(got.Reasons) > 0) {
			t.Errorf("Detect(%q): IsFake=%v with %d reasons", in, got.IsFake, len(got.Reasons))
		}
	}
}

func TestHasCivicTerm(t *testing.T) {
	tests := []struct {
		text string
		want bool
	}{
		{text: "Streetlight out", want: true},
		{text: "PAANI nahi aa raha", want: true},
		{text: "lovely weather", want: false},
		{text: "", want: false},
	}
	for _, tt := range tests {
		if got := HasCivicTerm(tt.text); got != tt.want {
			t.Errorf("HasCivicTerm(%q) = %v, want %v", tt.text, got, tt.want)
		}
	}
}
