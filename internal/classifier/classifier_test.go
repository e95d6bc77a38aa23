package classifier

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"civic_ingest/internal/model"
)

func TestClassifyDepartmentAndUrgency(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		wantDept string
		wantUrg  model.Urgency
	}{
		{
			name:     "streetlight with exclamations",
			text:     "The streetlight near Connaught Place has been broken for 2 weeks!! Nobody fixing it #DelhiProblems #Infrastructure",
			wantDept: "Electricity",
			wantUrg:  model.UrgencyHigh,
		},
		{
			name:     "pothole with burst tyre",
			text:     "HUGE pothole on MG Road near metro station. My bike's tyre burst! @MunicipalCorp @DelhiGovt please fix URGENTLY",
			wantDept: "Roads & Transport",
			wantUrg:  model.UrgencyHigh,
		},
		{
			name:     "water supply email",
			text:     "Subject: Water supply cut for 4 days in Sector 14\n\nDear Sir, We have not received water supply for the past 4 days in Sector 14, Dwarka. Kindly look into this matter urgently.",
			wantDept: "Water Supply",
			wantUrg:  model.UrgencyHigh,
		},
		{
			name:     "sewer overflow beats water and smell",
			text:     "Sewer line overflow ho gayi Select City Walk ke peeche. Raste pe paani bhar gaya. Bahut buri smell. Health hazard ban raha hai",
			wantDept: "Sewage & Drainage",
			wantUrg:  model.UrgencyHigh,
		},
		{
			name:     "vandalized park without severity",
			text:     "Park in Lajpat Nagar completely vandalized. Benches broken, graffiti everywhere. Kids have nowhere to play. @DDA_India",
			wantDept: "Parks & Horticulture",
			wantUrg:  model.UrgencyMedium,
		},
		{
			name:     "bus stop shed",
			text:     "Bus stop ka shed toot gaya 2 mahine pehle se. Baarish mein bohot problem hoti hai. Koi sunta hi nahi hai",
			wantDept: "Roads & Transport",
			wantUrg:  model.UrgencyMedium,
		},
		{
			name:     "illegal parking",
			text:     "Subject: Illegal parking blocking our driveway\n\nFor the past month, unknown vehicles are parking in front of our gate at 45 Vasant Vihar. Police not responding to calls.",
			wantDept: "Enforcement",
			wantUrg:  model.UrgencyMedium,
		},
		{
			name:     "garbage group message",
			text:     "Bhai logo garbage truck aaya hi nahi 3 din se, hamare block mein bahut smell aa rahi hai. Koi complain karo please",
			wantDept: "Sanitation",
			wantUrg:  model.UrgencyMedium,
		},
		{
			name:     "no match is medium with no department",
			text:     "Had a wonderful evening with my family watching the cricket match together",
			wantDept: "",
			wantUrg:  model.UrgencyMedium,
		},
		{
			name:     "minor only is low",
			text:     "A small suggestion about the colour of the new name boards",
			wantDept: "",
			wantUrg:  model.UrgencyLow,
		},
		{
			name:     "exclamations alone are severe",
			text:     "Something is very wrong here!!",
			wantDept: "",
			wantUrg:  model.UrgencyHigh,
		},
		{
			name:     "tie goes to first department in table",
			text:     "water and garbage",
			wantDept: "Water Supply",
			wantUrg:  model.UrgencyMedium,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify(tt.text, "")
			if diff := cmp.Diff(tt.wantDept, got.Department); diff != "" {
				t.Errorf("department mismatch (-want +got):\n%s", diff)
			}
			if diff := cmp.Diff(tt.wantUrg, got.Urgency); diff != "" {
				t.Errorf("urgency mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestClassifyConfidence(t *testing.T) {
	tests := []struct {
		name string
		text string
		want int
	}{
		{name: "nothing matched", text: "Had a wonderful evening with my family", want: noMatchConfidence},
		{name: "one keyword", text: "garbage", want: 60},
		{name: "two keywords", text: "garbage and litter", want: 70},
		{name: "keyword and exclamation", text: "garbage!!", want: 70},
		{name: "repeated keyword counts once", text: "garbage garbage garbage", want: 60},
		{
			name: "capped",
			text: "garbage trash waste dustbin litter smell dump kachra dirty pest urgent hazard",
			want: maxConfidence,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify(tt.text, "")
			if diff := cmp.Diff(tt.want, got.Confidence); diff != "" {
				t.Errorf("confidence mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestClassifyHint(t *testing.T) {
	got := Classify("Please look at this", "pothole")
	want := model.Classification{Urgency: model.UrgencyMedium, Department: "Roads & Transport", Confidence: 60}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Classify() with hint mismatch (-want +got):\n%s", diff)
	}
}

func TestClassifyDeterministic(t *testing.T) {
	text := "The playground at RK Puram park is so dangerous!! Rusty swings, broken slide. My child got hurt yesterday."
	first := Classify(text, "parks")
	for i := 0; i < 50; i++ {
		if diff := cmp.Diff(first, Classify(text, "parks")); diff != "" {
			t.Fatalf("run %d differs (-first +got):\n%s", i, diff)
		}
	}
}

func TestNewCustomRules(t *testing.T) {
	c := New([]Rule{
		{Name: "a", Department: "Alpha", Keywords: []string{"shared", "  "}},
		{Name: "b", Department: "Beta", Keywords: []string{"Shared", "beta"}},
	})

	got := c.Classify("a shared thing", "")
	if diff := cmp.Diff("Alpha", got.Department); diff != "" {
		t.Errorf("tie-break mismatch (-want +got):\n%s", diff)
	}

	got = c.Classify("shared beta", "")
	if diff := cmp.Diff("Beta", got.Department); diff != "" {
		t.Errorf("count winner mismatch (-want +got):\n%s", diff)
	}

	if diff := cmp.Diff(2, len(c.Rules())); diff != "" {
		t.Errorf("Rules() length mismatch (-want +got):\n%s", diff)
	}
}

func TestNewEmptyRules(t *testing.T) {
	got := New(nil).Classify("pothole!!", "")
	want := model.Classification{Urgency: model.UrgencyHigh, Confidence: 60}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("empty table mismatch (-want +got):\n%s", diff)
	}
}
