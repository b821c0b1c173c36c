package triage

import "testing"

func TestRouteDepartment(t *testing.T) {
	cases := []struct {
		name          string
		symptoms      []string
		mentionsChild bool
		want          Department
	}{
		{
			name: "no symptoms falls back to general medicine",
			want: DeptGeneralMedicine,
		},
		{
			name:     "chest pain routes to cardiology",
			symptoms: []string{"chest pain"},
			want:     DeptCardiology,
		},
		{
			name:          "child with fever routes to pediatrics",
			symptoms:      []string{"fever"},
			mentionsChild: true,
			want:          DeptPediatrics,
		},
		{
			name:          "child with emergency symptom routes to emergency medicine",
			symptoms:      []string{"not breathing"},
			mentionsChild: true,
			want:          DeptEmergencyMed,
		},
		{
			name:     "digestive cluster outvotes single neuro symptom",
			symptoms: []string{"stomach pain", "nausea", "vomiting", "headache"},
			want:     DeptGastroenterology,
		},
		{
			name:     "unrecognized symptoms fall back to general medicine",
			symptoms: []string{"glowing aura", "odd feeling"},
			want:     DeptGeneralMedicine,
		},
		{
			name:     "persistent cough routes to pulmonology",
			symptoms: []string{"persistent cough", "wheezing"},
			want:     DeptPulmonology,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := RouteDepartment(tc.symptoms, tc.mentionsChild); got != tc.want {
				t.Fatalf("RouteDepartment(%v, %v) = %s, want %s", tc.symptoms, tc.mentionsChild, got, tc.want)
			}
		})
	}
}

func TestRouteDepartmentTieBreakIsDeterministic(t *testing.T) {
	// One vote each for cardiology and neurology; priority order puts
	// cardiology first.
	symptoms := []string{"chest pain", "headache"}
	want := RouteDepartment(symptoms, false)
	if want != DeptCardiology {
		t.Fatalf("expected cardiology to win the tie, got %s", want)
	}
	for i := 0; i < 50; i++ {
		if got := RouteDepartment(symptoms, false); got != want {
			t.Fatalf("routing changed between runs: %s vs %s", want, got)
		}
	}
}

func TestRouteDepartmentOneVotePerSymptom(t *testing.T) {
	// "child fever" contains both the pediatrics keyword "child fever" and
	// the general medicine keyword "fever", but a symptom votes once per
	// department, and pediatrics outranks general medicine on ties.
	if got := RouteDepartment([]string{"child fever"}, false); got != DeptPediatrics {
		t.Fatalf("expected pediatrics, got %s", got)
	}
}
