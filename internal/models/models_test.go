package models

import "testing"

func TestDependencyStatusFor(t *testing.T) {
	cases := []struct {
		current, latest, want string
	}{
		{"19.0.0", "19.0.0", DependencyUpToDate},
		{"6.2.0", "6.2.1", DependencyOutdated},
		{"4.21.2", "4.21.2", DependencyUpToDate},
		{"2.0.0", "1.9.9", DependencyOutdated},
		{"", "", DependencyUpToDate},
	}
	for _, tc := range cases {
		if got := DependencyStatusFor(tc.current, tc.latest); got != tc.want {
			t.Fatalf("DependencyStatusFor(%q, %q) = %q, want %q", tc.current, tc.latest, got, tc.want)
		}
	}
}

func TestNewDependencyDerivesStatus(t *testing.T) {
	dep := NewDependency("vite", "6.2.0", "6.2.1")
	if dep.Status != DependencyOutdated {
		t.Fatalf("expected outdated, got %q", dep.Status)
	}
}

func TestAnalysisCopyIsDeep(t *testing.T) {
	orig := &AnalysisData{
		Dependencies: []Dependency{NewDependency("react", "19.0.0", "19.0.0")},
		Memory:       []MemoryRecord{{Key: "k", Value: "v"}},
	}
	dup := orig.Copy()
	dup.Dependencies[0].Name = "changed"
	dup.Memory[0].Value = "changed"
	if orig.Dependencies[0].Name != "react" || orig.Memory[0].Value != "v" {
		t.Fatalf("copy shares backing arrays with original")
	}
	var nilData *AnalysisData
	if nilData.Copy() != nil {
		t.Fatalf("nil copy should be nil")
	}
}

func TestLogTypeValid(t *testing.T) {
	for _, lt := range []LogType{LogTypeInfo, LogTypeSuccess, LogTypeWarning, LogTypeError, LogTypeCommand} {
		if !lt.Valid() {
			t.Fatalf("%q should be valid", lt)
		}
	}
	if LogType("danger").Valid() {
		t.Fatalf("unknown log type reported valid")
	}
}
