package models

import "testing"

func TestCheck_Rank(t *testing.T) {
	ordered := []Check{
		CheckPolicyLookup,
		CheckSeparation,
		CheckCompleteness,
		CheckInfrastructure,
		CheckMonitoring,
		CheckDocumentation,
	}

	for i := 1; i < len(ordered); i++ {
		if ordered[i-1].Rank() >= ordered[i].Rank() {
			t.Errorf("Rank(%s) = %d should be below Rank(%s) = %d",
				ordered[i-1], ordered[i-1].Rank(), ordered[i], ordered[i].Rank())
		}
	}

	if unknown := Check("custom_check"); unknown.Rank() <= CheckDocumentation.Rank() {
		t.Errorf("unknown check should rank after known checks, got %d", unknown.Rank())
	}
}

func TestCheck_Valid(t *testing.T) {
	tests := []struct {
		name  string
		check Check
		want  bool
	}{
		{"policy_lookup is valid", CheckPolicyLookup, true},
		{"scenario_separation is valid", CheckSeparation, true},
		{"scenario_completeness is valid", CheckCompleteness, true},
		{"infrastructure_presence is valid", CheckInfrastructure, true},
		{"monitoring_presence is valid", CheckMonitoring, true},
		{"documentation_presence is valid", CheckDocumentation, true},
		{"empty string is invalid", Check(""), false},
		{"unknown check is invalid", Check("helm_configuration"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.check.Valid(); got != tt.want {
				t.Errorf("Check(%q).Valid() = %v, want %v", tt.check, got, tt.want)
			}
		})
	}
}

func TestCheckResult_IsCriticalFailure(t *testing.T) {
	tests := []struct {
		name   string
		result CheckResult
		want   bool
	}{
		{"critical fail gates", CheckResult{Status: StatusFail, Severity: SeverityCritical}, true},
		{"warning fail does not gate", CheckResult{Status: StatusFail, Severity: SeverityWarning}, false},
		{"critical warning does not gate", CheckResult{Status: StatusWarning, Severity: SeverityCritical}, false},
		{"pass does not gate", CheckResult{Status: StatusPass, Severity: SeverityInfo}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.result.IsCriticalFailure(); got != tt.want {
				t.Errorf("IsCriticalFailure() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestStatusAndSeverity_Valid(t *testing.T) {
	for _, s := range []Status{StatusPass, StatusFail, StatusWarning} {
		if !s.Valid() {
			t.Errorf("Status(%q).Valid() = false, want true", s)
		}
	}
	if Status("SKIPPED").Valid() {
		t.Error("Status(SKIPPED).Valid() = true, want false")
	}

	for _, s := range []Severity{SeverityCritical, SeverityWarning, SeverityInfo} {
		if !s.Valid() {
			t.Errorf("Severity(%q).Valid() = false, want true", s)
		}
	}
	if Severity("FATAL").Valid() {
		t.Error("Severity(FATAL).Valid() = true, want false")
	}
}
