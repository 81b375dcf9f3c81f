package logger

import "testing"

func TestNormalizeLevel(t *testing.T) {
	testCases := map[string]string{
		"":        "info",
		"DEBUG":   "debug",
		" warn ":  "warn",
		"warning": "warn",
		"error":   "error",
		"verbose": "info",
	}
	for in, want := range testCases {
		if got := NormalizeLevel(in); got != want {
			t.Fatalf("NormalizeLevel(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestWithServiceNameKeepsExplicitValue(t *testing.T) {
	t.Setenv("SERVICE_NAME", "portfolio-api")

	fields := withServiceName(Fields{"service_name": "worker"})
	if fields["service_name"] != "worker" {
		t.Fatalf("expected explicit service_name to win, got %v", fields["service_name"])
	}

	fields = withServiceName(nil)
	if fields["service_name"] != "portfolio-api" {
		t.Fatalf("expected service_name from env, got %v", fields["service_name"])
	}
}
