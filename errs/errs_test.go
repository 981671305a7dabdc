package errs

import "testing"

func Test_errs01(tst *testing.T) {
	err := New(ConfigError, "bad gain %v", -1.0)
	if !Is(err, ConfigError) {
		tst.Fatalf("expected ConfigError, got: %v", err)
	}
	if Is(err, IntegratorFailure) {
		tst.Fatalf("ConfigError must not match IntegratorFailure")
	}
}

func Test_errs02(tst *testing.T) {
	err := New(IntegratorFailure, "min-step breached over dt=%v", 0.01)
	if !Is(err, IntegratorFailure) {
		tst.Fatalf("expected IntegratorFailure, got: %v", err)
	}
	if err.Kind.String() != "IntegratorFailure" {
		tst.Fatalf("unexpected Kind string: %v", err.Kind)
	}
}

func Test_errs03(tst *testing.T) {
	if Is(nil, ConfigError) {
		tst.Fatalf("a plain nil error must not match any Kind")
	}
	var plain error
	if Is(plain, SafetyViolation) {
		tst.Fatalf("a non-*Error value must not match any Kind")
	}
}
