package privacylog

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

func TestHandlerRedactsTokenMaterial(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(WrapHandler(slog.NewTextHandler(&buf, nil)))
	logger.Info("issued",
		"token", "eyJhbGciOiJFZERTQSJ9.payload.sig",
		"signing_key", "deadbeef",
		"result", "ok",
	)
	out := buf.String()
	if strings.Contains(out, "eyJhbGci") || strings.Contains(out, "deadbeef") {
		t.Fatalf("sensitive values leaked: %s", out)
	}
	if !strings.Contains(out, redactedValue) {
		t.Fatalf("expected redaction marker in output: %s", out)
	}
	if !strings.Contains(out, "result=ok") {
		t.Fatalf("benign attrs must pass through: %s", out)
	}
}

func TestHandlerFingerprintsSubjects(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(WrapHandler(slog.NewTextHandler(&buf, nil)))
	subject := "5F3sa2TJAWMqDhXG6jhV4N8ko9SxwGy8TpaNS1repo5EYjQX"
	logger.Warn("document fetch failed", "subject", subject)
	out := buf.String()
	if strings.Contains(out, subject) {
		t.Fatalf("raw subject leaked: %s", out)
	}
	if !strings.Contains(out, "subject_fp=fp_") {
		t.Fatalf("expected subject fingerprint: %s", out)
	}
}

func TestFingerprintStableWithinProcess(t *testing.T) {
	a := Fingerprint("addr-1")
	if a == "" || a != Fingerprint("addr-1") {
		t.Fatal("fingerprint must be stable for equal input")
	}
	if a == Fingerprint("addr-2") {
		t.Fatal("different inputs must fingerprint differently")
	}
	if Fingerprint("  ") != "" {
		t.Fatal("blank input fingerprints to empty")
	}
}

func TestWrapHandlerNil(t *testing.T) {
	if WrapHandler(nil) != nil {
		t.Fatal("wrapping nil should stay nil")
	}
}
