package messagequeue

import (
	"context"
	"strings"
	"testing"
)

func TestValidateSchoolProvisioned(t *testing.T) {
	data := []byte(`{"school_id":"s1","slug":"springfield-high","name":"Springfield High","plan":"Trial","status":"trial","admin_email":"a@b.test"}`)
	if err := Validate(SubjectSchoolProvisioned, data); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidateAccountCreated(t *testing.T) {
	data := []byte(`{"user_id":"u1","email":"a@b.test","role":"STUDENT","school_id":"s1"}`)
	if err := Validate(SubjectAccountCreated, data); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidateSetupCompleted(t *testing.T) {
	data := []byte(`{"school_id":"s1","years_updated":1}`)
	if err := Validate(SubjectSetupCompleted, data); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidateInvalidJSON(t *testing.T) {
	err := Validate(SubjectSchoolProvisioned, []byte(`{broken`))
	if err == nil {
		t.Fatal("expected error for invalid JSON")
	}
	if !strings.Contains(err.Error(), "invalid JSON") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestValidateWrongFieldType(t *testing.T) {
	err := Validate(SubjectSetupCompleted, []byte(`{"school_id":"s1","years_updated":"many"}`))
	if err == nil {
		t.Fatal("expected schema error for string years_updated")
	}
}

func TestValidateMissingRequiredFields(t *testing.T) {
	tests := []struct {
		name    string
		subject string
		data    string
		field   string
	}{
		{"provisioned without school", SubjectSchoolProvisioned, `{"slug":"s","plan":"Trial","admin_email":"a@b.test"}`, "school_id"},
		{"provisioned without admin", SubjectSchoolProvisioned, `{"school_id":"s1","slug":"s","plan":"Trial"}`, "admin_email"},
		{"account without user", SubjectAccountCreated, `{"email":"a@b.test","role":"STUDENT"}`, "user_id"},
		{"account with empty role", SubjectAccountCreated, `{"user_id":"u1","email":"a@b.test","role":""}`, "role"},
		{"setup without school", SubjectSetupCompleted, `{"years_updated":1}`, "school_id"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.subject, []byte(tt.data))
			if err == nil {
				t.Fatal("expected schema error")
			}
			if !strings.Contains(err.Error(), tt.field) {
				t.Errorf("error %q does not name %q", err, tt.field)
			}
		})
	}
}

func TestValidateAccountCreatedWithoutSchool(t *testing.T) {
	data := []byte(`{"user_id":"u1","email":"root@b.test","role":"SUPER_ADMIN"}`)
	if err := Validate(SubjectAccountCreated, data); err != nil {
		t.Errorf("school_id is optional, got %v", err)
	}
}

func TestValidateUnknownSubject(t *testing.T) {
	if err := Validate("schools.unknown", []byte(`{"anything":true}`)); err != nil {
		t.Errorf("unknown subjects accept valid JSON, got %v", err)
	}
}

func TestNoopQueue(t *testing.T) {
	var q Queue = Noop{}
	if err := q.Publish(context.Background(), SubjectAccountCreated, []byte(`{}`)); err != nil {
		t.Errorf("Publish: %v", err)
	}
	if q.IsConnected() {
		t.Error("noop queue reports disconnected")
	}
	if err := q.Drain(); err != nil {
		t.Errorf("Drain: %v", err)
	}
}
