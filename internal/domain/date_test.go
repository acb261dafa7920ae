package domain

import (
	"encoding/json"
	"testing"
	"time"

	"gopkg.in/yaml.v3"
)

func TestParseDate(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{in: "2024-09-01", want: "2024-09-01"},
		{in: " 2024-09-01 ", want: "2024-09-01"},
		{in: "2024-09-01T15:04:05+02:00", want: "2024-09-01"},
		{in: "01/09/2024", wantErr: true},
		{in: "", wantErr: true},
	}
	for _, tt := range tests {
		got, err := ParseDate(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ParseDate(%q) expected error", tt.in)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseDate(%q): %v", tt.in, err)
			continue
		}
		if got.Format(DateLayout) != tt.want {
			t.Errorf("ParseDate(%q) = %s, want %s", tt.in, got.Format(DateLayout), tt.want)
		}
	}
}

func TestDate_JSON(t *testing.T) {
	var v struct {
		Start Date `json:"start"`
		End   Date `json:"end"`
	}
	if err := json.Unmarshal([]byte(`{"start":"2024-09-01","end":null}`), &v); err != nil {
		t.Fatal(err)
	}
	if v.Start.Format(DateLayout) != "2024-09-01" {
		t.Errorf("start = %v", v.Start)
	}
	if !v.End.IsZero() {
		t.Errorf("null should decode to zero date")
	}

	out, err := json.Marshal(v)
	if err != nil {
		t.Fatal(err)
	}
	if string(out) != `{"start":"2024-09-01","end":null}` {
		t.Errorf("marshal = %s", out)
	}

	if err := json.Unmarshal([]byte(`{"start":"yesterday"}`), &v); err == nil {
		t.Error("expected error for malformed date")
	}
}

func TestDate_YAML(t *testing.T) {
	var v struct {
		Born Date `yaml:"born"`
	}
	if err := yaml.Unmarshal([]byte("born: 2010-01-01\n"), &v); err != nil {
		t.Fatal(err)
	}
	if !v.Born.Equal(time.Date(2010, 1, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("born = %v", v.Born)
	}
}
