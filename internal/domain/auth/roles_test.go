package auth

import (
	"errors"
	"strings"
	"testing"
)

func TestParseRole(t *testing.T) {
	tests := []struct {
		input   string
		want    Role
		wantErr bool
	}{
		{input: "admin", want: RoleAdmin},
		{input: "employee", want: RoleEmployee},
		{input: "Admin", wantErr: true},
		{input: " admin", wantErr: true},
		{input: "manager", wantErr: true},
		{input: "", wantErr: true},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.input, func(t *testing.T) {
			got, err := ParseRole(tc.input)
			if tc.wantErr {
				if !errors.Is(err, ErrInvalidRole) {
					t.Fatalf("expected ErrInvalidRole, got %v", err)
				}
				if !strings.Contains(err.Error(), "[admin employee]") {
					t.Fatalf("expected error to list the known roles, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tc.want {
				t.Fatalf("expected %s, got %s", tc.want, got)
			}
		})
	}
}

func TestDashboardPath(t *testing.T) {
	if got := RoleAdmin.DashboardPath(); got != "/admin/dashboard" {
		t.Fatalf("unexpected admin path %q", got)
	}
	if got := RoleEmployee.DashboardPath(); got != "/employee/dashboard" {
		t.Fatalf("unexpected employee path %q", got)
	}
}
