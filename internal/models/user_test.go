package models

import "testing"

func TestParseRole(t *testing.T) {
	tests := []struct {
		in   string
		want Role
	}{
		{"admin", RoleAdmin},
		{"editor", RoleEditor},
		{"viewer", RoleViewer},
		{"", RoleViewer},
		{"superuser", RoleViewer},
	}

	for _, tt := range tests {
		if got := ParseRole(tt.in); got != tt.want {
			t.Errorf("ParseRole(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestNewUser(t *testing.T) {
	u := NewUser("alice", RoleAdmin)
	if u.CreatedAt.IsZero() || !u.CreatedAt.Equal(u.UpdatedAt) {
		t.Errorf("timestamps not initialized: created=%v updated=%v", u.CreatedAt, u.UpdatedAt)
	}
	if !u.IsAdmin() {
		t.Error("IsAdmin() = false, want true")
	}
}
