package ownership

import (
	"testing"

	"raceday/apperr"
)

func TestAssert(t *testing.T) {
	tests := []struct {
		name    string
		owner   string
		actor   string
		wantErr bool
	}{
		{"matching ids", "profile-1", "profile-1", false},
		{"mismatched ids", "profile-1", "profile-2", true},
		{"empty actor", "profile-1", "", true},
		{"matching usernames", "alice", "alice", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Assert(tt.owner, tt.actor)
			if tt.wantErr {
				if apperr.KindOf(err) != apperr.Forbidden {
					t.Errorf("Assert() = %v, want Forbidden", err)
				}
				return
			}
			if err != nil {
				t.Errorf("Assert() = %v, want nil", err)
			}
		})
	}
}
