package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeAttendanceStatus(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
		ok    bool
	}{
		{"present", "present", AttendanceStatusPresent, true},
		{"absent", "absent", AttendanceStatusAbsent, true},
		{"unmarked", "unmarked", AttendanceStatusUnmarked, true},
		{"legacy spelling", "hasnt checked in", AttendanceStatusUnmarked, true},
		{"legacy spelling with apostrophe", "hasn't checked in", AttendanceStatusUnmarked, true},
		{"mixed case and whitespace", "  Present ", AttendanceStatusPresent, true},
		{"unknown", "late", "", false},
		{"empty", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := NormalizeAttendanceStatus(tt.input)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}
