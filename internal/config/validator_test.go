package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestValidateCronSchedule_Valid(t *testing.T) {
	tests := []struct {
		name     string
		schedule string
	}{
		{"daily briefing at 09:00", "0 9 * * *"},
		{"daily at 5:30", "30 5 * * *"},
		{"every 6 hours", "0 */6 * * *"},
		{"weekdays at 9:30", "30 9 * * 1-5"},
		{"every minute", "* * * * *"},
		{"step expression", "*/5 * * * *"},
		{"lists and ranges", "15,45 */2 * * 1,3,5"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NoError(t, ValidateCronSchedule(tt.schedule))
		})
	}
}

func TestValidateCronSchedule_Invalid(t *testing.T) {
	tests := []struct {
		name     string
		schedule string
	}{
		{"empty string", ""},
		{"too few fields", "0 9"},
		{"too many fields", "0 9 * * * * *"},
		{"minute out of range", "60 9 * * *"},
		{"hour out of range", "0 24 * * *"},
		{"weekday out of range", "0 9 * * 8"},
		{"free text", "every morning"},
		{"negative minute", "-1 9 * * *"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateCronSchedule(tt.schedule)
			assert.Error(t, err)
			assert.Contains(t, err.Error(), "invalid cron schedule")
		})
	}
}

func TestValidateTimezone(t *testing.T) {
	for _, tz := range []string{"UTC", "Asia/Shanghai", "America/New_York", "Europe/London"} {
		assert.NoError(t, ValidateTimezone(tz), tz)
	}

	for _, tz := range []string{"", "Beijing", "GMT+8:00", "Asia/NotACity"} {
		err := ValidateTimezone(tz)
		assert.Error(t, err, tz)
		assert.Contains(t, err.Error(), "invalid timezone")
	}
}

func TestValidateDuration(t *testing.T) {
	tests := []struct {
		name     string
		duration time.Duration
		min      time.Duration
		max      time.Duration
		wantErr  string
	}{
		{name: "within range", duration: 30 * time.Minute, min: time.Minute, max: 4 * time.Hour},
		{name: "at lower bound", duration: time.Minute, min: time.Minute, max: 4 * time.Hour},
		{name: "at upper bound", duration: 4 * time.Hour, min: time.Minute, max: 4 * time.Hour},
		{name: "below range", duration: time.Second, min: time.Minute, max: 4 * time.Hour, wantErr: "below minimum"},
		{name: "above range", duration: 5 * time.Hour, min: time.Minute, max: 4 * time.Hour, wantErr: "exceeds maximum"},
		{name: "inverted bounds", duration: time.Minute, min: time.Hour, max: time.Minute, wantErr: "invalid range"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateDuration(tt.duration, tt.min, tt.max)
			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				assert.ErrorContains(t, err, tt.wantErr)
			}
		})
	}
}

func TestValidateIntRange(t *testing.T) {
	tests := []struct {
		name    string
		value   int
		min     int
		max     int
		wantErr string
	}{
		{name: "within range", value: 6, min: 1, max: 100},
		{name: "at lower bound", value: 1, min: 1, max: 100},
		{name: "at upper bound", value: 100, min: 1, max: 100},
		{name: "below range", value: 0, min: 1, max: 100, wantErr: "below minimum"},
		{name: "above range", value: 101, min: 1, max: 100, wantErr: "exceeds maximum"},
		{name: "port range", value: 9090, min: 1024, max: 65535},
		{name: "inverted bounds", value: 5, min: 10, max: 1, wantErr: "invalid range"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateIntRange(tt.value, tt.min, tt.max)
			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				assert.ErrorContains(t, err, tt.wantErr)
			}
		})
	}
}

func TestValidatePositiveDuration(t *testing.T) {
	assert.NoError(t, ValidatePositiveDuration(time.Nanosecond))
	assert.NoError(t, ValidatePositiveDuration(30*time.Minute))
	assert.ErrorContains(t, ValidatePositiveDuration(0), "must be positive")
	assert.ErrorContains(t, ValidatePositiveDuration(-time.Second), "must be positive")
}
