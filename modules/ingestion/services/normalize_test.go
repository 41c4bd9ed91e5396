package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize_BlankInputIsAbsent(t *testing.T) {
	t.Parallel()
	for _, raw := range []string{"", " ", "\t", "  \n "} {
		assert.False(t, Normalize(raw).IsPresent(), "raw=%q", raw)
	}
}

func TestNormalize_TrimsAndUnquotes(t *testing.T) {
	t.Parallel()
	tests := []struct {
		raw  string
		want string
	}{
		{"plain", "plain"},
		{"  padded  ", "padded"},
		{`"quoted"`, "quoted"},
		{`"quoted ""value"""`, `quoted "value"`},
		{`" padded quoted "`, "padded quoted"},
		{`""`, ""},
		{`say ""hi""`, `say "hi"`},
	}
	for _, tt := range tests {
		got := Normalize(tt.raw)
		if tt.want == "" {
			assert.False(t, got.IsPresent(), "raw=%q", tt.raw)
			continue
		}
		require.True(t, got.IsPresent(), "raw=%q", tt.raw)
		assert.Equal(t, tt.want, got.String(), "raw=%q", tt.raw)
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	t.Parallel()
	for _, raw := range []string{"plain", `"quoted ""value"""`, "  padded  "} {
		once := Normalize(raw)
		require.True(t, once.IsPresent())
		twice := Normalize(once.String())
		require.True(t, twice.IsPresent())
		assert.Equal(t, once.String(), twice.String(), "raw=%q", raw)
	}
}

func TestNormalizeRecord_DropsBlankFields(t *testing.T) {
	t.Parallel()
	rec := NormalizeRecord(RawRecord{
		"incident_id": " INC001 ",
		"assignee":    "",
		"priority":    "   ",
	})
	assert.True(t, rec.Get("incident_id").IsPresent())
	assert.Equal(t, "INC001", rec.Get("incident_id").String())
	assert.False(t, rec.Get("assignee").IsPresent())
	assert.False(t, rec.Get("priority").IsPresent())
	assert.False(t, rec.Get("never_sent").IsPresent())
}
