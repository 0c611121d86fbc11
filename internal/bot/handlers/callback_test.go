package handlers

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseCallback(t *testing.T) {
	cases := []struct {
		data   string
		action string
		parts  []string
	}{
		{"\fpreset_apply:custom-1", "preset_apply", []string{"preset_apply", "custom-1"}},
		{"\fcampaign:42|", "campaign", []string{"campaign", "42"}},
		{"metrics_refresh", "metrics_refresh", []string{"metrics_refresh"}},
		{"", "", []string{""}},
	}

	for _, tc := range cases {
		action, parts := parseCallback(tc.data)
		assert.Equal(t, tc.action, action, tc.data)
		assert.Equal(t, tc.parts, parts, tc.data)
	}
}

func TestSamePtr(t *testing.T) {
	name := "ivan"
	assert.True(t, samePtr(nil, ""))
	assert.True(t, samePtr(&name, "ivan"))
	assert.False(t, samePtr(nil, "ivan"))
	assert.False(t, samePtr(&name, ""))
}
