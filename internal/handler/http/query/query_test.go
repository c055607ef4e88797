package query

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLimit(t *testing.T) {
	tests := []struct {
		raw     string
		want    int
		wantErr bool
	}{
		{"", 0, false},
		{"5", 5, false},
		{" 100 ", 100, false},
		{"0", 0, true},
		{"101", 0, true},
		{"-1", 0, true},
		{"ten", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, err := Limit(url.Values{"limit": {tt.raw}}, "limit")
			if tt.wantErr {
				assert.ErrorContains(t, err, "limit must be")
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestOffset(t *testing.T) {
	got, err := Offset(url.Values{"skip": {"0"}}, "skip")
	assert.NoError(t, err)
	assert.Zero(t, got)
	_, err = Offset(url.Values{"skip": {"-3"}}, "skip")
	assert.Error(t, err)
}

func TestBool(t *testing.T) {
	b, err := Bool(url.Values{}, "featured")
	assert.NoError(t, err)
	assert.False(t, b)

	b, err = Bool(url.Values{"featured": {"true"}}, "featured")
	assert.NoError(t, err)
	assert.True(t, b)

	_, err = Bool(url.Values{"featured": {"yes"}}, "featured")
	assert.ErrorContains(t, err, "featured must be true or false")
}

func TestText(t *testing.T) {
	s, err := Text(url.Values{"tag": {"  bridal "}}, "tag", 10)
	assert.NoError(t, err)
	assert.Equal(t, "bridal", s)

	_, err = Text(url.Values{"tag": {"abcdefghijk"}}, "tag", 10)
	assert.ErrorContains(t, err, "too long")
}

func TestSlug(t *testing.T) {
	for _, ok := range []string{"bridal-makeup-timeline", "a", "look-2"} {
		assert.True(t, Slug(ok), ok)
	}
	for _, bad := range []string{"", "-a", "a-", "Upper", "with space", "../etc", "ü"} {
		assert.False(t, Slug(bad), bad)
	}
}
