package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeProfileDocument(t *testing.T) {
	tests := []struct {
		name     string
		platform Platform
		raw      string
		wantPic  string
	}{
		{
			name:     "linkedin",
			platform: PlatformLinkedIn,
			raw:      `{"profile":{"profile_image_url":"https://img/li.jpg","headline":"CTO"}}`,
			wantPic:  "https://img/li.jpg",
		},
		{
			name:     "instagram",
			platform: PlatformInstagram,
			raw:      `{"profile":{"profile_picture_url":"https://img/ig.jpg"}}`,
			wantPic:  "https://img/ig.jpg",
		},
		{
			name:     "facebook",
			platform: PlatformFacebook,
			raw:      `{"profile":{"profile_picture_url":"https://img/fb.jpg"}}`,
			wantPic:  "https://img/fb.jpg",
		},
		{
			name:     "twitter",
			platform: PlatformTwitter,
			raw:      `{"profile":{"profile_image_url":"https://img/tw.jpg"}}`,
			wantPic:  "https://img/tw.jpg",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := DecodeProfileDocument(tt.platform, []byte(tt.raw))
			require.NoError(t, err)
			assert.Equal(t, tt.platform, doc.Platform)
			assert.Equal(t, tt.wantPic, doc.PictureURL())
		})
	}
}

func TestDecodeProfileDocumentErrors(t *testing.T) {
	_, err := DecodeProfileDocument(PlatformLinkedIn, []byte(`{"no_profile":true}`))
	assert.Error(t, err)

	_, err = DecodeProfileDocument(Platform("myspace"), []byte(`{"profile":{}}`))
	assert.Error(t, err)

	_, err = DecodeProfileDocument(PlatformTwitter, []byte(`not json`))
	assert.Error(t, err)
}

func TestPictureURLMissingPayload(t *testing.T) {
	// A document whose payload pointer is nil must not panic.
	doc := ProfileDocument{Platform: PlatformFacebook}
	assert.Equal(t, "", doc.PictureURL())
}
