package types

import (
	"encoding/json"
	"fmt"
)

// Platform identifies the social platform a profile document came from.
type Platform string

const (
	PlatformLinkedIn  Platform = "linkedin"
	PlatformInstagram Platform = "instagram"
	PlatformFacebook  Platform = "facebook"
	PlatformTwitter   Platform = "twitter"
)

// PlatformPriority is the order in which platforms are consulted for a
// profile picture. The first platform with a non-empty picture wins and the
// search stops.
var PlatformPriority = []Platform{
	PlatformLinkedIn,
	PlatformInstagram,
	PlatformFacebook,
	PlatformTwitter,
}

// LinkedInProfile is the structured payload of a LinkedIn profile document.
type LinkedInProfile struct {
	ProfileImageURL string `json:"profile_image_url,omitempty"`
	Headline        string `json:"headline,omitempty"`
	ProfileURL      string `json:"profile_url,omitempty"`
}

// InstagramProfile is the structured payload of an Instagram profile document.
type InstagramProfile struct {
	ProfilePictureURL string `json:"profile_picture_url,omitempty"`
	Username          string `json:"username,omitempty"`
}

// FacebookProfile is the structured payload of a Facebook profile document.
type FacebookProfile struct {
	ProfilePictureURL string `json:"profile_picture_url,omitempty"`
	ProfileURL        string `json:"profile_url,omitempty"`
}

// TwitterProfile is the structured payload of a Twitter profile document.
type TwitterProfile struct {
	ProfileImageURL string `json:"profile_image_url,omitempty"`
	Handle          string `json:"handle,omitempty"`
}

// ProfileDocument is a closed tagged union over the per-platform profile
// payloads. Exactly one payload field is set, matching Platform. Adding a
// platform means adding a payload type plus cases in decode and in
// PictureURL, and the compiler flags any switch left incomplete.
type ProfileDocument struct {
	Platform  Platform
	LinkedIn  *LinkedInProfile
	Instagram *InstagramProfile
	Facebook  *FacebookProfile
	Twitter   *TwitterProfile
}

// DecodeProfileDocument parses raw structured-data JSON for the given
// platform into the matching typed payload.
func DecodeProfileDocument(platform Platform, raw []byte) (ProfileDocument, error) {
	doc := ProfileDocument{Platform: platform}

	// Documents store the payload under a top-level "profile" key.
	var envelope struct {
		Profile json.RawMessage `json:"profile"`
	}
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return doc, fmt.Errorf("profile document: %w", err)
	}
	if len(envelope.Profile) == 0 {
		return doc, fmt.Errorf("profile document: missing profile payload")
	}

	var err error
	switch platform {
	case PlatformLinkedIn:
		doc.LinkedIn = &LinkedInProfile{}
		err = json.Unmarshal(envelope.Profile, doc.LinkedIn)
	case PlatformInstagram:
		doc.Instagram = &InstagramProfile{}
		err = json.Unmarshal(envelope.Profile, doc.Instagram)
	case PlatformFacebook:
		doc.Facebook = &FacebookProfile{}
		err = json.Unmarshal(envelope.Profile, doc.Facebook)
	case PlatformTwitter:
		doc.Twitter = &TwitterProfile{}
		err = json.Unmarshal(envelope.Profile, doc.Twitter)
	default:
		return doc, fmt.Errorf("profile document: unknown platform %q", platform)
	}
	if err != nil {
		return doc, fmt.Errorf("profile document (%s): %w", platform, err)
	}
	return doc, nil
}

// PictureURL returns the profile picture URL for the document's platform,
// or "" when the payload has none.
func (d ProfileDocument) PictureURL() string {
	switch d.Platform {
	case PlatformLinkedIn:
		if d.LinkedIn != nil {
			return d.LinkedIn.ProfileImageURL
		}
	case PlatformInstagram:
		if d.Instagram != nil {
			return d.Instagram.ProfilePictureURL
		}
	case PlatformFacebook:
		if d.Facebook != nil {
			return d.Facebook.ProfilePictureURL
		}
	case PlatformTwitter:
		if d.Twitter != nil {
			return d.Twitter.ProfileImageURL
		}
	}
	return ""
}
