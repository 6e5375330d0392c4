package model

import (
	"fmt"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
)

// Limits enforced before a profile is sent to the remote service.
const (
	MaxNameLength = 100
	MaxBioLength  = 300
)

// Social platforms a profile may link to.
const (
	PlatformLinkedIn  = "linkedin"
	PlatformTwitter   = "twitter"
	PlatformInstagram = "instagram"
	PlatformWebsite   = "website"
	PlatformGitHub    = "github"
)

// Platforms lists every accepted SocialLinks key.
var Platforms = []string{PlatformLinkedIn, PlatformTwitter, PlatformInstagram, PlatformWebsite, PlatformGitHub}

// SocialLinks maps a platform name to a URI. Unset platforms are absent.
type SocialLinks map[string]string

// UserProfile is the public profile of one identity.
type UserProfile struct {
	Name        string      `json:"name"`
	Department  string      `json:"department"`
	Year        int         `json:"year"`
	Designation string      `json:"designation"`
	Bio         string      `json:"bio"`
	AvatarURL   string      `json:"avatarUrl"`
	SocialLinks SocialLinks `json:"socialLinks,omitempty"`
}

// Validate implements validation.Validatable.
func (p UserProfile) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.Name, notBlank, validation.RuneLength(1, MaxNameLength)),
		validation.Field(&p.Department, validation.RuneLength(0, MaxNameLength)),
		validation.Field(&p.Designation, validation.RuneLength(0, MaxNameLength)),
		validation.Field(&p.Year, validation.Min(0)),
		validation.Field(&p.Bio, validation.RuneLength(0, MaxBioLength)),
		validation.Field(&p.AvatarURL, is.URL),
		validation.Field(&p.SocialLinks, validation.By(knownPlatforms), validation.Each(is.URL)),
	)
}

func knownPlatforms(value interface{}) error {
	links, _ := value.(SocialLinks)
	for platform := range links {
		if err := validation.Validate(platform, validation.In(toAny(Platforms)...)); err != nil {
			return fmt.Errorf("unknown platform %q", platform)
		}
	}
	return nil
}
