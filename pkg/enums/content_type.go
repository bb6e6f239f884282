package enums

import "fmt"

type ContentType string

const (
	ContentTypePost              ContentType = "post"
	ContentTypeEventAnnouncement ContentType = "event_announcement"
	ContentTypeOffer             ContentType = "offer"
	ContentTypeNews              ContentType = "news"
)

var validContentTypes = []ContentType{
	ContentTypePost,
	ContentTypeEventAnnouncement,
	ContentTypeOffer,
	ContentTypeNews,
}

// String implements fmt.Stringer.
func (c ContentType) String() string {
	return string(c)
}

// IsValid reports whether the value is a known ContentType.
func (c ContentType) IsValid() bool {
	for _, candidate := range validContentTypes {
		if candidate == c {
			return true
		}
	}
	return false
}

// ParseContentType converts raw input into a ContentType.
func ParseContentType(value string) (ContentType, error) {
	for _, candidate := range validContentTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid content type %q", value)
}
