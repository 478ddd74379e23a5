package models

import "time"

// Platform identifies one social network a mention can originate from.
type Platform string

const (
	PlatformX           Platform = "x"
	PlatformTikTok      Platform = "tiktok"
	PlatformReddit      Platform = "reddit"
	PlatformYouTube     Platform = "youtube"
	PlatformBluesky     Platform = "bluesky"
	PlatformTruthSocial Platform = "truthsocial"
	PlatformInstagram   Platform = "instagram"
	PlatformLinkedIn    Platform = "linkedin"
)

// KnownPlatforms lists every platform id the API accepts in a search request.
var KnownPlatforms = []Platform{
	PlatformX,
	PlatformTikTok,
	PlatformReddit,
	PlatformYouTube,
	PlatformBluesky,
	PlatformTruthSocial,
	PlatformInstagram,
	PlatformLinkedIn,
}

// IsKnownPlatform reports whether p is one of the accepted platform ids.
func IsKnownPlatform(p Platform) bool {
	for _, k := range KnownPlatforms {
		if p == k {
			return true
		}
	}
	return false
}

// Sentiment is the classification assigned by the AI collaborator.
type Sentiment string

const (
	SentimentPositive Sentiment = "positive"
	SentimentNeutral  Sentiment = "neutral"
	SentimentNegative Sentiment = "negative"
)

// Engagement holds the per-platform interaction counters of a post.
// Views is a pointer because several platforms do not expose it at all.
type Engagement struct {
	Likes    int  `json:"likes"`
	Comments int  `json:"comments"`
	Shares   int  `json:"shares"`
	Views    *int `json:"views,omitempty"`
}

// Total returns likes+comments+shares. Views is excluded on purpose:
// view counts differ by orders of magnitude between platforms and would
// dominate any cross-platform comparison.
func (e Engagement) Total() int {
	return e.Likes + e.Comments + e.Shares
}

// AuthorMetadata carries the author signals used by credibility scoring.
type AuthorMetadata struct {
	Followers int  `json:"followers,omitempty"`
	Verified  bool `json:"verified,omitempty"`
	Official  bool `json:"official,omitempty"`
}

// Post is the platform-neutral mention shape every source adapter maps into.
//
// ID is unique only within its platform namespace. Dedup across providers
// therefore always keys on (Platform, ID), never on ID alone.
// Sentiment and CredibilityScore are filled after aggregation by the
// sentiment collaborator and the scoring pass; adapters leave them empty.
type Post struct {
	ID               string          `json:"id"`
	Text             string          `json:"text"`
	Author           string          `json:"author"`
	AuthorHandle     string          `json:"authorHandle"`
	AuthorAvatar     string          `json:"authorAvatar,omitempty"`
	AuthorMetadata   *AuthorMetadata `json:"authorMetadata,omitempty"`
	Platform         Platform        `json:"platform"`
	CreatedAt        time.Time       `json:"createdAt"`
	Engagement       Engagement      `json:"engagement"`
	URL              string          `json:"url"`
	Thumbnail        string          `json:"thumbnail,omitempty"`
	Sentiment        Sentiment       `json:"sentiment,omitempty"`
	CredibilityScore *float64        `json:"credibilityScore,omitempty"`
}

// Key returns the composite identity used for cross-provider dedup.
func (p Post) Key() string {
	return string(p.Platform) + ":" + p.ID
}
