package models

type Niche struct {
	ID             string             `db:"id" json:"id"`
	Name           string             `db:"name" json:"name"`
	TargetAudience string             `db:"target_audience" json:"target_audience"`
	Tone           string             `db:"tone" json:"tone"`
	Frequency      string             `db:"frequency" json:"frequency"` // daily, weekly, custom
	Connections    []SocialConnection `db:"connections" json:"connections"`
}

// SocialConnection links the niche to one platform account. Verified
// connections carry an encrypted credential bundle, self-declared ones
// only a handle.
type SocialConnection struct {
	Platform    string `db:"platform" json:"platform"`
	Handle      string `db:"handle" json:"handle"`
	IsConnected bool   `db:"is_connected" json:"is_connected"`
	IsVerified  bool   `db:"is_verified" json:"is_verified,omitempty"`
	Username    string `db:"username" json:"username,omitempty"`
	Credentials string `db:"credentials" json:"credentials,omitempty"` // AES-GCM sealed JSON
}

const (
	PlatformX         = "x"
	PlatformInstagram = "instagram"
	PlatformLinkedIn  = "linkedin"
	PlatformTiktok    = "tiktok"
)

const (
	FrequencyDaily  = "daily"
	FrequencyWeekly = "weekly"
	FrequencyCustom = "custom"
)
