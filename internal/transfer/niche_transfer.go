package transfer

type NicheSetup struct {
	Name           string `json:"name"`
	TargetAudience string `json:"target_audience"`
	Tone           string `json:"tone"`
	Frequency      string `json:"frequency"`
}

// XCredentials is the static credential bundle required to verify and
// publish through the X API.
type XCredentials struct {
	ConsumerKey    string `json:"consumer_key"`
	ConsumerSecret string `json:"consumer_secret"`
	BearerToken    string `json:"bearer_token"`
}

type ConnectRequest struct {
	Platform    string        `json:"platform"`
	Handle      string        `json:"handle"`
	Credentials *XCredentials `json:"credentials,omitempty"`
}

type DisconnectRequest struct {
	Platform string `json:"platform"`
	Confirm  bool   `json:"confirm"`
}
