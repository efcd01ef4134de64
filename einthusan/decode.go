package einthusan

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
)

// ejLinks is the decoded payload of the EJLinks field.
type ejLinks struct {
	MP4Link string `json:"MP4Link"`
	HLSLink string `json:"HLSLink"`
}

// decodeEJLinks reverses the site's link obfuscation. The encoded value
// is base64 with two junk characters spliced in at positions 10 and 11
// and the character they displaced moved to the end: the true base64
// string is e[:10] + e[len-1] + e[12:len-1].
func decodeEJLinks(encoded string) (*ejLinks, error) {
	if len(encoded) < 13 {
		return nil, fmt.Errorf("encoded links too short: %d bytes", len(encoded))
	}

	n := len(encoded)
	shuffled := encoded[:10] + encoded[n-1:] + encoded[12:n-1]

	raw, err := base64.StdEncoding.DecodeString(shuffled)
	if err != nil {
		return nil, fmt.Errorf("invalid base64 payload: %w", err)
	}

	var links ejLinks
	if err := json.Unmarshal(raw, &links); err != nil {
		return nil, fmt.Errorf("invalid link payload: %w", err)
	}

	return &links, nil
}
