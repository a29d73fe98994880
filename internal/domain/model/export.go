package model

import (
	"encoding/json"
	"time"
)

// ExportFormatVersion is written into the header of every new export file.
// Version 1 files were encrypted with a weaker key-derivation iteration
// count; the header version tells readers which count to use.
const ExportFormatVersion = 2

// ExportHeader describes how the data payload of an export file is encoded.
// Salt and Nonce are base64 and present only when Encrypted is true.
type ExportHeader struct {
	Version    int       `json:"version"`
	Encrypted  bool      `json:"encrypted"`
	Salt       string    `json:"salt,omitempty"`
	Nonce      string    `json:"nonce,omitempty"`
	ExportedAt time.Time `json:"exportedAt"`
	AppVersion string    `json:"appVersion"`
}

// ExportFile is the portable account backup container. Data holds either a
// JSON array of ExportedAccount (plaintext) or a base64 ciphertext string of
// that same array (encrypted), as indicated by the header.
type ExportFile struct {
	Header ExportHeader    `json:"header"`
	Data   json.RawMessage `json:"data"`
}

// ExportedAccount denormalizes an account record and its credential set into
// one portable blob. Credentials are secrets: an ExportedAccount must never
// be written anywhere unencrypted except at the user's explicit request.
type ExportedAccount struct {
	ID          string       `json:"id"`
	Name        string       `json:"name"`
	Provider    ProviderType `json:"provider"`
	Credentials Credentials  `json:"credentials"`
	CreatedAt   time.Time    `json:"createdAt"`
}
