package vault

import (
	"encoding/json"
	"fmt"
	"time"
)

// Record is the full credential entity. It exists in clear form only
// between serialisation and encryption, or between decryption and Get
// returning.
type Record struct {
	Platform  string
	Username  string
	Secret    []byte
	Owner     string
	CreatedAt time.Time
}

// naiveTimeLayout matches zone-less ISO-8601 timestamps written by older
// tooling.
const naiveTimeLayout = "2006-01-02T15:04:05.999999999"

type recordOut struct {
	Platform string `json:"platform"`
	Username string `json:"username"`
	Password string `json:"password"`
	Owner    string `json:"owner"`
	AddedAt  string `json:"added_at"`
}

// recordIn uses pointers so that missing fields can be told apart from
// empty ones.
type recordIn struct {
	Platform *string `json:"platform"`
	Username *string `json:"username"`
	Password *string `json:"password"`
	Owner    *string `json:"owner"`
	AddedAt  *string `json:"added_at"`
}

// MarshalRecord encodes r as a JSON object with the fields platform,
// username, password, owner and added_at.
func MarshalRecord(r Record) ([]byte, error) {
	b, err := json.Marshal(recordOut{
		Platform: r.Platform,
		Username: r.Username,
		Password: string(r.Secret),
		Owner:    r.Owner,
		AddedAt:  r.CreatedAt.UTC().Format(time.RFC3339Nano),
	})
	if err != nil {
		return nil, fmt.Errorf("marshal record: %w", err)
	}
	return b, nil
}

// UnmarshalRecord decodes b and checks that it belongs to the canonical
// platform and owner that were used to locate it. Any mismatch, missing
// field or parse failure yields ErrMalformedRecord.
func UnmarshalRecord(b []byte, platform, owner string) (Record, error) {
	var in recordIn
	if err := json.Unmarshal(b, &in); err != nil {
		return Record{}, fmt.Errorf("%w: %v", ErrMalformedRecord, err)
	}
	if in.Platform == nil || in.Username == nil || in.Password == nil || in.Owner == nil || in.AddedAt == nil {
		return Record{}, fmt.Errorf("%w: missing field", ErrMalformedRecord)
	}

	createdAt, err := parseAddedAt(*in.AddedAt)
	if err != nil {
		return Record{}, fmt.Errorf("%w: %v", ErrMalformedRecord, err)
	}

	recovered, err := CanonicalPlatform(*in.Platform)
	if err != nil || recovered != platform {
		return Record{}, fmt.Errorf("%w: platform mismatch", ErrMalformedRecord)
	}
	if *in.Owner != owner {
		return Record{}, fmt.Errorf("%w: owner mismatch", ErrMalformedRecord)
	}

	return Record{
		Platform:  *in.Platform,
		Username:  *in.Username,
		Secret:    []byte(*in.Password),
		Owner:     *in.Owner,
		CreatedAt: createdAt,
	}, nil
}

func parseAddedAt(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t, nil
	}
	t, err := time.ParseInLocation(naiveTimeLayout, s, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("added_at %q: %w", s, err)
	}
	return t, nil
}
