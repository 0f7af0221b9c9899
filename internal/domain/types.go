package domain

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/lib/pq"
	"gorm.io/gorm"
	"gorm.io/gorm/schema"
)

// StringSet is an ordered list of unique, non-empty strings.
// Stored as text[] on postgres and as an array literal in text elsewhere.
type StringSet []string

func NewStringSet(values ...string) StringSet {
	seen := make(map[string]struct{}, len(values))
	out := make(StringSet, 0, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

func (s StringSet) Contains(v string) bool {
	for _, x := range s {
		if x == v {
			return true
		}
	}
	return false
}

func (s StringSet) Value() (driver.Value, error) {
	if s == nil {
		return pq.StringArray{}.Value()
	}
	return pq.StringArray(s).Value()
}

func (s *StringSet) Scan(src any) error {
	var arr pq.StringArray
	if err := arr.Scan(src); err != nil {
		return fmt.Errorf("scan string set: %w", err)
	}
	*s = StringSet(arr)
	return nil
}

func (StringSet) GormDBDataType(db *gorm.DB, _ *schema.Field) string {
	if db.Dialector.Name() == "postgres" {
		return "text[]"
	}
	return "text"
}

type ReelPlatform string

const (
	ReelPlatformInstagram ReelPlatform = "instagram"
	ReelPlatformFacebook  ReelPlatform = "facebook"
	ReelPlatformYouTube   ReelPlatform = "youtube"
)

type SocialMediaReel struct {
	ID          string       `json:"id"`
	Platform    ReelPlatform `json:"platform"`
	URL         string       `json:"url"`
	Title       string       `json:"title"`
	Description string       `json:"description,omitempty"`
}

// SocialMediaReels is stored as a JSON document.
type SocialMediaReels []SocialMediaReel

func (r SocialMediaReels) Value() (driver.Value, error) {
	if r == nil {
		r = SocialMediaReels{}
	}
	b, err := json.Marshal(r)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (r *SocialMediaReels) Scan(src any) error {
	var b []byte
	switch v := src.(type) {
	case nil:
		*r = nil
		return nil
	case []byte:
		b = v
	case string:
		b = []byte(v)
	default:
		return errors.New("scan social media reels: unsupported type")
	}
	if len(b) == 0 {
		*r = nil
		return nil
	}
	return json.Unmarshal(b, r)
}

func (SocialMediaReels) GormDBDataType(db *gorm.DB, _ *schema.Field) string {
	if db.Dialector.Name() == "postgres" {
		return "jsonb"
	}
	return "text"
}
