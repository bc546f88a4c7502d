package service

import (
	"encoding/json"
	"strings"
	"time"

	"cmsapi/internal/model"
)

// SEOFields carries the structured seo[...] form fields. Set is true when any of them was sent.
type SEOFields struct {
	Set             bool
	MetaTitle       string
	MetaDescription string
	Keywords        []string
}

// ParseTags normalizes the tag ids of a request. A non-nil list wins; otherwise raw is read as a
// JSON array of strings, and when it is not JSON, as a comma-separated string.
// Items are trimmed and empties dropped.
func ParseTags(list []string, raw string) []string {
	if list != nil {
		return cleanList(list)
	}
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return []string{}
	}

	var decoded any
	if err := json.Unmarshal([]byte(raw), &decoded); err == nil {
		arr, ok := decoded.([]any)
		if !ok {
			return []string{}
		}
		out := make([]string, 0, len(arr))
		for _, v := range arr {
			if s, ok := v.(string); ok {
				out = append(out, s)
			}
		}
		return cleanList(out)
	}

	return cleanList(strings.Split(raw, ","))
}

// ParseSEO prefers structured fields, then a JSON object in raw. Malformed input yields the empty SEO.
func ParseSEO(fields SEOFields, raw string) model.SEO {
	if fields.Set {
		return model.SEO{
			MetaTitle:       strings.TrimSpace(fields.MetaTitle),
			MetaDescription: strings.TrimSpace(fields.MetaDescription),
			Keywords:        cleanKeywords(fields.Keywords),
		}
	}
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return model.SEO{}
	}

	var seo model.SEO
	if err := json.Unmarshal([]byte(raw), &seo); err != nil {
		return model.SEO{}
	}
	seo.Keywords = cleanKeywords(seo.Keywords)
	return seo
}

var scheduleLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// parseTime accepts RFC 3339 and a few zone-less layouts, which are read as UTC.
func parseTime(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	for _, layout := range scheduleLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}

func cleanList(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// cleanKeywords also splits comma-joined keywords sent as a single form value.
func cleanKeywords(in []string) []string {
	var out []string
	for _, k := range in {
		out = append(out, cleanList(strings.Split(k, ","))...)
	}
	return out
}
