// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package catalog

import (
	"encoding/json"
	"maps"
	"sort"
)

// Content is a section's field values in JSON object form. Lists are
// []any and records are map[string]any, as produced by encoding/json.
type Content = map[string]any

// Bounds on generated list content.
const (
	MinProducts = 3
	MaxProducts = 6
	MinRating   = 1
	MaxRating   = 5
)

// Product is one entry of a products field.
type Product struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Price       string `json:"price"`
	Image       string `json:"image"`
	Badge       string `json:"badge,omitempty"`
	CTA         string `json:"cta,omitempty"`
}

// Testimonial is one entry of a testimonials field. Rating is 1 to 5.
type Testimonial struct {
	Quote       string `json:"quote"`
	AuthorName  string `json:"authorName"`
	AuthorTitle string `json:"authorTitle"`
	Rating      int    `json:"rating"`
	AuthorImage string `json:"authorImage"`
}

// Link is a footer or navigation link.
type Link struct {
	Text string `json:"text"`
	URL  string `json:"url"`
}

// FooterColumn groups links under a heading.
type FooterColumn struct {
	Title string `json:"title"`
	Links []Link `json:"links"`
}

// SocialLink points to a social profile.
type SocialLink struct {
	Platform string `json:"platform"`
	URL      string `json:"url"`
	Icon     string `json:"icon"`
}

// Validation is the result of checking content against a field list.
type Validation struct {
	Valid           bool     `json:"isValid"`
	MissingFields   []string `json:"missingFields"`
	MalformedFields []string `json:"malformedFields,omitempty"`
}

// Validate checks that every field is present and non-null, and that
// present values have the JSON shape their kind requires.
func Validate(content Content, fields []string) Validation {
	v := Validation{MissingFields: []string{}}
	for _, name := range fields {
		val, ok := content[name]
		if !ok || val == nil {
			v.MissingFields = append(v.MissingFields, name)
			continue
		}
		if !wellFormed(KindOf(name), val) {
			v.MalformedFields = append(v.MalformedFields, name)
		}
	}
	v.Valid = len(v.MissingFields) == 0 && len(v.MalformedFields) == 0
	return v
}

// MergeContent returns ai overridden key by key with custom. Neither
// input is modified.
func MergeContent(ai, custom Content) Content {
	out := make(Content, len(ai)+len(custom))
	maps.Copy(out, ai)
	maps.Copy(out, custom)
	return out
}

// Keys returns the content's field names sorted.
func Keys(c Content) []string {
	keys := make([]string, 0, len(c))
	for k := range c {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func wellFormed(kind FieldKind, v any) bool {
	switch kind {
	case KindText, KindImage:
		_, ok := v.(string)
		return ok
	case KindBenefits:
		items, ok := v.([]any)
		if !ok || len(items) == 0 {
			return false
		}
		for _, it := range items {
			if _, ok := it.(string); !ok {
				return false
			}
		}
		return true
	case KindProducts:
		if n := listLen(v); n < MinProducts || n > MaxProducts {
			return false
		}
		return eachRecord(v, func(m map[string]any) bool {
			return hasString(m, "name") && (hasString(m, "price") || isNumber(m["price"]))
		})
	case KindTestimonials:
		return eachRecord(v, func(m map[string]any) bool {
			return hasString(m, "quote", "authorName") && validRating(m["rating"])
		})
	case KindLinks:
		return eachRecord(v, func(m map[string]any) bool {
			return hasString(m, "text", "url")
		})
	case KindSocialLinks:
		return eachRecord(v, func(m map[string]any) bool {
			return hasString(m, "platform", "url")
		})
	case KindColumns:
		return eachRecord(v, func(m map[string]any) bool {
			if !hasString(m, "title") {
				return false
			}
			return eachRecord(m["links"], func(l map[string]any) bool {
				return hasString(l, "text", "url")
			})
		})
	}
	return true
}

func listLen(v any) int {
	items, _ := v.([]any)
	return len(items)
}

// validRating accepts a missing rating or a whole number from 1 to 5.
func validRating(v any) bool {
	if v == nil {
		return true
	}
	var r float64
	switch n := v.(type) {
	case float64:
		r = n
	case int:
		r = float64(n)
	case json.Number:
		f, err := n.Float64()
		if err != nil {
			return false
		}
		r = f
	default:
		return false
	}
	return r >= MinRating && r <= MaxRating && r == float64(int(r))
}

// eachRecord reports whether v is a non-empty list of objects that all
// satisfy ok.
func eachRecord(v any, ok func(map[string]any) bool) bool {
	items, isList := v.([]any)
	if !isList || len(items) == 0 {
		return false
	}
	for _, it := range items {
		m, isObj := it.(map[string]any)
		if !isObj || !ok(m) {
			return false
		}
	}
	return true
}

func hasString(m map[string]any, keys ...string) bool {
	for _, k := range keys {
		if _, ok := m[k].(string); !ok {
			return false
		}
	}
	return true
}

func isNumber(v any) bool {
	switch v.(type) {
	case float64, json.Number, int:
		return true
	}
	return false
}

// normalize converts typed values into their encoding/json generic form so
// fallback content compares equal to content read back from storage.
func normalize(v any) any {
	b, err := json.Marshal(v)
	if err != nil {
		panic("catalog: normalize: " + err.Error())
	}
	var out any
	if err := json.Unmarshal(b, &out); err != nil {
		panic("catalog: normalize: " + err.Error())
	}
	return out
}
