// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package ai

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ErrNoJSON is returned by DecodeJSON when the answer holds no JSON object.
var ErrNoJSON = errors.New("ai: response contains no JSON object")

// DecodeJSON parses a model answer into v. Models sometimes wrap JSON in
// markdown fences or add a sentence around it even in JSON mode, so the
// outermost {...} span is extracted before unmarshalling.
func DecodeJSON(text string, v any) error {
	s := strings.TrimSpace(text)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")

	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start < 0 || end < start {
		return ErrNoJSON
	}

	if err := json.Unmarshal([]byte(s[start:end+1]), v); err != nil {
		return fmt.Errorf("ai: decode response: %w", err)
	}
	return nil
}
