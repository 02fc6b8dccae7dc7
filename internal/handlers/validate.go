// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"strings"
	"unicode/utf8"

	"storesmith/internal/catalog"
)

// Validation limits for request fields.
const (
	maxInstructionsLen = 1_000
	maxContextLen      = 1_000
	maxContentFields   = 50
	maxEmailLen        = 254
	maxDisplayNameLen  = 100
)

// validateInstructions checks the optional regeneration instructions.
func validateInstructions(instructions string) string {
	if utf8.RuneCountInString(instructions) > maxInstructionsLen {
		return "Instructions are too long (max 1,000 characters)."
	}
	return ""
}

// validateRerank checks a rerank request.
func validateRerank(sectionType, extra string) string {
	if !catalog.SectionType(sectionType).Valid() {
		return "Unknown section type."
	}
	if utf8.RuneCountInString(extra) > maxContextLen {
		return "Context is too long (max 1,000 characters)."
	}
	return ""
}

// validateSectionContent checks edited section content.
func validateSectionContent(content catalog.Content) string {
	if content == nil {
		return "Content is required."
	}
	if len(content) > maxContentFields {
		return "Content has too many fields (max 50)."
	}
	for k := range content {
		if strings.TrimSpace(k) == "" {
			return "Content field names must not be empty."
		}
	}
	return ""
}

// validateDevSession checks the development sign-in form.
func validateDevSession(email, displayName string) string {
	email = strings.TrimSpace(email)
	if email == "" || !strings.Contains(email, "@") {
		return "A valid email is required."
	}
	if utf8.RuneCountInString(email) > maxEmailLen {
		return "Email is too long (max 254 characters)."
	}
	if utf8.RuneCountInString(displayName) > maxDisplayNameLen {
		return "Display name is too long (max 100 characters)."
	}
	return ""
}
