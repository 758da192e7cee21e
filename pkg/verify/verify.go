// Package verify turns a verification response into banner board writes.
//
// Render applies four independent steps in a fixed order, each one writing to
// the same single-slot board: content fragment, verified flag, extracted
// fields, mismatched fields. A later step overwrites the banner of an earlier
// one, so with all signals present only the mismatch warning stays visible.
package verify

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/goliatone/go-verisure/pkg/api"
	"github.com/goliatone/go-verisure/pkg/banner"
)

const (
	VerifiedMessage    = "Certificate validated successfully and matches blockchain record."
	NotVerifiedMessage = "Certificate not found on blockchain. It may be tampered or not issued."
	ExtractedHeader    = "Extracted values from uploaded certificate:"
	MismatchHeader     = "The following fields have been modified or misplaced:"
)

// Render writes resp onto board.
func Render(board *banner.Board, resp api.Response) {
	if board == nil {
		return
	}

	if resp.PDFHTML != "" {
		board.SetContent(resp.PDFHTML)
	}

	if resp.Verified != nil {
		if *resp.Verified {
			board.Show(banner.Success, VerifiedMessage)
		} else {
			board.Show(banner.Error, NotVerifiedMessage)
		}
	}

	if resp.ExtractedData.Len() > 0 {
		board.Show(banner.Info, ExtractedText(resp.ExtractedData))
	}

	if len(resp.MismatchedFields) > 0 {
		board.Show(banner.Warning, MismatchText(resp.MismatchedFields))
	}
}

// ExtractedText formats extracted fields, one "- Name: value" line each, in
// the order the server sent them.
func ExtractedText(fields api.Fields) string {
	var b strings.Builder
	b.WriteString(ExtractedHeader)
	fields.Each(func(name, value string) {
		b.WriteString("\n- ")
		b.WriteString(Capitalize(name))
		b.WriteString(": ")
		b.WriteString(value)
	})
	return b.String()
}

// MismatchText formats mismatched field names, one "- name" line each.
func MismatchText(fields []string) string {
	var b strings.Builder
	b.WriteString(MismatchHeader)
	for _, field := range fields {
		b.WriteString("\n- ")
		b.WriteString(field)
	}
	return b.String()
}

// Capitalize upper-cases the first rune and leaves the rest untouched.
func Capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError && size <= 1 {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}
