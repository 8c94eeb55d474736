// Package router decides whether a chat message is a weather lookup or a
// question for the assistant.
package router

import (
	"regexp"
	"strings"
)

// Kind tags the variant held by a Query.
type Kind int

const (
	KindAssistant Kind = iota
	KindWeather
)

func (k Kind) String() string {
	switch k {
	case KindWeather:
		return "weather"
	case KindAssistant:
		return "assistant"
	}
	return "unknown"
}

// Query is the routed form of one user message. Location is set only for
// KindWeather, Text only for KindAssistant.
type Query struct {
	Kind     Kind
	Location string
	Text     string
}

// HasLocation reports whether a weather query named a place.
func (q Query) HasLocation() bool {
	return q.Kind == KindWeather && q.Location != ""
}

var locationPattern = regexp.MustCompile(`(?i)weather\s+in\s+([\p{L}\p{N}]+)`)

// Classify routes input. Messages mentioning "weather" in any case become
// weather queries; the first "weather in <word>" supplies the location.
func Classify(input string) Query {
	if !strings.Contains(strings.ToLower(input), "weather") {
		return Query{Kind: KindAssistant, Text: input}
	}

	q := Query{Kind: KindWeather}
	if m := locationPattern.FindStringSubmatch(input); m != nil {
		q.Location = m[1]
	}
	return q
}
