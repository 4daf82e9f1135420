// Package render substitutes {{token}} placeholders in contract template
// bodies. A token without a supplied value fails the render: missing contract
// data must surface as an error, never as a silently emptied placeholder.
package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/valyala/fasttemplate"
)

const (
	startTag = "{{"
	endTag   = "}}"
)

// Execute renders body, replacing every {{token}} with values[token].
// It returns an error naming the first token that has no supplied value.
func Execute(body string, values map[string]string) (string, error) {
	tpl, err := fasttemplate.NewTemplate(body, startTag, endTag)
	if err != nil {
		return "", fmt.Errorf("malformed template: %w", err)
	}

	out, err := tpl.ExecuteFuncStringWithErr(func(w io.Writer, tag string) (int, error) {
		v, ok := values[strings.TrimSpace(tag)]
		if !ok {
			return 0, fmt.Errorf("no value supplied for placeholder %q", strings.TrimSpace(tag))
		}
		return w.Write([]byte(v))
	})
	if err != nil {
		return "", err
	}
	return out, nil
}

// Tokens lists the distinct placeholder names in body, in first-seen order.
func Tokens(body string) ([]string, error) {
	tpl, err := fasttemplate.NewTemplate(body, startTag, endTag)
	if err != nil {
		return nil, fmt.Errorf("malformed template: %w", err)
	}

	var tokens []string
	seen := make(map[string]bool)
	_, err = tpl.ExecuteFuncStringWithErr(func(w io.Writer, tag string) (int, error) {
		tag = strings.TrimSpace(tag)
		if !seen[tag] {
			seen[tag] = true
			tokens = append(tokens, tag)
		}
		return 0, nil
	})
	if err != nil {
		return nil, err
	}
	return tokens, nil
}
