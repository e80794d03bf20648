package utils

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

var ErrInvalidPathSegment = errors.New("invalid path segment")

// BuildImageURL returns <base>/assets/img/<course>/w<week>a<week>q<question>.png.
// Course and week are escaped as single path segments, so ordinary values such as
// "noc24_cs115" and "3" come through unchanged.
func BuildImageURL(baseURL, courseCode, weekNumber string, question int) (string, error) {
	course, err := pathSegment("course code", courseCode)
	if err != nil {
		return "", err
	}
	week, err := pathSegment("week number", weekNumber)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s/assets/img/%s/w%sa%sq%d.png",
		strings.TrimRight(baseURL, "/"), course, week, week, question), nil
}

func pathSegment(name, value string) (string, error) {
	switch value {
	case "":
		return "", fmt.Errorf("%w: %s is empty", ErrInvalidPathSegment, name)
	case ".", "..":
		return "", fmt.Errorf("%w: %s %q", ErrInvalidPathSegment, name, value)
	}
	return url.PathEscape(value), nil
}
