package redis

import (
	"errors"
	"fmt"
	"strings"

	backend "github.com/redis/go-redis/v9"
)

// ErrInvalidURL is returned when a connection URL cannot be parsed.
var ErrInvalidURL = errors.New("invalid redis url")

// ParseURL turns a connection string into client options.
// A bare "host:port" is accepted as shorthand for "redis://host:port/0".
func ParseURL(url string) (*backend.Options, error) {
	url = strings.TrimSpace(url)
	if url == "" {
		return nil, fmt.Errorf("%w: empty", ErrInvalidURL)
	}
	if !strings.Contains(url, "://") {
		url = "redis://" + url
	}
	opts, err := backend.ParseURL(url)
	if err != nil {
		return nil, errors.Join(ErrInvalidURL, err)
	}
	return opts, nil
}
