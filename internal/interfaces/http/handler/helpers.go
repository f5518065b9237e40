package handler

import (
	"errors"
	"strconv"
)

// parsePositiveInt parses a positive integer query parameter
func parsePositiveInt(s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, err
	}
	if n <= 0 {
		return 0, errors.New("value must be positive")
	}
	return n, nil
}
