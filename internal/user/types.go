package user

import (
	"encoding/json"
	"errors"
)

// User is a player profile.
type User struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	// Rating counts how often the user was rated with each number of stars.
	Rating Rating `json:"rating,omitempty"`
}

// MarshalJSON adds the average stars next to the histogram.
func (u User) MarshalJSON() ([]byte, error) {
	type plain User
	return json.Marshal(struct {
		plain
		Average float64 `json:"average"`
	}{plain(u), u.Rating.Average()})
}

// Rating is a histogram of received stars, keyed 1 through 5.
type Rating map[int]int

// NewRating returns a histogram with every bucket present and zero.
func NewRating() Rating {
	return Rating{1: 0, 2: 0, 3: 0, 4: 0, 5: 0}
}

// Total returns the number of ratings received.
func (r Rating) Total() int {
	n := 0
	for _, c := range r {
		n += c
	}
	return n
}

// Average returns the mean number of stars, or 0 without ratings.
func (r Rating) Average() float64 {
	total, sum := 0, 0
	for stars, c := range r {
		total += c
		sum += stars * c
	}
	if total == 0 {
		return 0
	}
	return float64(sum) / float64(total)
}

// ErrNotFound is returned when no user has the requested ID.
var ErrNotFound = errors.New("user not found")
