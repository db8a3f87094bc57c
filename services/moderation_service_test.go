package services

import (
	"testing"
	"woodzire_server/structs/tables"

	"github.com/stretchr/testify/assert"
)

func TestAverageRating(t *testing.T) {
	reviews := func(ratings ...int) []tables.Review {
		out := make([]tables.Review, len(ratings))
		for i, r := range ratings {
			out[i].Rating = r
		}
		return out
	}

	assert.Equal(t, 0.0, averageRating(nil))
	assert.Equal(t, 5.0, averageRating(reviews(5)))
	assert.Equal(t, 4.3, averageRating(reviews(5, 4, 4)))
	assert.Equal(t, 3.5, averageRating(reviews(3, 4)))
}

func TestInquiryAlert(t *testing.T) {
	msg := inquiryAlert(&tables.Inquiry{Name: "Ravi", Email: "ravi@example.com", Message: "Custom dining table?"})
	assert.Contains(t, msg, "Ravi <ravi@example.com>")
	assert.Contains(t, msg, "(no subject)")
	assert.Contains(t, msg, "Custom dining table?")
}
