package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type cueInput struct {
	VideoIDs []string `json:"video_ids" validate:"required,min=1,dive,required"`
	Name     string   `json:"name" validate:"max=8"`
}

func TestValidate(t *testing.T) {
	v := NewValidator()

	errs, ok := v.Validate(cueInput{VideoIDs: []string{"a"}, Name: "short"})
	assert.True(t, ok)
	assert.Empty(t, errs)

	errs, ok = v.Validate(cueInput{Name: "much-too-long"})
	assert.False(t, ok)
	if assert.Len(t, errs, 2) {
		assert.Equal(t, "video_ids", errs[0].Field)
		assert.Equal(t, "REQUIRED", errs[0].Code)
		assert.Equal(t, "name", errs[1].Field)
		assert.Equal(t, "MAX", errs[1].Code)
	}
}

func TestErr(t *testing.T) {
	v := NewValidator()

	assert.NoError(t, v.Err(cueInput{VideoIDs: []string{"a"}}))
	assert.EqualError(t, v.Err(cueInput{VideoIDs: []string{"a"}, Name: "much-too-long"}), "name must not exceed 8")
}
