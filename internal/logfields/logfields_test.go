package logfields

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAttrs(t *testing.T) {
	assert.Equal(t, KeyOwner, Owner("octocat").Key)
	assert.Equal(t, "octocat", Owner("octocat").Value.String())

	assert.Equal(t, KeyPage, Page(3).Key)
	assert.Equal(t, int64(3), Page(3).Value.Int64())

	assert.Equal(t, "boom", Error(errors.New("boom")).Value.String())
	assert.Equal(t, "", Error(nil).Value.String())
}
