// Copyright © 2024 Deep Origin

package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestJoinKey(t *testing.T) {
	assert.Equal(t, "a.csv", JoinKey("", "a.csv"))
	assert.Equal(t, "exports/a.csv", JoinKey("exports", "a.csv"))
	assert.Equal(t, "exports/2024/a.csv", JoinKey("/exports/2024/", "/a.csv"))
}

func TestTrimKey(t *testing.T) {
	assert.Equal(t, "a.csv", TrimKey("", "a.csv"))
	assert.Equal(t, "a.csv", TrimKey("exports/", "exports/a.csv"))
	assert.Equal(t, "2024/a.csv", TrimKey("exports", "exports/2024/a.csv"))
}
