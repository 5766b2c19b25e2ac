package version

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestString(t *testing.T) {
	defer func(v, c, b string) { Version, GitCommit, BuildTime = v, c, b }(Version, GitCommit, BuildTime)

	Version, GitCommit, BuildTime = "1.2.3", "abc123", "2024-01-02T03:04:05Z"
	assert.Equal(t, "palette-finder v1.2.3 (commit abc123, built 2024-01-02T03:04:05Z)", String())
}
