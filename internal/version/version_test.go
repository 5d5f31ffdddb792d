package version

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestString(t *testing.T) {
	orig := [3]string{Version, Commit, Date}
	t.Cleanup(func() { Version, Commit, Date = orig[0], orig[1], orig[2] })

	Version, Commit, Date = "1.2.3", "abc123", "2026-01-02"
	assert.Equal(t, "rtx version 1.2.3 (commit: abc123, built: 2026-01-02)", String())
}
