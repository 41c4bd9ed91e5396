package repo_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/deskflow-io/deskflow/pkg/repo"
)

func TestFormatLimitOffset(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "LIMIT 10 OFFSET 20", repo.FormatLimitOffset(10, 20))
	assert.Equal(t, "LIMIT 10", repo.FormatLimitOffset(10, 0))
	assert.Equal(t, "OFFSET 20", repo.FormatLimitOffset(0, 20))
	assert.Equal(t, "", repo.FormatLimitOffset(0, 0))
	assert.Equal(t, "", repo.FormatLimitOffset(-1, -5))
}
