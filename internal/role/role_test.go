package role

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRankOrdering(t *testing.T) {
	assert.Greater(t, Rank(Owner), Rank(Admin))
	assert.Greater(t, Rank(Admin), Rank(Member))
	assert.Greater(t, Rank(Member), Rank(Viewer))
	assert.Equal(t, 0, Rank(Role("superuser")))
}

func TestAtLeastIsMonotonic(t *testing.T) {
	all := All()
	for i, actual := range all {
		for j, required := range all {
			// All() is ordered highest first, so actual >= required iff i <= j.
			assert.Equal(t, i <= j, AtLeast(actual, required),
				"AtLeast(%s, %s)", actual, required)
		}
	}
}

func TestAtLeastRejectsUnknownRoles(t *testing.T) {
	assert.False(t, AtLeast(Role(""), Viewer))
	assert.False(t, AtLeast(Role("root"), Viewer))
	assert.False(t, AtLeast(Owner, Role("root")))
	assert.False(t, AtLeast(Role("root"), Role("root")))
}

func TestParse(t *testing.T) {
	r, err := Parse("admin")
	assert.NoError(t, err)
	assert.Equal(t, Admin, r)

	_, err = Parse("ADMIN")
	assert.ErrorIs(t, err, ErrInvalidRole)

	_, err = Parse("")
	assert.ErrorIs(t, err, ErrInvalidRole)
}
