package helpers

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestSlugify(t *testing.T) {
	cases := map[string]string{
		"Sunday Runners":        "sunday-runners",
		"  Café & Croissants! ": "cafe-croissants",
		"Málaga   Yoga 2025":    "malaga-yoga-2025",
		"---":                   "",
		"Niñas del Retiro":      "ninas-del-retiro",
	}
	for in, want := range cases {
		require.Equal(t, want, Slugify(in), in)
	}
}

func TestUTCDateKey(t *testing.T) {
	loc := time.FixedZone("EST", -5*60*60)
	ts := time.Date(2025, 1, 1, 23, 30, 0, 0, loc)
	require.Equal(t, "2025-01-02", UTCDateKey(ts))
}

func TestUniqueIDs(t *testing.T) {
	a, b := uuid.New(), uuid.New()
	require.Equal(t, []uuid.UUID{a, b}, UniqueIDs([]uuid.UUID{a, uuid.Nil, b, a}))
	require.Empty(t, UniqueIDs(nil))
}

func TestNullIfBlank(t *testing.T) {
	blank := "   "
	value := " hi "
	require.Nil(t, NullIfBlank(nil))
	require.Nil(t, NullIfBlank(&blank))
	require.Equal(t, "hi", *NullIfBlank(&value))
}

func TestCalculateOffsetLimit(t *testing.T) {
	offset, limit := CalculateOffsetLimit(3, 10)
	require.Equal(t, uint64(20), offset)
	require.Equal(t, 10, limit)

	offset, limit = CalculateOffsetLimit(0, 1000)
	require.Equal(t, uint64(0), offset)
	require.Equal(t, DefaultPageSize, limit)
}

func cursorContext(query string) *gin.Context {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("GET", "/feed?"+query, nil)
	return c
}

func TestParseCursorParams(t *testing.T) {
	id := uuid.New()
	before, beforeID, limit := ParseCursorParams(cursorContext("before=2025-03-01T10:00:00Z&beforeId=" + id.String() + "&limit=5"))
	require.NotNil(t, before)
	require.True(t, before.Equal(time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)))
	require.NotNil(t, beforeID)
	require.Equal(t, id, *beforeID)
	require.Equal(t, 5, limit)

	before, beforeID, limit = ParseCursorParams(cursorContext("beforeId=" + id.String() + "&limit=500"))
	require.Nil(t, before)
	require.Nil(t, beforeID)
	require.Equal(t, DefaultPageSize, limit)
}
