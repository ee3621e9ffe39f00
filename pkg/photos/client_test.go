package photos

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Lazizkhan1/Easify/pkg/config"
)

func TestNewRequiresBucket(t *testing.T) {
	_, err := New(config.PhotosConfig{Endpoint: "localhost:9000"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bucket")
}

func TestNewClampsQuality(t *testing.T) {
	cases := []struct {
		name    string
		quality int
		want    int
	}{
		{"zero falls back to default", 0, 85},
		{"over 100 falls back to default", 150, 85},
		{"valid kept as is", 70, 70},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c, err := New(config.PhotosConfig{
				Endpoint: "localhost:9000",
				Bucket:   "photos",
				Quality:  tc.quality,
			})
			require.NoError(t, err)
			assert.Equal(t, tc.want, c.quality)
		})
	}
}
