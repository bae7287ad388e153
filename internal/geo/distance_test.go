package geo_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/nesquaeke/smartshop/internal/geo"
)

func TestDistance(t *testing.T) {
	warsaw := geo.Point{Lat: 52.2297, Lon: 21.0122}
	krakow := geo.Point{Lat: 50.0647, Lon: 19.9450}
	gdansk := geo.Point{Lat: 54.3520, Lon: 18.6466}

	t.Run("Should return zero for identical coordinates", func(t *testing.T) {
		assert.Zero(t, geo.Distance(warsaw, warsaw))
		assert.Zero(t, geo.Distance(geo.Point{}, geo.Point{}))
	})

	t.Run("Should be symmetric", func(t *testing.T) {
		assert.Equal(t, geo.Distance(warsaw, krakow), geo.Distance(krakow, warsaw))
		assert.Equal(t, geo.Distance(warsaw, gdansk), geo.Distance(gdansk, warsaw))
	})

	t.Run("Should match known city distances within a kilometer", func(t *testing.T) {
		// Great-circle Warsaw-Krakow is roughly 252 km.
		assert.InDelta(t, 252, geo.Distance(warsaw, krakow), 1.0)
		// Warsaw-Gdansk is roughly 284 km.
		assert.InDelta(t, 284, geo.Distance(warsaw, gdansk), 1.0)
	})

	t.Run("Should never be negative", func(t *testing.T) {
		points := []geo.Point{
			warsaw, krakow, gdansk,
			{Lat: -90, Lon: 0}, {Lat: 90, Lon: 0},
			{Lat: 0, Lon: -180}, {Lat: 0, Lon: 180},
		}
		for _, a := range points {
			for _, b := range points {
				assert.GreaterOrEqual(t, geo.Distance(a, b), 0.0)
			}
		}
	})

	t.Run("Should resolve antipodal points to half the circumference", func(t *testing.T) {
		// Near-antipodal inputs can push the haversine term past 1 by a
		// float epsilon, which used to surface as NaN.
		for lat := 0.0; lat < 0.02; lat += 0.000001 {
			d := geo.Distance(geo.Point{Lat: lat, Lon: 0}, geo.Point{Lat: -lat, Lon: 180})
			if assert.False(t, math.IsNaN(d), "lat %v", lat) {
				assert.InDelta(t, 20015.087, d, 0.5, "lat %v", lat)
			}
		}

		d := geo.Distance(geo.Point{Lat: 0, Lon: -90}, geo.Point{Lat: 0, Lon: 90})
		assert.InDelta(t, 20015.087, d, 0.5)
	})

	t.Run("Should resolve short distances", func(t *testing.T) {
		a := geo.Point{Lat: 52.2297, Lon: 21.0122}
		b := geo.Point{Lat: 52.2397, Lon: 21.0122}

		// ~0.01 degrees of latitude is roughly 1.1 km.
		assert.InDelta(t, 1.112, geo.Distance(a, b), 0.01)
	})
}
