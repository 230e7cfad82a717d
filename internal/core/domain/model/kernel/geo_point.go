package kernel

import (
	"errors"
	"strconv"

	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/guard"
)

const (
	// LatitudeMin is the southern bound of a valid latitude.
	LatitudeMin = -90.0
	// LatitudeMax is the northern bound of a valid latitude.
	LatitudeMax = 90.0
	// LongitudeMin is the western bound of a valid longitude.
	LongitudeMin = -180.0
	// LongitudeMax is the eastern bound of a valid longitude.
	LongitudeMax = 180.0
)

// ErrGeoPointIsNotConstructed is returned when a zero GeoPoint is used.
var ErrGeoPointIsNotConstructed = errs.NewValueIsRequiredError("geo point must be created via NewGeoPoint")

// GeoPoint is a location shared by a customer as the pickup address.
// Only the coordinate ranges are checked; whether the place exists is not.
//
// Example:
//
//	p, err := kernel.NewGeoPoint(40.3842, 71.7843)
//	if err != nil {
//	    return err
//	}
//	fmt.Println(p.MapsLink()) // https://maps.google.com/?q=40.3842,71.7843
type GeoPoint struct { //nolint:recvcheck // setters use pointer receivers during construction
	lat   float64
	lon   float64
	guard guard.ConstructorGuard
}

// NewGeoPoint validates both coordinates and returns the point.
//
// Returns:
//   - GeoPoint: the constructed point
//   - error: a joined ValueIsOutOfRangeError for every coordinate out of bounds
func NewGeoPoint(lat, lon float64) (GeoPoint, error) {
	p := GeoPoint{guard: guard.NewConstructorGuard()}

	if err := errors.Join(p.setLat(lat), p.setLon(lon)); err != nil {
		return GeoPoint{}, err
	}

	return p, nil
}

// Validate reports whether the point came from NewGeoPoint.
func (p GeoPoint) Validate() error {
	return p.guard.Validate(ErrGeoPointIsNotConstructed)
}

// Lat returns the latitude.
func (p GeoPoint) Lat() float64 {
	return p.lat
}

// Lon returns the longitude.
func (p GeoPoint) Lon() float64 {
	return p.lon
}

// MapsLink renders the canonical link stored as the pickup text. Coordinates use
// the shortest decimal form that round-trips.
func (p GeoPoint) MapsLink() string {
	return "https://maps.google.com/?q=" +
		strconv.FormatFloat(p.lat, 'f', -1, 64) + "," +
		strconv.FormatFloat(p.lon, 'f', -1, 64)
}

func (p *GeoPoint) setLat(lat float64) error {
	if lat < LatitudeMin || lat > LatitudeMax {
		return errs.NewValueIsOutOfRangeError("lat", lat, LatitudeMin, LatitudeMax)
	}
	p.lat = lat
	return nil
}

func (p *GeoPoint) setLon(lon float64) error {
	if lon < LongitudeMin || lon > LongitudeMax {
		return errs.NewValueIsOutOfRangeError("lon", lon, LongitudeMin, LongitudeMax)
	}
	p.lon = lon
	return nil
}
