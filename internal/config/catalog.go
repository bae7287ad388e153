package config

// Catalog holds the defaults used by the catalog endpoints. Kept as an explicit
// struct passed into the request layer rather than read from ambient globals.
type Catalog struct {
	DefaultPageSize    int     `env:"CATALOG_DEFAULT_PAGE_SIZE" envDefault:"20"`
	MaxPageSize        int     `env:"CATALOG_MAX_PAGE_SIZE" envDefault:"100"`
	DefaultRadiusKm    float64 `env:"CATALOG_DEFAULT_RADIUS_KM" envDefault:"10"`
	MaxNearbyLocations int     `env:"CATALOG_MAX_NEARBY_LOCATIONS" envDefault:"50"`
}
