package orderarchive

// BuildConnectionString exposes buildConnectionString to tests
var BuildConnectionString = buildConnectionString
