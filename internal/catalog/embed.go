package catalog

import (
	_ "embed"
	"fmt"
)

//go:embed data/products.json
var defaultProducts []byte

// Default returns the catalog bundled with the binary. Used when neither a
// catalog file nor a catalog endpoint is configured.
func Default() (*Catalog, error) {
	c, err := parse(defaultProducts)
	if err != nil {
		return nil, fmt.Errorf("failed to parse embedded catalog: %w", err)
	}
	return c, nil
}
