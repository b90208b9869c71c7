package catalog

import "github.com/FahadImdad/khaadi-ai-chat-store/internal/domain"

// colorValues maps catalog color names to display hex values. Kept in one
// place so every presentation surface renders swatches the same way.
var colorValues = map[string]string{
	"White":          "#FFFFFF",
	"Off White":      "#F5F5DC",
	"Black":          "#000000",
	"Grey":           "#808080",
	"Navy":           "#000080",
	"Blue":           "#0000FF",
	"Light Blue":     "#ADD8E6",
	"Pink":           "#FFC0CB",
	"Mint Green":     "#98FF98",
	"Rust Orange":    "#CD853F",
	"Coral":          "#FF7F50",
	"Terracotta":     "#E2725B",
	"Cream":          "#FFFDD0",
	"Gold":           "#FFD700",
	"Silver":         "#C0C0C0",
	"Rust":           "#B7410E",
	"Navy Blue":      "#000080",
	"Beige":          "#F5F5DC",
	"Maroon":         "#800000",
	"Forest Green":   "#228B22",
	"Burgundy":       "#800020",
	"Emerald":        "#50C878",
	"Royal Blue":     "#4169E1",
	"Light Green":    "#90EE90",
	"Mint":           "#98FF98",
	"Sage":           "#9CAF88",
	"Peach":          "#FFCBA4",
	"Turquoise":      "#40E0D0",
	"Purple":         "#800080",
	"Yellow":         "#FFFF00",
	"Green":          "#008000",
	"Orange":         "#FFA500",
	"Amber":          "#FFBF00",
	"Golden":         "#FFD700",
	"Multi Color":    "#FF6B6B",
	"Multi Print":    "#FF6B6B",
	"Floral Multi":   "#FF6B6B",
	"Bright Multi":   "#FF6B6B",
	"Artistic Multi": "#FF6B6B",
	"Geometric":      "#FF6B6B",
}

// ColorValue returns the display hex value for a catalog color name,
// falling back to a neutral grey for unknown names.
func ColorValue(name string) string {
	if v, ok := colorValues[name]; ok {
		return v
	}
	return "#CCCCCC"
}

// ColorLegend maps every color name appearing in products to its display
// hex value.
func ColorLegend(products []domain.Product) map[string]string {
	legend := make(map[string]string)
	for _, p := range products {
		for _, name := range p.Colors {
			legend[name] = ColorValue(name)
		}
	}
	return legend
}
