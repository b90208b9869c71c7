// Package catalog holds the product list and exposes the relevance filter
// used by the conversation core.
package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/FahadImdad/khaadi-ai-chat-store/internal/domain"
)

// MaxResults caps every filter result. Pagination is a non-goal.
const MaxResults = 6

// Catalog is a read-only in-memory product table.
type Catalog struct {
	products []domain.Product
}

// New creates a catalog from an already-loaded product list.
func New(products []domain.Product) *Catalog {
	return &Catalog{products: products}
}

// LoadFile loads a catalog from a products JSON file.
func LoadFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog file: %w", err)
	}
	return parse(data)
}

// FetchURL loads a catalog from a GET list endpoint returning a product array.
func FetchURL(ctx context.Context, client *http.Client, url string) (*Catalog, error) {
	if client == nil {
		client = http.DefaultClient
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create catalog request: %w", err)
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch catalog: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("catalog endpoint returned status %d", resp.StatusCode)
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog response: %w", err)
	}
	return parse(data)
}

func parse(data []byte) (*Catalog, error) {
	var products []domain.Product
	if err := json.Unmarshal(data, &products); err != nil {
		return nil, fmt.Errorf("failed to parse catalog: %w", err)
	}
	return &Catalog{products: products}, nil
}

// All returns every product in catalog order.
func (c *Catalog) All() []domain.Product {
	return c.products
}

// Len returns the number of products.
func (c *Catalog) Len() int {
	return len(c.products)
}

// ByID resolves a product by its id.
func (c *Catalog) ByID(id string) (domain.Product, bool) {
	for _, p := range c.products {
		if p.ID == id {
			return p, true
		}
	}
	return domain.Product{}, false
}

// searchText is the lowercase concatenation of the product's matchable fields.
func searchText(p domain.Product) string {
	parts := []string{p.Name, p.Category, p.Subcategory, p.Description}
	parts = append(parts, p.Tags...)
	return strings.ToLower(strings.Join(parts, " "))
}

// Find returns products whose searchable text contains the query or the
// assistant reply as a case-insensitive substring, capped at MaxResults.
// Empty terms never match. A price constraint in the query ("under 3000",
// "below 5k") further restricts matches. Order is preserved from catalog
// order.
func (c *Catalog) Find(query, aiReply string) []domain.Product {
	q := strings.ToLower(strings.TrimSpace(query))
	r := strings.ToLower(strings.TrimSpace(aiReply))
	maxPrice, hasPrice := ExtractMaxPrice(query)

	var matches []domain.Product
	for _, p := range c.products {
		if hasPrice && p.Price > float64(maxPrice) {
			continue
		}
		text := searchText(p)
		if (q != "" && strings.Contains(text, q)) || (r != "" && strings.Contains(text, r)) {
			matches = append(matches, p)
			if len(matches) == MaxResults {
				break
			}
		}
	}
	return matches
}

// ByCategory returns products for category browsing, capped at MaxResults.
// "unstitched" matches on subcategory; "ready to wear" is normalized to the
// "ready-to-wear" category; anything else matches the category directly.
func (c *Catalog) ByCategory(category string) []domain.Product {
	cat := strings.ToLower(strings.TrimSpace(category))

	var matches []domain.Product
	for _, p := range c.products {
		var ok bool
		switch cat {
		case "unstitched":
			ok = strings.ToLower(p.Subcategory) == "unstitched"
		case "ready to wear", "ready-to-wear":
			ok = strings.ToLower(p.Category) == "ready-to-wear"
		default:
			ok = strings.ToLower(p.Category) == cat
		}
		if ok {
			matches = append(matches, p)
			if len(matches) == MaxResults {
				break
			}
		}
	}
	return matches
}

// FormatForPrompt renders the product list for the assistant system prompt.
func (c *Catalog) FormatForPrompt() string {
	var b strings.Builder
	for _, p := range c.products {
		name := p.Name
		if name == "" {
			name = p.Title
		}
		fmt.Fprintf(&b, "**%s** (%.0f %s)\n%s\nColors: %s\nSizes: %s\n\n",
			name, p.Price, p.Currency, p.Description,
			strings.Join(p.Colors, ", "), strings.Join(p.Sizes, ", "))
	}
	return b.String()
}
