package catalog

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/noah-isme/grocery-api/internal/store"
)

// DefaultSeed returns the built-in grocery catalog.
func DefaultSeed() []store.Product {
	return []store.Product{
		{Name: "apple", Price: 200, Unit: "per kg", Stock: 50},
		{Name: "banana", Price: 100, Unit: "per dozen", Stock: 30},
		{Name: "milk", Price: 220, Unit: "per liter", Stock: 20},
		{Name: "bread", Price: 250, Unit: "per loaf", Stock: 15},
		{Name: "eggs", Price: 350, Unit: "per dozen", Stock: 40},
		{Name: "rice", Price: 270, Unit: "per kg", Stock: 100},
		{Name: "sugar", Price: 165, Unit: "per kg", Stock: 70},
		{Name: "chicken", Price: 660, Unit: "per kg", Stock: 25},
		{Name: "beef", Price: 2200, Unit: "per kg", Stock: 10},
		{Name: "oil", Price: 450, Unit: "per liter", Stock: 40},
		{Name: "tea", Price: 800, Unit: "per kg", Stock: 20},
		{Name: "salt", Price: 50, Unit: "per kg", Stock: 60},
	}
}

// LoadSeedFile reads a JSON array of products from path.
func LoadSeedFile(path string) ([]store.Product, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("catalog: read seed file: %w", err)
	}
	var products []store.Product
	if err := json.Unmarshal(data, &products); err != nil {
		return nil, fmt.Errorf("catalog: parse seed file: %w", err)
	}
	for i, p := range products {
		if store.Key(p.Name) == "" || p.Price <= 0 || p.Stock < 0 {
			return nil, fmt.Errorf("catalog: invalid seed entry at index %d", i)
		}
	}
	return products, nil
}
