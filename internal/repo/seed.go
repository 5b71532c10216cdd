package repo

import (
	_ "embed"
	"fmt"

	"github.com/iselbouch1/bouchauto-showcase/internal/models"
	"gopkg.in/yaml.v3"
)

//go:embed seed/catalog.yaml
var seedCatalog []byte

// Dataset is the on-disk shape of a catalog seed.
type Dataset struct {
	Categories []models.Category `yaml:"categories"`
	Products   []models.Product  `yaml:"products"`
}

// LoadDataset parses a YAML catalog dataset.
func LoadDataset(data []byte) (Dataset, error) {
	var ds Dataset
	if err := yaml.Unmarshal(data, &ds); err != nil {
		return Dataset{}, fmt.Errorf("failed to parse catalog dataset: %w", err)
	}
	for i, p := range ds.Products {
		if p.CategoryIDs == nil {
			ds.Products[i].CategoryIDs = []string{}
		}
		if p.Images == nil {
			ds.Products[i].Images = []models.ProductImage{}
		}
	}
	return ds, nil
}

// SeedDataset returns the demo catalog shipped with the binary.
func SeedDataset() (Dataset, error) {
	return LoadDataset(seedCatalog)
}
