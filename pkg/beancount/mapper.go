package beancount

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/kingswood-labs/starling-sync/pkg/starling"
)

// CategoryMapping overrides the ledger account used for one spending
// category.
type CategoryMapping struct {
	Category string `yaml:"category"`
	Account  string `yaml:"account"`
}

// mappingFile is the YAML document shape for category overrides.
type mappingFile struct {
	Categories []CategoryMapping `yaml:"categories"`
}

// CategoryMapper maps spending categories to income-statement accounts.
// Unmapped categories fall back to the derived Income:/Expenses: naming.
// A nil mapper behaves like an empty one.
type CategoryMapper struct {
	overrides map[string]string
}

// NewCategoryMapper creates a mapper with no overrides.
func NewCategoryMapper() *CategoryMapper {
	return &CategoryMapper{overrides: make(map[string]string)}
}

// LoadCategoryMapper reads category overrides from a YAML file.
func LoadCategoryMapper(path string) (*CategoryMapper, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("beancount: failed to read mapping file: %w", err)
	}

	var file mappingFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("beancount: failed to parse mapping file: %w", err)
	}

	mapper := NewCategoryMapper()
	for _, mapping := range file.Categories {
		mapper.overrides[mapping.Category] = mapping.Account
	}
	return mapper, nil
}

// Account returns the ledger account for a spending category: the configured
// override if present, otherwise Income:<Pascal> for income categories and
// Expenses:<Pascal> for everything else.
func (m *CategoryMapper) Account(category string) string {
	if m != nil {
		if account, ok := m.overrides[category]; ok {
			return account
		}
	}
	if starling.IsIncomeCategory(category) {
		return "Income:" + starling.PascalCategory(category)
	}
	return "Expenses:" + starling.PascalCategory(category)
}
