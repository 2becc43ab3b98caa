package reports

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/Abdullo200604/idealmarket/internal/catalog"
	"github.com/Abdullo200604/idealmarket/internal/models"
)

// CatalogDump is the portable JSON shape for catalog export and import.
// Products reference categories and warehouses by name so a dump can be
// loaded into a database with different row IDs.
type CatalogDump struct {
	ExportedAt time.Time          `json:"exported_at"`
	Categories []models.Category  `json:"categories"`
	Warehouses []models.Warehouse `json:"warehouses"`
	Products   []DumpProduct      `json:"products"`
}

type DumpProduct struct {
	Barcode     string          `json:"barcode"`
	Description string          `json:"description"`
	Category    string          `json:"category"`
	Warehouse   string          `json:"warehouse"`
	CostPrice   decimal.Decimal `json:"cost_price"`
	SalePrice   decimal.Decimal `json:"sale_price"`
	Stock       int             `json:"stock"`
	StartDate   time.Time       `json:"start_date"`
	EndDate     *time.Time      `json:"end_date,omitempty"`
}

// ImportResult summarizes what an import changed.
type ImportResult struct {
	Created int `json:"created"`
	Updated int `json:"updated"`
}

// ExportCatalog serializes the whole catalog.
func ExportCatalog(ctx context.Context, db *gorm.DB) (*CatalogDump, error) {
	dump := &CatalogDump{ExportedAt: time.Now().UTC()}
	if err := db.WithContext(ctx).Order("name").Find(&dump.Categories).Error; err != nil {
		return nil, err
	}
	if err := db.WithContext(ctx).Order("name").Find(&dump.Warehouses).Error; err != nil {
		return nil, err
	}
	var products []models.Product
	if err := db.WithContext(ctx).Preload("Category").Preload("Warehouse").Order("barcode").Find(&products).Error; err != nil {
		return nil, err
	}
	dump.Products = make([]DumpProduct, 0, len(products))
	for i := range products {
		p := &products[i]
		dump.Products = append(dump.Products, DumpProduct{
			Barcode:     p.Barcode,
			Description: p.Description,
			Category:    p.Category.Name,
			Warehouse:   p.Warehouse.Name,
			CostPrice:   p.CostPrice,
			SalePrice:   p.SalePrice,
			Stock:       p.Stock,
			StartDate:   p.StartDate,
			EndDate:     p.EndDate,
		})
	}
	return dump, nil
}

// ImportCatalog loads a dump produced by ExportCatalog. Categories and
// warehouses are matched by name, products by barcode; matches are updated
// in place and the rest created. The whole import is one transaction.
func ImportCatalog(ctx context.Context, db *gorm.DB, r io.Reader) (*ImportResult, error) {
	var dump CatalogDump
	dec := json.NewDecoder(r)
	if err := dec.Decode(&dump); err != nil {
		return nil, fmt.Errorf("decode catalog dump: %w", err)
	}

	result := &ImportResult{}
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		categories := map[string]uint{}
		for _, c := range dump.Categories {
			id, err := upsertNamed(tx, &models.Category{Name: c.Name, Description: c.Description})
			if err != nil {
				return err
			}
			categories[c.Name] = id
		}
		warehouses := map[string]uint{}
		for _, w := range dump.Warehouses {
			id, err := upsertNamedWarehouse(tx, &models.Warehouse{Name: w.Name, Description: w.Description})
			if err != nil {
				return err
			}
			warehouses[w.Name] = id
		}

		for _, dp := range dump.Products {
			catID, ok := categories[dp.Category]
			if !ok {
				return fmt.Errorf("product %q references unknown category %q", dp.Barcode, dp.Category)
			}
			whID, ok := warehouses[dp.Warehouse]
			if !ok {
				return fmt.Errorf("product %q references unknown warehouse %q", dp.Barcode, dp.Warehouse)
			}

			var existing models.Product
			err := tx.Where("barcode = ?", dp.Barcode).First(&existing).Error
			switch {
			case err == nil:
				existing.Description = dp.Description
				existing.CategoryID = catID
				existing.WarehouseID = whID
				existing.CostPrice = dp.CostPrice
				existing.SalePrice = dp.SalePrice
				existing.Stock = dp.Stock
				existing.StartDate = catalog.DateOf(dp.StartDate)
				existing.EndDate = truncated(dp.EndDate)
				if err := tx.Save(&existing).Error; err != nil {
					return err
				}
				result.Updated++
			case errors.Is(err, gorm.ErrRecordNotFound):
				p := models.Product{
					Barcode:     dp.Barcode,
					Description: dp.Description,
					CategoryID:  catID,
					WarehouseID: whID,
					CostPrice:   dp.CostPrice,
					SalePrice:   dp.SalePrice,
					Stock:       dp.Stock,
					StartDate:   catalog.DateOf(dp.StartDate),
					EndDate:     truncated(dp.EndDate),
				}
				if err := tx.Create(&p).Error; err != nil {
					return err
				}
				result.Created++
			default:
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func upsertNamed(tx *gorm.DB, c *models.Category) (uint, error) {
	var existing models.Category
	err := tx.Where("name = ?", c.Name).First(&existing).Error
	if err == nil {
		existing.Description = c.Description
		return existing.ID, tx.Save(&existing).Error
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, err
	}
	if err := tx.Create(c).Error; err != nil {
		return 0, err
	}
	return c.ID, nil
}

func upsertNamedWarehouse(tx *gorm.DB, w *models.Warehouse) (uint, error) {
	var existing models.Warehouse
	err := tx.Where("name = ?", w.Name).First(&existing).Error
	if err == nil {
		existing.Description = w.Description
		return existing.ID, tx.Save(&existing).Error
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, err
	}
	if err := tx.Create(w).Error; err != nil {
		return 0, err
	}
	return w.ID, nil
}

func truncated(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	d := catalog.DateOf(*t)
	return &d
}
