package service

import (
	"context"
	"fmt"
	"io"
	"time"

	"storefront/internal/model"
	"storefront/internal/repository"

	"github.com/tealeg/xlsx"
)

// ExportService renders the catalog for back-office use
type ExportService interface {
	ExportProductsXLSX(ctx context.Context, w io.Writer) error
}

type exportService struct {
	repo repository.ProductRepository
}

// NewExportService creates a new ExportService
func NewExportService(repo repository.ProductRepository) ExportService {
	return &exportService{repo: repo}
}

var productSheetHeader = []string{
	"ID", "Name", "Description", "Price", "Category", "Image", "Stock", "CreatedAt", "UpdatedAt",
}

func (s *exportService) ExportProductsXLSX(ctx context.Context, w io.Writer) error {
	products, err := s.repo.FindAll(ctx, model.ProductFilters{})
	if err != nil {
		return fmt.Errorf("failed to fetch products for export: %w", err)
	}

	file := xlsx.NewFile()
	sheet, err := file.AddSheet("Products")
	if err != nil {
		return fmt.Errorf("failed to create sheet: %w", err)
	}

	headerRow := sheet.AddRow()
	for _, h := range productSheetHeader {
		headerRow.AddCell().SetString(h)
	}

	for _, p := range products {
		row := sheet.AddRow()
		row.AddCell().SetString(p.ID)
		row.AddCell().SetString(p.Name)
		row.AddCell().SetString(p.Description)
		row.AddCell().SetFloat(p.Price)
		row.AddCell().SetString(p.Category)
		row.AddCell().SetString(p.Image)
		row.AddCell().SetInt(p.Stock)
		row.AddCell().SetString(p.CreatedAt.Format(time.RFC3339))
		row.AddCell().SetString(p.UpdatedAt.Format(time.RFC3339))
	}

	if err := file.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}
