package dashboard

import (
	"context"
	"fmt"
	"time"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

const (
	SheetSummary    = "Resumen"
	SheetDaily      = "Diario"
	SheetBranches   = "Sucursales"
	SheetCategories = "Categorías"
)

// ExportMonthly arma el libro XLSX del reporte mensual con todas las categorías.
func (s *Service) ExportMonthly(ctx context.Context, year int, month time.Month) ([]byte, error) {
	r, err := s.Monthly(ctx, year, month, 0)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetSummary); err != nil {
		return nil, errors.Wrap(err, "no se pudo nombrar la hoja de resumen")
	}
	summary := [][]any{
		{"Periodo", fmt.Sprintf("%04d-%02d", year, int(month))},
		{"Desde", r.From},
		{"Hasta", r.To},
		{"Saldo inicial", num(r.OpeningBalance)},
		{"Ventas", num(r.Sales)},
		{"Gastos", num(r.Expenses)},
		{"Utilidad", num(r.Utility)},
		{"Saldo final", num(r.ClosingBalance)},
	}
	if r.Previous != nil {
		summary = append(summary,
			[]any{"Ventas mes anterior", num(r.Previous.Sales)},
			[]any{"Crecimiento ventas %", pct(r.Previous.SalesGrowthPct)},
			[]any{"Crecimiento gastos %", pct(r.Previous.ExpensesGrowthPct)},
		)
	}
	if err := writeRows(f, SheetSummary, summary); err != nil {
		return nil, err
	}

	daily := [][]any{{"Fecha", "Ventas", "Gastos", "Utilidad"}}
	for _, d := range r.Days {
		daily = append(daily, []any{d.Date, num(d.Sales), num(d.Expenses), num(d.Utility)})
	}
	if err := addSheet(f, SheetDaily, daily); err != nil {
		return nil, err
	}

	branches := [][]any{{"Sucursal", "Tipo", "Cortes", "Ventas", "Gastos", "Utilidad"}}
	for _, b := range r.Branches {
		branches = append(branches, []any{b.Name, string(b.Type), b.Closings, num(b.Sales), num(b.Expenses), num(b.Utility)})
	}
	if err := addSheet(f, SheetBranches, branches); err != nil {
		return nil, err
	}

	categories := [][]any{{"Categoría", "Tipo", "Total", "% del gasto"}}
	for _, c := range r.TopCategories {
		categories = append(categories, []any{c.Name, string(c.Type), num(c.Total), num(c.SharePct)})
	}
	if err := addSheet(f, SheetCategories, categories); err != nil {
		return nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, errors.Wrap(err, "no se pudo generar el archivo xlsx")
	}
	return buf.Bytes(), nil
}

func addSheet(f *excelize.File, name string, rows [][]any) error {
	if _, err := f.NewSheet(name); err != nil {
		return errors.Wrapf(err, "no se pudo crear la hoja %s", name)
	}
	return writeRows(f, name, rows)
}

func writeRows(f *excelize.File, sheet string, rows [][]any) error {
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return errors.Wrap(err, "celda inválida")
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return errors.Wrapf(err, "no se pudo escribir la hoja %s", sheet)
		}
	}
	return nil
}

func num(d decimal.Decimal) float64 {
	return d.InexactFloat64()
}

func pct(d *decimal.Decimal) any {
	if d == nil {
		return "-"
	}
	return d.InexactFloat64()
}
