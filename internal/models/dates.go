package models

import "time"

const DateLayout = "2006-01-02"

// Day normaliza una fecha a medianoche UTC; todas las "fechas" del libro se guardan así.
func Day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func ParseDay(s string) (time.Time, error) {
	d, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, err
	}
	return Day(d), nil
}

// AllModels: orden de migración
func AllModels() []any {
	return []any{
		&Branch{},
		&User{},
		&Customer{},
		&Product{},
		&BranchPrice{},
		&CustomerPrice{},
		&Supply{},
		&SupplyPrice{},
		&Order{},
		&OrderLine{},
		&Payment{},
		&ExpenseCategory{},
		&CashClosing{},
		&Expense{},
		&AuditLog{},
	}
}
